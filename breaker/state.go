package breaker

import "time"

// Status represents the circuit breaker status.
type Status int

const (
	// Closed means the circuit is operating normally.
	Closed Status = iota
	// Open means the circuit is rejecting all requests.
	Open
	// HalfOpen means the circuit is probing whether the dependency
	// recovered.
	HalfOpen
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Event is a circuit breaker input event.
type Event int

const (
	// EventSuccess reports a successful call through the breaker.
	EventSuccess Event = iota
	// EventFailure reports a failed call through the breaker.
	EventFailure
	// EventTimeout asks an open breaker to move to half-open once the
	// recovery deadline has passed. Before the deadline it is silently
	// ignored.
	EventTimeout
	// EventReset forces the breaker back to closed.
	EventReset
)

// String returns the string representation of the event.
func (e Event) String() string {
	switch e {
	case EventSuccess:
		return "success"
	case EventFailure:
		return "failure"
	case EventTimeout:
		return "timeout"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of a circuit breaker. Transitions never
// mutate a State; Transition returns a fresh snapshot with Generation
// incremented. The Generation counter is a versioning and debugging aid
// only — it is not a substitute for the synchronization the Machine
// provides around its current-state slot.
type State struct {
	// Status is the breaker status this snapshot was taken in.
	Status Status

	// FailureCount is the number of observed failures. In the closed
	// status it resets on success; in the open status it keeps counting.
	FailureCount int

	// LastFailureTime is when the most recent failure was observed.
	// The zero time means no failure has been recorded.
	LastFailureTime time.Time

	// NextAttemptTime is the absolute time at which a half-open probe may
	// be attempted.
	NextAttemptTime time.Time

	// FailureThreshold is the number of consecutive failures that trips
	// the breaker. Fixed at construction.
	FailureThreshold int

	// RecoveryTimeout is the cooldown the breaker stays open before a
	// probe is allowed. Fixed at construction.
	RecoveryTimeout time.Duration

	// Generation increments on every transition.
	Generation uint64
}

// newState returns the initial closed snapshot.
func newState(threshold int, timeout time.Duration) State {
	return State{
		Status:           Closed,
		FailureThreshold: threshold,
		RecoveryTimeout:  timeout,
	}
}

// ShouldAttemptReset reports whether an open breaker's recovery deadline
// has passed. This predicate is the guard for the EventTimeout transition.
func (s State) ShouldAttemptReset(now time.Time) bool {
	return s.Status == Open && !now.Before(s.NextAttemptTime)
}

// Transition applies ev to s at the given time and returns the resulting
// snapshot. It is a pure function: s is never modified. Events with no
// defined transition for the current status — including EventTimeout
// before the recovery deadline — return s unchanged, same Generation.
func Transition(s State, ev Event, now time.Time) State {
	switch ev {
	case EventReset:
		next := s
		next.Status = Closed
		next.FailureCount = 0
		next.LastFailureTime = time.Time{}
		next.NextAttemptTime = time.Time{}
		next.Generation++
		return next

	case EventSuccess:
		switch s.Status {
		case Closed, HalfOpen:
			next := s
			next.Status = Closed
			next.FailureCount = 0
			next.LastFailureTime = time.Time{}
			next.Generation++
			return next
		}
		return s

	case EventFailure:
		switch s.Status {
		case Closed:
			next := s
			next.FailureCount++
			next.LastFailureTime = now
			if next.FailureCount >= s.FailureThreshold {
				next.Status = Open
				next.FailureCount = s.FailureThreshold
				next.NextAttemptTime = now.Add(s.RecoveryTimeout)
			}
			next.Generation++
			return next

		case Open, HalfOpen:
			next := s
			next.Status = Open
			next.FailureCount++
			next.LastFailureTime = now
			next.NextAttemptTime = now.Add(s.RecoveryTimeout)
			next.Generation++
			return next
		}
		return s

	case EventTimeout:
		if s.ShouldAttemptReset(now) {
			next := s
			next.Status = HalfOpen
			next.Generation++
			return next
		}
		// An early timeout is deliberately a silent no-op.
		return s
	}

	return s
}
