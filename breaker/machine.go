package breaker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/veilkit/resilience/observe"
)

// Config configures a Machine.
type Config struct {
	// Name identifies the breaker in logs and metrics.
	// Default: "breaker"
	Name string

	// FailureThreshold is the number of consecutive failures that trips
	// the breaker. Must be >= 1.
	// Default: 5
	FailureThreshold int

	// RecoveryTimeout is how long the breaker stays open before a probe
	// is allowed. Must be >= 0.
	// Default: 30s
	RecoveryTimeout time.Duration

	// IsFailure determines whether an error counts as a failure.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool

	// OnStateChange is called after the status changes, outside the
	// machine's lock.
	OnStateChange func(from, to Status)

	// Clock supplies the current time. Default: the real clock.
	Clock quartz.Clock

	// Logger receives state-change events. Default: no-op.
	Logger observe.Logger

	// Metrics records state transitions. Default: no-op.
	Metrics observe.Metrics
}

// Machine owns exactly one current State snapshot and serializes event
// dispatch against it with a mutex. Snapshots themselves are immutable;
// concurrent callers race only on which event lands first, and the slot
// always converges to a consistent snapshot.
type Machine struct {
	name          string
	isFailure     func(error) bool
	onStateChange func(from, to Status)
	clock         quartz.Clock
	log           observe.Logger
	metrics       observe.Metrics

	mu    sync.Mutex
	state State
}

// New creates a circuit breaker machine in the closed status.
func New(cfg Config) (*Machine, error) {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.FailureThreshold < 1 {
		return nil, fmt.Errorf("breaker: failure threshold must be >= 1, got %d", cfg.FailureThreshold)
	}
	if cfg.RecoveryTimeout < 0 {
		return nil, fmt.Errorf("breaker: recovery timeout must be >= 0, got %v", cfg.RecoveryTimeout)
	}
	if cfg.RecoveryTimeout == 0 {
		cfg.RecoveryTimeout = 30 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "breaker"
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopMetrics()
	}

	return &Machine{
		name:          cfg.Name,
		isFailure:     cfg.IsFailure,
		onStateChange: cfg.OnStateChange,
		clock:         cfg.Clock,
		log:           cfg.Logger,
		metrics:       cfg.Metrics,
		state:         newState(cfg.FailureThreshold, cfg.RecoveryTimeout),
	}, nil
}

// Name returns the breaker's name.
func (m *Machine) Name() string { return m.name }

// Snapshot returns the current state snapshot.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsClosed reports whether the breaker is closed. Pure read; it never
// triggers a transition.
func (m *Machine) IsClosed() bool { return m.Snapshot().Status == Closed }

// IsOpen reports whether the breaker is open. Pure read.
func (m *Machine) IsOpen() bool { return m.Snapshot().Status == Open }

// IsHalfOpen reports whether the breaker is half-open. Pure read.
func (m *Machine) IsHalfOpen() bool { return m.Snapshot().Status == HalfOpen }

// ShouldAttemptReset reports whether the breaker is open and its recovery
// deadline has passed, i.e. whether EventTimeout would move it to
// half-open.
func (m *Machine) ShouldAttemptReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.ShouldAttemptReset(m.clock.Now())
}

// Dispatch applies the event to the current snapshot and returns the
// resulting snapshot.
func (m *Machine) Dispatch(ev Event) State {
	m.mu.Lock()
	prev := m.state
	next := Transition(prev, ev, m.clock.Now())
	m.state = next
	m.mu.Unlock()

	m.notify(prev, next)
	return next
}

// Reset forces the breaker back to closed.
func (m *Machine) Reset() {
	m.Dispatch(EventReset)
}

// Allow reports whether a guarded call may proceed. When the breaker is
// open and the recovery deadline has passed, Allow dispatches EventTimeout
// and admits the call as a half-open probe; when the deadline has not
// passed it returns ErrOpen without consuming any retry budget.
func (m *Machine) Allow() error {
	m.mu.Lock()
	prev := m.state
	if prev.Status != Open {
		m.mu.Unlock()
		return nil
	}

	now := m.clock.Now()
	if !prev.ShouldAttemptReset(now) {
		m.mu.Unlock()
		return ErrOpen
	}

	next := Transition(prev, EventTimeout, now)
	m.state = next
	m.mu.Unlock()

	m.notify(prev, next)
	return nil
}

// Execute runs the operation through the breaker: Allow first, then a
// SUCCESS or FAILURE dispatch depending on the outcome. The operation's
// error is returned unmodified.
func (m *Machine) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := m.Allow(); err != nil {
		return err
	}

	err := op(ctx)
	if m.isFailure(err) {
		m.Dispatch(EventFailure)
	} else {
		m.Dispatch(EventSuccess)
	}
	return err
}

// notify fires state-change callbacks and telemetry outside the lock.
func (m *Machine) notify(prev, next State) {
	if prev.Status == next.Status {
		return
	}

	ctx := context.Background()
	m.log.Info(ctx, "breaker state changed",
		observe.Field{Key: "breaker", Value: m.name},
		observe.Field{Key: "from", Value: prev.Status.String()},
		observe.Field{Key: "to", Value: next.Status.String()},
		observe.Field{Key: "failures", Value: next.FailureCount},
		observe.Field{Key: "generation", Value: next.Generation},
	)
	m.metrics.RecordTransition(ctx, m.name, prev.Status.String(), next.Status.String())

	if m.onStateChange != nil {
		m.onStateChange(prev.Status, next.Status)
	}
}
