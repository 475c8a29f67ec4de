package health

import (
	"context"

	"github.com/veilkit/resilience/breaker"
)

// BreakerChecker reports the state of a circuit breaker as a health check.
type BreakerChecker struct {
	name    string
	machine *breaker.Machine
}

// NewBreakerChecker creates a checker over the given breaker machine. An
// empty name uses the machine's own name.
func NewBreakerChecker(name string, m *breaker.Machine) *BreakerChecker {
	if name == "" {
		name = m.Name()
	}
	return &BreakerChecker{name: name, machine: m}
}

// Name returns the checker's name.
func (c *BreakerChecker) Name() string { return c.name }

// Check maps the breaker's current state to a health status: closed is
// healthy, half-open is degraded, open is unhealthy.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	s := c.machine.Snapshot()

	details := map[string]any{
		"state":      s.Status.String(),
		"failures":   s.FailureCount,
		"threshold":  s.FailureThreshold,
		"generation": s.Generation,
	}
	if !s.LastFailureTime.IsZero() {
		details["last_failure"] = s.LastFailureTime
	}
	if s.Status == breaker.Open {
		details["next_attempt"] = s.NextAttemptTime
	}

	switch s.Status {
	case breaker.Closed:
		return Healthy("circuit closed").WithDetails(details)
	case breaker.HalfOpen:
		return Degraded("circuit half-open, probing dependency").WithDetails(details)
	default:
		return Unhealthy("circuit open", breaker.ErrOpen).WithDetails(details)
	}
}

var _ Checker = (*BreakerChecker)(nil)
