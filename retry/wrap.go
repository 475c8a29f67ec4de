package retry

import (
	"context"
	"time"

	"github.com/coder/quartz"

	"github.com/veilkit/resilience/observe"
)

// WrapConfig configures Wrap and WrapFunc. Supply either an explicit
// Policy or the individual policy parameters, never both.
type WrapConfig struct {
	// Policy is an explicit retry policy. When set, the individual
	// parameters below must be left at their zero values.
	Policy *Policy

	// Individual policy parameters, used to build a Policy when Policy is
	// nil. Validation is identical to NewPolicy: invalid values fail the
	// wrap, they are never clamped.
	MaxAttempts int
	Strategy    Strategy
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
	RetryOn     []error

	// Name identifies the wrapped operation in logs and metrics.
	// Default: "retry"
	Name string

	// OnRetry is invoked after each retryable failure, before sleeping.
	OnRetry OnRetryFunc

	// Logger receives an info event per retry and an error event on
	// terminal failure. Default: no-op.
	Logger observe.Logger

	// Metrics records attempt and retry events. Default: no-op.
	Metrics observe.Metrics

	// Clock overrides the clock used for backoff waits.
	Clock quartz.Clock
}

// inlineParams reports whether any individual policy parameter was set.
func (c WrapConfig) inlineParams() bool {
	return c.MaxAttempts != 0 ||
		c.Strategy != StrategyFixed ||
		c.BaseDelay != 0 ||
		c.MaxDelay != 0 ||
		c.Jitter ||
		c.RetryOn != nil
}

// buildExecutor resolves the config into an Executor, enforcing the
// policy-or-parameters exclusivity rule.
func (c WrapConfig) buildExecutor() (*Executor, error) {
	var policy Policy
	switch {
	case c.Policy != nil && c.inlineParams():
		return nil, ErrAmbiguousConfig
	case c.Policy != nil:
		policy = *c.Policy
	default:
		var err error
		policy, err = NewPolicy(PolicyConfig{
			MaxAttempts: c.MaxAttempts,
			Strategy:    c.Strategy,
			BaseDelay:   c.BaseDelay,
			MaxDelay:    c.MaxDelay,
			Jitter:      c.Jitter,
			RetryOn:     c.RetryOn,
		})
		if err != nil {
			return nil, err
		}
	}

	opts := []ExecutorOption{}
	if c.Name != "" {
		opts = append(opts, WithName(c.Name))
	}
	if c.OnRetry != nil {
		opts = append(opts, WithOnRetry(c.OnRetry))
	}
	if c.Logger != nil {
		opts = append(opts, WithLogger(c.Logger))
	}
	if c.Metrics != nil {
		opts = append(opts, WithMetrics(c.Metrics))
	}
	if c.Clock != nil {
		opts = append(opts, WithClock(c.Clock))
	}

	return NewExecutor(policy, opts...), nil
}

// Wrap builds a retrying version of fn with the same signature. The
// returned function uses cooperative waits and honors cancellation of ctx.
// Construction fails immediately on invalid or ambiguous configuration,
// before any attempt is made.
func Wrap[T any](fn func(context.Context) (T, error), cfg WrapConfig) (func(context.Context) (T, error), error) {
	exec, err := cfg.buildExecutor()
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) (T, error) {
		return DoContext(ctx, exec, fn)
	}, nil
}

// WrapFunc builds a retrying version of an error-only function. The
// returned function blocks between attempts.
func WrapFunc(fn func() error, cfg WrapConfig) (func() error, error) {
	exec, err := cfg.buildExecutor()
	if err != nil {
		return nil, err
	}

	return func() error {
		return exec.Execute(fn)
	}, nil
}
