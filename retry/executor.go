package retry

import (
	"context"
	"time"

	"github.com/coder/quartz"

	"github.com/veilkit/resilience/observe"
)

// OnRetryFunc is invoked after each failed-but-retryable attempt, before
// the executor sleeps. It receives the 1-indexed attempt number, the error
// from that attempt, and the delay about to be observed.
type OnRetryFunc func(attempt int, err error, delay time.Duration)

// Executor repeatedly invokes a target until it succeeds or the policy's
// attempt budget is spent. An executor is built once per target; its
// execution mode is fixed by the entry point used, not probed per call:
// Execute sleeps with a blocking wait, ExecuteContext waits cooperatively
// and aborts on cancellation.
type Executor struct {
	policy  Policy
	name    string
	clock   quartz.Clock
	log     observe.Logger
	metrics observe.Metrics
	onRetry OnRetryFunc
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithName sets the operation name used in logs and metrics.
func WithName(name string) ExecutorOption {
	return func(e *Executor) { e.name = name }
}

// WithClock overrides the clock used for backoff waits.
func WithClock(clock quartz.Clock) ExecutorOption {
	return func(e *Executor) { e.clock = clock }
}

// WithLogger sets the logger for retry and terminal-failure events.
func WithLogger(log observe.Logger) ExecutorOption {
	return func(e *Executor) { e.log = log }
}

// WithMetrics sets the metrics recorder for attempt and retry events.
func WithMetrics(m observe.Metrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// WithOnRetry registers a hook fired after each retryable failure.
func WithOnRetry(fn OnRetryFunc) ExecutorOption {
	return func(e *Executor) { e.onRetry = fn }
}

// NewExecutor creates an executor driving attempts against the policy.
func NewExecutor(policy Policy, opts ...ExecutorOption) *Executor {
	e := &Executor{
		policy:  policy,
		name:    "retry",
		clock:   quartz.NewReal(),
		log:     observe.NopLogger(),
		metrics: observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the executor's policy.
func (e *Executor) Policy() Policy { return e.policy }

// Execute runs the operation with blocking sleeps between attempts. The
// error returned after exhaustion is the unmodified error from the last
// attempt.
func (e *Executor) Execute(fn func() error) error {
	ctx := context.Background()

	for attempt := 1; ; attempt++ {
		err := fn()
		e.metrics.RecordAttempt(ctx, e.name, attempt, err)
		if err == nil {
			return nil
		}

		if !e.policy.ShouldRetry(err, attempt) {
			e.terminal(ctx, attempt, err)
			return err
		}

		delay := e.policy.Delay(attempt)
		e.scheduled(ctx, attempt, err, delay)

		if delay > 0 {
			t := e.clock.NewTimer(delay)
			<-t.C
		}
	}
}

// ExecuteContext runs the operation with cooperative waits between
// attempts. Cancellation during the inter-attempt delay aborts the loop
// and surfaces ctx.Err(), never a policy-exhaustion failure.
func (e *Executor) ExecuteContext(ctx context.Context, fn func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		e.metrics.RecordAttempt(ctx, e.name, attempt, err)
		if err == nil {
			return nil
		}

		// Cancellation propagates as cancellation, regardless of how
		// permissive the policy is.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !e.policy.ShouldRetry(err, attempt) {
			e.terminal(ctx, attempt, err)
			return err
		}

		delay := e.policy.Delay(attempt)
		e.scheduled(ctx, attempt, err, delay)

		if delay > 0 {
			t := e.clock.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}
}

// scheduled fires the retry hook and records the scheduled retry.
func (e *Executor) scheduled(ctx context.Context, attempt int, err error, delay time.Duration) {
	if e.onRetry != nil {
		e.onRetry(attempt, err, delay)
	}
	e.metrics.RecordRetry(ctx, e.name, attempt, delay)
	e.log.Info(ctx, "retrying operation",
		observe.Field{Key: "op", Value: e.name},
		observe.Field{Key: "attempt", Value: attempt},
		observe.Field{Key: "delay", Value: delay.String()},
		observe.Field{Key: "error", Value: err.Error()},
	)
}

func (e *Executor) terminal(ctx context.Context, attempt int, err error) {
	e.log.Error(ctx, "operation failed permanently",
		observe.Field{Key: "op", Value: e.name},
		observe.Field{Key: "attempts", Value: attempt},
		observe.Field{Key: "error", Value: err.Error()},
	)
}

// Do runs a value-returning operation through the executor's blocking mode.
func Do[T any](e *Executor, fn func() (T, error)) (T, error) {
	var result T
	err := e.Execute(func() error {
		var err error
		result, err = fn()
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// DoContext runs a value-returning operation through the executor's
// cooperative mode.
func DoContext[T any](ctx context.Context, e *Executor, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := e.ExecuteContext(ctx, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
