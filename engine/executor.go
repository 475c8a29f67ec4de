package engine

import (
	"context"
	"time"

	"github.com/veilkit/resilience/breaker"
	"github.com/veilkit/resilience/observe"
	"github.com/veilkit/resilience/retry"
)

// Executor composes multiple resilience patterns around one operation.
type Executor struct {
	name        string
	breaker     *breaker.Machine
	retry       *retry.Executor
	rateLimiter *RateLimiter
	bulkhead    *Bulkhead
	timeout     *Timeout
	tracer      observe.Tracer
}

// Option configures an Executor.
type Option func(*Executor)

// New creates a new composition executor.
func New(opts ...Option) *Executor {
	e := &Executor{name: "execute"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithName sets the operation name used for tracing spans.
func WithName(name string) Option {
	return func(e *Executor) { e.name = name }
}

// WithTracer records a span around each composed execution.
func WithTracer(t observe.Tracer) Option {
	return func(e *Executor) { e.tracer = t }
}

// WithBreaker guards the whole retry loop with a circuit breaker.
func WithBreaker(m *breaker.Machine) Option {
	return func(e *Executor) { e.breaker = m }
}

// WithRetry adds retry behavior around each breaker-admitted call.
func WithRetry(r *retry.Executor) Option {
	return func(e *Executor) { e.retry = r }
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(e *Executor) { e.rateLimiter = rl }
}

// WithBulkhead adds concurrency isolation to the executor.
func WithBulkhead(b *Bulkhead) Option {
	return func(e *Executor) { e.bulkhead = b }
}

// WithTimeout bounds each individual attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Executor) { e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout}) }
}

// WithTimeoutConfig bounds each individual attempt with a custom wrapper.
func WithTimeoutConfig(t *Timeout) Option {
	return func(e *Executor) { e.timeout = t }
}

// Execute runs the operation through all configured patterns.
//
// The execution order, outermost to innermost:
//  1. Rate limiter — sheds load before anything else runs
//  2. Bulkhead — bounds concurrency
//  3. Circuit breaker — fails fast while the dependency is down, and
//     records one SUCCESS or FAILURE for the whole admitted call
//  4. Retry — drives repeated attempts
//  5. Timeout — bounds each individual attempt
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.ExecuteContext(ctx, inner)
		}
	}

	if e.breaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.breaker.Execute(ctx, inner)
		}
	}

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	if e.tracer != nil {
		ctx, span := e.tracer.StartSpan(ctx, e.name)
		err := execute(ctx)
		e.tracer.EndSpan(span, err)
		return err
	}

	return execute(ctx)
}
