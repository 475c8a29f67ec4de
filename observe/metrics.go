package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records telemetry for resilience events.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordAttempt records a single attempt of a guarded operation.
	RecordAttempt(ctx context.Context, op string, attempt int, err error)

	// RecordRetry records a scheduled retry and its computed delay.
	RecordRetry(ctx context.Context, op string, attempt int, delay time.Duration)

	// RecordTransition records a circuit breaker state transition.
	RecordTransition(ctx context.Context, name string, from, to string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	attemptCount metric.Int64Counter
	errorCount   metric.Int64Counter
	retryCount   metric.Int64Counter
	delayHist    metric.Float64Histogram
	transitions  metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	attemptCount, err := meter.Int64Counter(
		"resilience.attempts.total",
		metric.WithDescription("Total number of attempts of guarded operations"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"resilience.attempt.errors",
		metric.WithDescription("Total number of failed attempts"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"resilience.retries.total",
		metric.WithDescription("Total number of scheduled retries"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	delayHist, err := meter.Float64Histogram(
		"resilience.retry.delay_ms",
		metric.WithDescription("Computed backoff delay in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"resilience.breaker.transitions",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		attemptCount: attemptCount,
		errorCount:   errorCount,
		retryCount:   retryCount,
		delayHist:    delayHist,
		transitions:  transitions,
	}, nil
}

func (m *metricsImpl) RecordAttempt(ctx context.Context, op string, attempt int, err error) {
	opt := metric.WithAttributes(
		attribute.String("op", op),
		attribute.Int("attempt", attempt),
	)

	m.attemptCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
}

func (m *metricsImpl) RecordRetry(ctx context.Context, op string, attempt int, delay time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("op", op),
	)

	m.retryCount.Add(ctx, 1, opt)
	m.delayHist.Record(ctx, float64(delay)/float64(time.Millisecond), opt)
}

func (m *metricsImpl) RecordTransition(ctx context.Context, name string, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("breaker", name),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NopMetrics returns a Metrics recorder that discards everything.
func NopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordAttempt(ctx context.Context, op string, attempt int, err error)        {}
func (noopMetrics) RecordRetry(ctx context.Context, op string, attempt int, delay time.Duration) {}
func (noopMetrics) RecordTransition(ctx context.Context, name string, from, to string)          {}
