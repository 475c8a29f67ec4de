// Package observe provides the telemetry capabilities consumed by the
// resilience patterns: structured logging, OpenTelemetry metrics, and
// OpenTelemetry tracing.
//
// The package is intentionally a set of capabilities rather than a
// framework. Every pattern in this module accepts a Logger and, where it
// makes sense, a Metrics recorder; both default to no-ops so that telemetry
// is strictly opt-in and can never affect control flow. A logging or
// metrics failure must never interrupt a retry loop or a circuit breaker
// transition.
//
// # Bootstrap
//
// The Observer assembles providers for a whole process:
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "payments-gateway",
//	    Version:     "1.4.2",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Tracing:     observe.TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.1},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(ctx)
//
//	metrics, err := observe.NewMetrics(obs.Meter())
//
// Individual patterns then receive obs.Logger() and metrics and record
// attempts, retries, and breaker transitions without knowing which
// exporter is behind them.
package observe
