// Package engine composes the resilience patterns in this module into a
// single execution pipeline, and provides the supporting patterns —
// bulkhead, rate limiter, timeout — that bound resource usage around the
// recovery behavior.
//
// # Composition
//
//	machine, _ := breaker.New(breaker.Config{FailureThreshold: 5})
//	policy, _ := retry.NewPolicy(retry.PolicyConfig{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond})
//
//	exec := engine.New(
//	    engine.WithBreaker(machine),
//	    engine.WithRetry(retry.NewExecutor(policy)),
//	    engine.WithBulkhead(engine.NewBulkhead(engine.BulkheadConfig{MaxConcurrent: 32})),
//	    engine.WithTimeout(5*time.Second),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return callExternalService(ctx)
//	})
//
// The wrap order, outermost first, is: rate limiter, bulkhead, circuit
// breaker, retry, timeout. The breaker therefore guards the whole retry
// loop and records a single SUCCESS or FAILURE per Execute call, while the
// timeout bounds each individual attempt.
package engine
