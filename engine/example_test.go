package engine_test

import (
	"context"
	"fmt"
	"time"

	"github.com/veilkit/resilience/breaker"
	"github.com/veilkit/resilience/engine"
	"github.com/veilkit/resilience/retry"
)

func ExampleExecutor() {
	m, _ := breaker.New(breaker.Config{
		FailureThreshold: 5,
		RecoveryTimeout:  time.Minute,
	})
	policy, _ := retry.NewPolicy(retry.PolicyConfig{
		MaxAttempts: 3,
		Strategy:    retry.StrategyExponential,
		BaseDelay:   time.Millisecond,
	})

	e := engine.New(
		engine.WithBreaker(m),
		engine.WithRetry(retry.NewExecutor(policy)),
		engine.WithBulkhead(engine.NewBulkhead(engine.BulkheadConfig{MaxConcurrent: 4})),
		engine.WithTimeout(time.Second),
	)

	err := e.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	fmt.Println("err:", err)
	// Output:
	// err: <nil>
}
