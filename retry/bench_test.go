package retry

import (
	"testing"
	"time"
)

// BenchmarkPolicy_Delay_Exponential measures backoff computation.
func BenchmarkPolicy_Delay_Exponential(b *testing.B) {
	p, err := NewPolicy(PolicyConfig{
		MaxAttempts: 10,
		Strategy:    StrategyExponential,
		BaseDelay:   10 * time.Millisecond,
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Delay(i%10 + 1)
	}
}

// BenchmarkPolicy_Delay_FibonacciJitter measures the slowest delay path.
func BenchmarkPolicy_Delay_FibonacciJitter(b *testing.B) {
	p, err := NewPolicy(PolicyConfig{
		MaxAttempts: 10,
		Strategy:    StrategyFibonacci,
		BaseDelay:   10 * time.Millisecond,
		Jitter:      true,
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Delay(i%10 + 1)
	}
}

// BenchmarkExecutor_Execute_FirstAttemptSuccess measures the no-retry path.
func BenchmarkExecutor_Execute_FirstAttemptSuccess(b *testing.B) {
	p, err := NewPolicy(PolicyConfig{
		MaxAttempts: 3,
		Strategy:    StrategyFixed,
		BaseDelay:   time.Millisecond,
	})
	if err != nil {
		b.Fatal(err)
	}
	e := NewExecutor(p)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Execute(func() error { return nil })
	}
}
