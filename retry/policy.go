package retry

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Strategy selects how the delay grows between attempts.
type Strategy int

const (
	// StrategyFixed waits BaseDelay before every retry.
	StrategyFixed Strategy = iota
	// StrategyLinear waits BaseDelay multiplied by the attempt number.
	StrategyLinear
	// StrategyExponential doubles the delay on each attempt.
	StrategyExponential
	// StrategyFibonacci grows the delay along the Fibonacci sequence.
	StrategyFibonacci
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyFixed:
		return "fixed"
	case StrategyLinear:
		return "linear"
	case StrategyExponential:
		return "exponential"
	case StrategyFibonacci:
		return "fibonacci"
	default:
		return "unknown"
	}
}

// defaultMaxDelay caps backoff when PolicyConfig.MaxDelay is left zero.
const defaultMaxDelay = 30 * time.Second

// PolicyConfig configures a Policy.
type PolicyConfig struct {
	// MaxAttempts is the total number of attempts, including the initial
	// one. Must be >= 1.
	MaxAttempts int

	// Strategy is the backoff strategy.
	// Default: StrategyFixed
	Strategy Strategy

	// BaseDelay is the delay before the first retry. Must be >= 0.
	BaseDelay time.Duration

	// MaxDelay caps the computed delay. Must be >= BaseDelay.
	// Default: 30s
	MaxDelay time.Duration

	// Jitter perturbs the capped delay by a uniform factor in [0.75, 1.25)
	// to avoid synchronized retry storms.
	Jitter bool

	// RetryOn lists the errors, matched with errors.Is, that justify
	// another attempt. A nil slice means every error is retryable.
	//
	// Note that the nil default is deliberately permissive: it will retry
	// programming errors just as readily as transient ones. Callers
	// wrapping anything but a known-flaky dependency should set RetryOn.
	RetryOn []error
}

// Policy is an immutable retry policy. The zero value is not usable;
// construct with NewPolicy. Policies are plain values and are safe to share
// across concurrent callers without locking.
type Policy struct {
	maxAttempts int
	strategy    Strategy
	baseDelay   time.Duration
	maxDelay    time.Duration
	jitter      bool
	retryOn     []error
}

// NewPolicy validates cfg and builds a Policy. Invalid configuration is an
// error, never silently clamped.
func NewPolicy(cfg PolicyConfig) (Policy, error) {
	if cfg.MaxAttempts < 1 {
		return Policy{}, fmt.Errorf("retry: max attempts must be >= 1, got %d", cfg.MaxAttempts)
	}
	if cfg.BaseDelay < 0 {
		return Policy{}, fmt.Errorf("retry: base delay must be >= 0, got %v", cfg.BaseDelay)
	}

	maxDelay := cfg.MaxDelay
	if maxDelay == 0 {
		maxDelay = defaultMaxDelay
		if cfg.BaseDelay > maxDelay {
			maxDelay = cfg.BaseDelay
		}
	}
	if maxDelay < cfg.BaseDelay {
		return Policy{}, fmt.Errorf("retry: max delay %v is below base delay %v", maxDelay, cfg.BaseDelay)
	}

	return Policy{
		maxAttempts: cfg.MaxAttempts,
		strategy:    cfg.Strategy,
		baseDelay:   cfg.BaseDelay,
		maxDelay:    maxDelay,
		jitter:      cfg.Jitter,
		retryOn:     cfg.RetryOn,
	}, nil
}

// MaxAttempts returns the total attempt budget, including the initial call.
func (p Policy) MaxAttempts() int { return p.maxAttempts }

// Strategy returns the backoff strategy.
func (p Policy) Strategy() Strategy { return p.strategy }

// Jitter reports whether delays are randomized.
func (p Policy) Jitter() bool { return p.jitter }

// Delay computes the backoff delay before the retry following the given
// attempt. Attempts are 1-indexed; nonpositive attempts yield zero. The
// result is capped at the policy's max delay before jitter is applied.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	var delay time.Duration
	switch p.strategy {
	case StrategyFixed:
		delay = p.baseDelay
	case StrategyLinear:
		delay = p.baseDelay * time.Duration(attempt)
	case StrategyExponential:
		d := float64(p.baseDelay) * math.Pow(2, float64(attempt-1))
		if d > float64(p.maxDelay) {
			d = float64(p.maxDelay)
		}
		delay = time.Duration(d)
	case StrategyFibonacci:
		delay = scaleFib(p.baseDelay, attempt, p.maxDelay)
	default:
		delay = p.baseDelay
	}

	if delay > p.maxDelay {
		delay = p.maxDelay
	}

	if p.jitter {
		// uniform factor in [0.75, 1.25)
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		factor := 0.75 + 0.5*rand.Float64()
		delay = time.Duration(float64(delay) * factor)
	}

	return delay
}

// scaleFib returns base * fib(n) with fib(1)=1, fib(2)=1, saturating at limit.
func scaleFib(base time.Duration, n int, limit time.Duration) time.Duration {
	prev, cur := int64(0), int64(1)
	for i := 1; i < n; i++ {
		next := prev + cur
		if next < cur { // overflow
			return limit
		}
		prev, cur = cur, next
	}

	if base > 0 && cur > int64(limit/base)+1 {
		return limit
	}
	return base * time.Duration(cur)
}

// ShouldRetry reports whether another attempt is justified after the given
// attempt failed with err. Attempts are 1-indexed; once attempt reaches
// MaxAttempts the budget is spent regardless of the error.
func (p Policy) ShouldRetry(err error, attempt int) bool {
	if attempt >= p.maxAttempts {
		return false
	}
	if p.retryOn == nil {
		return true
	}
	for _, target := range p.retryOn {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
