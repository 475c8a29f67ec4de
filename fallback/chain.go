// Package fallback provides an ordered chain of alternative operations
// tried after a primary operation fails with a recognized error.
//
// A Chain is built once per call site and reused across invocations. It is
// not designed for concurrent mutation: AddFallback must not be called
// concurrently with Execute.
package fallback

import (
	"context"
	"errors"

	"github.com/veilkit/resilience/observe"
)

// Func is an operation the chain can invoke.
type Func[T any] func(context.Context) (T, error)

// Chain holds ordered fallbacks for a primary operation.
type Chain[T any] struct {
	expected  []error
	fallbacks []Func[T]
	log       observe.Logger
}

// New creates a chain that engages when the primary operation fails with
// one of the expected errors, matched with errors.Is. With no expected
// errors, every failure engages the chain.
func New[T any](expected ...error) *Chain[T] {
	return &Chain[T]{
		expected: expected,
		log:      observe.NopLogger(),
	}
}

// WithLogger sets the logger used to report failing fallbacks.
func (c *Chain[T]) WithLogger(log observe.Logger) *Chain[T] {
	c.log = log
	return c
}

// AddFallback appends an alternative operation. Fallbacks run in
// registration order.
func (c *Chain[T]) AddFallback(fn Func[T]) *Chain[T] {
	c.fallbacks = append(c.fallbacks, fn)
	return c
}

// Len returns the number of registered fallbacks.
func (c *Chain[T]) Len() int { return len(c.fallbacks) }

// Execute invokes primary and, if it fails with an expected error, walks
// the fallbacks in order, returning the first successful result.
//
// An error outside the expected set propagates immediately; no fallback is
// touched. If every fallback fails, the last fallback's error is returned
// — unless the chain is empty, in which case the primary's error is.
func (c *Chain[T]) Execute(ctx context.Context, primary Func[T]) (T, error) {
	result, err := primary(ctx)
	if err == nil {
		return result, nil
	}

	if !c.engages(err) {
		var zero T
		return zero, err
	}

	lastErr := err
	for i, fn := range c.fallbacks {
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		c.log.Warn(ctx, "fallback failed",
			observe.Field{Key: "index", Value: i},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}

	var zero T
	return zero, lastErr
}

// engages reports whether err is one the chain should recover from.
func (c *Chain[T]) engages(err error) bool {
	if len(c.expected) == 0 {
		return true
	}
	for _, target := range c.expected {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
