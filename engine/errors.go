package engine

import "errors"

// Sentinel errors for the supporting patterns.
var (
	// ErrBulkheadFull is returned when no bulkhead slot becomes available
	// within the configured wait.
	ErrBulkheadFull = errors.New("engine: bulkhead at capacity")

	// ErrRateLimited is returned when the rate limit is exceeded.
	ErrRateLimited = errors.New("engine: rate limit exceeded")

	// ErrTimeout is returned when an operation exceeds its time budget.
	ErrTimeout = errors.New("engine: operation timed out")
)
