package retry

import "errors"

// Sentinel errors for retry construction.
var (
	// ErrAmbiguousConfig is returned by Wrap and WrapFunc when both an
	// explicit Policy and individual policy parameters are supplied.
	ErrAmbiguousConfig = errors.New("retry: both policy and individual parameters supplied")
)
