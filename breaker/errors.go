package breaker

import "errors"

// ErrOpen is returned by Allow and Execute when the circuit is open and
// the recovery deadline has not yet passed. The guarded operation is not
// invoked and no retry budget is consumed.
var ErrOpen = errors.New("breaker: circuit is open")
