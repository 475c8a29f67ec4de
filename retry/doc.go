// Package retry provides bounded retry of unreliable operations with
// pluggable backoff.
//
// The package separates three concerns:
//
//   - Policy: an immutable value describing how many attempts are allowed,
//     how long to wait between them, and which errors justify another
//     attempt. Policies are plain values and may be shared by any number of
//     concurrent callers.
//
//   - Executor: drives repeated invocation of a target against a Policy.
//     An executor is built once per target with a fixed execution mode:
//     Execute blocks between attempts, ExecuteContext waits cooperatively
//     and honors cancellation.
//
//   - Wrap / WrapFunc: builds a retrying version of a function with the
//     same call signature, from either an explicit Policy or inline
//     parameters.
//
// # Usage
//
//	policy, err := retry.NewPolicy(retry.PolicyConfig{
//	    MaxAttempts: 5,
//	    Strategy:    retry.StrategyExponential,
//	    BaseDelay:   100 * time.Millisecond,
//	    MaxDelay:    5 * time.Second,
//	    Jitter:      true,
//	    RetryOn:     []error{ErrUnavailable},
//	})
//	if err != nil {
//	    return err
//	}
//
//	exec := retry.NewExecutor(policy)
//	err = exec.ExecuteContext(ctx, func(ctx context.Context) error {
//	    return callExternalService(ctx)
//	})
//
// Terminal failures surface the unmodified error from the last attempt;
// the package never wraps it in a "retries exhausted" type, so errors.Is
// and errors.As keep working against the root cause.
package retry
