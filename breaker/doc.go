// Package breaker implements a circuit breaker as an explicit state
// machine over immutable snapshots.
//
// The design splits the pattern in two:
//
//   - State and Transition: a pure transition function over immutable
//     snapshots. Every transition yields a new State with its Generation
//     incremented; an undefined event for the current status — notably
//     EventTimeout before the recovery deadline — is a silent no-op that
//     returns the snapshot unchanged.
//
//   - Machine: the single mutable slot holding the current snapshot,
//     guarded by a mutex. Dispatch serializes events; Allow implements the
//     caller-side guard that fails fast with ErrOpen while the circuit is
//     open and admits a half-open probe once the cooldown elapses.
//
// The transition table:
//
//	closed    --FAILURE (count+1 < threshold)--> closed
//	closed    --FAILURE (count+1 >= threshold)-> open
//	closed    --SUCCESS--------------------> closed (count reset)
//	open      --FAILURE--------------------> open   (deadline extended)
//	open      --TIMEOUT (deadline passed)---> half-open
//	open      --TIMEOUT (too early)---------> no-op
//	half-open --SUCCESS--------------------> closed
//	half-open --FAILURE--------------------> open
//	any       --RESET----------------------> closed
//
// Each Machine is process-local and independently owned; there is no
// coordination between breakers in different processes.
package breaker
