// Package statewatch provides an observable state container with
// predicate-gated waiting.
//
// One goroutine publishes discrete states with Signal while any number of
// other goroutines block in WaitFor until the state satisfies a predicate, a
// time budget runs out, or their context is canceled:
//
//	type phase int
//
//	const (
//	    unborn phase = iota
//	    living
//	    dead
//	)
//
//	w := statewatch.New(unborn)
//
//	go func() {
//	    // ...
//	    w.Signal(living)
//	}()
//
//	state, err := w.WaitForState(ctx, living, statewatch.Forever)
//	// state == statewatch.Completed
//
// # Waiting
//
// The predicate is first checked under the watcher lock. If it already holds,
// WaitFor returns Completed without registering anything, whatever the budget.
// Otherwise the caller registers a waiter with its own wake slot and blocks.
// Signal wakes only the waiters whose predicate holds for the new state; each
// woken waiter re-checks its predicate under the lock and keeps waiting on the
// remaining budget if the state has moved on. The waiter is removed before
// WaitFor returns on every path.
//
// The outcome is reported as a WakeState:
//
//   - Completed: the predicate held.
//   - TimedOut: the budget elapsed first. A zero or negative budget times out
//     immediately unless the predicate already holds.
//   - Interrupted: ctx was done. The context stays canceled, so callers further
//     up the stack observe the interruption too.
//
// # Errors
//
// A nil predicate is rejected with ErrNilPredicate before the lock is taken. A
// predicate that panics ends its own wait with Interrupted and a
// *PredicateError (errors.Is(err, ErrPredicatePanic)). When the panic happens
// while another goroutine is signaling, the signaler is not affected: the
// waiter is woken and observes the panic on its own goroutine, even if the
// state has moved on by the time it gets the lock back.
//
// # Composite operations
//
// Atomically runs a function under the watcher lock with a Txn that can read
// and set the state and wait without giving up atomicity between the last
// read and the waiter registration. The statemachine package builds
// compare-and-set and "transition then wait" on top of it.
//
// # Concurrency
//
// All state lives behind a single non-reentrant mutex. Predicates and any code
// run inside Atomically execute with that mutex held: they must be short and
// must not call back into the same watcher. Wake order among several satisfied
// waiters is up to the scheduler.
package statewatch
