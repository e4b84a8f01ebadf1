// Package statemachine adds transition semantics on top of a
// statewatch.Watcher: unconditional transitions, compare-and-set transitions,
// "transition then wait" and toggling between two states.
//
// States form no fixed graph. Any comparable type works as a state; an enum
// of named constants is the common case. Any state is reachable from any other
// through TransitionTo, while Transition and Toggle let callers enforce their
// own edges. Terminal states are a convention of the state type.
//
// # Usage
//
//	type phase int
//
//	const (
//	    unborn phase = iota
//	    living
//	    dead
//	)
//
//	m := statemachine.MustNew(unborn,
//	    statemachine.WithReceiver[phase](receiver.Slog[phase](log)),
//	)
//
//	m.TransitionTo(living)
//
//	if m.Transition(living, dead) {
//	    // this goroutine won the race to kill it
//	}
//
//	state, err := m.WaitFor(ctx, dead, 5*time.Second)
//
// # Composite transitions
//
// TransitionAndWait moves from -> to and then waits for a third state, for
// example stopping a worker and waiting for it to report that it is gone. The
// before callback runs under the lock ahead of the transition, which is the
// place to cancel the worker:
//
//	stopped, err := m.TransitionAndWait(ctx, living, dying, dead, 10*time.Second, cancel)
//
// TransitionAndWaitForNot moves to a state and blocks until someone else moves
// the machine out of it.
//
// # Receivers
//
// Receivers registered with WithReceiver are called synchronously after every
// transition, in registration order, while the lock is held. Two receiver
// calls never interleave, and the order of calls matches the order in which
// transitions took the lock. Receivers must not call back into the same
// machine and must not block; see the receiver package for logging, metrics,
// tracing and channel fan-out implementations.
//
// # Errors
//
// New rejects a nil interface initial state with ErrNilState. Operations
// returning only a state or a bool panic with ErrNilState or ErrNilPredicate
// on nil arguments, before the lock is taken. Wait operations return errors
// from statewatch.
package statemachine
