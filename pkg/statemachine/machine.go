package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/statewatch/pkg/statewatch"
)

// Machine adds transition semantics to a statewatch.Watcher. It keeps no state
// of its own; every operation runs under the watcher lock.
type Machine[S comparable] struct {
	watcher   *statewatch.Watcher[S]
	receivers []Receiver[S]
}

// New creates a machine in the initial state. A nil interface initial state is
// rejected with ErrNilState.
func New[S comparable](initial S, opts ...Option[S]) (*Machine[S], error) {
	if isNil(initial) {
		return nil, ErrNilState
	}

	cfg := &config[S]{}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Machine[S]{
		watcher:   statewatch.New(initial, cfg.watchOpts...),
		receivers: cfg.receivers,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew[S comparable](initial S, opts ...Option[S]) *Machine[S] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// At returns the current state.
func (m *Machine[S]) At() S {
	return m.watcher.Current()
}

func (m *Machine[S]) Is(s S) bool {
	return m.IsFunc(statewatch.Equal(s))
}

func (m *Machine[S]) IsNot(s S) bool {
	return !m.Is(s)
}

// IsFunc evaluates pred against the current state under the lock.
// It panics with ErrNilPredicate if pred is nil.
func (m *Machine[S]) IsFunc(pred func(S) bool) bool {
	if pred == nil {
		panic(ErrNilPredicate)
	}

	var ok bool
	m.watcher.Atomically(func(tx *statewatch.Txn[S]) {
		ok = pred(tx.Current())
	})
	return ok
}

func (m *Machine[S]) IsNotFunc(pred func(S) bool) bool {
	return !m.IsFunc(pred)
}

// TransitionTo moves to s unconditionally and returns the prior state.
func (m *Machine[S]) TransitionTo(s S) S {
	mustState(s)

	var prior S
	m.watcher.Atomically(func(tx *statewatch.Txn[S]) {
		prior = tx.Current()
		m.setLocked(tx, s)
	})
	return prior
}

// Transition moves from -> to only if the machine is in from when the lock is
// acquired, and reports whether it did.
func (m *Machine[S]) Transition(from, to S) bool {
	mustState(from, to)

	var ok bool
	m.watcher.Atomically(func(tx *statewatch.Txn[S]) {
		ok = m.casLocked(tx, from, to)
	})
	return ok
}

// TransitionAndWait reports whether the machine reaches waitFor.
//
// If it is already in waitFor it returns true and nothing else happens.
// Otherwise before (if not nil) runs under the lock, then from -> to is
// attempted as in Transition. On success it waits up to maxWait for waitFor.
// The waiter is registered in the same critical section as the transition, so
// a waitFor reached right after it is never missed.
func (m *Machine[S]) TransitionAndWait(ctx context.Context, from, to, waitFor S, maxWait time.Duration, before func()) (bool, error) {
	mustState(from, to, waitFor)

	var (
		reached bool
		err     error
	)
	m.watcher.Atomically(func(tx *statewatch.Txn[S]) {
		if tx.Current() == waitFor {
			reached = true
			return
		}
		if before != nil {
			before()
		}
		if !m.casLocked(tx, from, to) {
			return
		}

		var state statewatch.WakeState
		state, err = tx.Await(ctx, statewatch.Equal(waitFor), maxWait)
		reached = err == nil && state == statewatch.Completed
	})
	return reached, err
}

// TransitionAndWaitForNot moves to s and blocks, without a deadline, until the
// machine is in any other state or ctx is done.
func (m *Machine[S]) TransitionAndWaitForNot(ctx context.Context, s S) (statewatch.WakeState, error) {
	mustState(s)

	var (
		state statewatch.WakeState
		err   error
	)
	m.watcher.Atomically(func(tx *statewatch.Txn[S]) {
		m.setLocked(tx, s)
		state, err = tx.Await(ctx, statewatch.Not(statewatch.Equal(s)), statewatch.Forever)
	})
	return state, err
}

// Toggle switches between one and two. It returns the state it switched away
// from and true, or the zero value and false if the machine was in neither.
func (m *Machine[S]) Toggle(one, two S) (S, bool) {
	mustState(one, two)

	var (
		prior S
		ok    bool
	)
	m.watcher.Atomically(func(tx *statewatch.Txn[S]) {
		switch tx.Current() {
		case one:
			prior, ok = one, true
			m.setLocked(tx, two)
		case two:
			prior, ok = two, true
			m.setLocked(tx, one)
		}
	})
	return prior, ok
}

// WaitFor blocks until the machine is in s. See statewatch.Watcher.WaitFor.
func (m *Machine[S]) WaitFor(ctx context.Context, s S, maxWait time.Duration) (statewatch.WakeState, error) {
	return m.watcher.WaitForState(ctx, s, maxWait)
}

// WaitForFunc blocks until pred holds for the current state.
func (m *Machine[S]) WaitForFunc(ctx context.Context, pred func(S) bool, maxWait time.Duration) (statewatch.WakeState, error) {
	return m.watcher.WaitFor(ctx, pred, maxWait)
}

func (m *Machine[S]) casLocked(tx *statewatch.Txn[S], from, to S) bool {
	if tx.Current() != from {
		return false
	}
	m.setLocked(tx, to)
	return true
}

// setLocked publishes s and then notifies receivers in order. A panicking
// receiver leaves s published and skips the receivers after it.
func (m *Machine[S]) setLocked(tx *statewatch.Txn[S], s S) {
	tx.Set(s)
	for _, r := range m.receivers {
		r.Receive(s)
	}
}
