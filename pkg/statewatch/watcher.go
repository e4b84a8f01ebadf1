package statewatch

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dmitrymomot/statewatch/pkg/locking"
	"github.com/dmitrymomot/statewatch/pkg/logger"
)

// Predicate reports whether a state satisfies a wait.
// Predicates run while the watcher lock is held and must not call back into
// the watcher.
type Predicate[S comparable] func(S) bool

// Equal returns a predicate matching exactly s.
func Equal[S comparable](s S) Predicate[S] {
	return func(c S) bool { return c == s }
}

// Not negates p.
func Not[S comparable](p Predicate[S]) Predicate[S] {
	return func(c S) bool { return !p(c) }
}

// waiter lives for the duration of one wait call. panicked is set by Signal
// when pred panics for a state the waiter may never get to see.
type waiter[S comparable] struct {
	pred     Predicate[S]
	cond     *locking.Condition
	panicked error
}

// Watcher holds the current state and the goroutines blocked on predicates
// over it. current and waiters are only touched with lock held.
type Watcher[S comparable] struct {
	lock    *locking.Lock
	current S
	waiters []*waiter[S]
	opts    *options
}

// New creates a watcher in the initial state.
func New[S comparable](initial S, opts ...Option) *Watcher[S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Watcher[S]{
		lock:    locking.New(),
		current: initial,
		opts:    o,
	}
}

// Current returns the state at the time the lock was acquired.
func (w *Watcher[S]) Current() S {
	return locking.WhileLocked(w.lock, func() S { return w.current })
}

// Waiters returns the number of goroutines currently registered in a wait.
func (w *Watcher[S]) Waiters() int {
	return locking.WhileLocked(w.lock, func() int { return len(w.waiters) })
}

// Signal sets the current state and wakes every waiter whose predicate holds
// for it. It never blocks beyond the critical section.
func (w *Watcher[S]) Signal(s S) {
	var panics []error
	locking.Do(w.lock, func() { panics = w.signalLocked(s) })
	w.logPanics(panics)
}

// WaitFor blocks until pred holds for the current state, maxWait elapses or
// ctx is done. If pred already holds it returns Completed without blocking,
// for any maxWait including zero. Use Forever to wait without a deadline.
//
// A panicking predicate ends the wait with Interrupted and a *PredicateError.
func (w *Watcher[S]) WaitFor(ctx context.Context, pred Predicate[S], maxWait time.Duration) (WakeState, error) {
	if pred == nil {
		return Interrupted, ErrNilPredicate
	}

	start := time.Now()
	var (
		state   WakeState
		err     error
		waiting int
	)
	locking.Do(w.lock, func() {
		state, err = w.awaitLocked(ctx, pred, maxWait)
		waiting = len(w.waiters)
	})
	w.logWait(state, err, time.Since(start), waiting)

	return state, err
}

// WaitForState waits until the current state equals s.
func (w *Watcher[S]) WaitForState(ctx context.Context, s S, maxWait time.Duration) (WakeState, error) {
	return w.WaitFor(ctx, Equal(s), maxWait)
}

// signalLocked must be called with the lock held. It returns the errors of
// predicates that panicked; their waiters are woken to observe the panic.
func (w *Watcher[S]) signalLocked(s S) []error {
	w.current = s

	var panics []error
	for _, wt := range w.waiters {
		ok, err := evaluate(wt.pred, s)
		if err != nil {
			panics = append(panics, err)
			if wt.panicked == nil {
				wt.panicked = err
			}
		}
		if ok || err != nil {
			wt.cond.Signal()
		}
	}
	return panics
}

// awaitLocked must be called with the lock held and returns with it held.
// The lock is released while blocked.
func (w *Watcher[S]) awaitLocked(ctx context.Context, pred Predicate[S], maxWait time.Duration) (WakeState, error) {
	ok, err := evaluate(pred, w.current)
	switch {
	case err != nil:
		return Interrupted, err
	case ok:
		return Completed, nil
	case maxWait <= 0:
		return TimedOut, nil
	case ctx.Err() != nil:
		return Interrupted, nil
	}

	wt := &waiter[S]{pred: pred, cond: w.lock.NewCondition()}
	w.waiters = append(w.waiters, wt)
	defer w.remove(wt)

	var expired <-chan time.Time
	if maxWait != Forever {
		timer := time.NewTimer(maxWait)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		werr := wt.cond.Wait(ctx, expired)
		if wt.panicked != nil {
			return Interrupted, wt.panicked
		}

		// A wake only means the state changed at some point; it may have
		// changed again before the lock was re-acquired.
		ok, err := evaluate(pred, w.current)
		switch {
		case err != nil:
			return Interrupted, err
		case ok:
			return Completed, nil
		case errors.Is(werr, locking.ErrTimeout):
			return TimedOut, nil
		case werr != nil:
			return Interrupted, nil
		}
	}
}

func (w *Watcher[S]) remove(wt *waiter[S]) {
	w.waiters = slices.DeleteFunc(w.waiters, func(x *waiter[S]) bool { return x == wt })
}

// logWait records waits that did not complete. waiting is the number of other
// waiters still registered when this one returned.
func (w *Watcher[S]) logWait(state WakeState, err error, elapsed time.Duration, waiting int) {
	switch {
	case err != nil:
		w.opts.logger.Warn("wait failed",
			logger.Component(w.opts.name),
			logger.WakeState(state.String()),
			logger.Duration(elapsed),
			logger.Waiters(waiting),
			logger.Error(err),
		)
	case state != Completed:
		w.opts.logger.Debug("wait ended before the state was reached",
			logger.Component(w.opts.name),
			logger.WakeState(state.String()),
			logger.Duration(elapsed),
			logger.Waiters(waiting),
		)
	}
}

func (w *Watcher[S]) logPanics(panics []error) {
	if len(panics) == 0 {
		return
	}
	w.opts.logger.Warn("waiter predicate panicked during signal",
		logger.Component(w.opts.name),
		logger.Errors(panics...),
	)
}

func evaluate[S comparable](pred Predicate[S], s S) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PredicateError{Value: r}
		}
	}()
	return pred(s), nil
}
