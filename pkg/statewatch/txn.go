package statewatch

import (
	"context"
	"time"

	"github.com/dmitrymomot/statewatch/pkg/locking"
)

// Txn is the view of a watcher inside Atomically. It is only valid until the
// function passed to Atomically returns.
type Txn[S comparable] struct {
	w      *Watcher[S]
	panics []error
	waits  []waitRecord
}

type waitRecord struct {
	state   WakeState
	err     error
	elapsed time.Duration
	waiting int
}

// Atomically runs fn with the watcher lock held. The lock is released when fn
// returns or panics. Anything fn does through tx is atomic with respect to
// every other operation on the watcher, except that tx.Await releases the lock
// while it blocks.
func (w *Watcher[S]) Atomically(fn func(tx *Txn[S])) {
	tx := &Txn[S]{w: w}
	defer tx.flush()
	locking.Do(w.lock, func() { fn(tx) })
}

// Current returns the current state.
func (tx *Txn[S]) Current() S {
	return tx.w.current
}

// Set changes the current state and wakes matching waiters, like Signal.
func (tx *Txn[S]) Set(s S) {
	tx.panics = append(tx.panics, tx.w.signalLocked(s)...)
}

// Await is WaitFor for code already holding the lock. The predicate is checked
// and, if needed, the waiter registered before the lock is released, so no
// state change made after the caller's last read can be missed.
func (tx *Txn[S]) Await(ctx context.Context, pred Predicate[S], maxWait time.Duration) (WakeState, error) {
	if pred == nil {
		return Interrupted, ErrNilPredicate
	}

	start := time.Now()
	state, err := tx.w.awaitLocked(ctx, pred, maxWait)
	tx.waits = append(tx.waits, waitRecord{
		state:   state,
		err:     err,
		elapsed: time.Since(start),
		waiting: len(tx.w.waiters),
	})

	return state, err
}

// flush emits the diagnostics gathered under the lock. It runs after the lock
// has been released.
func (tx *Txn[S]) flush() {
	tx.w.logPanics(tx.panics)
	for _, rec := range tx.waits {
		tx.w.logWait(rec.state, rec.err, rec.elapsed, rec.waiting)
	}
}
