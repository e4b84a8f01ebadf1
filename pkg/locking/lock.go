package locking

import (
	"context"
	"sync"
	"time"
)

// Lock is a mutex that can create associated conditions.
type Lock struct {
	mu sync.Mutex
}

// New returns an unlocked Lock.
func New() *Lock {
	return &Lock{}
}

// Lock locks l.
func (l *Lock) Lock() { l.mu.Lock() }

// Unlock unlocks l. It is a run-time error if l is not locked.
func (l *Lock) Unlock() { l.mu.Unlock() }

// TryLock tries to lock l and reports whether it succeeded.
func (l *Lock) TryLock() bool { return l.mu.TryLock() }

// NewCondition creates a condition bound to l.
func (l *Lock) NewCondition() *Condition {
	return &Condition{
		l:  l,
		ch: make(chan struct{}, 1),
	}
}

// WhileLocked runs fn with l held and returns its result.
// l is released on every exit path, including a panic in fn.
func WhileLocked[T any](l sync.Locker, fn func() T) T {
	l.Lock()
	defer l.Unlock()
	return fn()
}

// Do is WhileLocked for functions without a result.
func Do(l sync.Locker, fn func()) {
	l.Lock()
	defer l.Unlock()
	fn()
}

// Condition is a wake slot bound to a Lock.
type Condition struct {
	l  *Lock
	ch chan struct{}
}

// Signal wakes the goroutine waiting on c, or the next one to wait if nobody is
// waiting yet. It never blocks.
func (c *Condition) Signal() {
	select {
	case c.ch <- struct{}{}:
	default:
		// Already signaled
	}
}

// Wait releases the bound lock, blocks until c is signaled, expired fires or
// ctx is done, and re-acquires the lock before returning. The caller must hold
// the lock. A nil expired channel never fires.
//
// Wait returns nil when signaled, ErrTimeout when expired fires and ctx.Err()
// when the context is done. A pending signal wins over an expired deadline.
func (c *Condition) Wait(ctx context.Context, expired <-chan time.Time) error {
	c.l.Unlock()
	defer c.l.Lock()

	select {
	case <-c.ch:
		return nil
	default:
	}

	select {
	case <-c.ch:
		return nil
	case <-expired:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
