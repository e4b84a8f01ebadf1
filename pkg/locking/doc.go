// Package locking provides the mutual-exclusion and condition primitives the
// rest of the module is built on.
//
// WhileLocked and Do acquire a lock, run a function and release the lock on
// every exit path, including a panic raised by the function. Everything that
// holds a watcher lock in this module goes through one of them.
//
// A Condition is a single wake slot bound to a Lock. Unlike sync.Cond it can be
// waited on with a deadline and a context:
//
//	l := locking.New()
//	c := l.NewCondition()
//
//	l.Lock()
//	for !ready {
//	    if err := c.Wait(ctx, timer.C); err != nil {
//	        break // locking.ErrTimeout or ctx.Err(); the lock is held again
//	    }
//	}
//	l.Unlock()
//
// Signal never blocks and coalesces: any number of signals delivered while
// nobody is waiting result in exactly one pending wake-up. Callers must re-check
// their condition after every wake.
package locking
