package statewatch_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/statewatch/pkg/statewatch"
)

type phase int

const (
	unborn phase = iota
	living
	dead
)

func (p phase) String() string {
	switch p {
	case unborn:
		return "unborn"
	case living:
		return "living"
	case dead:
		return "dead"
	default:
		return "unknown"
	}
}

// waitRegistered blocks until n goroutines are parked in a wait on w.
func waitRegistered[S comparable](t *testing.T, w *statewatch.Watcher[S], n int) {
	t.Helper()
	require.Eventually(t, func() bool { return w.Waiters() == n }, time.Second, time.Millisecond)
}

func TestWaitFor_ImmediateCompletion(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		maxWait time.Duration
	}{
		{name: "zero budget", ctx: context.Background(), maxWait: 0},
		{name: "negative budget", ctx: context.Background(), maxWait: -time.Second},
		{name: "short budget", ctx: context.Background(), maxWait: time.Millisecond},
		{name: "forever", ctx: context.Background(), maxWait: statewatch.Forever},
		{name: "canceled context", ctx: canceled, maxWait: statewatch.Forever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := statewatch.New(living)

			state, err := w.WaitForState(tt.ctx, living, tt.maxWait)
			require.NoError(t, err)
			assert.Equal(t, statewatch.Completed, state)

			state, err = w.WaitFor(tt.ctx, func(p phase) bool { return p != dead }, tt.maxWait)
			require.NoError(t, err)
			assert.Equal(t, statewatch.Completed, state)
			assert.Zero(t, w.Waiters())
		})
	}
}

func TestWaitFor_ZeroBudgetTimesOut(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	state, err := w.WaitForState(context.Background(), dead, 0)
	require.NoError(t, err)
	assert.Equal(t, statewatch.TimedOut, state)
	assert.Zero(t, w.Waiters())
}

func TestWaitFor_Timeout(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	start := time.Now()
	state, err := w.WaitForState(context.Background(), dead, 50*time.Millisecond)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, statewatch.TimedOut, state)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
	assert.Zero(t, w.Waiters())
}

func TestWaitFor_CompletesBeforeDeadline(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	go func() {
		time.Sleep(20 * time.Millisecond)
		w.Signal(dead)
	}()

	state, err := w.WaitForState(context.Background(), dead, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, statewatch.Completed, state)
	assert.Equal(t, dead, w.Current())
}

func TestWaitFor_LifecycleScenario(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)
	ctx := context.Background()

	released := make(chan statewatch.WakeState, 1)
	go func() {
		state, _ := w.WaitForState(ctx, living, statewatch.Forever)
		released <- state
	}()
	waitRegistered(t, w, 1)

	w.Signal(living)

	select {
	case state := <-released:
		assert.Equal(t, statewatch.Completed, state)
	case <-time.After(time.Second):
		t.Fatal("waiter for living was not released")
	}

	start := time.Now()
	state, err := w.WaitForState(ctx, dead, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, statewatch.TimedOut, state)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Zero(t, w.Waiters())
}

func TestWaitFor_Interrupted(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)
	ctx, cancel := context.WithCancel(context.Background())

	var g errgroup.Group
	var state statewatch.WakeState
	g.Go(func() error {
		var err error
		state, err = w.WaitForState(ctx, dead, statewatch.Forever)
		return err
	})
	waitRegistered(t, w, 1)

	cancel()

	require.NoError(t, g.Wait())
	assert.Equal(t, statewatch.Interrupted, state)
	assert.ErrorIs(t, ctx.Err(), context.Canceled, "interruption must stay visible to the caller")
	assert.Zero(t, w.Waiters())
}

func TestWaitFor_NonMatchingSignalKeepsWaiting(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	var g errgroup.Group
	var state statewatch.WakeState
	g.Go(func() error {
		var err error
		state, err = w.WaitForState(context.Background(), dead, 2*time.Second)
		return err
	})
	waitRegistered(t, w, 1)

	w.Signal(living)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, w.Waiters(), "a non-matching signal must not release the waiter")

	w.Signal(dead)
	require.NoError(t, g.Wait())
	assert.Equal(t, statewatch.Completed, state)
}

func TestWaitFor_RechecksAfterWake(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	var g errgroup.Group
	var state statewatch.WakeState
	g.Go(func() error {
		var err error
		state, err = w.WaitForState(context.Background(), living, 100*time.Millisecond)
		return err
	})
	waitRegistered(t, w, 1)

	// The waiter is woken by the first Set but can only re-check after the
	// lock is released, when the state has already moved on.
	w.Atomically(func(tx *statewatch.Txn[phase]) {
		tx.Set(living)
		tx.Set(dead)
	})

	require.NoError(t, g.Wait())
	assert.Equal(t, statewatch.TimedOut, state)
	assert.Zero(t, w.Waiters())
}

func TestSignal_WakesAllMatchingWaiters(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)
	const n = 20

	var g errgroup.Group
	results := make([]statewatch.WakeState, n)
	for i := range n {
		g.Go(func() error {
			var err error
			results[i], err = w.WaitForState(context.Background(), living, 2*time.Second)
			return err
		})
	}
	waitRegistered(t, w, n)

	w.Signal(living)

	require.NoError(t, g.Wait())
	for i, state := range results {
		assert.Equal(t, statewatch.Completed, state, "waiter %d", i)
	}
	assert.Zero(t, w.Waiters())
}

func TestSignal_WakesOnlyMatchingWaiters(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	var g errgroup.Group
	var forLiving, forDead statewatch.WakeState
	g.Go(func() error {
		var err error
		forLiving, err = w.WaitForState(context.Background(), living, time.Second)
		return err
	})
	g.Go(func() error {
		var err error
		forDead, err = w.WaitForState(context.Background(), dead, 50*time.Millisecond)
		return err
	})
	waitRegistered(t, w, 2)

	w.Signal(living)

	require.NoError(t, g.Wait())
	assert.Equal(t, statewatch.Completed, forLiving)
	assert.Equal(t, statewatch.TimedOut, forDead)
}

func TestWaitFor_NilPredicate(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	_, err := w.WaitFor(context.Background(), nil, time.Second)
	assert.ErrorIs(t, err, statewatch.ErrNilPredicate)
}

func TestWaitFor_PredicatePanicsOnEntry(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	state, err := w.WaitFor(context.Background(), func(phase) bool { panic("bad predicate") }, time.Second)

	require.Error(t, err)
	assert.ErrorIs(t, err, statewatch.ErrPredicatePanic)
	assert.True(t, statewatch.IsPredicatePanic(err))
	assert.Equal(t, statewatch.Interrupted, state)
	assert.Contains(t, err.Error(), "bad predicate")
	assert.Zero(t, w.Waiters())

	// The lock must be usable afterwards.
	w.Signal(living)
	assert.Equal(t, living, w.Current())
}

func TestWaitFor_PredicatePanicsDuringSignal(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	pred := func(p phase) bool {
		if p == dead {
			panic(errors.New("cannot look at the dead"))
		}
		return false
	}

	var g errgroup.Group
	g.Go(func() error {
		_, err := w.WaitFor(context.Background(), pred, 2*time.Second)
		return err
	})
	waitRegistered(t, w, 1)

	assert.NotPanics(t, func() { w.Signal(dead) })

	err := g.Wait()
	require.Error(t, err)
	var perr *statewatch.PredicateError
	require.ErrorAs(t, err, &perr)
	assert.EqualError(t, perr.Value.(error), "cannot look at the dead")
	assert.Zero(t, w.Waiters())
}

func TestWaitFor_PredicatePanicSurvivesLaterSignal(t *testing.T) {
	t.Parallel()
	w := statewatch.New(unborn)

	pred := func(p phase) bool {
		if p == dead {
			panic("cannot look at the dead")
		}
		return false
	}

	var g errgroup.Group
	var state statewatch.WakeState
	g.Go(func() error {
		var err error
		state, err = w.WaitFor(context.Background(), pred, 2*time.Second)
		return err
	})
	waitRegistered(t, w, 1)

	// The waiter only re-checks after the lock is released, when the state
	// its predicate panicked on is already gone.
	w.Atomically(func(tx *statewatch.Txn[phase]) {
		tx.Set(dead)
		tx.Set(unborn)
	})

	err := g.Wait()
	require.Error(t, err)
	assert.True(t, statewatch.IsPredicatePanic(err))
	assert.Contains(t, err.Error(), "cannot look at the dead")
	assert.Equal(t, statewatch.Interrupted, state)
	assert.Zero(t, w.Waiters())
}

func TestAtomically(t *testing.T) {
	t.Parallel()

	t.Run("await registers before releasing the lock", func(t *testing.T) {
		t.Parallel()
		w := statewatch.New(unborn)

		go func() {
			for w.Waiters() == 0 {
				time.Sleep(time.Millisecond)
			}
			w.Signal(dead)
		}()

		var (
			state statewatch.WakeState
			err   error
		)
		w.Atomically(func(tx *statewatch.Txn[phase]) {
			tx.Set(living)
			state, err = tx.Await(context.Background(), statewatch.Equal(dead), 2*time.Second)
			assert.Equal(t, dead, tx.Current())
		})

		require.NoError(t, err)
		assert.Equal(t, statewatch.Completed, state)
	})

	t.Run("await rejects nil predicate", func(t *testing.T) {
		t.Parallel()
		w := statewatch.New(unborn)

		w.Atomically(func(tx *statewatch.Txn[phase]) {
			_, err := tx.Await(context.Background(), nil, time.Second)
			assert.ErrorIs(t, err, statewatch.ErrNilPredicate)
		})
	})

	t.Run("releases the lock on panic", func(t *testing.T) {
		t.Parallel()
		w := statewatch.New(unborn)

		assert.Panics(t, func() {
			w.Atomically(func(tx *statewatch.Txn[phase]) {
				tx.Set(living)
				panic("boom")
			})
		})

		assert.Equal(t, living, w.Current())
	})
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	isDead := statewatch.Equal(dead)
	assert.True(t, isDead(dead))
	assert.False(t, isDead(living))

	notDead := statewatch.Not(isDead)
	assert.False(t, notDead(dead))
	assert.True(t, notDead(unborn))
}

func TestWakeState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "completed", statewatch.Completed.String())
	assert.Equal(t, "timed_out", statewatch.TimedOut.String())
	assert.Equal(t, "interrupted", statewatch.Interrupted.String())
	assert.Equal(t, "unknown", statewatch.WakeState(42).String())
}

func TestWatcher_Logging(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w := statewatch.New(unborn, statewatch.WithLogger(log), statewatch.WithName("conn"))

	state, err := w.WaitForState(context.Background(), dead, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, statewatch.TimedOut, state)

	out := buf.String()
	assert.Contains(t, out, "component=conn")
	assert.Contains(t, out, "wake_state=timed_out")
	assert.Contains(t, out, "waiters=0")

	buf.Reset()
	_, err = w.WaitFor(context.Background(), func(phase) bool { panic("x") }, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
}
