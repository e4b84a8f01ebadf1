package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/statewatch/pkg/logger"
	"github.com/dmitrymomot/statewatch/pkg/statemachine"
	"github.com/dmitrymomot/statewatch/pkg/statewatch"
)

// Func is the body of a worker. It should return once ctx is done.
type Func func(ctx context.Context) error

// Worker runs a Func under a lifecycle state machine.
type Worker struct {
	id      uuid.UUID
	cfg     Config
	fn      Func
	machine *statemachine.Machine[State]
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// current mirrors the machine state and is written by a receiver under the
	// machine lock, so it is exact inside callbacks that hold that lock.
	current atomic.Int32

	mu  sync.Mutex
	err error
}

// NewWorker creates an Unborn worker.
func NewWorker(fn Func, cfg Config, opts ...Option) (*Worker, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	if cfg.Name == "" {
		cfg.Name = DefaultConfig().Name
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultConfig().StopTimeout
	}

	o := &options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	w := &Worker{
		id:     uuid.New(),
		cfg:    cfg,
		fn:     fn,
		logger: o.logger.With(logger.Component(cfg.Name)),
	}
	w.current.Store(int32(Unborn))
	w.ctx, w.cancel = context.WithCancel(ContextWithID(context.Background(), w.id))

	mirror := statemachine.ReceiverFunc[State](func(s State) { w.current.Store(int32(s)) })
	w.machine = statemachine.MustNew(Unborn,
		statemachine.WithReceiver[State](mirror),
		statemachine.WithReceiver[State](o.receivers...),
		statemachine.WithLogger[State](w.logger),
		statemachine.WithName[State](cfg.Name),
	)

	return w, nil
}

func (w *Worker) ID() uuid.UUID {
	return w.id
}

func (w *Worker) Name() string {
	return w.cfg.Name
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	return w.machine.At()
}

// Err returns the error the worker function returned, once it is Dead.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Start moves the worker from Unborn to Living and runs its function.
func (w *Worker) Start() error {
	if !w.machine.Transition(Unborn, Living) {
		return ErrAlreadyStarted
	}

	go w.run()

	w.logger.InfoContext(w.ctx, "worker started")
	return nil
}

// Run starts the worker and returns a function suitable for errgroup. The
// function blocks until ctx is done and then stops the worker.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
		case <-w.ctx.Done():
		}

		stopCtx := context.WithoutCancel(ctx)
		if _, err := w.Stop(stopCtx); err != nil {
			return err
		}
		return w.Err()
	}
}

func (w *Worker) run() {
	err := w.call()

	w.mu.Lock()
	w.err = err
	w.mu.Unlock()

	w.cancel()
	prior := w.machine.TransitionTo(Dead)

	if err != nil {
		w.logger.ErrorContext(w.ctx, "worker failed", logger.PrevState(prior), logger.Error(err))
		return
	}
	w.logger.InfoContext(w.ctx, "worker finished", logger.PrevState(prior))
}

func (w *Worker) call() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerPanic, r)
		}
	}()
	return w.fn(w.ctx)
}

// Pause moves a Living worker to Paused. Checkpoint blocks until Resume.
func (w *Worker) Pause() bool {
	return w.machine.Transition(Living, Paused)
}

// Resume moves a Paused worker back to Living.
func (w *Worker) Resume() bool {
	return w.machine.Transition(Paused, Living)
}

// TogglePause switches between Living and Paused and returns the state it
// left. It returns false if the worker is in neither.
func (w *Worker) TogglePause() (State, bool) {
	return w.machine.Toggle(Living, Paused)
}

// Checkpoint blocks while the worker is paused. It returns ErrStopping once
// the worker is dying or dead, and the context error if ctx is done first.
func (w *Worker) Checkpoint(ctx context.Context) error {
	state, err := w.machine.WaitForFunc(ctx, func(s State) bool { return s != Paused }, statewatch.Forever)
	if err != nil {
		return err
	}
	if state != statewatch.Completed {
		return ctx.Err()
	}
	if w.machine.IsFunc(State.Terminal) {
		return ErrStopping
	}
	return nil
}

// Stop cancels the worker and waits up to Config.StopTimeout for it to reach
// Dead. It reports whether the worker is dead on return. A worker that never
// started is moved to Dead directly. If ctx is done before the worker is dead,
// Stop returns ctx.Err(); (false, nil) means the stop budget ran out.
func (w *Worker) Stop(ctx context.Context) (bool, error) {
	if w.machine.Transition(Unborn, Dead) {
		w.cancel()
		w.logger.InfoContext(w.ctx, "worker stopped before start")
		return true, nil
	}

	for {
		from := w.machine.At()
		if from != Living && from != Paused {
			break
		}

		var seen State
		stopped, err := w.machine.TransitionAndWait(ctx, from, Dying, Dead, w.cfg.StopTimeout, func() {
			seen = State(w.current.Load())
			w.cancel()
		})
		if stopped || err != nil || seen == from {
			if !stopped && err == nil {
				if cerr := ctx.Err(); cerr != nil {
					return false, cerr
				}
				w.logger.WarnContext(w.ctx, "worker did not stop in time", logger.Duration(w.cfg.StopTimeout))
			}
			return stopped, err
		}
		// Pause or Resume won the race; try again from the new state.
	}

	// Already Dying or Dead: someone else is stopping it.
	state, err := w.machine.WaitFor(ctx, Dead, w.cfg.StopTimeout)
	if err == nil && state == statewatch.Interrupted {
		err = ctx.Err()
	}
	return state == statewatch.Completed, err
}

// Wait blocks until the worker is Dead or ctx is done.
func (w *Worker) Wait(ctx context.Context) (statewatch.WakeState, error) {
	return w.machine.WaitFor(ctx, Dead, statewatch.Forever)
}

// Done returns a channel closed once the worker context is canceled.
func (w *Worker) Done() <-chan struct{} {
	return w.ctx.Done()
}

// IsStopped reports whether err means the worker is no longer allowed to run.
func IsStopped(err error) bool {
	return errors.Is(err, ErrStopping) || errors.Is(err, context.Canceled)
}
