package lifecycle

import "errors"

var (
	// ErrNilFunc is returned when a worker is created without a function
	ErrNilFunc = errors.New("lifecycle: worker function is nil")

	// ErrAlreadyStarted is returned when Start is called on a worker that has left Unborn
	ErrAlreadyStarted = errors.New("lifecycle: worker already started")

	// ErrStopping is returned by Checkpoint once the worker is dying or dead
	ErrStopping = errors.New("lifecycle: worker is stopping")

	// ErrStopTimeout is returned by Group.StopAll when a worker is not dead in time
	ErrStopTimeout = errors.New("lifecycle: worker did not stop in time")

	// ErrWorkerPanic wraps a panic recovered from the worker function
	ErrWorkerPanic = errors.New("lifecycle: worker panicked")
)
