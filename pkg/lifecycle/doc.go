// Package lifecycle runs a function in a goroutine under an
// Unborn -> Living <-> Paused -> Dying -> Dead state machine.
//
// The worker function receives a context that is canceled when the worker is
// stopped, and calls Checkpoint at convenient points to honor Pause:
//
//	var w *lifecycle.Worker
//	w, err := lifecycle.NewWorker(func(ctx context.Context) error {
//	    for {
//	        if err := w.Checkpoint(ctx); err != nil {
//	            return nil
//	        }
//	        // one unit of work
//	    }
//	}, cfg)
//
//	_ = w.Start()
//	w.Pause()
//	w.Resume()
//	stopped, err := w.Stop(ctx)
//
// Stop moves Living or Paused workers to Dying, cancels the worker context and
// waits up to Config.StopTimeout for the function to return. An Unborn worker
// goes straight to Dead. Group stops a set of workers concurrently.
//
// Config is read from LIFECYCLE_NAME and LIFECYCLE_STOP_TIMEOUT by LoadConfig.
// Every worker has a UUID; LogExtractor adds it to log records written with
// the worker context.
package lifecycle
