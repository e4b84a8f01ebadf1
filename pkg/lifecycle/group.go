package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Group manages a set of workers.
type Group struct {
	mu      sync.Mutex
	workers []*Worker
}

// NewGroup creates a group. Nil workers are skipped.
func NewGroup(workers ...*Worker) *Group {
	g := &Group{}
	g.Add(workers...)
	return g
}

func (g *Group) Add(workers ...*Worker) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, w := range workers {
		if w != nil {
			g.workers = append(g.workers, w)
		}
	}
}

// Workers returns a snapshot of the group members.
func (g *Group) Workers() []*Worker {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.workers)
}

// StartAll starts every Unborn worker and joins the errors of the rest.
func (g *Group) StartAll() error {
	var errs []error
	for _, w := range g.Workers() {
		if err := w.Start(); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", w.Name(), w.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// StopAll stops every worker concurrently and waits for all of them. It
// returns ErrStopTimeout if any worker is not dead when its stop budget runs
// out, and the context error if ctx is done first.
func (g *Group) StopAll(ctx context.Context) error {
	var eg errgroup.Group
	for _, w := range g.Workers() {
		eg.Go(func() error {
			stopped, err := w.Stop(ctx)
			if err != nil {
				return fmt.Errorf("%s %s: %w", w.Name(), w.ID(), err)
			}
			if !stopped {
				return fmt.Errorf("%s %s: %w", w.Name(), w.ID(), ErrStopTimeout)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Run starts every worker and blocks until ctx is done or any worker exits
// with an error, then stops them all. It returns the first error.
func (g *Group) Run(ctx context.Context) error {
	eg, gctx := errgroup.WithContext(ctx)
	for _, w := range g.Workers() {
		eg.Go(w.Run(gctx))
	}
	return eg.Wait()
}
