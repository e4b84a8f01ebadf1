package statemachine

import (
	"log/slog"

	"github.com/dmitrymomot/statewatch/pkg/statewatch"
)

// Option configures a state machine during construction.
type Option[S comparable] func(*config[S])

type config[S comparable] struct {
	receivers []Receiver[S]
	watchOpts []statewatch.Option
}

// WithReceiver adds receivers notified after every transition, in the order
// they were added. Nil receivers are ignored.
func WithReceiver[S comparable](receivers ...Receiver[S]) Option[S] {
	return func(c *config[S]) {
		for _, r := range receivers {
			if r != nil {
				c.receivers = append(c.receivers, r)
			}
		}
	}
}

// WithLogger sets the logger used by the underlying watcher.
func WithLogger[S comparable](l *slog.Logger) Option[S] {
	return func(c *config[S]) {
		c.watchOpts = append(c.watchOpts, statewatch.WithLogger(l))
	}
}

// WithName names the machine in log records.
func WithName[S comparable](name string) Option[S] {
	return func(c *config[S]) {
		c.watchOpts = append(c.watchOpts, statewatch.WithName(name))
	}
}
