package statewatch

import "log/slog"

// Option configures a Watcher during construction.
type Option func(*options)

type options struct {
	logger *slog.Logger
	name   string
}

// WithLogger sets the logger used for wait diagnostics. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName sets the component name attached to log records.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.DiscardHandler),
		name:   "statewatch",
	}
}
