package receiver

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/statewatch/pkg/logger"
)

// SlogOption configures a SlogReceiver.
type SlogOption func(*slogOptions)

type slogOptions struct {
	level     slog.Level
	message   string
	component string
}

// WithLevel sets the level transitions are logged at. Defaults to info.
func WithLevel(level slog.Level) SlogOption {
	return func(o *slogOptions) {
		o.level = level
	}
}

// WithMessage sets the log message. Defaults to "state transition".
func WithMessage(msg string) SlogOption {
	return func(o *slogOptions) {
		if msg != "" {
			o.message = msg
		}
	}
}

// WithComponent adds a component attribute to every record.
func WithComponent(name string) SlogOption {
	return func(o *slogOptions) {
		o.component = name
	}
}

// SlogReceiver writes one record per transition with the new state and a
// sequence number starting at 1.
type SlogReceiver[S comparable] struct {
	log  *slog.Logger
	opts slogOptions
	seq  atomic.Uint64
}

// Slog creates a SlogReceiver. A nil logger discards.
func Slog[S comparable](log *slog.Logger, opts ...SlogOption) *SlogReceiver[S] {
	if log == nil {
		log = logger.Discard()
	}
	o := slogOptions{level: slog.LevelInfo, message: "state transition"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.component != "" {
		log = log.With(logger.Component(o.component))
	}
	return &SlogReceiver[S]{log: log, opts: o}
}

func (r *SlogReceiver[S]) Receive(s S) {
	seq := r.seq.Add(1)

	ctx := context.Background()
	if !r.log.Enabled(ctx, r.opts.level) {
		return
	}
	r.log.LogAttrs(ctx, r.opts.level, r.opts.message,
		logger.State(s),
		logger.Sequence(seq),
	)
}

// Count returns the number of transitions received so far.
func (r *SlogReceiver[S]) Count() uint64 {
	return r.seq.Load()
}
