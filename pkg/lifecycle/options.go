package lifecycle

import (
	"log/slog"

	"github.com/dmitrymomot/statewatch/pkg/statemachine"
)

// Option configures a Worker.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	receivers []statemachine.Receiver[State]
}

// WithLogger sets the logger for the worker and its state machine.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReceiver observes the worker's transitions.
func WithReceiver(receivers ...statemachine.Receiver[State]) Option {
	return func(o *options) {
		o.receivers = append(o.receivers, receivers...)
	}
}
