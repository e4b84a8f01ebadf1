package receiver

import (
	"github.com/dmitrymomot/statewatch/pkg/statemachine"
)

// Noop discards every transition.
type Noop[S comparable] struct{}

func (Noop[S]) Receive(S) {}

// Multi forwards every transition to all non-nil receivers in order.
type Multi[S comparable] struct {
	receivers []statemachine.Receiver[S]
}

// NewMulti creates a Multi receiver. Nil receivers are skipped.
func NewMulti[S comparable](receivers ...statemachine.Receiver[S]) *Multi[S] {
	filtered := make([]statemachine.Receiver[S], 0, len(receivers))
	for _, r := range receivers {
		if r != nil {
			filtered = append(filtered, r)
		}
	}
	return &Multi[S]{receivers: filtered}
}

func (m *Multi[S]) Receive(s S) {
	for _, r := range m.receivers {
		r.Receive(s)
	}
}

// Len returns the number of receivers behind m.
func (m *Multi[S]) Len() int {
	return len(m.receivers)
}
