package receiver

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusReceiver counts transitions per target state and records the time
// of the last one.
type PrometheusReceiver[S comparable] struct {
	machine     string
	transitions *prometheus.CounterVec
	last        *prometheus.GaugeVec
	now         func() time.Time
}

// Prometheus registers the transition metrics on reg:
//
//	<namespace>_statemachine_transitions_total{machine,state}
//	<namespace>_statemachine_last_transition_timestamp_seconds{machine}
//
// Several machines can share the same registerer; collectors that are already
// registered are reused.
func Prometheus[S comparable](reg prometheus.Registerer, namespace, machine string) (*PrometheusReceiver[S], error) {
	if reg == nil {
		return nil, ErrNilRegisterer
	}

	transitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "statemachine",
			Name:      "transitions_total",
			Help:      "Total number of state transitions by target state.",
		},
		[]string{"machine", "state"},
	)
	last := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "statemachine",
			Name:      "last_transition_timestamp_seconds",
			Help:      "Unix time of the last state transition.",
		},
		[]string{"machine"},
	)

	var err error
	if transitions, err = register(reg, transitions); err != nil {
		return nil, err
	}
	if last, err = register(reg, last); err != nil {
		return nil, err
	}

	return &PrometheusReceiver[S]{
		machine:     machine,
		transitions: transitions,
		last:        last,
		now:         time.Now,
	}, nil
}

// MustPrometheus is like Prometheus but panics on error.
func MustPrometheus[S comparable](reg prometheus.Registerer, namespace, machine string) *PrometheusReceiver[S] {
	r, err := Prometheus[S](reg, namespace, machine)
	if err != nil {
		panic(fmt.Sprintf("failed to register state machine metrics: %v", err))
	}
	return r
}

func (r *PrometheusReceiver[S]) Receive(s S) {
	r.transitions.WithLabelValues(r.machine, fmt.Sprint(s)).Inc()
	r.last.WithLabelValues(r.machine).Set(float64(r.now().UnixNano()) / 1e9)
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("receiver: register metrics: %w", err)
	}
	return c, nil
}
