package receiver

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const spanName = "statemachine.transition"

// TraceReceiver emits one short span per transition.
type TraceReceiver[S comparable] struct {
	tracer trace.Tracer
	name   attribute.KeyValue
}

// Trace creates a TraceReceiver. name is recorded as statemachine.name.
func Trace[S comparable](tracer trace.Tracer, name string) (*TraceReceiver[S], error) {
	if tracer == nil {
		return nil, ErrNilTracer
	}
	return &TraceReceiver[S]{
		tracer: tracer,
		name:   attribute.String("statemachine.name", name),
	}, nil
}

func (r *TraceReceiver[S]) Receive(s S) {
	_, span := r.tracer.Start(context.Background(), spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			r.name,
			attribute.String("statemachine.state", fmt.Sprint(s)),
		),
	)
	span.End()
}
