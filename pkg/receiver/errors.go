package receiver

import "errors"

var (
	ErrNilRegisterer = errors.New("receiver: nil prometheus registerer")
	ErrNilTracer     = errors.New("receiver: nil tracer")
)
