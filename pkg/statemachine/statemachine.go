package statemachine

// Receiver is notified synchronously after every transition with the new
// state. Receive runs while the machine lock is held: it must not call back
// into the same machine and must not block for long.
type Receiver[S comparable] interface {
	Receive(state S)
}

// ReceiverFunc adapts a function to Receiver.
type ReceiverFunc[S comparable] func(state S)

func (f ReceiverFunc[S]) Receive(state S) {
	f(state)
}

// StringState is a ready-made state type for simple machines.
type StringState string

func (s StringState) String() string {
	return string(s)
}
