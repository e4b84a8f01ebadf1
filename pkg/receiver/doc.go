// Package receiver provides statemachine.Receiver implementations for
// observing transitions: structured logging, Prometheus metrics, OpenTelemetry
// spans and an in-memory fan-out to subscriber channels.
//
// Receivers are called synchronously while the machine lock is held, so every
// implementation here returns quickly and never blocks on a consumer. Combine
// several with Multi or by passing them all to statemachine.WithReceiver:
//
//	m := statemachine.MustNew(unborn,
//	    statemachine.WithReceiver[phase](
//	        receiver.Slog[phase](log),
//	        receiver.MustPrometheus[phase](prometheus.DefaultRegisterer, "app", "worker"),
//	    ),
//	)
//
// The Broadcaster hands transitions to any number of goroutines:
//
//	b := receiver.NewBroadcaster[phase](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	for msg := range sub.Receive() {
//	    fmt.Println(msg.Seq, msg.State)
//	}
//
// A subscriber whose buffer is full misses the message and is dropped.
package receiver
