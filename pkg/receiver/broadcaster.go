package receiver

import (
	"context"
	"sync"
	"time"
)

// Message is one transition delivered to subscribers.
type Message[S comparable] struct {
	State S
	Seq   uint64
	At    time.Time
}

// Subscriber receives transitions from a Broadcaster.
type Subscriber[S comparable] interface {
	// Receive returns the delivery channel. It is closed when the subscriber
	// is closed, dropped as slow, or the broadcaster is closed.
	Receive() <-chan Message[S]

	// Close is idempotent.
	Close() error
}

type subscriber[S comparable] struct {
	ch     chan Message[S]
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[S comparable](bufferSize int) *subscriber[S] {
	return &subscriber[S]{ch: make(chan Message[S], bufferSize)}
}

func (s *subscriber[S]) Receive() <-chan Message[S] {
	return s.ch
}

func (s *subscriber[S]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *subscriber[S]) send(msg Message[S]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// Broadcaster fans transitions out to subscriber channels. A subscriber whose
// buffer is full misses the message and is removed; Receive never blocks.
// All methods are safe for concurrent use.
type Broadcaster[S comparable] struct {
	subscribers map[*subscriber[S]]struct{}
	bufferSize  int
	seq         uint64
	closed      bool
	done        chan struct{}
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

// NewBroadcaster creates a Broadcaster with the given per-subscriber buffer.
// The buffer is at least 1.
func NewBroadcaster[S comparable](bufferSize int) *Broadcaster[S] {
	return &Broadcaster[S]{
		subscribers: make(map[*subscriber[S]]struct{}),
		bufferSize:  max(bufferSize, 1),
		done:        make(chan struct{}),
	}
}

// Subscribe registers a subscriber that is removed when ctx is done. After
// Close it returns an already closed subscriber.
func (b *Broadcaster[S]) Subscribe(ctx context.Context) Subscriber[S] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber[S](b.bufferSize)
	if b.closed {
		_ = sub.Close()
		return sub
	}
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			select {
			case <-ctx.Done():
				b.unsubscribe(sub)
			case <-b.done:
			}
		}()
	}

	return sub
}

// Receive delivers s to every subscriber without blocking.
func (b *Broadcaster[S]) Receive(s S) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.seq++
	msg := Message[S]{State: s, Seq: b.seq, At: time.Now()}
	for sub := range b.subscribers {
		if !sub.send(msg) {
			delete(b.subscribers, sub)
			_ = sub.Close()
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broadcaster[S]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber. It is safe to call more than once.
func (b *Broadcaster[S]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	for sub := range b.subscribers {
		_ = sub.Close()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	b.cleanupWg.Wait()
	return nil
}

func (b *Broadcaster[S]) unsubscribe(sub *subscriber[S]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	_ = sub.Close()
}
