// Package eventbus fans values out to in-process subscribers.
package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
)

// Bus is a type-safe publish/subscribe bus. Delivery never blocks the
// publisher: a subscriber whose buffer is full misses the value.
type Bus[T any] struct {
	mu      sync.RWMutex
	subs    map[chan T]struct{}
	buffer  int
	closed  bool
	dropped atomic.Uint64
}

// New creates a Bus whose subscribers buffer up to buffer values.
func New[T any](buffer int) *Bus[T] {
	if buffer <= 0 {
		buffer = 8
	}
	return &Bus[T]{subs: make(map[chan T]struct{}), buffer: buffer}
}

// Publish sends v to every subscriber and returns how many received it.
func (b *Bus[T]) Publish(v T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}
	n := 0
	for ch := range b.subs {
		select {
		case ch <- v:
			n++
		default:
			b.dropped.Add(1)
		}
	}
	return n
}

// Subscribe registers a subscriber. The channel is closed when ctx is done
// or the bus is closed.
func (b *Bus[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(ch)
	}()
	return ch
}

func (b *Bus[T]) remove(ch chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Subscribers returns the current number of subscribers.
func (b *Bus[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped counts values missed by slow subscribers.
func (b *Bus[T]) Dropped() uint64 { return b.dropped.Load() }

// Close closes every subscriber channel. Later publishes are ignored.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = map[chan T]struct{}{}
}
