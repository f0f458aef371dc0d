package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	bus := New[string](1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := bus.Subscribe(ctx)

	assert.Equal(t, 1, bus.Publish("hello"))
	assert.Equal(t, "hello", <-ch)
}

func TestSlowSubscriberDrops(t *testing.T) {
	bus := New[int](1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := bus.Subscribe(ctx)

	bus.Publish(1)
	assert.Equal(t, 0, bus.Publish(2))
	assert.Equal(t, uint64(1), bus.Dropped())
	assert.Equal(t, 1, <-ch)
}

func TestContextCancelUnsubscribes(t *testing.T) {
	bus := New[int](0)
	ctx, cancel := context.WithCancel(context.Background())
	ch := bus.Subscribe(ctx)
	require.Equal(t, 1, bus.Subscribers())

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
	assert.Equal(t, 0, bus.Subscribers())
}

func TestClose(t *testing.T) {
	bus := New[int](0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch1 := bus.Subscribe(ctx)
	ch2 := bus.Subscribe(ctx)
	bus.Close()
	bus.Close()

	_, ok := <-ch1
	assert.False(t, ok)
	_, ok = <-ch2
	assert.False(t, ok)
	assert.Equal(t, 0, bus.Publish(1))

	late := bus.Subscribe(ctx)
	_, ok = <-late
	assert.False(t, ok, "subscribing to a closed bus yields a closed channel")
}
