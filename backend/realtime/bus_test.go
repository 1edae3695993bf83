package realtime

import (
	"context"
	"testing"
	"time"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
)

func receive(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestMemoryBusFansOut(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	a, cancelA, err := bus.Subscribe(context.Background())
	assert.NoError(t, err)
	defer cancelA()
	b, cancelB, err := bus.Subscribe(context.Background())
	assert.NoError(t, err)
	defer cancelB()

	ev := Event{CourseID: 7, Message: models.ChatMessage{Text: "hi"}}
	assert.NoError(t, bus.Publish(context.Background(), ev))

	assert.Equal(t, uint(7), receive(t, a).CourseID)
	assert.Equal(t, "hi", receive(t, b).Message.Text)
}

func TestMemoryBusCancelStopsDelivery(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	events, cancel, err := bus.Subscribe(context.Background())
	assert.NoError(t, err)

	cancel()
	// canceled subscription channel is closed
	_, open := <-events
	assert.False(t, open)

	// publishing after cancel must not panic or block
	assert.NoError(t, bus.Publish(context.Background(), Event{CourseID: 1}))
}

func TestMemoryBusCloseClosesSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	events, cancel, err := bus.Subscribe(context.Background())
	assert.NoError(t, err)
	defer cancel()

	assert.NoError(t, bus.Close())
	_, open := <-events
	assert.False(t, open)

	// double close and cancel-after-close are harmless
	assert.NoError(t, bus.Close())
	cancel()
}

func TestMemoryBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	events, cancel, err := bus.Subscribe(context.Background())
	assert.NoError(t, err)
	defer cancel()

	// overflow the buffer; Publish must never block
	for i := 0; i < 100; i++ {
		assert.NoError(t, bus.Publish(context.Background(), Event{CourseID: uint(i)}))
	}

	// the buffered prefix is still delivered in order
	assert.Equal(t, uint(0), receive(t, events).CourseID)
}
