// Package realtime delivers chat messages to connected listeners. All
// courses share one bus channel; consumers filter by course id.
package realtime

import (
	"context"
	"sync"

	"project/backend/models"
)

// Event wraps a stored chat message for push delivery.
type Event struct {
	CourseID uint               `json:"course_id"`
	Message  models.ChatMessage `json:"message"`
}

// Bus fans chat events out to subscribers. Publish is best-effort:
// a failed delivery never rolls back the stored message.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe returns a channel of all events on the bus and a
	// cancel func that closes it.
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
	Close() error
}

// MemoryBus is the in-process Bus used when no Redis address is
// configured, and in tests.
type MemoryBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	closed bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]chan Event)}
}

func (b *MemoryBus) Publish(ctx context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default: // slow listener, drop rather than block the publisher
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 16)
	if b.closed {
		close(ch)
		return ch, func() {}, nil
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel, nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}
