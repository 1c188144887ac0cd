// Package bus is the in-process realtime fan-out channel. Handlers publish a
// domain-change event after a committed mutation; every live realtime
// connection receives it and filters by its own organization.
//
// Delivery is at-most-once and lossy: a subscriber that falls behind its
// buffer misses the overflowed events with no acknowledgment, replay or
// persistence. Clients reconcile through an ordinary re-fetch, never through
// the event stream alone.
//
// The bus only exists where requests share a process. A deployment that
// serves each request in a stateless isolate has no cross-request memory to
// hold it; such a deployment must either omit realtime fan-out or delegate to
// an external pub/sub rather than degrade silently.
package bus

import (
	"context"
	"sync"

	"tracklog.org/internal/obs"
)

// Event is one domain change, scoped to a single organization.
type Event struct {
	OrganizationID int64  `json:"organization_id"`
	Event          string `json:"event"`
	Payload        any    `json:"payload"`
}

// DefaultCapacity is the per-subscriber buffer when none is configured.
const DefaultCapacity = 16

// Bus fans events out to all active subscribers.
type Bus struct {
	mu       sync.RWMutex
	subs     map[int]chan Event
	next     int
	capacity int
}

// New initialises an empty bus. capacity bounds each subscriber's buffer.
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		subs:     make(map[int]chan Event),
		capacity: capacity,
	}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (b *Bus) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, b.capacity)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}

// Publish fans the event out to all subscribers. It never blocks: a
// subscriber with a full buffer misses the event.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obs.EventPublished(evt.Event)
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			obs.EventDropped()
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
