package events

import (
	"log/slog"
	"sync"
)

// defaultBuffer is the per-subscriber channel depth. A slow subscriber
// drops events rather than blocking the runner.
const defaultBuffer = 256

// Bus is an in-process fan-out of run events.
type Bus struct {
	mu     sync.Mutex
	subs   []chan Event
	closed bool
}

// NewBus creates an event bus with no subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new subscriber and returns its channel. The channel
// is closed when the bus closes.
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, defaultBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers the event to every subscriber. Events to a full
// subscriber queue are dropped; the run result is the source of truth,
// the bus only drives live views.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			slog.Debug("dropping event for slow subscriber",
				"event_type", event.Type, "job", event.Job)
		}
	}
}

// Close closes all subscriber channels. Publish becomes a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

// PublishTo is a nil-safe publish helper for callers holding a Publisher
// that may be nil (e.g., a run without observers).
func PublishTo(pub Publisher, event Event) {
	if pub == nil {
		return
	}
	pub.Publish(event)
}
