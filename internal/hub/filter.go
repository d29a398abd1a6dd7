package hub

import (
	"sync"

	"github.com/kling-igor/gitops/internal/domain/events"
	"github.com/kling-igor/gitops/internal/domain/ports"
)

// FilteredSubscriber wraps a subscriber and filters events by type.
// With no types subscribed, all events are forwarded, so wrapping a
// subscriber is behavior-preserving until a filter is installed.
type FilteredSubscriber struct {
	inner ports.Subscriber
	types map[events.EventType]bool
	mu    sync.RWMutex
}

// NewFilteredSubscriber creates a new filtered subscriber wrapping the given subscriber.
func NewFilteredSubscriber(inner ports.Subscriber) *FilteredSubscriber {
	return &FilteredSubscriber{
		inner: inner,
		types: make(map[events.EventType]bool),
	}
}

// ID returns the subscriber's unique identifier.
func (f *FilteredSubscriber) ID() string {
	return f.inner.ID()
}

// Send forwards the event to the subscriber if it passes the filter.
func (f *FilteredSubscriber) Send(event events.Event) error {
	if !f.shouldForward(event) {
		return nil
	}
	return f.inner.Send(event)
}

// Close closes the subscriber.
func (f *FilteredSubscriber) Close() error {
	return f.inner.Close()
}

// Done returns a channel that's closed when the subscriber is done.
func (f *FilteredSubscriber) Done() <-chan struct{} {
	return f.inner.Done()
}

// SubscribeType adds an event type to the filter.
func (f *FilteredSubscriber) SubscribeType(eventType events.EventType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types[eventType] = true
}

// UnsubscribeType removes an event type from the filter.
func (f *FilteredSubscriber) UnsubscribeType(eventType events.EventType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.types, eventType)
}

// SubscribeAll clears the filter, forwarding all events (default behavior).
func (f *FilteredSubscriber) SubscribeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = make(map[events.EventType]bool)
}

// IsFiltering returns true if the subscriber filters by event type.
func (f *FilteredSubscriber) IsFiltering() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.types) > 0
}

// shouldForward determines if an event should be forwarded to the subscriber.
func (f *FilteredSubscriber) shouldForward(event events.Event) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.types) == 0 {
		return true
	}
	return f.types[event.Type()]
}
