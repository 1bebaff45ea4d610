// Package events provides the broadcast event channel for site-session
// observers. The request pipeline emits one event on JSON-request failure
// and one on successful JSON processing, plus one per
// emitted notification. All events are fire-and-forget: no subscriber
// acknowledgment, and a subscriber that falls behind loses events rather
// than blocking the pipeline.
package events

import (
	"encoding/json"
	"sync"
	"time"
)

// Event type names.
const (
	TypeRequestFailed   = "request:failed"
	TypeResponseHandled = "response:handled"
	TypeNotification    = "notification"
)

// Event is a single broadcast event.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// RequestFailed is the payload for TypeRequestFailed.
type RequestFailed struct {
	RequestID string `json:"request_id"`
	URL       string `json:"url"`
	Method    string `json:"method"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
}

// ResponseHandled is the payload for TypeResponseHandled.
type ResponseHandled struct {
	RequestID    string          `json:"request_id"`
	URL          string          `json:"url"`
	Method       string          `json:"method"`
	ResponseType string          `json:"response_type"`
	Body         json.RawMessage `json:"body,omitempty"`
}

// NotificationShown is the payload for TypeNotification.
type NotificationShown struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

const subscriberBuffer = 16

// Bus is an in-process publish/subscribe channel.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber and returns its channel together with
// an unsubscribe function. The channel is closed on unsubscribe.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
	return ch, unsubscribe
}

// Publish delivers the event to every subscriber without blocking. A full
// subscriber buffer drops the event for that subscriber only.
func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
