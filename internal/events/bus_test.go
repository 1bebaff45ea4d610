package events

import (
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	bus.Publish(Event{Type: TypeRequestFailed, Data: RequestFailed{Status: 500, Error: "boom"}})

	select {
	case event := <-ch:
		if event.Type != TypeRequestFailed {
			t.Errorf("type = %q, want %q", event.Type, TypeRequestFailed)
		}
		if event.Timestamp.IsZero() {
			t.Error("expected timestamp to be stamped on publish")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusEventOrdering(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	bus.Publish(Event{Type: "first"})
	bus.Publish(Event{Type: "second"})

	if got := (<-ch).Type; got != "first" {
		t.Errorf("first event type = %q", got)
	}
	if got := (<-ch).Type; got != "second" {
		t.Errorf("second event type = %q", got)
	}
}

func TestBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	_, unsubscribe := bus.Subscribe() // never drained
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*4; i++ {
			bus.Publish(Event{Type: "flood"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()

	if bus.SubscriberCount() != 1 {
		t.Fatalf("subscriber count = %d, want 1", bus.SubscriberCount())
	}

	unsubscribe()
	unsubscribe() // idempotent

	if bus.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d, want 0", bus.SubscriberCount())
	}
	if _, open := <-ch; open {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestBusMultipleSubscribersAllReceive(t *testing.T) {
	bus := NewBus()
	a, ua := bus.Subscribe()
	b, ub := bus.Subscribe()
	defer ua()
	defer ub()

	bus.Publish(Event{Type: TypeNotification, Data: NotificationShown{Message: "hi", Severity: "info"}})

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		select {
		case event := <-ch:
			if event.Type != TypeNotification {
				t.Errorf("subscriber %s: type = %q", name, event.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s did not receive event", name)
		}
	}
}
