package hub

import (
	"errors"
	"sync"
	"testing"

	"github.com/kling-igor/gitops/internal/domain"
	"github.com/kling-igor/gitops/internal/domain/events"
)

func TestChannelSubscriber_Send(t *testing.T) {
	sub := NewChannelSubscriber("chan-1", 4)

	if sub.ID() != "chan-1" {
		t.Errorf("ID() = %q, want chan-1", sub.ID())
	}

	event := events.NewEvent(events.EventTypeStatusChanged, nil)
	if err := sub.Send(event); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case received := <-sub.Events():
		if received.Type() != events.EventTypeStatusChanged {
			t.Errorf("received type = %v, want %v", received.Type(), events.EventTypeStatusChanged)
		}
	default:
		t.Error("expected an event on the channel")
	}
}

func TestChannelSubscriber_SendBufferFull(t *testing.T) {
	sub := NewChannelSubscriber("chan-1", 1)

	if err := sub.Send(events.NewEvent(events.EventTypeHeartbeat, nil)); err != nil {
		t.Fatalf("first Send() error = %v", err)
	}

	// Buffer of one is now full; the next send must fail instead of blocking.
	err := sub.Send(events.NewEvent(events.EventTypeHeartbeat, nil))
	if !errors.Is(err, domain.ErrSubscriberClosed) {
		t.Errorf("Send() on full buffer = %v, want ErrSubscriberClosed", err)
	}
}

func TestChannelSubscriber_SendAfterClose(t *testing.T) {
	sub := NewChannelSubscriber("chan-1", 4)
	_ = sub.Close()

	err := sub.Send(events.NewEvent(events.EventTypeHeartbeat, nil))
	if !errors.Is(err, domain.ErrSubscriberClosed) {
		t.Errorf("Send() after close = %v, want ErrSubscriberClosed", err)
	}
}

func TestChannelSubscriber_Close(t *testing.T) {
	sub := NewChannelSubscriber("chan-1", 4)

	if err := sub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case <-sub.Done():
	default:
		t.Error("Done() should be closed after Close()")
	}

	// Double close must be safe.
	if err := sub.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestChannelSubscriber_ConcurrentSendClose(t *testing.T) {
	sub := NewChannelSubscriber("chan-1", 8)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = sub.Send(events.NewEvent(events.EventTypeFileChanged, nil))
		}
	}()
	go func() {
		defer wg.Done()
		_ = sub.Close()
	}()

	// Must not panic on send-after-close races.
	wg.Wait()
}

func TestLogSubscriber_Send(t *testing.T) {
	var received []events.Event
	sub := NewLogSubscriber("log-1", func(event events.Event) {
		received = append(received, event)
	})

	if sub.ID() != "log-1" {
		t.Errorf("ID() = %q, want log-1", sub.ID())
	}

	_ = sub.Send(events.NewEvent(events.EventTypeStatusChanged, nil))
	_ = sub.Send(events.NewEvent(events.EventTypeFileChanged, nil))

	if len(received) != 2 {
		t.Fatalf("callback invoked %d times, want 2", len(received))
	}
	if received[0].Type() != events.EventTypeStatusChanged {
		t.Errorf("first event type = %v, want %v", received[0].Type(), events.EventTypeStatusChanged)
	}
}

func TestLogSubscriber_NilCallback(t *testing.T) {
	sub := NewLogSubscriber("log-1", nil)

	if err := sub.Send(events.NewEvent(events.EventTypeHeartbeat, nil)); err != nil {
		t.Errorf("Send() with nil callback error = %v", err)
	}
}

func TestLogSubscriber_SendAfterClose(t *testing.T) {
	sub := NewLogSubscriber("log-1", func(events.Event) {})
	_ = sub.Close()

	err := sub.Send(events.NewEvent(events.EventTypeHeartbeat, nil))
	if !errors.Is(err, domain.ErrSubscriberClosed) {
		t.Errorf("Send() after close = %v, want ErrSubscriberClosed", err)
	}
}
