package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/kling-igor/gitops/internal/domain/events"
	"github.com/kling-igor/gitops/internal/domain/ports"
	"github.com/kling-igor/gitops/internal/domain/status"
)

// --- MockSubscriber Tests ---

func TestNewMockSubscriber(t *testing.T) {
	sub := NewMockSubscriber("test-sub")

	if sub.ID() != "test-sub" {
		t.Errorf("expected ID test-sub, got %s", sub.ID())
	}
	if sub.EventCount() != 0 {
		t.Errorf("expected 0 events, got %d", sub.EventCount())
	}
	if sub.IsClosed() {
		t.Error("expected subscriber to not be closed initially")
	}
}

func TestMockSubscriber_Send(t *testing.T) {
	sub := NewMockSubscriber("test-sub")

	event := events.NewEvent(events.EventTypeHeartbeat, nil)
	err := sub.Send(event)

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if sub.EventCount() != 1 {
		t.Errorf("expected 1 event, got %d", sub.EventCount())
	}

	evts := sub.Events()
	if len(evts) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evts))
	}
	if evts[0].Type() != events.EventTypeHeartbeat {
		t.Errorf("expected heartbeat event, got %s", evts[0].Type())
	}
}

func TestMockSubscriber_SendWithError(t *testing.T) {
	sub := NewMockSubscriber("test-sub")
	expectedErr := errors.New("send failed")
	sub.SetSendError(expectedErr)

	event := events.NewEvent(events.EventTypeHeartbeat, nil)
	err := sub.Send(event)

	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	// Event should not be recorded when error occurs
	if sub.EventCount() != 0 {
		t.Errorf("expected 0 events when error, got %d", sub.EventCount())
	}
}

func TestMockSubscriber_Close(t *testing.T) {
	sub := NewMockSubscriber("test-sub")

	if err := sub.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !sub.IsClosed() {
		t.Error("expected subscriber to be closed")
	}

	// Second close should be safe
	if err := sub.Close(); err != nil {
		t.Errorf("unexpected error on second close: %v", err)
	}

	select {
	case <-sub.Done():
	default:
		t.Error("Done channel should be closed after Close()")
	}
}

func TestMockSubscriber_ClearEvents(t *testing.T) {
	sub := NewMockSubscriber("test-sub")

	_ = sub.Send(events.NewEvent(events.EventTypeStatusChanged, nil))
	_ = sub.Send(events.NewEvent(events.EventTypeFileChanged, nil))

	if sub.EventCount() != 2 {
		t.Fatalf("expected 2 events, got %d", sub.EventCount())
	}

	sub.ClearEvents()

	if sub.EventCount() != 0 {
		t.Errorf("expected 0 events after clear, got %d", sub.EventCount())
	}
}

// --- MockEventHub Tests ---

func TestMockEventHub_StartStop(t *testing.T) {
	h := NewMockEventHub()

	if h.IsRunning() {
		t.Error("hub should not be running initially")
	}

	_ = h.Start()
	if !h.IsRunning() {
		t.Error("hub should be running after Start()")
	}

	_ = h.Stop()
	if h.IsRunning() {
		t.Error("hub should not be running after Stop()")
	}
}

func TestMockEventHub_Publish(t *testing.T) {
	h := NewMockEventHub()

	h.Publish(events.NewEvent(events.EventTypeStatusChanged, nil))
	h.Publish(events.NewEvent(events.EventTypeFileChanged, nil))

	published := h.PublishedEvents()
	if len(published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(published))
	}
	if published[0].Type() != events.EventTypeStatusChanged {
		t.Errorf("expected status_changed, got %s", published[0].Type())
	}
	if published[1].Type() != events.EventTypeFileChanged {
		t.Errorf("expected file_changed, got %s", published[1].Type())
	}
}

func TestMockEventHub_SubscribeUnsubscribe(t *testing.T) {
	h := NewMockEventHub()

	h.Subscribe(NewMockSubscriber("a"))
	h.Subscribe(NewMockSubscriber("b"))

	if h.SubscriberCount() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", h.SubscriberCount())
	}

	h.Unsubscribe("a")

	if h.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber after unsubscribe, got %d", h.SubscriberCount())
	}
}

// --- MockEngine Tests ---

func TestMockEngine_ScanFiltersIgnored(t *testing.T) {
	eng := NewMockEngine("/tmp/repo")
	eng.Descriptors = []status.FileChangeDescriptor{
		{Path: "main.go", IsModified: true},
		{Path: "build/out.bin", IsIgnored: true},
	}

	ctx := context.Background()

	without, err := eng.Scan(ctx, ports.ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(without) != 1 {
		t.Errorf("expected 1 descriptor without ignored, got %d", len(without))
	}

	with, err := eng.Scan(ctx, ports.ScanOptions{IncludeIgnored: true})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(with) != 2 {
		t.Errorf("expected 2 descriptors with ignored, got %d", len(with))
	}
}

func TestMockEngine_RecordsMutations(t *testing.T) {
	eng := NewMockEngine("/tmp/repo")

	if err := eng.Stage("a.txt"); err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if _, err := eng.Commit(context.Background(), "add a", ports.Signature{Name: "t", Email: "t@example.com"}); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := eng.Checkout("dev", false); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if len(eng.StagedPaths) != 1 || eng.StagedPaths[0] != "a.txt" {
		t.Errorf("StagedPaths = %v, want [a.txt]", eng.StagedPaths)
	}
	if len(eng.CommitCalls) != 1 || eng.CommitCalls[0] != "add a" {
		t.Errorf("CommitCalls = %v, want [add a]", eng.CommitCalls)
	}
	if eng.CheckedOut != "dev" {
		t.Errorf("CheckedOut = %q, want dev", eng.CheckedOut)
	}
	if branch, _ := eng.HeadBranch(); branch != "dev" {
		t.Errorf("HeadBranch() = %q, want dev after checkout", branch)
	}
}

// --- Assertion helper smoke tests ---

func TestAssertHelpers(t *testing.T) {
	AssertEqual(t, 1, 1, "equal ints")
	AssertTrue(t, true, "true")
	AssertFalse(t, false, "false")
	AssertNoError(t, nil, "no error")
	AssertError(t, errors.New("x"), "error present")
}
