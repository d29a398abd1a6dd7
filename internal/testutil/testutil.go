// Package testutil provides shared test utilities and mocks for gitops tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/kling-igor/gitops/internal/domain/events"
	"github.com/kling-igor/gitops/internal/domain/ports"
	"github.com/kling-igor/gitops/internal/domain/status"
)

// MockSubscriber implements ports.Subscriber for testing.
type MockSubscriber struct {
	id       string
	events   []events.Event
	mu       sync.Mutex
	closed   bool
	sendErr  error
	sendFunc func(events.Event) error
	done     chan struct{}
}

// NewMockSubscriber creates a new mock subscriber.
func NewMockSubscriber(id string) *MockSubscriber {
	return &MockSubscriber{
		id:     id,
		events: make([]events.Event, 0),
		done:   make(chan struct{}),
	}
}

// ID returns the subscriber ID.
func (m *MockSubscriber) ID() string {
	return m.id
}

// Send records the event and returns any configured error.
func (m *MockSubscriber) Send(e events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendFunc != nil {
		return m.sendFunc(e)
	}

	if m.sendErr != nil {
		return m.sendErr
	}

	m.events = append(m.events, e)
	return nil
}

// Close marks the subscriber as closed.
func (m *MockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

// Done returns a channel that's closed when the subscriber is done.
func (m *MockSubscriber) Done() <-chan struct{} {
	return m.done
}

// Events returns all received events.
func (m *MockSubscriber) Events() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]events.Event, len(m.events))
	copy(result, m.events)
	return result
}

// EventCount returns the number of received events.
func (m *MockSubscriber) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// IsClosed returns whether the subscriber was closed.
func (m *MockSubscriber) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SetSendError configures an error to return on Send.
func (m *MockSubscriber) SetSendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// SetSendFunc sets a custom function for Send behavior.
func (m *MockSubscriber) SetSendFunc(fn func(events.Event) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// ClearEvents removes all recorded events.
func (m *MockSubscriber) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = m.events[:0]
}

// Ensure MockSubscriber implements ports.Subscriber.
var _ ports.Subscriber = (*MockSubscriber)(nil)

// MockEventHub implements ports.EventHub for testing.
type MockEventHub struct {
	events      []events.Event
	subscribers []ports.Subscriber
	mu          sync.Mutex
	started     bool
	stopped     bool
}

// NewMockEventHub creates a new mock event hub.
func NewMockEventHub() *MockEventHub {
	return &MockEventHub{
		events:      make([]events.Event, 0),
		subscribers: make([]ports.Subscriber, 0),
	}
}

// Start marks the hub as started.
func (m *MockEventHub) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	return nil
}

// Stop marks the hub as stopped.
func (m *MockEventHub) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

// Publish records the event.
func (m *MockEventHub) Publish(e events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Subscribe records the subscriber.
func (m *MockEventHub) Subscribe(sub ports.Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, sub)
}

// Unsubscribe removes a subscriber by ID.
func (m *MockEventHub) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, sub := range m.subscribers {
		if sub.ID() == id {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of subscribers.
func (m *MockEventHub) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

// IsRunning returns true if the hub was started and not stopped.
func (m *MockEventHub) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started && !m.stopped
}

// PublishedEvents returns all published events.
func (m *MockEventHub) PublishedEvents() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]events.Event, len(m.events))
	copy(result, m.events)
	return result
}

// Ensure MockEventHub implements ports.EventHub.
var _ ports.EventHub = (*MockEventHub)(nil)

// MockEngine implements ports.Engine for testing. Fields prime the
// responses; mutating calls record what they were asked to do.
type MockEngine struct {
	mu sync.Mutex

	RepoPath    string
	Branch      string
	BranchErr   error
	Descriptors []status.FileChangeDescriptor
	ScanErr     error

	StagedPaths  []string
	StagedAll    bool
	StageErr     error
	TreeID       string
	TreeErr      error
	CommitResult ports.CommitResult
	CommitErr    error
	CommitCalls  []string

	Refs   map[string]string
	RefErr error
	Tags   []string
	TagErr error
	TagOps []string

	Branches  []ports.BranchInfo
	BranchOps []string

	CheckedOut  string
	CheckoutErr error

	LogEntries []ports.LogEntry
	LogErr     error
}

// NewMockEngine creates a mock engine rooted at path on branch main.
func NewMockEngine(path string) *MockEngine {
	return &MockEngine{
		RepoPath: path,
		Branch:   "main",
		Refs:     make(map[string]string),
	}
}

func (m *MockEngine) Path() string { return m.RepoPath }

func (m *MockEngine) HeadBranch() (string, error) {
	if m.BranchErr != nil {
		return "", m.BranchErr
	}
	return m.Branch, nil
}

func (m *MockEngine) Scan(ctx context.Context, opts ports.ScanOptions) ([]status.FileChangeDescriptor, error) {
	if m.ScanErr != nil {
		return nil, m.ScanErr
	}
	if opts.IncludeIgnored {
		return m.Descriptors, nil
	}
	out := make([]status.FileChangeDescriptor, 0, len(m.Descriptors))
	for _, d := range m.Descriptors {
		if d.IsIgnored && !d.InIndex && !d.IsModified && !d.IsDeleted {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *MockEngine) Stage(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StageErr != nil {
		return m.StageErr
	}
	m.StagedPaths = append(m.StagedPaths, path)
	return nil
}

func (m *MockEngine) StageAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StageErr != nil {
		return m.StageErr
	}
	m.StagedAll = true
	return nil
}

func (m *MockEngine) WriteTree() (string, error) {
	if m.TreeErr != nil {
		return "", m.TreeErr
	}
	return m.TreeID, nil
}

func (m *MockEngine) Commit(ctx context.Context, message string, sig ports.Signature) (ports.CommitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CommitErr != nil {
		return ports.CommitResult{}, m.CommitErr
	}
	m.CommitCalls = append(m.CommitCalls, message)
	result := m.CommitResult
	if result.Message == "" {
		result.Message = message
	}
	return result, nil
}

func (m *MockEngine) ResolveReference(name string) (string, error) {
	if m.RefErr != nil {
		return "", m.RefErr
	}
	if id, ok := m.Refs[name]; ok {
		return id, nil
	}
	return "", fmt.Errorf("mock: unknown reference %q", name)
}

func (m *MockEngine) CreateTag(name, revision, message string, tagger ports.Signature) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TagErr != nil {
		return m.TagErr
	}
	m.Tags = append(m.Tags, name)
	m.TagOps = append(m.TagOps, "create:"+name)
	return nil
}

func (m *MockEngine) DeleteTag(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TagErr != nil {
		return m.TagErr
	}
	m.TagOps = append(m.TagOps, "delete:"+name)
	return nil
}

func (m *MockEngine) ListTags() ([]string, error) {
	if m.TagErr != nil {
		return nil, m.TagErr
	}
	return m.Tags, nil
}

func (m *MockEngine) CreateBranch(name, revision string, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BranchOps = append(m.BranchOps, fmt.Sprintf("create:%s:%v", name, overwrite))
	return nil
}

func (m *MockEngine) DeleteBranch(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BranchOps = append(m.BranchOps, "delete:"+name)
	return nil
}

func (m *MockEngine) ListBranches() ([]ports.BranchInfo, error) {
	return m.Branches, nil
}

func (m *MockEngine) Checkout(branch string, discard bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CheckoutErr != nil {
		return m.CheckoutErr
	}
	m.CheckedOut = branch
	m.Branch = branch
	return nil
}

func (m *MockEngine) Log(ctx context.Context, limit int) ([]ports.LogEntry, error) {
	if m.LogErr != nil {
		return nil, m.LogErr
	}
	if limit > 0 && limit < len(m.LogEntries) {
		return m.LogEntries[:limit], nil
	}
	return m.LogEntries, nil
}

// Ensure MockEngine implements ports.Engine.
var _ ports.Engine = (*MockEngine)(nil)

// AssertEqual is a simple equality assertion helper.
func AssertEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertTrue asserts that a condition is true.
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Errorf("%s: expected true, got false", msg)
	}
}

// AssertFalse asserts that a condition is false.
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Errorf("%s: expected false, got true", msg)
	}
}

// AssertNoError asserts that an error is nil.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", msg, err)
	}
}

// AssertError asserts that an error is not nil.
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error, got nil", msg)
	}
}
