package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/kling-igor/gitops/internal/domain/events"
)

func TestMergeChangeTypes(t *testing.T) {
	tests := []struct {
		name     string
		existing events.FileChangeType
		incoming events.FileChangeType
		want     events.FileChangeType
	}{
		{"delete wins over create", events.FileChangeCreated, events.FileChangeDeleted, events.FileChangeDeleted},
		{"delete wins over modify", events.FileChangeModified, events.FileChangeDeleted, events.FileChangeDeleted},
		{"create absorbs modify", events.FileChangeCreated, events.FileChangeModified, events.FileChangeCreated},
		{"modify then modify", events.FileChangeModified, events.FileChangeModified, events.FileChangeModified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeChangeTypes(tt.existing, tt.incoming); got != tt.want {
				t.Errorf("mergeChangeTypes(%s, %s) = %s, want %s", tt.existing, tt.incoming, got, tt.want)
			}
		})
	}
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	var mu sync.Mutex
	var fired []events.FileChangeType

	d := NewDebouncer(20*time.Millisecond, func(path string, changeType events.FileChangeType) {
		mu.Lock()
		fired = append(fired, changeType)
		mu.Unlock()
	})
	defer d.Stop()

	d.Add("file.txt", events.FileChangeCreated)
	d.Add("file.txt", events.FileChangeModified)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 {
		t.Fatalf("callback fired %d times, want 1", len(fired))
	}
	if fired[0] != events.FileChangeCreated {
		t.Errorf("merged change = %s, want %s", fired[0], events.FileChangeCreated)
	}
}

func TestDebouncerStopSuppressesPending(t *testing.T) {
	var mu sync.Mutex
	count := 0

	d := NewDebouncer(20*time.Millisecond, func(string, events.FileChangeType) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	d.Add("file.txt", events.FileChangeModified)
	d.Stop()
	d.Add("other.txt", events.FileChangeCreated)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("callback fired %d times after Stop, want 0", count)
	}
}
