package events

import (
	"encoding/json"
	"testing"
)

func TestNewFileChangedEvent(t *testing.T) {
	event := NewFileChangedEvent("src/main.go", FileChangeModified, 1024)

	if event.Type() != EventTypeFileChanged {
		t.Errorf("Type() = %v, want %v", event.Type(), EventTypeFileChanged)
	}

	payload, ok := event.Payload.(FileChangedPayload)
	if !ok {
		t.Fatalf("payload type = %T, want FileChangedPayload", event.Payload)
	}
	if payload.Path != "src/main.go" {
		t.Errorf("path = %q, want src/main.go", payload.Path)
	}
	if payload.Change != FileChangeModified {
		t.Errorf("change = %v, want %v", payload.Change, FileChangeModified)
	}
	if payload.Size != 1024 {
		t.Errorf("size = %d, want 1024", payload.Size)
	}
}

func TestNewFileRenamedEvent(t *testing.T) {
	event := NewFileRenamedEvent("old.go", "new.go")

	jsonBytes, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var parsed struct {
		Payload struct {
			Path    string `json:"path"`
			Change  string `json:"change"`
			OldPath string `json:"old_path"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if parsed.Payload.Path != "new.go" {
		t.Errorf("path = %q, want new.go", parsed.Payload.Path)
	}
	if parsed.Payload.OldPath != "old.go" {
		t.Errorf("old_path = %q, want old.go", parsed.Payload.OldPath)
	}
	if parsed.Payload.Change != string(FileChangeRenamed) {
		t.Errorf("change = %q, want %q", parsed.Payload.Change, FileChangeRenamed)
	}
}
