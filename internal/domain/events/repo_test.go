package events

import (
	"encoding/json"
	"testing"

	"github.com/kling-igor/gitops/internal/domain/status"
)

func TestNewStatusChangedEvent_Counts(t *testing.T) {
	tests := []struct {
		name          string
		descriptors   []status.FileChangeDescriptor
		wantStaged    int
		wantUnstaged  int
		wantUntracked int
		wantConflicts bool
	}{
		{
			name:        "clean tree",
			descriptors: nil,
		},
		{
			name: "untracked file",
			descriptors: []status.FileChangeDescriptor{
				{Path: "new.txt", IsNew: true},
			},
			wantUntracked: 1,
		},
		{
			name: "staged new file",
			descriptors: []status.FileChangeDescriptor{
				{Path: "new.txt", IsNew: true, InIndex: true},
			},
			wantStaged: 1,
		},
		{
			name: "modified unstaged",
			descriptors: []status.FileChangeDescriptor{
				{Path: "main.go", IsModified: true},
			},
			wantUnstaged: 1,
		},
		{
			name: "conflict counts as unstaged",
			descriptors: []status.FileChangeDescriptor{
				{Path: "merge.go", IsConflicted: true},
			},
			wantUnstaged:  1,
			wantConflicts: true,
		},
		{
			name: "ignored path not counted",
			descriptors: []status.FileChangeDescriptor{
				{Path: "build/out.bin", IsIgnored: true},
			},
		},
		{
			name: "mixed tree",
			descriptors: []status.FileChangeDescriptor{
				{Path: "a.go", IsModified: true, InIndex: true},
				{Path: "b.go", IsModified: true},
				{Path: "c.go", IsNew: true},
				{Path: "d.go", IsDeleted: true, InIndex: true},
			},
			wantStaged:    2,
			wantUnstaged:  1,
			wantUntracked: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewStatusChangedEvent("main", tt.descriptors)

			payload, ok := event.Payload.(StatusChangedPayload)
			if !ok {
				t.Fatalf("payload type = %T, want StatusChangedPayload", event.Payload)
			}

			if payload.StagedCount != tt.wantStaged {
				t.Errorf("staged_count = %d, want %d", payload.StagedCount, tt.wantStaged)
			}
			if payload.UnstagedCount != tt.wantUnstaged {
				t.Errorf("unstaged_count = %d, want %d", payload.UnstagedCount, tt.wantUnstaged)
			}
			if payload.UntrackedCount != tt.wantUntracked {
				t.Errorf("untracked_count = %d, want %d", payload.UntrackedCount, tt.wantUntracked)
			}
			if payload.HasConflicts != tt.wantConflicts {
				t.Errorf("has_conflicts = %v, want %v", payload.HasConflicts, tt.wantConflicts)
			}
			if len(payload.Entries) != len(tt.descriptors) {
				t.Errorf("entries length = %d, want %d", len(payload.Entries), len(tt.descriptors))
			}
		})
	}
}

func TestNewStatusChangedEvent_EntriesKeepOrder(t *testing.T) {
	descriptors := []status.FileChangeDescriptor{
		{Path: "z.go", IsModified: true},
		{Path: "a.go", IsNew: true},
	}

	event := NewStatusChangedEvent("dev", descriptors)
	payload := event.Payload.(StatusChangedPayload)

	if payload.Entries[0].Path != "z.go" || payload.Entries[1].Path != "a.go" {
		t.Errorf("entries re-ordered: %+v", payload.Entries)
	}
	if payload.Entries[0].Status != "M" {
		t.Errorf("entries[0].Status = %q, want M", payload.Entries[0].Status)
	}
}

func TestOperationCompletedPayload_JSON(t *testing.T) {
	payload := OperationCompletedPayload{
		Operation:  "commit",
		Success:    true,
		ResultID:   "abc1234",
		DurationMS: 12,
	}

	event := NewOperationCompletedEvent(payload)
	jsonBytes, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	payloadMap := parsed["payload"].(map[string]interface{})
	if payloadMap["operation"] != "commit" {
		t.Errorf("operation = %v, want commit", payloadMap["operation"])
	}
	if payloadMap["success"] != true {
		t.Errorf("success = %v, want true", payloadMap["success"])
	}
	if payloadMap["result_id"] != "abc1234" {
		t.Errorf("result_id = %v, want abc1234", payloadMap["result_id"])
	}
}
