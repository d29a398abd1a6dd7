package events

import (
	"github.com/kling-igor/gitops/internal/domain/status"
)

// StatusChangedPayload is the payload for status_changed events.
// Entries keep the scan's enumeration order.
type StatusChangedPayload struct {
	Branch         string               `json:"branch"`
	Entries        []status.StatusEntry `json:"entries"`
	StagedCount    int                  `json:"staged_count"`
	UnstagedCount  int                  `json:"unstaged_count"`
	UntrackedCount int                  `json:"untracked_count"`
	HasConflicts   bool                 `json:"has_conflicts"`
}

// NewStatusChangedEvent builds a status_changed event from a scan.
// Counts are derived from the descriptors: staged means in the index,
// untracked means new and not yet staged, unstaged covers the rest.
func NewStatusChangedEvent(branch string, descriptors []status.FileChangeDescriptor) *BaseEvent {
	payload := StatusChangedPayload{
		Branch:  branch,
		Entries: status.Report(descriptors),
	}
	for _, d := range descriptors {
		switch {
		case d.IsConflicted:
			payload.HasConflicts = true
			payload.UnstagedCount++
		case d.InIndex:
			payload.StagedCount++
		case d.IsNew:
			payload.UntrackedCount++
		case d.IsIgnored:
			// Ignored paths are informational only.
		default:
			payload.UnstagedCount++
		}
	}
	return NewEvent(EventTypeStatusChanged, payload)
}

// OperationCompletedPayload is the payload for operation_completed events.
type OperationCompletedPayload struct {
	Operation  string `json:"operation"` // init, clone, stage, commit, branch, tag, checkout
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	ResultID   string `json:"result_id,omitempty"` // commit/object identifier when produced
	Ref        string `json:"ref,omitempty"`       // branch or tag name when relevant
	DurationMS int64  `json:"duration_ms,omitempty"`
}

// NewOperationCompletedEvent creates a new operation_completed event.
func NewOperationCompletedEvent(payload OperationCompletedPayload) *BaseEvent {
	return NewEvent(EventTypeOperationCompleted, payload)
}
