// Package status classifies per-file change descriptors into compact
// status code strings.
package status

// FileChangeDescriptor is a per-file record of change flags produced by
// scanning a working tree against its staged and committed state. The
// flags are independent, not mutually exclusive: a file can be renamed,
// staged, and ignored at the same time, so the descriptor carries a set
// of booleans rather than a single status value.
type FileChangeDescriptor struct {
	Path         string `json:"path"`
	IsNew        bool   `json:"is_new"`
	IsModified   bool   `json:"is_modified"`
	IsRenamed    bool   `json:"is_renamed"`
	IsIgnored    bool   `json:"is_ignored"`
	IsDeleted    bool   `json:"is_deleted"`
	IsConflicted bool   `json:"is_conflicted"`
	InIndex      bool   `json:"in_index"`
}

// StatusEntry pairs a file path with its classified status code.
type StatusEntry struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// Classify maps a descriptor to its status code string. Flags are tested
// in a fixed order and contribute one character each:
//
//	IsNew        → A
//	IsModified   → M
//	IsRenamed    → R
//	IsIgnored    → ?
//	IsDeleted    → D
//	IsConflicted → C
//	InIndex      → I
//
// The order is stable so codes stay human-scannable: content changes
// (new/modified/renamed) come before meta state (ignored/deleted/
// conflicted/in-index), matching conventional short-status notations.
// A descriptor with no flags set yields the empty string. The function
// is pure and total over every flag combination.
func Classify(d FileChangeDescriptor) string {
	buf := make([]byte, 0, 7)
	if d.IsNew {
		buf = append(buf, 'A')
	}
	if d.IsModified {
		buf = append(buf, 'M')
	}
	if d.IsRenamed {
		buf = append(buf, 'R')
	}
	if d.IsIgnored {
		buf = append(buf, '?')
	}
	if d.IsDeleted {
		buf = append(buf, 'D')
	}
	if d.IsConflicted {
		buf = append(buf, 'C')
	}
	if d.InIndex {
		buf = append(buf, 'I')
	}
	return string(buf)
}

// Report classifies each descriptor in sequence. Output entries appear
// in exactly the input order; the caller's enumeration order (typically
// path-sorted by the engine's working-tree scan) is never re-sorted.
func Report(descriptors []FileChangeDescriptor) []StatusEntry {
	entries := make([]StatusEntry, 0, len(descriptors))
	for _, d := range descriptors {
		entries = append(entries, StatusEntry{Path: d.Path, Status: Classify(d)})
	}
	return entries
}
