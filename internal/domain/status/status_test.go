package status

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		desc FileChangeDescriptor
		want string
	}{
		{
			name: "no flags set",
			desc: FileChangeDescriptor{Path: "a.txt"},
			want: "",
		},
		{
			name: "new only",
			desc: FileChangeDescriptor{IsNew: true},
			want: "A",
		},
		{
			name: "modified only",
			desc: FileChangeDescriptor{IsModified: true},
			want: "M",
		},
		{
			name: "renamed only",
			desc: FileChangeDescriptor{IsRenamed: true},
			want: "R",
		},
		{
			name: "ignored only",
			desc: FileChangeDescriptor{IsIgnored: true},
			want: "?",
		},
		{
			name: "deleted only",
			desc: FileChangeDescriptor{IsDeleted: true},
			want: "D",
		},
		{
			name: "conflicted only",
			desc: FileChangeDescriptor{IsConflicted: true},
			want: "C",
		},
		{
			name: "in index only",
			desc: FileChangeDescriptor{InIndex: true},
			want: "I",
		},
		{
			name: "new modified staged keeps declaration order",
			desc: FileChangeDescriptor{IsNew: true, IsModified: true, InIndex: true},
			want: "AMI",
		},
		{
			name: "all flags set",
			desc: FileChangeDescriptor{
				IsNew:        true,
				IsModified:   true,
				IsRenamed:    true,
				IsIgnored:    true,
				IsDeleted:    true,
				IsConflicted: true,
				InIndex:      true,
			},
			want: "AMR?DCI",
		},
		{
			name: "deleted conflicted",
			desc: FileChangeDescriptor{IsDeleted: true, IsConflicted: true},
			want: "DC",
		},
		{
			name: "renamed staged ignored",
			desc: FileChangeDescriptor{IsRenamed: true, IsIgnored: true, InIndex: true},
			want: "R?I",
		},
		{
			name: "modified unstaged",
			desc: FileChangeDescriptor{Path: "src/main.go", IsModified: true},
			want: "M",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.desc)
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	desc := FileChangeDescriptor{
		Path:       "pkg/io/file.go",
		IsNew:      true,
		IsModified: true,
		InIndex:    true,
	}

	first := Classify(desc)
	second := Classify(desc)

	if first != second {
		t.Errorf("Classify() not idempotent: first %q, second %q", first, second)
	}
	if first != "AMI" {
		t.Errorf("Classify() = %q, want %q", first, "AMI")
	}
}

func TestClassifyTotalOverAllCombinations(t *testing.T) {
	// Every one of the 2^7 flag combinations must classify without
	// surprises: the result length equals the number of set flags.
	for mask := 0; mask < 1<<7; mask++ {
		desc := FileChangeDescriptor{
			IsNew:        mask&(1<<0) != 0,
			IsModified:   mask&(1<<1) != 0,
			IsRenamed:    mask&(1<<2) != 0,
			IsIgnored:    mask&(1<<3) != 0,
			IsDeleted:    mask&(1<<4) != 0,
			IsConflicted: mask&(1<<5) != 0,
			InIndex:      mask&(1<<6) != 0,
		}

		setBits := 0
		for m := mask; m != 0; m >>= 1 {
			setBits += m & 1
		}

		got := Classify(desc)
		if len(got) != setBits {
			t.Errorf("mask %07b: Classify() = %q (len %d), want %d code characters", mask, got, len(got), setBits)
		}
	}
}

func TestReport(t *testing.T) {
	descriptors := []FileChangeDescriptor{
		{Path: "zebra.txt", IsNew: true},
		{Path: "alpha.txt", IsModified: true, InIndex: true},
		{Path: "mid.txt", IsDeleted: true},
	}

	entries := Report(descriptors)

	if len(entries) != 3 {
		t.Fatalf("Report() returned %d entries, want 3", len(entries))
	}

	want := []StatusEntry{
		{Path: "zebra.txt", Status: "A"},
		{Path: "alpha.txt", Status: "MI"},
		{Path: "mid.txt", Status: "D"},
	}
	for i, entry := range entries {
		if entry != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entry, want[i])
		}
	}
}

func TestReportPreservesInputOrder(t *testing.T) {
	// Input deliberately not path-sorted; Report must not re-sort.
	descriptors := []FileChangeDescriptor{
		{Path: "c.txt", IsModified: true},
		{Path: "a.txt", IsNew: true},
		{Path: "b.txt", IsConflicted: true},
	}

	entries := Report(descriptors)

	wantOrder := []string{"c.txt", "a.txt", "b.txt"}
	for i, entry := range entries {
		if entry.Path != wantOrder[i] {
			t.Errorf("entry %d path = %q, want %q", i, entry.Path, wantOrder[i])
		}
	}
}

func TestReportEmptyInput(t *testing.T) {
	if entries := Report(nil); len(entries) != 0 {
		t.Errorf("Report(nil) returned %d entries, want 0", len(entries))
	}
	if entries := Report([]FileChangeDescriptor{}); len(entries) != 0 {
		t.Errorf("Report(empty) returned %d entries, want 0", len(entries))
	}
}
