package ports

import (
	"context"
	"io"
	"time"

	"github.com/kling-igor/gitops/internal/domain/status"
)

// Signature identifies the author or committer of a commit or tag.
// A zero When means "now".
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// CommitResult describes a commit created through the engine.
type CommitResult struct {
	ID      string `json:"id"`
	TreeID  string `json:"tree_id"`
	Message string `json:"message"`
}

// BranchInfo describes a local branch.
type BranchInfo struct {
	Name string `json:"name"`
	Head bool   `json:"head"`
}

// LogEntry describes one commit in history order, newest first.
type LogEntry struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Email   string    `json:"email"`
	When    time.Time `json:"when"`
}

// CredentialProvider resolves transfer credentials on demand. It is
// invoked once before a transfer starts; nil means anonymous access.
type CredentialProvider func() (username, password string, err error)

// CloneOptions carries everything a clone needs. Credentials and
// certificate policy are explicit fields so nothing is read from
// ambient process state at the point of use.
type CloneOptions struct {
	// URL is the remote to clone from.
	URL string
	// Path is the local directory to clone into.
	Path string
	// Auth resolves credentials for the transfer; nil clones anonymously.
	Auth CredentialProvider
	// Insecure disables TLS certificate verification.
	Insecure bool
	// CABundle supplies a custom trust root for TLS verification.
	CABundle []byte
	// Depth limits history depth; zero clones everything.
	Depth int
	// Progress receives engine transfer messages; nil discards them.
	Progress io.Writer
}

// ScanOptions controls a working-tree scan.
type ScanOptions struct {
	// IncludeIgnored adds descriptors for untracked paths matched by
	// ignore patterns, with only the ignored flag set.
	IncludeIgnored bool
}

// StatusSource produces per-file change descriptors from a
// working-tree scan, in the engine's enumeration order (path-sorted).
type StatusSource interface {
	Scan(ctx context.Context, opts ScanOptions) ([]status.FileChangeDescriptor, error)
}

// IndexWriter stages working-tree changes into the index.
type IndexWriter interface {
	// Stage stages one repository-relative path.
	Stage(path string) error
	// StageAll stages every pending change.
	StageAll() error
	// WriteTree serializes the index to a tree object and returns its
	// identifier. The index is left untouched.
	WriteTree() (string, error)
}

// Committer creates commits from the current index. The index is
// serialized to a tree object inside the engine; the resulting tree
// identifier surfaces on CommitResult.
type Committer interface {
	Commit(ctx context.Context, message string, sig Signature) (CommitResult, error)
}

// RefResolver resolves reference names or revision expressions to
// object identifiers.
type RefResolver interface {
	ResolveReference(name string) (string, error)
}

// TagManager manages annotated tags.
type TagManager interface {
	// CreateTag creates an annotated tag pointing at the resolved
	// revision. Fails if the tag already exists.
	CreateTag(name, revision, message string, tagger Signature) error
	DeleteTag(name string) error
	ListTags() ([]string, error)
}

// BranchManager manages branch references.
type BranchManager interface {
	// CreateBranch creates a branch reference pointing at the resolved
	// revision. With overwrite false an existing branch is an error,
	// never a silent clobber.
	CreateBranch(name, revision string, overwrite bool) error
	// DeleteBranch removes a branch. The currently checked-out branch
	// is refused.
	DeleteBranch(name string) error
	ListBranches() ([]BranchInfo, error)
}

// WorktreeSwitcher checks out branches.
type WorktreeSwitcher interface {
	// Checkout switches the working tree to the named branch. With
	// discard true local modifications are thrown away; with discard
	// false conflicting modifications fail the checkout.
	Checkout(branch string, discard bool) error
}

// HistoryReader walks commit history from HEAD.
type HistoryReader interface {
	Log(ctx context.Context, limit int) ([]LogEntry, error)
}

// Engine is a version-control engine bound to an open repository.
type Engine interface {
	StatusSource
	IndexWriter
	Committer
	RefResolver
	TagManager
	BranchManager
	WorktreeSwitcher
	HistoryReader

	// Path returns the repository's working-tree root.
	Path() string
	// HeadBranch returns the short name of the branch HEAD points at.
	HeadBranch() (string, error)
}
