package gitengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog/log"

	"github.com/kling-igor/gitops/internal/domain"
	"github.com/kling-igor/gitops/internal/domain/ports"
)

// Stage stages one repository-relative path into the index.
func (e *Engine) Stage(path string) error {
	wt, err := e.repo.Worktree()
	if err != nil {
		return domain.NewOpError("stage", err)
	}

	if _, err := wt.Add(path); err != nil {
		return domain.NewOpError("stage", fmt.Errorf("%s: %w", path, err))
	}

	log.Debug().Str("path", path).Msg("staged path")
	return nil
}

// StageAll stages every pending working-tree change, deletions included.
func (e *Engine) StageAll() error {
	wt, err := e.repo.Worktree()
	if err != nil {
		return domain.NewOpError("stage", err)
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return domain.NewOpError("stage", err)
	}

	log.Debug().Msg("staged all changes")
	return nil
}

// Commit creates a commit from the current index. The engine serializes
// the index to a tree object, parents the commit on HEAD (none for a
// root commit), and advances HEAD; the resulting commit and tree
// identifiers come back on the result.
func (e *Engine) Commit(ctx context.Context, message string, sig ports.Signature) (ports.CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.CommitResult{}, domain.NewOpError("commit", err)
	}
	if sig.Name == "" || sig.Email == "" {
		return ports.CommitResult{}, domain.NewOpError("commit", domain.ErrIdentityMissing)
	}

	wt, err := e.repo.Worktree()
	if err != nil {
		return ports.CommitResult{}, domain.NewOpError("commit", err)
	}

	author := toSignature(sig)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author:    &author,
		Committer: &author,
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return ports.CommitResult{}, domain.NewOpError("commit", domain.ErrNothingToCommit)
		}
		return ports.CommitResult{}, domain.NewOpError("commit", err)
	}

	result := ports.CommitResult{ID: hash.String(), Message: message}
	if commit, err := e.repo.CommitObject(hash); err == nil {
		result.TreeID = commit.TreeHash.String()
	}

	log.Info().
		Str("commit", result.ID).
		Str("tree", result.TreeID).
		Msg("created commit")
	return result, nil
}

// ResolveReference resolves a reference name or revision expression
// (HEAD, branch, tag, short or full hash) to an object identifier.
func (e *Engine) ResolveReference(name string) (string, error) {
	hash, err := e.resolve(name)
	if err != nil {
		return "", domain.NewOpError("resolve", err)
	}
	return hash.String(), nil
}

// Log walks commit history from HEAD, newest first. A limit of zero
// walks everything.
func (e *Engine) Log(ctx context.Context, limit int) ([]ports.LogEntry, error) {
	iter, err := e.repo.Log(&git.LogOptions{})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, domain.NewOpError("log", domain.ErrNoCommits)
		}
		return nil, domain.NewOpError("log", err)
	}
	defer iter.Close()

	var entries []ports.LogEntry
	for limit <= 0 || len(entries) < limit {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewOpError("log", err)
		}

		commit, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewOpError("log", err)
		}

		entries = append(entries, ports.LogEntry{
			ID:      commit.Hash.String(),
			Message: commit.Message,
			Author:  commit.Author.Name,
			Email:   commit.Author.Email,
			When:    commit.Author.When,
		})
	}

	return entries, nil
}

// toSignature converts a port signature to go-git's, defaulting a zero
// timestamp to now.
func toSignature(sig ports.Signature) object.Signature {
	when := sig.When
	if when.IsZero() {
		when = time.Now()
	}
	return object.Signature{Name: sig.Name, Email: sig.Email, When: when}
}
