package gitengine

import (
	"errors"
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog/log"

	"github.com/kling-igor/gitops/internal/domain"
	"github.com/kling-igor/gitops/internal/domain/ports"
)

// CreateTag creates an annotated tag named name pointing at the
// resolved revision (HEAD when empty). An existing tag is an error.
func (e *Engine) CreateTag(name, revision, message string, tagger ports.Signature) error {
	hash, err := e.resolve(revision)
	if err != nil {
		return domain.NewOpError("tag", err)
	}

	sig := toSignature(tagger)
	_, err = e.repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  &sig,
		Message: message,
	})
	if err != nil {
		if errors.Is(err, git.ErrTagExists) {
			return domain.NewOpError("tag", fmt.Errorf("%s: %w", name, domain.ErrTagExists))
		}
		return domain.NewOpError("tag", err)
	}

	log.Info().Str("tag", name).Str("target", hash.String()).Msg("created tag")
	return nil
}

// DeleteTag removes the named tag.
func (e *Engine) DeleteTag(name string) error {
	if err := e.repo.DeleteTag(name); err != nil {
		if errors.Is(err, git.ErrTagNotFound) {
			return domain.NewOpError("tag", fmt.Errorf("%s: %w", name, domain.ErrTagNotFound))
		}
		return domain.NewOpError("tag", err)
	}

	log.Info().Str("tag", name).Msg("deleted tag")
	return nil
}

// ListTags returns all tag names, sorted.
func (e *Engine) ListTags() ([]string, error) {
	iter, err := e.repo.Tags()
	if err != nil {
		return nil, domain.NewOpError("tag", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, domain.NewOpError("tag", err)
	}

	sort.Strings(names)
	return names, nil
}

// CreateBranch creates a branch reference pointing at the resolved
// revision (HEAD when empty). When the branch already exists,
// overwrite decides between moving the reference and failing; there is
// no silent clobber.
func (e *Engine) CreateBranch(name, revision string, overwrite bool) error {
	hash, err := e.resolve(revision)
	if err != nil {
		return domain.NewOpError("branch", err)
	}

	refName := plumbing.NewBranchReferenceName(name)
	if _, err := e.repo.Reference(refName, false); err == nil && !overwrite {
		return domain.NewOpError("branch", fmt.Errorf("%s: %w", name, domain.ErrBranchExists))
	}

	ref := plumbing.NewHashReference(refName, hash)
	if err := e.repo.Storer.SetReference(ref); err != nil {
		return domain.NewOpError("branch", err)
	}

	log.Info().
		Str("branch", name).
		Str("target", hash.String()).
		Bool("overwrite", overwrite).
		Msg("created branch")
	return nil
}

// DeleteBranch removes a branch reference. The currently checked-out
// branch is refused.
func (e *Engine) DeleteBranch(name string) error {
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := e.repo.Reference(refName, false); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return domain.NewOpError("branch", fmt.Errorf("%s: %w", name, domain.ErrBranchNotFound))
		}
		return domain.NewOpError("branch", err)
	}

	if head, err := e.HeadBranch(); err == nil && head == name {
		return domain.NewOpError("branch", fmt.Errorf("%s: %w", name, domain.ErrBranchCheckedOut))
	}

	if err := e.repo.Storer.RemoveReference(refName); err != nil {
		return domain.NewOpError("branch", err)
	}

	log.Info().Str("branch", name).Msg("deleted branch")
	return nil
}

// ListBranches returns all local branches, sorted by name, marking the
// one HEAD points at.
func (e *Engine) ListBranches() ([]ports.BranchInfo, error) {
	iter, err := e.repo.Branches()
	if err != nil {
		return nil, domain.NewOpError("branch", err)
	}
	defer iter.Close()

	head, _ := e.HeadBranch()

	var branches []ports.BranchInfo
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		branches = append(branches, ports.BranchInfo{Name: name, Head: name == head})
		return nil
	})
	if err != nil {
		return nil, domain.NewOpError("branch", err)
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})
	return branches, nil
}

// Checkout switches the working tree to the named branch. With discard
// true local modifications are thrown away; with discard false a dirty
// working tree fails the switch instead.
func (e *Engine) Checkout(branch string, discard bool) error {
	wt, err := e.repo.Worktree()
	if err != nil {
		return domain.NewOpError("checkout", err)
	}

	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Force:  discard,
	})
	if err != nil {
		switch {
		case errors.Is(err, plumbing.ErrReferenceNotFound):
			return domain.NewOpError("checkout", fmt.Errorf("%s: %w", branch, domain.ErrBranchNotFound))
		case errors.Is(err, git.ErrUnstagedChanges):
			return domain.NewOpError("checkout", domain.ErrDirtyWorktree)
		default:
			return domain.NewOpError("checkout", err)
		}
	}

	log.Info().Str("branch", branch).Bool("discard", discard).Msg("checked out branch")
	return nil
}
