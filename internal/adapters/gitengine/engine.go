// Package gitengine implements the version-control engine ports on
// go-git. Every operation is a delegation: the object model, index
// serialization, and transport all live in the library.
package gitengine

import (
	"context"
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog/log"

	"github.com/kling-igor/gitops/internal/domain"
	"github.com/kling-igor/gitops/internal/domain/ports"
)

// Engine is a go-git backed engine bound to one open repository.
type Engine struct {
	path string
	repo *git.Repository
}

// Ensure Engine implements the engine port.
var _ ports.Engine = (*Engine)(nil)

// Init initializes a new repository at path and returns an engine
// bound to it. An existing repository at the same path is an error.
func Init(path string) (*Engine, error) {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryAlreadyExists) {
			return nil, domain.NewOpError("init", fmt.Errorf("%s: %w", path, domain.ErrRepositoryExists))
		}
		return nil, domain.NewOpError("init", err)
	}

	log.Debug().Str("path", path).Msg("initialized repository")
	return &Engine{path: path, repo: repo}, nil
}

// Open opens an existing repository at path.
func Open(path string) (*Engine, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, domain.NewOpError("open", fmt.Errorf("%s: %w", path, domain.ErrNotRepository))
		}
		return nil, domain.NewOpError("open", err)
	}

	return &Engine{path: path, repo: repo}, nil
}

// Clone clones a remote repository into opts.Path and returns an
// engine bound to the clone. Credentials are resolved through the
// provider before any transfer starts; certificate policy and history
// depth come from the options, never from ambient process state.
func Clone(ctx context.Context, opts ports.CloneOptions) (*Engine, error) {
	cloneOpts := &git.CloneOptions{
		URL:             opts.URL,
		Progress:        opts.Progress,
		InsecureSkipTLS: opts.Insecure,
		CABundle:        opts.CABundle,
		Depth:           opts.Depth,
	}

	if opts.Auth != nil {
		username, password, err := opts.Auth()
		if err != nil {
			return nil, domain.NewOpError("clone", fmt.Errorf("resolving credentials: %w", err))
		}
		cloneOpts.Auth = &githttp.BasicAuth{Username: username, Password: password}
	}

	log.Info().
		Str("url", opts.URL).
		Str("path", opts.Path).
		Bool("insecure", opts.Insecure).
		Int("depth", opts.Depth).
		Msg("cloning repository")

	repo, err := git.PlainCloneContext(ctx, opts.Path, false, cloneOpts)
	if err != nil {
		switch {
		case errors.Is(err, transport.ErrAuthenticationRequired):
			return nil, domain.NewOpError("clone", fmt.Errorf("%s: %w", opts.URL, domain.ErrAuthRequired))
		case errors.Is(err, git.ErrRepositoryAlreadyExists):
			return nil, domain.NewOpError("clone", fmt.Errorf("%s: %w", opts.Path, domain.ErrRepositoryExists))
		default:
			return nil, domain.NewOpError("clone", err)
		}
	}

	log.Info().Str("url", opts.URL).Str("path", opts.Path).Msg("clone complete")
	return &Engine{path: opts.Path, repo: repo}, nil
}

// Path returns the repository's working-tree root.
func (e *Engine) Path() string {
	return e.path
}

// HeadBranch returns the short name of the branch HEAD points at.
// On an unborn branch (no commits yet) the symbolic target of HEAD is
// reported; a detached HEAD reports "HEAD".
func (e *Engine) HeadBranch() (string, error) {
	head, err := e.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			ref, refErr := e.repo.Storer.Reference(plumbing.HEAD)
			if refErr == nil && ref.Type() == plumbing.SymbolicReference {
				return ref.Target().Short(), nil
			}
			return "", domain.NewOpError("head", domain.ErrNoCommits)
		}
		return "", domain.NewOpError("head", err)
	}

	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return "HEAD", nil
}

// resolve maps a revision expression to a hash, defaulting empty
// input to HEAD.
func (e *Engine) resolve(revision string) (plumbing.Hash, error) {
	if revision == "" {
		revision = "HEAD"
	}

	hash, err := e.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			if revision == "HEAD" {
				return plumbing.ZeroHash, domain.ErrNoCommits
			}
			return plumbing.ZeroHash, fmt.Errorf("%s: %w", revision, domain.ErrRefNotFound)
		}
		return plumbing.ZeroHash, err
	}
	return *hash, nil
}
