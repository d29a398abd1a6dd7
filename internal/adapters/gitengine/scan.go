package gitengine

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/rs/zerolog/log"

	"github.com/kling-igor/gitops/internal/domain"
	"github.com/kling-igor/gitops/internal/domain/ports"
	"github.com/kling-igor/gitops/internal/domain/status"
)

// Scan enumerates the working tree against index and HEAD, yielding
// one change descriptor per path in lexical path order. go-git reports
// status as an unordered map, so the scan sorts paths itself; that
// sorted order is the enumeration order downstream report formatting
// must preserve.
func (e *Engine) Scan(ctx context.Context, opts ports.ScanOptions) ([]status.FileChangeDescriptor, error) {
	wt, err := e.repo.Worktree()
	if err != nil {
		return nil, domain.NewOpError("scan", err)
	}

	st, err := wt.Status()
	if err != nil {
		return nil, domain.NewOpError("scan", err)
	}

	descriptors := make([]status.FileChangeDescriptor, 0, len(st))
	for path, fileStatus := range st {
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		descriptors = append(descriptors, describeChange(path, fileStatus.Staging, fileStatus.Worktree))
	}

	if opts.IncludeIgnored {
		ignored, err := e.ignoredPaths(wt, st)
		if err != nil {
			log.Warn().Err(err).Msg("could not enumerate ignored paths")
		} else {
			for _, path := range ignored {
				descriptors = append(descriptors, status.FileChangeDescriptor{
					Path:      path,
					IsIgnored: true,
				})
			}
		}
	}

	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Path < descriptors[j].Path
	})

	log.Debug().Int("changes", len(descriptors)).Msg("working tree scanned")
	return descriptors, nil
}

// describeChange derives the independent change flags from the two
// status codes go-git reports per path (index side and worktree side).
func describeChange(path string, staging, worktree git.StatusCode) status.FileChangeDescriptor {
	d := status.FileChangeDescriptor{Path: path}

	d.IsNew = worktree == git.Untracked || staging == git.Added
	d.IsModified = staging == git.Modified || worktree == git.Modified
	d.IsRenamed = staging == git.Renamed || worktree == git.Renamed
	d.IsDeleted = staging == git.Deleted || worktree == git.Deleted
	d.IsConflicted = staging == git.UpdatedButUnmerged || worktree == git.UpdatedButUnmerged

	switch staging {
	case git.Added, git.Modified, git.Deleted, git.Renamed, git.Copied:
		d.InIndex = true
	}

	return d
}

// ignoredPaths walks the working tree for untracked files excluded by
// gitignore patterns. go-git's status omits them entirely, so the
// scan has to find them itself when asked to include them.
func (e *Engine) ignoredPaths(wt *git.Worktree, st git.Status) ([]string, error) {
	patterns, err := gitignore.ReadPatterns(wt.Filesystem, nil)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	matcher := gitignore.NewMatcher(patterns)

	var ignored []string
	walkErr := filepath.WalkDir(e.path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(e.path, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if entry.Name() == git.GitDirName {
				return filepath.SkipDir
			}
			if matcher.Match(strings.Split(rel, "/"), true) {
				// Whole directory ignored: report it once, don't descend.
				ignored = append(ignored, rel+"/")
				return filepath.SkipDir
			}
			return nil
		}

		if _, tracked := st[rel]; tracked {
			return nil
		}
		if matcher.Match(strings.Split(rel, "/"), false) {
			ignored = append(ignored, rel)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return ignored, nil
}
