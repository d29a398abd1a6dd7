// Package watcher implements the working-tree file watcher using fsnotify.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/kling-igor/gitops/internal/domain/events"
	"github.com/kling-igor/gitops/internal/domain/ports"
)

// metadataDir is the repository metadata directory. It is always
// skipped, independent of configured ignore patterns: every stage and
// commit churns files under it, and reacting to that churn would feed
// the watcher's own refresh cycle back into itself.
const metadataDir = ".git"

// staleRenameAfter is how long a pending rename may wait for its
// matching create before it is treated as a deletion.
const staleRenameAfter = time.Second

// pendingRename holds the old path of a rename whose new path has not
// arrived yet.
type pendingRename struct {
	oldPath   string
	timestamp time.Time
}

// Watcher implements the FileWatcher port over fsnotify, publishing
// debounced file_changed events to the hub.
type Watcher struct {
	rootPath   string
	hub        ports.EventHub
	debounceMS int

	mu             sync.RWMutex
	watcher        *fsnotify.Watcher
	ignorePatterns []string
	running        bool
	cancel         context.CancelFunc

	debouncer *Debouncer

	// Rename pairing: directory -> old path waiting for its create.
	pendingRenames   map[string]pendingRename
	pendingRenamesMu sync.Mutex
}

// NewWatcher creates a watcher over the working tree rooted at
// rootPath. The repository metadata directory is skipped regardless of
// the supplied patterns.
func NewWatcher(rootPath string, hub ports.EventHub, debounceMS int, ignorePatterns []string) *Watcher {
	return &Watcher{
		rootPath:       rootPath,
		hub:            hub,
		debounceMS:     debounceMS,
		ignorePatterns: ignorePatterns,
		pendingRenames: make(map[string]pendingRename),
	}
}

// Start begins watching the working tree recursively.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.debouncer = NewDebouncer(time.Duration(w.debounceMS)*time.Millisecond, w.handleDebouncedEvent)

	w.running = true
	w.mu.Unlock()

	if err := w.addWatchRecursive(w.rootPath); err != nil {
		_ = w.Stop()
		return err
	}

	go w.eventLoop(watchCtx)

	// macOS reports deletions as RENAME with no following CREATE; a
	// sweeper turns renames that never pair into deletions.
	go w.pendingRenameCleanup(watchCtx)

	log.Info().
		Str("path", w.rootPath).
		Int("debounce_ms", w.debounceMS).
		Msg("file watcher started")

	return nil
}

// Stop terminates file watching.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false

	if w.cancel != nil {
		w.cancel()
	}

	if w.debouncer != nil {
		w.debouncer.Stop()
	}

	if w.watcher != nil {
		err := w.watcher.Close()
		w.watcher = nil
		log.Info().Msg("file watcher stopped")
		return err
	}

	return nil
}

// AddIgnorePattern adds a pattern to the ignore list.
func (w *Watcher) AddIgnorePattern(pattern string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignorePatterns = append(w.ignorePatterns, pattern)
}

// RemoveIgnorePattern removes a pattern from the ignore list. The
// metadata directory stays ignored even if its pattern is removed.
func (w *Watcher) RemoveIgnorePattern(pattern string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, p := range w.ignorePatterns {
		if p == pattern {
			w.ignorePatterns = append(w.ignorePatterns[:i], w.ignorePatterns[i+1:]...)
			return
		}
	}
}

// IsRunning returns true if the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// addWatchRecursive walks root and watches every directory that is not
// ignored. Unreadable entries are skipped rather than failing the walk.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldIgnore(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to add watch")
		}
		return nil
	})
}

// eventLoop drains fsnotify events until the context is cancelled or
// the underlying watcher closes.
func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// pendingRenameCleanup periodically sweeps pending renames that never
// paired with a create and publishes them as deletions.
func (w *Watcher) pendingRenameCleanup(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processStalePendingRenames()
		}
	}
}

func (w *Watcher) processStalePendingRenames() {
	w.pendingRenamesMu.Lock()
	defer w.pendingRenamesMu.Unlock()

	now := time.Now()
	for dir, pending := range w.pendingRenames {
		if now.Sub(pending.timestamp) > staleRenameAfter {
			delete(w.pendingRenames, dir)

			log.Info().
				Str("path", pending.oldPath).
				Msg("stale pending rename treated as deletion")

			w.hub.Publish(events.NewFileChangedEvent(pending.oldPath, events.FileChangeDeleted, 0))
		}
	}
}

// handleEvent classifies one fsnotify event and queues it for
// debouncing. Renames are held until their create arrives.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	relPath, err := filepath.Rel(w.rootPath, event.Name)
	if err != nil {
		relPath = event.Name
	}

	if w.shouldIgnore(event.Name) || w.shouldIgnore(relPath) {
		return
	}

	var changeType events.FileChangeType
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		changeType = events.FileChangeCreated
		// New directories need their own watch
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addWatchRecursive(event.Name)
		}
	case event.Op&fsnotify.Write == fsnotify.Write:
		changeType = events.FileChangeModified
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		changeType = events.FileChangeDeleted
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		// Hold the old path; the matching CREATE in the same directory
		// supplies the new one.
		dir := filepath.Dir(relPath)
		w.pendingRenamesMu.Lock()
		w.pendingRenames[dir] = pendingRename{
			oldPath:   relPath,
			timestamp: time.Now(),
		}
		w.pendingRenamesMu.Unlock()
		log.Debug().Str("old_path", relPath).Str("dir", dir).Msg("tracking pending rename")
		return
	case event.Op&fsnotify.Chmod == fsnotify.Chmod:
		return
	default:
		return
	}

	w.debouncer.Add(relPath, changeType)
}

// handleDebouncedEvent publishes one change after its debounce window
// expires, pairing creates with a pending rename when one is waiting.
func (w *Watcher) handleDebouncedEvent(path string, changeType events.FileChangeType) {
	var size int64
	if changeType != events.FileChangeDeleted {
		fullPath := filepath.Join(w.rootPath, path)
		if info, err := os.Stat(fullPath); err == nil {
			size = info.Size()
		}
	}

	if changeType == events.FileChangeCreated {
		dir := filepath.Dir(path)
		w.pendingRenamesMu.Lock()
		pending, hasPending := w.pendingRenames[dir]
		if hasPending {
			if time.Since(pending.timestamp) < staleRenameAfter {
				delete(w.pendingRenames, dir)
				w.pendingRenamesMu.Unlock()

				w.hub.Publish(events.NewFileRenamedEvent(pending.oldPath, path))

				log.Info().
					Str("old_path", pending.oldPath).
					Str("new_path", path).
					Msg("file renamed")
				return
			}
			delete(w.pendingRenames, dir)
		}
		w.pendingRenamesMu.Unlock()
	}

	w.hub.Publish(events.NewFileChangedEvent(path, changeType, size))

	log.Debug().
		Str("path", path).
		Str("change", string(changeType)).
		Int64("size", size).
		Msg("file changed")
}

// shouldIgnore reports whether a path is excluded from watching. The
// metadata directory is excluded unconditionally; configured patterns
// are matched against the base name and every path segment.
func (w *Watcher) shouldIgnore(path string) bool {
	parts := splitPath(path)
	for _, part := range parts {
		if part == metadataDir {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range w.ignorePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		for _, part := range parts {
			if matched, _ := filepath.Match(pattern, part); matched {
				return true
			}
		}
	}

	return false
}

// splitPath splits a path into its components.
func splitPath(path string) []string {
	var parts []string
	for path != "" && path != "/" && path != "." {
		dir, file := filepath.Split(path)
		if file != "" {
			parts = append([]string{file}, parts...)
		}
		path = filepath.Clean(dir)
	}
	return parts
}
