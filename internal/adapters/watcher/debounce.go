package watcher

import (
	"sync"
	"time"

	"github.com/kling-igor/gitops/internal/domain/events"
)

// pendingChange is a change waiting out its debounce window.
type pendingChange struct {
	changeType events.FileChangeType
	timer      *time.Timer
}

// Debouncer coalesces bursts of filesystem events per path. Each Add
// restarts that path's window; when the window elapses without further
// activity the callback fires once with the merged change type.
type Debouncer struct {
	window   time.Duration
	callback func(path string, changeType events.FileChangeType)

	mu      sync.Mutex
	pending map[string]*pendingChange
	stopped bool
}

// NewDebouncer creates a debouncer that invokes callback once a path
// has been quiet for window.
func NewDebouncer(window time.Duration, callback func(path string, changeType events.FileChangeType)) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
		pending:  make(map[string]*pendingChange),
	}
}

// Add records a change for path and restarts its window.
func (d *Debouncer) Add(path string, changeType events.FileChangeType) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	change, ok := d.pending[path]
	if ok {
		change.timer.Stop()
		change.changeType = mergeChangeTypes(change.changeType, changeType)
	} else {
		change = &pendingChange{changeType: changeType}
		d.pending[path] = change
	}
	change.timer = time.AfterFunc(d.window, func() {
		d.fire(path)
	})
}

// fire delivers the settled change for a path.
func (d *Debouncer) fire(path string) {
	d.mu.Lock()
	change, ok := d.pending[path]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, path)
	stopped := d.stopped
	d.mu.Unlock()

	if !stopped && d.callback != nil {
		d.callback(path, change.changeType)
	}
}

// Stop cancels every pending window. No callbacks fire after Stop.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for _, change := range d.pending {
		change.timer.Stop()
	}
	d.pending = make(map[string]*pendingChange)
}

// mergeChangeTypes resolves the change type when events for one path
// land within the same window. A delete wins outright. A create
// followed by a modify is still a create as far as consumers care,
// since the file is new either way.
func mergeChangeTypes(existing, incoming events.FileChangeType) events.FileChangeType {
	if incoming == events.FileChangeDeleted {
		return events.FileChangeDeleted
	}
	if existing == events.FileChangeCreated {
		return events.FileChangeCreated
	}
	return incoming
}
