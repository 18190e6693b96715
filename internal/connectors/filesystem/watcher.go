// Package filesystem watches a directory for new and updated documents.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leo-dower/ocr-rag-super-charged/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before it is reported.
const DefaultSettle = 500 * time.Millisecond

// ChangeType describes what happened to a file.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
)

// Change is a file that appeared or was rewritten.
type Change struct {
	Path string
	Type ChangeType
}

// Watcher reports files written to a single directory. Subdirectories and
// hidden files are ignored.
type Watcher struct {
	root   string
	accept func(name string) bool
	settle time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter reports only files for which accept returns true.
func WithFilter(accept func(name string) bool) Option {
	return func(w *Watcher) {
		w.accept = accept
	}
}

// WithSettle sets the quiet period. Zero reports every event at once.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

// New creates a watcher for root.
func New(root string, opts ...Option) *Watcher {
	w := &Watcher{
		root:   root,
		accept: func(string) bool { return true },
		settle: DefaultSettle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Watch starts watching. Bursts of events for one file are coalesced into a
// single change once the file has been quiet for the settle period. The
// channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(w.root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.root, err)
	}

	w.mu.Lock()
	w.watcher = fw
	w.mu.Unlock()

	changes := make(chan Change, 16)
	go w.loop(ctx, fw, changes)
	return changes, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

type pendingChange struct {
	change Change
	last   time.Time
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- Change) {
	defer close(out)

	pending := make(map[string]*pendingChange)
	var tick <-chan time.Time
	if w.settle > 0 {
		ticker := time.NewTicker(w.settle / 4)
		defer ticker.Stop()
		tick = ticker.C
	}

	send := func(c Change) bool {
		select {
		case out <- c:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			change := w.handleFsEvent(event)
			if change == nil {
				continue
			}
			if w.settle == 0 {
				if !send(*change) {
					return
				}
				continue
			}
			if p, ok := pending[change.Path]; ok {
				p.last = time.Now()
				continue
			}
			pending[change.Path] = &pendingChange{change: *change, last: time.Now()}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", w.root, err)

		case now := <-tick:
			for path, p := range pending {
				if now.Sub(p.last) < w.settle {
					continue
				}
				delete(pending, path)
				if !send(p.change) {
					return
				}
			}
		}
	}
}

// handleFsEvent converts an fsnotify event to a change, or nil when the
// event is not reported.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !w.accept(name) {
		return nil
	}

	var changeType ChangeType
	switch {
	case event.Has(fsnotify.Create):
		changeType = ChangeCreated
	case event.Has(fsnotify.Write):
		changeType = ChangeUpdated
	default:
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return nil
	}
	return &Change{Path: event.Name, Type: changeType}
}
