// Package watcher reports changes to TypeScript sources below a set of
// directories, debounced into batches.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/flowgen/flowgen/internal/logging"
)

// Event represents a file change event.
type Event struct {
	Path string
	Op   string // "create", "write", "remove"
}

// DefaultDebounce is the quiet period after the last change before a batch
// is delivered.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches directory trees for changes to files with the given
// extensions.
type Watcher struct {
	dirs       []string
	extensions []string // e.g., [".ts", ".d.ts"]
	debounce   time.Duration
	onChange   func(events []Event)
	logger     *zap.Logger

	mu      sync.Mutex
	pending []Event
	timer   *time.Timer

	ready    chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a new file watcher.
func New(dirs []string, extensions []string, debounce time.Duration, onChange func(events []Event)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dirs:       dirs,
		extensions: extensions,
		debounce:   debounce,
		onChange:   onChange,
		logger:     zap.NewNop(),
		ready:      make(chan struct{}),
		stopCh:     make(chan struct{}),
	}
}

// SetLogger sets the logger watch errors and batches are reported to.
func (w *Watcher) SetLogger(l *zap.Logger) {
	w.logger = logging.OrNop(l)
}

// Ready is closed once every directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Watch blocks until ctx is done or Stop is called. Directories created
// while watching are added to the watch list.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := w.addTree(fsw, dir); err != nil {
			return err
		}
	}
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			w.flushTimer()
			return nil
		case <-w.stopCh:
			w.flushTimer()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	return errors.Wrapf(err, "watch %s", root)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if isDir(event.Name) {
			if err := w.addTree(fsw, event.Name); err != nil {
				w.logger.Warn("watch new directory", zap.String(logging.FieldFile, event.Name), zap.Error(err))
			}
			return
		}
	}
	op := classify(event.Op)
	if op == "" || !w.matches(event.Name) {
		return
	}
	w.queue(Event{Path: event.Name, Op: op})
}

// classify maps an fsnotify operation onto an event kind. Attribute
// changes are ignored.
func classify(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return "remove"
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	default:
		return ""
	}
}

func (w *Watcher) matches(path string) bool {
	for _, ext := range w.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// queue adds an event to the pending batch and restarts the debounce
// timer. A later event for the same path replaces the earlier one, except
// that a write never downgrades a create.
func (w *Watcher) queue(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	merged := false
	for i, p := range w.pending {
		if p.Path != ev.Path {
			continue
		}
		if !(p.Op == "create" && ev.Op == "write") {
			w.pending[i].Op = ev.Op
		}
		merged = true
		break
	}
	if !merged {
		w.pending = append(w.pending, ev)
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.deliver)
}

func (w *Watcher) deliver() {
	w.mu.Lock()
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()
	if len(pending) == 0 || w.onChange == nil {
		return
	}
	w.logger.Debug("changes detected", zap.Int(logging.FieldCount, len(pending)))
	w.onChange(pending)
}

func (w *Watcher) flushTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
