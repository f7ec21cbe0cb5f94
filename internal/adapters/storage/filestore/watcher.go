package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the delay used to batch file events.
const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc receives the ids of changed, created or removed definitions.
type ChangeFunc func(ctx context.Context, ids []string)

// Watcher monitors a store directory and reports changed procedure ids in
// debounced batches.
type Watcher struct {
	store    *Store
	fsw      *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce delay for batching file events.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the structured logger.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for store. The root directory is created if
// missing so that it can be watched.
func NewWatcher(store *Store, onChange ChangeFunc, opts ...WatcherOption) (*Watcher, error) {
	if err := os.MkdirAll(store.Root(), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", store.Root(), err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	w := &Watcher{
		store:    store,
		fsw:      fsw,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
		pending:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addRecursive(store.Root()); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes file events until ctx is done, then closes the watcher.
// Pending changes are dropped on shutdown.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		_ = w.fsw.Close()
	}()

	w.logger.InfoContext(ctx, "procedure watcher started", slog.String("root", w.store.Root()))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorContext(ctx, "procedure watcher error",
				slog.String("operation", "filestore.Watch"),
				slog.Any("error", err),
			)
		}
	}
}

// addRecursive watches dir and all its non-hidden subdirectories.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.store.Root() && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.WarnContext(ctx, "failed to watch directory",
					slog.String("operation", "filestore.Watch"),
					slog.String("path", event.Name),
					slog.Any("error", err),
				)
			}
			// Files may have been written before the watch was added.
			w.queueDir(ctx, event.Name)
			return
		}
	}
	id, ok := w.store.ID(event.Name)
	if !ok {
		return
	}
	w.queue(ctx, id)
}

// queueDir queues every definition already present below dir.
func (w *Watcher) queueDir(ctx context.Context, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			if id, ok := w.store.ID(path); ok {
				w.queue(ctx, id)
			}
		}
		return nil
	})
}

// queue adds id to the pending batch and restarts the debounce timer.
func (w *Watcher) queue(ctx context.Context, id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[id] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	ids := make([]string, 0, len(w.pending))
	for id := range w.pending {
		ids = append(ids, id)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(ids) == 0 || ctx.Err() != nil {
		return
	}
	slices.Sort(ids)
	w.logger.DebugContext(ctx, "procedure definitions changed",
		slog.String("operation", "filestore.Watch"),
		slog.Any("procedures", ids),
	)
	w.onChange(ctx, ids)
}
