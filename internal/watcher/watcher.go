// Package watcher monitors a directory for new or changed files and
// hands debounced paths to the processing pipeline.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/textstitch/textstitch/internal/classifier"
	"github.com/textstitch/textstitch/internal/logging"
)

// DefaultDebounce is how long a path must be quiet before it is
// emitted. Editors and downloads often produce bursts of writes.
const DefaultDebounce = 500 * time.Millisecond

// Watcher emits file paths from a watched directory after create and
// write events settle. Remove and rename events are ignored; deletion
// is not an ingestion trigger.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]struct{}
	debounce   time.Duration
	logger     *log.Logger
}

// New creates a Watcher filtering on the given extensions (with or
// without dots). An empty list watches every file. debounce <= 0 uses
// DefaultDebounce.
func New(extensions []string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.Default()
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[classifier.Normalize(ext)] = struct{}{}
	}

	return &Watcher{
		watcher:    fsw,
		extensions: allowed,
		debounce:   debounce,
		logger:     logger,
	}, nil
}

// Watch starts monitoring dir and returns a channel of settled paths.
// The channel closes when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	out := make(chan string, 100)

	// Timer callbacks never touch out directly; they hand settled paths
	// back to the event loop, which is the sole sender on (and closer
	// of) out. settled is left open for the garbage collector so a
	// timer firing during shutdown has nowhere to panic.
	settled := make(chan string, 100)

	go func() {
		defer close(out)

		var mu sync.Mutex
		pending := make(map[string]*time.Timer)
		defer func() {
			mu.Lock()
			for _, t := range pending {
				t.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case path := <-settled:
				select {
				case out <- path:
				case <-ctx.Done():
					return
				}
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if !w.watched(event.Name) {
					continue
				}
				w.schedule(ctx, settled, pending, &mu, event.Name)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", "err", err)
			}
		}
	}()

	return out, nil
}

// schedule arms (or re-arms) the debounce timer for path
func (w *Watcher) schedule(ctx context.Context, settled chan<- string, pending map[string]*time.Timer, mu *sync.Mutex, path string) {
	mu.Lock()
	defer mu.Unlock()

	if timer, ok := pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}

	pending[path] = time.AfterFunc(w.debounce, func() {
		mu.Lock()
		delete(pending, path)
		mu.Unlock()

		select {
		case settled <- path:
		case <-ctx.Done():
		}
	})
}

// Stop closes the underlying fsnotify watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watched(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := classifier.Normalize(filepath.Ext(path))
	_, ok := w.extensions[ext]
	return ok
}
