// Package watcher re-runs cleanup batches when the watched tree changes.
// Events are debounced so a burst of writes triggers a single run.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/scrub/pkg/scrub/ignore"
	"github.com/jamesainslie/scrub/pkg/scrub/logging"
)

// Watcher watches a directory tree and invokes a callback after a quiet
// period following filesystem changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	spec     *ignore.Spec
	debounce time.Duration
	paths    map[string]bool
	mu       sync.Mutex
	closed   bool
}

// New creates a Watcher. Ignored directories are never watched, so their
// churn cannot trigger runs.
func New(spec *ignore.Spec, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  fsw,
		spec:     spec,
		debounce: debounce,
		paths:    make(map[string]bool),
	}, nil
}

// Watch adds root and all its non-ignored subdirectories to the watch
// set. Symlinks are not followed to avoid loops. A file root watches the
// containing directory.
func (w *Watcher) Watch(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	info, err := os.Lstat(absRoot)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.addWatch(filepath.Dir(absRoot))
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Skip entries with errors
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != absRoot && w.spec.MatchDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.addWatch(path)
	})
}

// addWatch adds a single directory to the watch list.
func (w *Watcher) addWatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.paths[path] {
		return nil
	}

	if err := w.watcher.Add(path); err != nil {
		logging.Get("watcher").Warn("failed to add watch", "path", path, "error", err)
		return err
	}

	w.paths[path] = true
	return nil
}

// Run blocks until the context is cancelled, calling onChange once per
// debounced burst of filesystem events. New directories created under the
// tree are added to the watch set as they appear.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	log := logging.Get("watcher")

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug("filesystem event", "path", event.Name, "op", event.Op.String())

			if event.Op&fsnotify.Create != 0 {
				w.handleCreate(event.Name)
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err)
		}
	}
}

// relevant filters out events on ignored names and on chmod-only noise.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if w.spec.MatchDir(base) || w.spec.MatchFile(base) {
		return false
	}
	// Editors write through dotted temp names; skip those too.
	return !strings.HasPrefix(base, ".")
}

// handleCreate extends the watch set when directories appear.
func (w *Watcher) handleCreate(path string) {
	info, err := os.Lstat(path)
	if err != nil {
		return // Already gone
	}
	if info.Mode()&fs.ModeSymlink != 0 || !info.IsDir() {
		return
	}
	if w.spec.MatchDir(filepath.Base(path)) {
		return
	}

	_ = w.addWatch(path)
	_ = filepath.WalkDir(path, func(subpath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Skip entries with errors
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() && subpath != path {
			if w.spec.MatchDir(d.Name()) {
				return filepath.SkipDir
			}
			_ = w.addWatch(subpath)
		}
		return nil
	})
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
