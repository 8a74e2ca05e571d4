// Package watcher provides debounced watching of the teminder config directory.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay coalesces editor save sequences (write temp, rename, chmod)
// into one notification.
const DefaultDelay = 150 * time.Millisecond

// Watcher watches a directory and invokes a callback, debounced, when one of
// the named files changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	names    map[string]bool
	delay    time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// New watches dir for changes to the given base names. Editors replace
// files by rename, so the directory is watched rather than the files.
func New(dir string, names []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	return &Watcher{
		fsw:      fsw,
		names:    set,
		delay:    DefaultDelay,
		callback: callback,
	}, nil
}

// SetDelay changes the debounce delay. Call before Run.
func (w *Watcher) SetDelay(d time.Duration) {
	w.delay = d
}

// Run starts the watch loop. It blocks until the context is canceled.
// Errors from the underlying watcher are passed to the optional errFn callback.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !w.names[filepath.Base(event.Name)] {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
