package pubcontent

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDuration = 500 * time.Millisecond

// Watcher reloads the collection when files below the content directory
// change. A failed reload is logged and the previous collection is kept.
type Watcher struct {
	app      *App
	fsw      *fsnotify.Watcher
	debounce time.Duration
	reloaded chan error

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	pending sync.WaitGroup
}

// NewWatcher watches the content directory of app and all its
// subdirectories.
func NewWatcher(app *App) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{app: app, fsw: fsw, debounce: debounceDuration}

	root := app.Config.ContentBase
	if _, err := os.Stat(root); os.IsNotExist(err) {
		app.Logger.Warn().Str("dir", root).Msg("Content directory not found, not watching")
		return w, nil
	}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			app.Logger.Warn().Err(err).Str("path", path).Msg("Error walking content directory")
			return nil
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				app.Logger.Warn().Err(err).Str("dir", path).Msg("Failed to watch directory")
			}
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching. A scheduled reload is cancelled and one already
// running is waited for, so the store can be closed afterwards.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.stopTimer()
	w.mu.Unlock()

	w.pending.Wait()
	return w.fsw.Close()
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.stopTimer()
	w.pending.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.pending.Done()
		if ctx.Err() != nil {
			return
		}
		w.reload(ctx)
	})
}

// stopTimer must be called with mu held.
func (w *Watcher) stopTimer() {
	if w.timer != nil && w.timer.Stop() {
		w.pending.Done()
	}
	w.timer = nil
}

// Run handles file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	logger := w.app.Logger

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Change detected")

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := w.fsw.Add(event.Name); err != nil {
					logger.Warn().Err(err).Str("dir", event.Name).Msg("Failed to watch new directory")
				}
			}

			w.schedule(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	_, err := w.app.Reload(ctx)
	if err != nil && ctx.Err() == nil {
		w.app.Logger.Error().Err(err).Msg("Reload failed, keeping the last valid collection")
	}
	if w.reloaded != nil {
		w.reloaded <- err
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
