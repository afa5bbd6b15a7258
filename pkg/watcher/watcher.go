// Package watcher reacts to snapshot file changes with debouncing so
// the timeline can be rebuilt while an editor or sync job rewrites the
// underlying data.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher invokes a callback when any of the tracked snapshot files
// change. Events are debounced so a multi-file rewrite produces one
// callback.
type Watcher struct {
	dir       string
	tracked   map[string]bool
	debouncer *Debouncer
	logger    *log.Logger
	onChange  func()
}

// New creates a Watcher over dir that fires onChange when one of the
// named files inside it is written, created, renamed or removed.
func New(dir string, files []string, debounce time.Duration, logger *log.Logger, onChange func()) *Watcher {
	tracked := make(map[string]bool, len(files))
	for _, f := range files {
		tracked[f] = true
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		dir:       dir,
		tracked:   tracked,
		debouncer: NewDebouncer(debounce),
		logger:    logger,
		onChange:  onChange,
	}
}

// Run watches until ctx is cancelled. The directory itself is watched
// rather than the individual files so atomic rename-over writes keep
// being observed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	defer w.debouncer.Cancel()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Debug("watching for changes", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("snapshot changed", "file", filepath.Base(event.Name), "op", event.Op.String())
			w.debouncer.Trigger(w.onChange)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
		return false
	}
	return w.tracked[filepath.Base(event.Name)]
}
