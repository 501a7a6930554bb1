// Package watch re-runs deck analysis whenever a decklist file changes.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a decklist file and invokes a callback on change.
type Watcher struct {
	path     string
	debounce time.Duration
	callback func(path string)
}

// Config configures a decklist watcher.
type Config struct {
	// Path is the decklist file to watch.
	Path string

	// Debounce coalesces bursts of write events into a single callback.
	// Editors often produce several events per save. Default: 500ms.
	Debounce time.Duration

	// Callback runs after each debounced change.
	Callback func(path string)
}

// New creates a decklist watcher.
func New(config Config) (*Watcher, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("watch path cannot be empty")
	}
	if config.Callback == nil {
		return nil, fmt.Errorf("watch callback cannot be nil")
	}
	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}

	return &Watcher{
		path:     config.Path,
		debounce: config.Debounce,
		callback: config.Callback,
	}, nil
}

// Run watches until the context is cancelled. The parent directory is
// watched rather than the file itself because editors commonly replace
// files on save, which drops a watch on the old inode.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log.Printf("[Watch] Watching %s", w.path)

	target := filepath.Clean(w.path)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			log.Printf("[Watch] %s changed, re-running analysis", w.path)
			w.callback(w.path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Watch] Watcher error: %v", err)
		}
	}
}
