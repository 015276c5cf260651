// Package watch reloads the viewed document when it changes on disk.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one document file and invokes a debounced callback
// on changes.
type Watcher struct {
	path     string
	onChange func()
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	debounce time.Duration
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	return &Watcher{
		path:     absPath,
		onChange: onChange,
		watcher:  fw,
		stopChan: make(chan struct{}),
		debounce: 500 * time.Millisecond,
	}, nil
}

// Start begins monitoring. The containing directory is watched, which
// survives editors replacing the file on save.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	slog.Debug("Watching document", "path", w.path)
	go w.loop()
	return nil
}

// Stop ends monitoring and releases the watcher.
func (w *Watcher) Stop() {
	close(w.stopChan)
	_ = w.watcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	fire := make(chan struct{}, 1)
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Editors often emit bursts of events per save; collapse
			// them into one reload.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Document watcher error", "error", err)
		case <-fire:
			slog.Debug("Document changed", "path", w.path)
			w.onChange()
		}
	}
}
