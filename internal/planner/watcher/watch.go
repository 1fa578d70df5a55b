// Package watcher follows the room template file and reloads it when it changes.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tile-planner/internal/planner/layout"
)

// Debounce is the quiet period that collapses a burst of writes into one event.
const Debounce = 100 * time.Millisecond

// Watcher reports changes to a single file. The parent directory is watched so
// that editors which replace the file on save are still followed.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Path() string { return w.path }

// Close stops the watcher. Events and Errors are closed once it has stopped.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(Debounce)
			} else {
				timer.Reset(Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.Events <- w.path:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// ============================================================
// Template reload
// ============================================================

// Follow reloads the template on every change and hands it to apply. A file
// that fails to load or validate is logged and the previous template stays in
// effect. Follow returns when ctx is done or the watcher is closed.
func Follow(ctx context.Context, w *Watcher, apply func(layout.Template)) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			tmpl, err := layout.LoadTemplate(path)
			if err != nil {
				log.Printf("[WATCHER] keeping current room template: %v", err)
				continue
			}
			log.Printf("[WATCHER] reloaded room template %q from %s", tmpl.Name, path)
			apply(tmpl)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("[WATCHER] %v", err)
		}
	}
}
