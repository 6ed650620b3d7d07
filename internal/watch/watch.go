// Package watch reports changed asset files to the loop thread. fsnotify events are collected on a
// background goroutine; the loop drains them with Poll and never blocks.
package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"game-engine/internal/logger"

	"go.uber.org/zap"
)

// Watcher watches individual files. It watches their parent directories so that editors which
// save by rename are still seen.
type Watcher struct {
	w    *fsnotify.Watcher
	log  *logger.Logger
	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]bool
	pending map[string]bool
}

// New starts a watcher with no files.
func New(log *logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	w := &Watcher{
		w:       fw,
		log:     log.Named("watch"),
		done:    make(chan struct{}),
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		pending: make(map[string]bool),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	dir := filepath.Dir(abs)
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirs[dir] {
		if err := w.w.Add(dir); err != nil {
			return fmt.Errorf("watch: %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	return nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Clean(ev.Name)
			w.mu.Lock()
			if w.files[name] {
				w.pending[name] = true
			}
			w.mu.Unlock()
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// Poll returns the watched files changed since the last call, sorted. It never blocks.
func (w *Watcher) Poll() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	clear(w.pending)
	sort.Strings(out)
	return out
}

// Close stops the watcher goroutine. Safe to call more than once.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.w.Close()
	w.wg.Wait()
	return err
}
