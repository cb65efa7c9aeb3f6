// Package watch reloads a single file when it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events most editors produce for
// one save.
const DefaultDebounce = 100 * time.Millisecond

var (
	ErrNoPath         = errors.New("watch path is empty")
	ErrNoReload       = errors.New("reload callback is nil")
	ErrAlreadyRunning = errors.New("watcher already running")
)

// Logger is the subset of the plugin logger the watcher needs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// ReloadFunc is called after the watched file was written or recreated.
type ReloadFunc func() error

// FileWatcher watches one file. The parent directory is watched rather than
// the file itself so that atomic rename-on-save is seen as a create.
type FileWatcher struct {
	path     string
	reload   ReloadFunc
	logger   Logger
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	timer   *time.Timer
	reloads int
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) {
		w.debounce = d
	}
}

// New creates a watcher for path. It does not start watching.
func New(path string, reload ReloadFunc, logger Logger, opts ...Option) (*FileWatcher, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	if reload == nil {
		return nil, ErrNoReload
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	w := &FileWatcher{path: abs, reload: reload, logger: logger, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Name identifies the watcher as a plugin service.
func (w *FileWatcher) Name() string { return "watch:" + filepath.Base(w.path) }

// Start begins watching. It returns once the watch is established.
func (w *FileWatcher) Start(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return ErrAlreadyRunning
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.watcher = fw
	w.done = make(chan struct{})
	w.wg.Add(1)
	go w.loop(fw, w.done)
	w.logger.Info("Watching file for changes", "path", w.path)
	return nil
}

// Stop ends the watch and waits for the event loop to exit.
func (w *FileWatcher) Stop(_ context.Context) error {
	w.mu.Lock()
	if w.watcher == nil {
		w.mu.Unlock()
		return nil
	}
	fw := w.watcher
	close(w.done)
	w.watcher = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	err := fw.Close()
	w.wg.Wait()
	return err
}

// Reloads returns how many times the reload callback has run.
func (w *FileWatcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *FileWatcher) loop(fw *fsnotify.Watcher, done <-chan struct{}) {
	defer w.wg.Done()
	for {
		select {
		case <-done:
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *FileWatcher) fire() {
	w.mu.Lock()
	if w.watcher == nil {
		w.mu.Unlock()
		return
	}
	w.reloads++
	w.mu.Unlock()

	if err := w.reload(); err != nil {
		w.logger.Error("Reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("Reloaded file", "path", w.path)
}
