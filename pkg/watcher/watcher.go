// Package watcher monitors the config file for changes so a running
// explorer can pick up edits without restarting. The filesystem tree
// itself is never watched; it stays a point-in-time snapshot.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults for debounce and the polling fallback.
const (
	DefaultDebounceDuration = 200 * time.Millisecond
	DefaultPollInterval     = 2 * time.Second
)

// Common errors.
var (
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets the callback invoked when the file changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// Watcher monitors a single file using fsnotify with a polling fallback.
// Change bursts (editors tend to write-rename-chmod) are debounced into
// one callback.
type Watcher struct {
	path             string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	forcePoll        bool

	fsWatcher *fsnotify.Watcher
	debounce  *time.Timer
	polling   bool
	lastMtime time.Time
	lastSize  int64

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// New creates a watcher for the given file path.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. The watched file does not have to exist yet;
// creation counts as a change.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	if info, err := os.Stat(w.path); err == nil {
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	} else {
		w.lastMtime = time.Time{}
		w.lastSize = 0
	}

	w.polling = true
	if !w.forcePoll {
		if fsw, err := fsnotify.NewWatcher(); err == nil {
			// Watch the containing directory: more reliable for the
			// atomic write-rename dance editors do.
			if err := fsw.Add(filepath.Dir(w.path)); err != nil {
				fsw.Close()
			} else {
				w.fsWatcher = fsw
				w.polling = false
				go w.watchFsnotify(fsw)
			}
		}
	}
	if w.polling {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching and cancels any pending debounce.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// notify schedules the onChange callback, coalescing bursts.
func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDuration, w.onChange)
}

func (w *Watcher) watchFsnotify(fsw *fsnotify.Watcher) {
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.notify()
			}
		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}
			// Kernel watcher errors are transient; drop them and keep
			// listening for events.
		}
	}
}

func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				if !w.lastMtime.IsZero() {
					// File disappeared.
					w.mu.Lock()
					w.lastMtime = time.Time{}
					w.lastSize = 0
					w.mu.Unlock()
					w.notify()
				}
				continue
			}
			w.mu.Lock()
			changed := !info.ModTime().Equal(w.lastMtime) || info.Size() != w.lastSize
			w.lastMtime = info.ModTime()
			w.lastSize = info.Size()
			w.mu.Unlock()
			if changed {
				w.notify()
			}
		}
	}
}
