package tasks

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/desertthunder/cocktailparty/internal/shared"
)

const (
	defaultDebounce     = 150 * time.Millisecond
	defaultPollInterval = 5 * time.Second
)

// SQLite writes land in the database file or in one of these companions.
var sqliteSuffixes = []string{"", "-wal", "-journal"}

// Watcher reports writes to a SQLite database file.
type Watcher struct {
	path         string
	logger       *log.Logger
	debounce     time.Duration
	pollInterval time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	events int
	stamp  string
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithDebounce sets how long to wait for writes to settle (default 150ms).
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the fallback poll interval (default 5s).
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithWatcherLogger sets the logger used for setup failures.
func WithWatcherLogger(l *log.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a watcher for the database at path.
func NewWatcher(path string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:         path,
		debounce:     defaultDebounce,
		pollInterval: defaultPollInterval,
	}
	for _, o := range opts {
		o(w)
	}
	if w.logger == nil {
		w.logger = shared.NewLogger(nil)
	}
	w.stamp = w.fingerprint()
	return w
}

// Run watches until ctx is cancelled, sending a [DatabaseChanged] update per settled burst of writes.
// If fsnotify fails to initialize, it polls only.
func (w *Watcher) Run(ctx context.Context, out chan<- ProgressUpdate) error {
	defer w.stopTimer()

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err = watcher.Add(filepath.Dir(w.path)); err != nil {
			watcher.Close()
		}
	}

	if err != nil {
		w.logger.Warn("fsnotify unavailable, polling", "path", w.path, "error", err)
		sendProgress(out, watchingUpdate(w.path, "poll"))
		w.pollLoop(ctx, out)
		return nil
	}
	defer watcher.Close()

	sendProgress(out, watchingUpdate(w.path, "fsnotify"))
	go w.pollLoop(ctx, out)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.trigger(out)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) matches(name string) bool {
	base := filepath.Base(w.path)
	for _, suffix := range sqliteSuffixes {
		if filepath.Base(name) == base+suffix {
			return true
		}
	}
	return false
}

// trigger restarts the debounce timer.
func (w *Watcher) trigger(out chan<- ProgressUpdate) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.events++
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.fire(out) })
}

func (w *Watcher) fire(out chan<- ProgressUpdate) {
	w.mu.Lock()
	events := w.events
	w.events = 0
	w.stamp = w.fingerprint()
	w.mu.Unlock()

	sendProgress(out, changedUpdate(w.path, events))
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// pollLoop catches writes fsnotify misses (network filesystems) by comparing file stats.
func (w *Watcher) pollLoop(ctx context.Context, out chan<- ProgressUpdate) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stamp := w.fingerprint()
			w.mu.Lock()
			changed := stamp != w.stamp
			w.mu.Unlock()
			if changed {
				w.trigger(out)
			}
		}
	}
}

// fingerprint summarizes size and modification time of the database and its companions.
func (w *Watcher) fingerprint() string {
	var stamp string
	for _, suffix := range sqliteSuffixes {
		info, err := os.Stat(w.path + suffix)
		if err != nil {
			stamp += "-|"
			continue
		}
		stamp += info.ModTime().Format(time.RFC3339Nano) + ":" + strconv.FormatInt(info.Size(), 10) + "|"
	}
	return stamp
}
