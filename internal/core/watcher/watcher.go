package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"skiplint/internal/shared/observability"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Filter decides which paths the watcher reacts to. *app.App satisfies it.
type Filter interface {
	Excluded(path string) bool
	ExcludedDir(path string) bool
}

type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	filter     Filter
	limiter    *rate.Limiter
	onChange   func([]string)
	callbackMu sync.Mutex

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
	closed    bool
}

// NewWatcher batches file events into onChange calls. maxPerSecond caps how
// often onChange fires; a zero value disables the cap.
func NewWatcher(debounce time.Duration, maxPerSecond float64, filter Filter, onChange func([]string)) (*Watcher, error) {
	if onChange == nil || filter == nil {
		return nil, os.ErrInvalid
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		filter:    filter,
		limiter:   rate.NewLimiter(rescanLimit(maxPerSecond), 1),
		onChange:  onChange,
		pending:   make(map[string]time.Time),
	}, nil
}

func rescanLimit(maxPerSecond float64) rate.Limit {
	if maxPerSecond > 0 {
		return rate.Limit(maxPerSecond)
	}
	return rate.Inf
}

// SetDebounce applies to batches scheduled after the call.
func (w *Watcher) SetDebounce(debounce time.Duration) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.debounce = debounce
}

func (w *Watcher) Debounce() time.Duration {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	return w.debounce
}

// SetLimit changes the rescan cap; zero or less removes it.
func (w *Watcher) SetLimit(maxPerSecond float64) {
	w.limiter.SetLimit(rescanLimit(maxPerSecond))
}

// Limit reports the rescan cap in flushes per second, or zero when uncapped.
func (w *Watcher) Limit() float64 {
	l := w.limiter.Limit()
	if l == rate.Inf {
		return 0
	}
	return float64(l)
}

// Watch registers every non-excluded directory under paths and starts the
// event loop. File arguments register their parent directory.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if err := w.fsWatcher.Add(filepath.Dir(path)); err != nil {
				return err
			}
			continue
		}
		if err := w.watchRecursive(path); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.filter.ExcludedDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if event.Has(fsnotify.Create) {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if !w.filter.ExcludedDir(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						} else {
							w.enqueueExistingFiles(event.Name)
						}
					}
					continue
				}
			}

			if w.filter.Excluded(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()
	w.armLocked(w.debounce)
}

func (w *Watcher) armLocked(after time.Duration) {
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(after, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	r := w.limiter.Reserve()
	if delay := r.Delay(); delay > 0 {
		// Keep the batch and retry once the limiter has a token.
		r.Cancel()
		observability.WatcherRescansThrottled.Inc()
		w.armLocked(delay)
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	sort.Strings(paths)
	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) enqueueExistingFiles(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if w.filter.Excluded(path) {
			return nil
		}
		w.scheduleChange(path)
		return nil
	})
}
