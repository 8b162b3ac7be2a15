package codeaction

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups rapid writes to one file into a single rescan.
const DefaultDebounce = 200 * time.Millisecond

// Event is delivered to the watcher callback after a file changed.
// Removed files have a nil Report.
type Event struct {
	Path    string
	Report  *FileReport
	Removed bool
	Err     error
}

// Watcher rescans markup files under a root as they change.
//
// Usage:
//
//	w, err := NewWatcher(scanner, cfg, DefaultDebounce, onEvent, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(root); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher  *fsnotify.Watcher
	scanner  *Scanner
	cfg      ScanConfig
	debounce time.Duration
	onEvent  func(Event)
	logger   *slog.Logger
	root     string

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher. onEvent is called from a background
// goroutine, at most once at a time.
func NewWatcher(scanner *Scanner, cfg ScanConfig, debounce time.Duration, onEvent func(Event), logger *slog.Logger) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:        fw,
		scanner:        scanner,
		cfg:            cfg,
		debounce:       debounce,
		onEvent:        onEvent,
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
	}, nil
}

// Start watches root and every non-excluded directory below it.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if w.started {
		return fmt.Errorf("watcher already started")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root path: %w", err)
	}
	w.root = absRoot

	if err := w.addTree(absRoot); err != nil {
		return err
	}

	w.started = true
	w.logger.Info("file watcher started", "root", absRoot)
	go w.eventLoop()
	return nil
}

// addTree adds dir and its non-excluded subdirectories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.cfg.Excluded(w.rel(path), true) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops watching and cancels pending rescans. It is idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	close(w.stopChan)
	w.mu.Unlock()

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	rel := w.rel(path)

	if event.Has(fsnotify.Create) {
		if isDir, err := statDir(path); err == nil && isDir {
			if !w.cfg.Excluded(rel, true) {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if w.cfg.Excluded(rel, false) || !w.cfg.Included(rel) {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.debounceRescan(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancelRescan(path)
		w.emit(Event{Path: path, Removed: true})
	}
}

// debounceRescan schedules a rescan of path after the debounce delay,
// replacing any rescan already pending for it.
func (w *Watcher) debounceRescan(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}

	w.debounceTimers[path] = time.AfterFunc(w.debounce, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		report, err := w.scanner.ScanFile(path)
		w.emit(Event{Path: path, Report: report, Err: err})
	})
}

func (w *Watcher) cancelRescan(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
		delete(w.debounceTimers, path)
	}
}

// emit serializes callback invocations and drops events after Stop.
func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || w.onEvent == nil {
		return
	}
	w.onEvent(ev)
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Pending returns the number of scheduled rescans.
func (w *Watcher) Pending() int {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	return len(w.debounceTimers)
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
