// Package watcher subscribes to every directory under a project root and
// forwards file changes to an activity sink.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/internal/daemon/activity"
	"github.com/grovetools/devlog/internal/daemon/ignore"
	"github.com/grovetools/devlog/logging"
	"github.com/grovetools/devlog/util/pathutil"
	"github.com/sirupsen/logrus"
)

// seedWindow bounds how long a file found by a directory walk suppresses a
// duplicate Create event.
const seedWindow = 2 * time.Second

// State is the lifecycle state of a Watcher.
type State int

const (
	Stopped State = iota
	Watching
)

func (s State) String() string {
	if s == Watching {
		return "watching"
	}
	return "stopped"
}

// Sink receives classified file changes.
type Sink interface {
	Record(action activity.Action, path string) error
}

// Watcher watches one root recursively.
type Watcher struct {
	root   activity.Root
	filter ignore.Filter
	sink   Sink
	logger *logrus.Entry
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	state   State
	dirs    map[string]struct{}
	exclude []string
	// seeded holds files reported from the walk of a new directory, so a
	// Create event for the same file arriving shortly after is not recorded twice.
	seeded  map[string]time.Time

	forwarded atomic.Int64

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a stopped watcher for root.
func New(root activity.Root, filter ignore.Filter, sink Sink) (*Watcher, error) {
	if sink == nil {
		return nil, fmt.Errorf("sink is nil: %w", os.ErrInvalid)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WatchFailed(root.Path, err)
	}

	return &Watcher{
		root:   root,
		filter: filter,
		sink:   sink,
		logger: logging.NewLogger("watcher").WithField("root", root.Name),
		fsw:    fsw,
		dirs:   make(map[string]struct{}),
		seeded: make(map[string]time.Time),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Root returns the watched root.
func (w *Watcher) Root() activity.Root {
	return w.root
}

// State reports whether the watcher is running.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Dirs returns the number of directories currently subscribed.
func (w *Watcher) Dirs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

// Exclude drops every path at or below the given directories, typically
// the log directory when it lives inside the watched tree. It must be
// called before Start.
func (w *Watcher) Exclude(dirs ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range dirs {
		if d != "" {
			w.exclude = append(w.exclude, filepath.Clean(d))
		}
	}
}

// Forwarded returns the number of changes handed to the sink.
func (w *Watcher) Forwarded() int64 {
	return w.forwarded.Load()
}

// Start subscribes to the root and every non-ignored directory below it,
// then begins delivering events. Calling Start on a running watcher is a
// no-op; a stopped watcher cannot be restarted.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == Watching {
		return nil
	}
	select {
	case <-w.stop:
		return errors.WatchFailed(w.root.Path, fmt.Errorf("watcher already stopped"))
	default:
	}

	info, err := os.Stat(w.root.Path)
	if err != nil {
		return errors.WatchFailed(w.root.Path, err)
	}
	if !info.IsDir() {
		return errors.WatchFailed(w.root.Path, fmt.Errorf("not a directory"))
	}
	if err := w.fsw.Add(w.root.Path); err != nil {
		return errors.WatchFailed(w.root.Path, err)
	}
	w.dirs[w.root.Path] = struct{}{}
	w.addTreeLocked(w.root.Path, false)

	w.state = Watching
	go w.loop()

	w.logger.WithField("dirs", len(w.dirs)).Info("Watching")
	return nil
}

// Stop ends event delivery and waits for the event goroutine to exit.
// It is safe to call more than once and from several goroutines.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		running := w.state == Watching
		w.state = Stopped
		w.mu.Unlock()

		close(w.stop)
		if running {
			<-w.done
		}
		if err := w.fsw.Close(); err != nil {
			w.logger.WithError(err).Warn("Failed to close fsnotify watcher")
		}
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Watcher error")
		}
	}
}

// handleEvent classifies one fsnotify event. Directory events only adjust
// the subscription set; file events go to the sink.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.ignored(event.Name) {
		return
	}

	var action activity.Action
	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if w.forgetDir(event.Name) {
			return
		}
		action = activity.Deleted

	case event.Has(fsnotify.Create):
		if isDir(event.Name) {
			// Files written before the new directory was subscribed produce no
			// events of their own.
			w.mu.Lock()
			files := w.addTreeLocked(event.Name, true)
			w.mu.Unlock()
			for _, f := range files {
				w.record(activity.Created, f)
			}
			return
		}
		if w.takeSeeded(event.Name) {
			return
		}
		action = activity.Created

	case event.Has(fsnotify.Write):
		if isDir(event.Name) {
			return
		}
		action = activity.Modified

	default:
		// Chmod only.
		return
	}

	w.record(action, event.Name)
}

func (w *Watcher) record(action activity.Action, path string) {
	if err := w.sink.Record(action, path); err != nil {
		w.logger.WithError(err).WithField("path", path).Warn("Failed to record change")
		return
	}
	w.forwarded.Add(1)
}

// takeSeeded reports whether path was already recorded by a directory walk
// within seedWindow. Marks are cleared when the path is removed.
func (w *Watcher) takeSeeded(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	at, ok := w.seeded[path]
	return ok && time.Since(at) < seedWindow
}

// ignored matches the path relative to the root so ignored names above the
// root do not hide the whole tree.
func (w *Watcher) ignored(path string) bool {
	for _, dir := range w.exclude {
		if pathutil.Within(path, dir) {
			return true
		}
	}
	rel, err := filepath.Rel(w.root.Path, path)
	if err != nil {
		rel = path
	}
	return w.filter.Match(rel)
}

// addTreeLocked subscribes dir and its non-ignored subdirectories. Inaccessible
// directories are skipped. With files set it also returns the non-ignored
// regular files found, marking them seeded. w.mu must be held.
func (w *Watcher) addTreeLocked(dir string, files bool) []string {
	var found []string
	now := time.Now()
	for p, at := range w.seeded {
		if now.Sub(at) >= seedWindow {
			delete(w.seeded, p)
		}
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if !files || !d.Type().IsRegular() || w.ignored(path) {
				return nil
			}
			// A nested directory can be walked again by its own Create event.
			if _, ok := w.seeded[path]; !ok {
				found = append(found, path)
				w.seeded[path] = now
			}
			return nil
		}
		if path != w.root.Path && w.ignored(path) {
			return filepath.SkipDir
		}
		if _, ok := w.dirs[path]; ok {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.WithError(err).WithField("path", path).Debug("Failed to watch directory")
			return nil
		}
		w.dirs[path] = struct{}{}
		return nil
	})
	return found
}

// forgetDir drops path and everything below it from the subscription set and
// reports whether path was a watched directory.
func (w *Watcher) forgetDir(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.seeded, path)
	if _, ok := w.dirs[path]; !ok {
		return false
	}
	for dir := range w.dirs {
		if pathutil.Within(dir, path) {
			delete(w.dirs, dir)
			_ = w.fsw.Remove(dir)
		}
	}
	return true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
