// Package orchestrator owns one devlog run: the session log, the directory
// watchers, the session registry and the background tasks.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/internal/daemon/activity"
	"github.com/grovetools/devlog/internal/daemon/collector"
	"github.com/grovetools/devlog/internal/daemon/engine"
	"github.com/grovetools/devlog/internal/daemon/ignore"
	"github.com/grovetools/devlog/internal/daemon/journal"
	"github.com/grovetools/devlog/internal/daemon/scanner"
	"github.com/grovetools/devlog/internal/daemon/store"
	"github.com/grovetools/devlog/internal/daemon/watcher"
	"github.com/grovetools/devlog/logging"
	"github.com/grovetools/devlog/pkg/models"
	"github.com/grovetools/devlog/pkg/process"
	"github.com/grovetools/devlog/util/pathutil"
	"github.com/sirupsen/logrus"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLister replaces the system process lister.
func WithLister(l process.Lister) Option {
	return func(o *Orchestrator) { o.lister = l }
}

// WithClock overrides time.Now for every log line written by the run.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithScannerOptions passes extra options to the process scanner.
func WithScannerOptions(opts ...scanner.Option) Option {
	return func(o *Orchestrator) { o.scanOpts = append(o.scanOpts, opts...) }
}

type watchedRoot struct {
	watcher  *watcher.Watcher
	recorder *activity.Recorder
}

// Orchestrator runs devlog. Create it with New, then call Run, or Start
// followed by Shutdown.
type Orchestrator struct {
	cfg      Config
	filter   ignore.Filter
	lister   process.Lister
	now      func() time.Time
	scanOpts []scanner.Option
	logger   *logrus.Entry
	ulog     *logging.UnifiedLogger
	registry *store.Registry
	engine   *engine.Engine

	mu         sync.Mutex
	started    bool
	startedAt  time.Time
	sessionLog *journal.SessionLog
	roots      []watchedRoot
	scanner    *scanner.Scanner
	cancel     context.CancelFunc
	done       chan struct{}
	runErr     error

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates an Orchestrator for cfg.
func New(cfg Config, opts ...Option) (*Orchestrator, error) {
	if cfg.Projects == "" {
		return nil, errors.InvalidInput("projects root is required")
	}
	if cfg.LogRoot == "" {
		return nil, errors.InvalidInput("log root is required")
	}
	cfg.applyDefaults()

	logger := logging.NewLogger("orchestrator")
	registry := store.New()
	o := &Orchestrator{
		cfg:      cfg,
		filter:   ignore.New(cfg.Ignore...),
		now:      time.Now,
		logger:   logger,
		ulog:     logging.NewUnifiedLogger("orchestrator"),
		registry: registry,
		engine:   engine.New(registry, logger),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.lister == nil {
		o.lister = process.NewSystemLister()
	}
	return o, nil
}

// Config returns the resolved configuration.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Registry returns the session registry.
func (o *Orchestrator) Registry() *store.Registry {
	return o.registry
}

// Start creates the log root, opens the session log, starts the directory
// watchers and launches the background tasks. It returns once everything
// is running. Watcher setup failures are logged and that root is skipped.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.started {
		return errors.New(errors.ErrCodeInternal, "orchestrator already started")
	}

	if err := os.MkdirAll(o.cfg.LogRoot, 0755); err != nil {
		return errors.LogDirCreate(o.cfg.LogRoot, err)
	}

	o.startedAt = o.now()
	sessionLog, err := journal.CreateSessionLog(journal.SessionLogInfo{
		Started:    o.startedAt,
		Monitoring: o.cfg.Projects,
		LogRoot:    o.cfg.LogRoot,
		PID:        os.Getpid(),
	})
	if err != nil {
		return errors.LogWrite(o.cfg.LogRoot, err)
	}
	o.sessionLog = sessionLog

	o.ulog.Info("Claude background logger starting").
		Field("projects", o.cfg.Projects).
		Field("logs", o.cfg.LogRoot).
		Field("pid", os.Getpid()).
		Icon(logging.IconRunning).
		Log(ctx)
	console := o.ulog.WithPretty()
	console.Path(ctx, "Monitoring", o.cfg.Projects)
	console.Path(ctx, "Logging to", o.cfg.LogRoot)

	for _, path := range o.candidateRoots(ctx) {
		o.addRoot(ctx, path)
	}

	scanOpts := append([]scanner.Option{
		scanner.WithMatcher(scanner.NewMatcher(o.cfg.Indicators...)),
		scanner.WithClock(o.now),
	}, o.scanOpts...)
	sc := scanner.New(o.lister, o.registry, scanner.JournalOpener{Root: o.cfg.LogRoot}, scanOpts...)
	o.scanner = sc

	hb := collector.NewHeartbeatCollector(o.sessionLog, o.RootStatuses, o.cfg.HeartbeatInterval, o.logger).
		WithClock(o.now)
	o.engine.Register(collector.NewScanCollector(sc, o.cfg.ScanInterval, o.logger))
	o.engine.Register(collector.NewConversationCollector(o.cfg.ConversationInterval, o.logger))
	o.engine.Register(hb)

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	done := o.done
	go func() {
		defer close(done)
		o.runErr = o.engine.Start(runCtx)
	}()

	o.started = true
	return nil
}

// Run starts the orchestrator, blocks until ctx is done and then shuts down.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return o.Shutdown()
}

// Shutdown stops the background tasks, stops every watcher and writes the
// closing summary to the session log. Only the first call has any effect;
// later calls return the same result.
func (o *Orchestrator) Shutdown() error {
	o.shutdownOnce.Do(func() {
		o.shutdownErr = o.shutdown()
	})
	return o.shutdownErr
}

func (o *Orchestrator) shutdown() error {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return nil
	}
	cancel, done := o.cancel, o.done
	roots := append([]watchedRoot(nil), o.roots...)
	sessionLog := o.sessionLog
	o.mu.Unlock()

	ctx := context.Background()
	o.ulog.Info("Shutting down logger").Icon(logging.IconInfo).Log(ctx)

	// The heartbeat reads root status under o.mu, so wait unlocked.
	cancel()
	<-done

	for _, r := range roots {
		r.watcher.Stop()
		if err := r.recorder.Close(); err != nil {
			o.logger.WithError(err).WithField("root", r.recorder.Root().Path).Warn("Failed to close activity log")
		}
	}

	var firstErr error
	if err := sessionLog.Ended(o.now(), o.registry.Count()); err != nil {
		firstErr = errors.LogWrite(sessionLog.Path(), err)
	}
	if err := sessionLog.Close(); err != nil && firstErr == nil {
		firstErr = errors.LogWrite(sessionLog.Path(), err)
	}

	o.ulog.Success("Logger stopped").
		Field("sessions", o.registry.Count()).
		Field("session_log", sessionLog.Path()).
		Log(ctx)
	o.ulog.WithPretty().Field(ctx, "Sessions detected", o.registry.Count())

	if firstErr != nil {
		return firstErr
	}
	return o.runErr
}

// candidateRoots returns the projects root, when it is a directory, and
// every sibling directory whose name starts with the sibling prefix.
func (o *Orchestrator) candidateRoots(ctx context.Context) []string {
	var roots []string
	add := func(path string) {
		for _, existing := range roots {
			if pathutil.Same(existing, path) {
				return
			}
		}
		roots = append(roots, path)
	}

	if info, err := os.Stat(o.cfg.Projects); err == nil && info.IsDir() {
		add(o.cfg.Projects)
	} else {
		o.ulog.Warn("Projects root is not a directory").
			Field("path", o.cfg.Projects).
			Log(ctx)
	}

	parent := filepath.Dir(o.cfg.Projects)
	entries, err := os.ReadDir(parent)
	if err != nil {
		o.logger.WithError(err).WithField("path", parent).Warn("Failed to list sibling directories")
		return roots
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), o.cfg.SiblingPrefix) {
			continue
		}
		path := filepath.Join(parent, entry.Name())
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			add(path)
		}
	}
	return roots
}

// addRoot starts a watcher for path. Failures are logged and recorded in
// the session log; the run continues without that root.
func (o *Orchestrator) addRoot(ctx context.Context, path string) {
	root := activity.NewRoot(path)
	fail := func(err error) {
		o.ulog.Error("Failed to watch").Field("path", path).Err(err).Log(ctx)
		if werr := o.sessionLog.WatcherFailed(path, err, o.now()); werr != nil {
			o.logger.WithError(werr).Warn("Failed to write session log")
		}
	}

	rec, err := activity.NewRecorder(root, o.cfg.LogRoot, activity.WithClock(o.now))
	if err != nil {
		fail(err)
		return
	}
	w, err := watcher.New(root, o.filter, rec)
	if err != nil {
		_ = rec.Close()
		fail(err)
		return
	}
	w.Exclude(o.cfg.LogRoot)
	if err := w.Start(); err != nil {
		w.Stop()
		_ = rec.Close()
		fail(err)
		return
	}

	o.roots = append(o.roots, watchedRoot{watcher: w, recorder: rec})
	o.ulog.Info(fmt.Sprintf("Watching: %s", root.Name)).
		Field("path", path).
		Icon(logging.IconWatch).
		Log(ctx)
	if err := o.sessionLog.AddedWatcher(path, o.now()); err != nil {
		o.logger.WithError(err).Warn("Failed to write session log")
	}
}

// Reload applies the settings that may change during a run, currently the
// process indicators, and notifies status subscribers. Watched roots and
// intervals keep the values they started with.
func (o *Orchestrator) Reload(file string, cfg Config) {
	o.mu.Lock()
	sc := o.scanner
	o.mu.Unlock()

	if sc != nil {
		sc.SetMatcher(scanner.NewMatcher(cfg.Indicators...))
	}
	o.registry.ApplyUpdate(store.Update{
		Type:    store.UpdateConfigReload,
		Source:  "config",
		Time:    o.now(),
		Payload: file,
	})
	o.logger.WithField("file", file).Info("Configuration reloaded")
}

// RootStatuses reports every root that was successfully watched.
func (o *Orchestrator) RootStatuses() []models.RootStatus {
	o.mu.Lock()
	roots := append([]watchedRoot(nil), o.roots...)
	o.mu.Unlock()

	out := make([]models.RootStatus, 0, len(roots))
	for _, r := range roots {
		root := r.recorder.Root()
		out = append(out, models.RootStatus{
			Path:    root.Path,
			Name:    root.Name,
			LogPath: r.recorder.Path(),
			State:   r.watcher.State().String(),
			Dirs:    r.watcher.Dirs(),
			Entries: r.recorder.Entries(),
		})
	}
	return out
}

// SessionLogPath returns the top-level session log path, or "" before Start.
func (o *Orchestrator) SessionLogPath() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sessionLog == nil {
		return ""
	}
	return o.sessionLog.Path()
}

// Status summarizes the run for the status API.
func (o *Orchestrator) Status() models.Status {
	o.mu.Lock()
	startedAt := o.startedAt
	o.mu.Unlock()

	return models.Status{
		PID:            os.Getpid(),
		StartedAt:      startedAt,
		Projects:       o.cfg.Projects,
		LogRoot:        o.cfg.LogRoot,
		SessionLog:     o.SessionLogPath(),
		LastHeartbeat:  o.registry.LastHeartbeat(),
		ActiveSessions: o.registry.ActiveCount(),
		TotalSessions:  o.registry.Count(),
		Roots:          o.RootStatuses(),
	}
}
