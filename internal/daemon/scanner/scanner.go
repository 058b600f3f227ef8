// Package scanner polls the process table for assistant sessions and keeps
// the session registry and per-process logs in step with it.
package scanner

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/internal/daemon/journal"
	"github.com/grovetools/devlog/internal/daemon/store"
	"github.com/grovetools/devlog/logging"
	"github.com/grovetools/devlog/pkg/models"
	"github.com/grovetools/devlog/pkg/process"
	"github.com/sirupsen/logrus"
)

// SessionOpener creates and finalizes the dedicated log of a session.
type SessionOpener interface {
	// Open writes the session log header and returns the log path.
	Open(s *models.Session) (string, error)
	// MarkEnded appends the exit line to a session log.
	MarkEnded(s *models.Session, at time.Time) error
}

// JournalOpener writes claude_session_<pid>_<ts>.md files under Root.
type JournalOpener struct {
	Root string
}

// Open implements SessionOpener.
func (o JournalOpener) Open(s *models.Session) (string, error) {
	return journal.CreateProcessLog(o.Root, journal.ProcessLogInfo{
		PID:     s.PID,
		Started: s.StartTime,
		Cwd:     s.Cwd,
		Cmdline: s.Cmdline,
	})
}

// MarkEnded implements SessionOpener.
func (o JournalOpener) MarkEnded(s *models.Session, at time.Time) error {
	if s.LogPath == "" {
		return nil
	}
	return journal.MarkProcessEnded(s.LogPath, at)
}

// ScanResult summarizes one pass over the process table.
type ScanResult struct {
	Listed  int
	Matched int
	Added   []*models.Session
	Ended   []*models.Session
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithMatcher replaces the default indicator matcher.
func WithMatcher(m Matcher) Option {
	return func(s *Scanner) { s.matcher = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithSelfPID sets the PID excluded from matching; defaults to os.Getpid().
func WithSelfPID(pid int) Option {
	return func(s *Scanner) { s.self = pid }
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Scanner) { s.logger = l }
}

// Scanner registers newly seen assistant processes and marks tracked
// processes that have left the process table. It is the registry's only
// writer.
type Scanner struct {
	lister   process.Lister
	registry *store.Registry
	opener   SessionOpener
	now      func() time.Time
	self     int
	logger   *logrus.Entry

	mu      sync.RWMutex
	matcher Matcher
}

// New creates a Scanner.
func New(lister process.Lister, registry *store.Registry, opener SessionOpener, opts ...Option) *Scanner {
	s := &Scanner{
		lister:   lister,
		registry: registry,
		opener:   opener,
		matcher:  NewMatcher(),
		now:      time.Now,
		self:     os.Getpid(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogger("scanner")
	}
	return s
}

// SetMatcher replaces the matcher used by subsequent scans. Sessions
// already registered are unaffected.
func (s *Scanner) SetMatcher(m Matcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matcher = m
}

// Matcher returns the current matcher.
func (s *Scanner) Matcher() Matcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher
}

// Scan enumerates the process table once. An enumeration failure is
// returned as ENUMERATION_FAILED with the registry untouched; the caller
// logs it and tries again on the next tick.
func (s *Scanner) Scan(ctx context.Context) (ScanResult, error) {
	var res ScanResult

	procs, err := s.lister.List(ctx)
	if err != nil {
		return res, errors.EnumerationFailed(err)
	}
	res.Listed = len(procs)

	matcher := s.Matcher()
	now := s.now()
	present := make(map[int]struct{}, len(procs))
	for _, p := range procs {
		present[p.PID] = struct{}{}
		if p.PID == s.self || !matcher.Match(p) {
			continue
		}
		res.Matched++
		if s.registry.Has(p.PID) {
			continue
		}
		if sess := s.register(p, now); sess != nil {
			res.Added = append(res.Added, sess)
		}
	}

	for _, pid := range s.registry.ActivePIDs() {
		if _, ok := present[pid]; ok {
			continue
		}
		sess, ok := s.registry.MarkEnded(pid, now)
		if !ok {
			continue
		}
		if err := s.opener.MarkEnded(sess, now); err != nil {
			s.logger.WithError(err).WithField("pid", pid).Warn("Failed to mark session log ended")
		}
		s.logger.WithField("pid", pid).Info("Session ended")
		res.Ended = append(res.Ended, sess)
	}

	return res, nil
}

func (s *Scanner) register(p process.Info, now time.Time) *models.Session {
	sess := &models.Session{
		PID:       p.PID,
		Name:      p.Name,
		Cmdline:   p.Cmdline,
		Cwd:       p.Cwd,
		StartTime: now,
	}
	if !p.StartedAt.IsZero() {
		started := p.StartedAt
		sess.ProcStart = &started
	}

	logPath, err := s.opener.Open(sess)
	if err != nil {
		// Tracked without a log so it is not retried every tick.
		s.logger.WithError(err).WithField("pid", p.PID).Warn("Failed to create session log")
	}
	sess.LogPath = logPath

	if !s.registry.Add(sess) {
		return nil
	}
	s.logger.WithFields(logrus.Fields{
		"pid":     p.PID,
		"command": sess.Command(),
		"log":     logPath,
	}).Info("Detected session")
	return sess
}
