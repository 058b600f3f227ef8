package daemon

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/internal/daemon/scanner"
	"github.com/grovetools/devlog/pkg/models"
	"github.com/grovetools/devlog/pkg/process"
)

// LocalClient implements Client without a running instance: sessions come
// from a one-shot scan of the process table and nothing is logged.
type LocalClient struct {
	lister  process.Lister
	matcher scanner.Matcher
	self    int
}

// NewLocalClient creates a LocalClient using the default indicators.
func NewLocalClient(indicators ...string) *LocalClient {
	return &LocalClient{
		lister:  process.NewSystemLister(),
		matcher: scanner.NewMatcher(indicators...),
		self:    os.Getpid(),
	}
}

// NewLocalClientWithLister is NewLocalClient with an explicit process lister.
func NewLocalClientWithLister(l process.Lister, indicators ...string) *LocalClient {
	c := NewLocalClient(indicators...)
	c.lister = l
	return c
}

// GetStatus always fails: there is no run to describe.
func (c *LocalClient) GetStatus(ctx context.Context) (*models.Status, error) {
	return nil, errors.NotRunning()
}

// GetSessions returns the assistant processes running right now, ordered by PID.
func (c *LocalClient) GetSessions(ctx context.Context) ([]*models.Session, error) {
	procs, err := c.lister.List(ctx)
	if err != nil {
		return nil, errors.EnumerationFailed(err)
	}

	var sessions []*models.Session
	for _, p := range procs {
		if p.PID == c.self || !c.matcher.Match(p) {
			continue
		}
		s := &models.Session{
			PID:       p.PID,
			Name:      p.Name,
			Cmdline:   p.Cmdline,
			Cwd:       p.Cwd,
			StartTime: p.StartedAt,
		}
		if !p.StartedAt.IsZero() {
			started := p.StartedAt
			s.ProcStart = &started
		}
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].PID < sessions[j].PID })
	return sessions, nil
}

// GetRoots returns nothing; only a running instance watches directories.
func (c *LocalClient) GetRoots(ctx context.Context) ([]models.RootStatus, error) {
	return nil, nil
}

// StreamState is not supported in local mode.
func (c *LocalClient) StreamState(ctx context.Context) (<-chan StateUpdate, error) {
	return nil, fmt.Errorf("streaming requires a running devlog instance")
}

// IsRunning always returns false for LocalClient.
func (c *LocalClient) IsRunning() bool {
	return false
}

// Close is a no-op for LocalClient.
func (c *LocalClient) Close() error {
	return nil
}

// Ensure LocalClient implements Client interface.
var _ Client = (*LocalClient)(nil)
