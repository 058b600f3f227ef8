package collector

import (
	"context"
	"time"

	"github.com/grovetools/devlog/internal/daemon/store"
	"github.com/grovetools/devlog/pkg/models"
	"github.com/sirupsen/logrus"
)

// HeartbeatWriter receives one line per heartbeat.
type HeartbeatWriter interface {
	Heartbeat(at time.Time, sessions int) error
}

// RootSource reports the current status of the watched roots.
type RootSource func() []models.RootStatus

// HeartbeatCollector appends a heartbeat with the tracked session count to
// the session log and republishes root status to subscribers.
type HeartbeatCollector struct {
	log      HeartbeatWriter
	roots    RootSource
	interval time.Duration
	now      func() time.Time
	logger   *logrus.Entry
}

// NewHeartbeatCollector creates a new HeartbeatCollector. roots may be nil.
func NewHeartbeatCollector(log HeartbeatWriter, roots RootSource, interval time.Duration, logger *logrus.Entry) *HeartbeatCollector {
	return &HeartbeatCollector{
		log:      log,
		roots:    roots,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock sets the time source used to stamp heartbeats.
func (c *HeartbeatCollector) WithClock(now func() time.Time) *HeartbeatCollector {
	if now != nil {
		c.now = now
	}
	return c
}

// Name returns the collector's name.
func (c *HeartbeatCollector) Name() string { return "heartbeat" }

// Run writes the first heartbeat after one full interval.
func (c *HeartbeatCollector) Run(ctx context.Context, reg *store.Registry, updates chan<- store.Update) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	if c.roots != nil {
		emit(ctx, updates, store.Update{Type: store.UpdateRoots, Source: c.Name(), Time: c.now(), Payload: c.roots()})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			at := c.now()
			if err := c.log.Heartbeat(at, reg.Count()); err != nil {
				c.logger.WithError(err).Warn("Failed to write heartbeat")
			}
			emit(ctx, updates, store.Update{Type: store.UpdateHeartbeat, Source: c.Name(), Time: at})
			if c.roots != nil {
				emit(ctx, updates, store.Update{Type: store.UpdateRoots, Source: c.Name(), Time: at, Payload: c.roots()})
			}
		}
	}
}
