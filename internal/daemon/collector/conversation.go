package collector

import (
	"context"
	"time"

	"github.com/grovetools/devlog/internal/daemon/store"
	"github.com/sirupsen/logrus"
)

// ConversationCollector is a placeholder for conversation capture. It ticks
// on its interval and records nothing.
type ConversationCollector struct {
	interval time.Duration
	logger   *logrus.Entry
}

// NewConversationCollector creates a new ConversationCollector.
func NewConversationCollector(interval time.Duration, logger *logrus.Entry) *ConversationCollector {
	return &ConversationCollector{
		interval: interval,
		logger:   logger,
	}
}

// Name returns the collector's name.
func (c *ConversationCollector) Name() string { return "conversation" }

// Run blocks until ctx is canceled.
func (c *ConversationCollector) Run(ctx context.Context, _ *store.Registry, _ chan<- store.Update) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.logger.Debug("Conversation capture tick")
		}
	}
}
