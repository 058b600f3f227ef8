package collector

import (
	"context"
	"time"

	"github.com/grovetools/devlog/internal/daemon/scanner"
	"github.com/grovetools/devlog/internal/daemon/store"
	"github.com/sirupsen/logrus"
)

// ScanCollector runs the process scanner on a fixed interval.
type ScanCollector struct {
	scanner  *scanner.Scanner
	interval time.Duration
	logger   *logrus.Entry
}

// NewScanCollector creates a new ScanCollector.
func NewScanCollector(s *scanner.Scanner, interval time.Duration, logger *logrus.Entry) *ScanCollector {
	return &ScanCollector{
		scanner:  s,
		interval: interval,
		logger:   logger,
	}
}

// Name returns the collector's name.
func (c *ScanCollector) Name() string { return "scanner" }

// Run scans immediately and then once per interval. Enumeration failures
// are logged and the next tick tries again.
func (c *ScanCollector) Run(ctx context.Context, reg *store.Registry, updates chan<- store.Update) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	scan := func() {
		res, err := c.scanner.Scan(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.WithError(err).Warn("Process monitoring error")
			}
			return
		}
		if len(res.Added) > 0 || len(res.Ended) > 0 {
			c.logger.WithFields(logrus.Fields{
				"added":   len(res.Added),
				"ended":   len(res.Ended),
				"tracked": reg.Count(),
			}).Debug("Scan complete")
		}
	}

	scan()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			scan()
		}
	}
}
