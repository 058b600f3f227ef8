// Package engine runs the daemon's background collectors.
package engine

import (
	"context"

	"github.com/grovetools/devlog/internal/daemon/collector"
	"github.com/grovetools/devlog/internal/daemon/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Engine manages and runs all collectors.
type Engine struct {
	registry   *store.Registry
	collectors []collector.Collector
	logger     *logrus.Entry
}

// New creates a new Engine instance.
func New(reg *store.Registry, logger *logrus.Entry) *Engine {
	return &Engine{
		registry: reg,
		logger:   logger,
	}
}

// Register adds a collector to the engine.
func (e *Engine) Register(c collector.Collector) {
	e.collectors = append(e.collectors, c)
}

// Collectors returns the names of the registered collectors.
func (e *Engine) Collectors() []string {
	names := make([]string, 0, len(e.collectors))
	for _, c := range e.collectors {
		names = append(names, c.Name())
	}
	return names
}

// Start runs all collectors and blocks until ctx is canceled and every
// collector has returned. A failing collector is logged and does not stop
// the others; the first such error is returned.
func (e *Engine) Start(ctx context.Context) error {
	updates := make(chan store.Update, 100)
	var g errgroup.Group

	// 1. Start Update Consumer
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case u := <-updates:
				e.registry.ApplyUpdate(u)
			}
		}
	})

	// 2. Start Collectors
	for _, c := range e.collectors {
		col := c
		g.Go(func() error {
			log := e.logger.WithField("collector", col.Name())
			log.Debug("Starting collector")
			if err := col.Run(ctx, e.registry, updates); err != nil {
				log.WithError(err).Error("Collector failed")
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// Registry returns the engine's session registry.
func (e *Engine) Registry() *store.Registry {
	return e.registry
}
