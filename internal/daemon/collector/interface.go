// Package collector provides the background tasks run by the daemon engine.
package collector

import (
	"context"

	"github.com/grovetools/devlog/internal/daemon/store"
)

// Collector is a background worker that fetches data and emits updates.
type Collector interface {
	// Name returns the collector's name for logging.
	Name() string

	// Run starts the collector. It should block until context is canceled.
	// It emits updates via the updates channel.
	// It can read from the registry (thread-safe) to get context.
	Run(ctx context.Context, reg *store.Registry, updates chan<- store.Update) error
}

// emit sends u unless ctx is done first.
func emit(ctx context.Context, updates chan<- store.Update, u store.Update) {
	select {
	case updates <- u:
	case <-ctx.Done():
	}
}
