// Package daemon provides a client for a running devlog instance. When no
// instance is reachable it falls back to a one-shot scan of the local
// process table.
package daemon

import (
	"context"
	"time"

	"github.com/grovetools/devlog/pkg/models"
)

// Client defines the interface for querying devlog.
// Both RemoteClient (socket API) and LocalClient (direct calls) implement this interface.
type Client interface {
	// GetStatus returns the summary of the running instance.
	GetStatus(ctx context.Context) (*models.Status, error)

	// GetSessions returns the tracked sessions.
	GetSessions(ctx context.Context) ([]*models.Session, error)

	// GetRoots returns the watched directories.
	GetRoots(ctx context.Context) ([]models.RootStatus, error)

	// StreamState subscribes to real-time state updates from the daemon.
	// For LocalClient, this returns an error since streaming is only available via daemon.
	StreamState(ctx context.Context) (<-chan StateUpdate, error)

	// IsRunning returns true if the daemon is available and responding.
	IsRunning() bool

	// Close cleans up any resources used by the client.
	Close() error
}

// StateUpdate represents an update pushed from the daemon to subscribers.
type StateUpdate struct {
	UpdateType string              `json:"update_type"` // "initial", "session_added", "session_ended", "roots", "heartbeat", "config_reload"
	Source     string              `json:"source,omitempty"`
	Time       time.Time           `json:"time"`
	Session    *models.Session     `json:"session,omitempty"`
	Sessions   []*models.Session   `json:"sessions,omitempty"`
	Roots      []models.RootStatus `json:"roots,omitempty"`
	ConfigFile string              `json:"config_file,omitempty"`
}
