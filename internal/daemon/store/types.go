// Package store provides the in-memory session registry for the devlog daemon.
package store

import (
	"time"

	"github.com/grovetools/devlog/pkg/models"
)

// State is a point-in-time copy of the registry.
type State struct {
	Sessions      []*models.Session   `json:"sessions"`
	Roots         []models.RootStatus `json:"roots"`
	LastHeartbeat time.Time           `json:"last_heartbeat"`
}

// UpdateType defines what kind of data changed.
type UpdateType string

const (
	UpdateSessionAdded UpdateType = "session_added"
	UpdateSessionEnded UpdateType = "session_ended"
	UpdateRoots        UpdateType = "roots"
	UpdateHeartbeat    UpdateType = "heartbeat"
	UpdateConfigReload UpdateType = "config_reload"
)

// Update represents a change to the state.
type Update struct {
	Type    UpdateType  `json:"type"`
	Source  string      `json:"source"` // Which collector sent this update (e.g., "scanner", "heartbeat")
	Time    time.Time   `json:"time"`
	Payload interface{} `json:"payload,omitempty"`
}
