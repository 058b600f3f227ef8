package models

import "time"

// RootStatus describes one watched directory.
type RootStatus struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	LogPath string `json:"log_path"`
	State   string `json:"state"`
	Dirs    int    `json:"dirs"`
	Entries int64  `json:"entries"`
}

// Status is the summary returned by the daemon's /api/state endpoint.
type Status struct {
	PID            int          `json:"pid"`
	StartedAt      time.Time    `json:"started_at"`
	Projects       string       `json:"projects"`
	LogRoot        string       `json:"log_root"`
	SessionLog     string       `json:"session_log"`
	LastHeartbeat  time.Time    `json:"last_heartbeat"`
	ActiveSessions int          `json:"active_sessions"`
	TotalSessions  int          `json:"total_sessions"`
	Roots          []RootStatus `json:"roots"`
}
