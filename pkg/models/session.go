// Package models holds the types shared between the devlog daemon and its clients.
package models

import (
	"strings"
	"time"
)

// Session is an assistant process tracked by the daemon. One Session exists
// per PID for the lifetime of a run.
type Session struct {
	PID       int        `json:"pid"`
	Name      string     `json:"name"`
	Cmdline   []string   `json:"cmdline,omitempty"`
	Cwd       string     `json:"cwd,omitempty"`
	StartTime time.Time  `json:"start_time"`
	ProcStart *time.Time `json:"process_started_at,omitempty"`
	LogPath   string     `json:"log_path"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Active reports whether the process was still present on the last scan.
func (s *Session) Active() bool {
	return s.EndedAt == nil
}

// Command returns the space-joined command line, or the process name when
// the command line could not be read.
func (s *Session) Command() string {
	if len(s.Cmdline) == 0 {
		return s.Name
	}
	return strings.Join(s.Cmdline, " ")
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s *Session) Clone() *Session {
	c := *s
	c.Cmdline = append([]string(nil), s.Cmdline...)
	if s.ProcStart != nil {
		t := *s.ProcStart
		c.ProcStart = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	return &c
}
