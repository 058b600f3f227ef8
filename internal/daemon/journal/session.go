package journal

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SessionLogInfo describes one devlog run for the top-level session log header.
type SessionLogInfo struct {
	Started    time.Time
	Monitoring string
	LogRoot    string
	PID        int
}

// SessionLog is the top-level log of a devlog run:
// logger_session_<YYYYmmdd_HHMMSS>.md under the log root.
type SessionLog struct {
	w *Writer
}

// SessionLogName returns the file name of the session log for a run started at t.
func SessionLogName(t time.Time) string {
	return fmt.Sprintf("logger_session_%s.md", t.Format(FileStampLayout))
}

// CreateSessionLog writes the header of a new session log.
func CreateSessionLog(info SessionLogInfo) (*SessionLog, error) {
	var b strings.Builder
	b.WriteString("# Claude Background Logger Session\n\n")
	fmt.Fprintf(&b, "**Started:** %s\n", Stamp(info.Started))
	fmt.Fprintf(&b, "**Monitoring:** %s\n", info.Monitoring)
	fmt.Fprintf(&b, "**Logging to:** %s\n", info.LogRoot)
	fmt.Fprintf(&b, "**PID:** %d\n\n", info.PID)
	b.WriteString("## Activity Log\n\n")

	w, err := Open(filepath.Join(info.LogRoot, SessionLogName(info.Started)), b.String())
	if err != nil {
		return nil, err
	}
	return &SessionLog{w: w}, nil
}

// Path returns the session log file path.
func (l *SessionLog) Path() string {
	return l.w.Path()
}

// AddedWatcher records that a directory watcher was started.
func (l *SessionLog) AddedWatcher(path string, at time.Time) error {
	return l.w.Printf("**Added Watcher:** %s at %s\n", path, Stamp(at))
}

// WatcherFailed records a root that could not be watched.
func (l *SessionLog) WatcherFailed(path string, err error, at time.Time) error {
	return l.w.Printf("**Watcher Failed:** %s at %s - %v\n", path, Stamp(at), err)
}

// Heartbeat records a liveness line with the current session count.
func (l *SessionLog) Heartbeat(at time.Time, activeSessions int) error {
	return l.w.Printf("**Heartbeat:** %s - Active sessions: %d\n", Stamp(at), activeSessions)
}

// Ended writes the closing summary.
func (l *SessionLog) Ended(at time.Time, totalSessions int) error {
	return l.w.Printf("\n**Session Ended:** %s\n**Total Active Sessions:** %d\n", Stamp(at), totalSessions)
}

// Close releases the underlying file.
func (l *SessionLog) Close() error {
	return l.w.Close()
}
