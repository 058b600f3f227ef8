package journal

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ProcessLogInfo describes a detected assistant process.
type ProcessLogInfo struct {
	PID     int
	Started time.Time
	Cwd     string
	Cmdline []string
}

// ProcessLogName returns claude_session_<pid>_<YYYYmmdd_HHMMSS>.md.
func ProcessLogName(pid int, t time.Time) string {
	return fmt.Sprintf("claude_session_%d_%s.md", pid, t.Format(FileStampLayout))
}

// CreateProcessLog writes the header of a per-process session file under
// logRoot and returns its path.
func CreateProcessLog(logRoot string, info ProcessLogInfo) (string, error) {
	cwd := info.Cwd
	if cwd == "" {
		cwd = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Claude Code Session %d\n\n", info.PID)
	fmt.Fprintf(&b, "**Start Time:** %s\n", Stamp(info.Started))
	fmt.Fprintf(&b, "**Working Directory:** %s\n", cwd)
	fmt.Fprintf(&b, "**Command:** %s\n", strings.Join(info.Cmdline, " "))
	fmt.Fprintf(&b, "**PID:** %d\n\n", info.PID)
	b.WriteString("## Session Activity\n\n")

	path := filepath.Join(logRoot, ProcessLogName(info.PID, info.Started))
	w, err := Open(path, b.String())
	if err != nil {
		return "", err
	}
	return path, w.Close()
}

// MarkProcessEnded appends the exit line to a per-process session file.
func MarkProcessEnded(path string, at time.Time) error {
	w := NewWriter(path)
	defer w.Close()
	return w.Printf("**Ended:** %s\n", Stamp(at))
}
