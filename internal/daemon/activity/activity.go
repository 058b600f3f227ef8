// Package activity appends file change entries to a per-root markdown log,
// embedding the contents of text files.
package activity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/grovetools/devlog/internal/daemon/journal"
)

// Action classifies a file change.
type Action string

const (
	Created  Action = "CREATED"
	Modified Action = "MODIFIED"
	Deleted  Action = "DELETED"
)

// MaxContentChars is the number of characters embedded before truncation.
const MaxContentChars = 10000

// TruncationMarker follows truncated content.
const TruncationMarker = "\n... (truncated)"

// BinaryPlaceholder stands in for files whose extension is not a text type.
const BinaryPlaceholder = "*Binary file or large file*"

// TextExtensions are embedded verbatim (up to MaxContentChars).
var TextExtensions = map[string]bool{
	".py":   true,
	".js":   true,
	".ts":   true,
	".tsx":  true,
	".md":   true,
	".txt":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".html": true,
	".css":  true,
	".sql":  true,
}

// Root is a directory tree whose changes are logged.
type Root struct {
	Path string
	Name string
}

// NewRoot returns a Root named after the directory's base name.
func NewRoot(path string) Root {
	clean := filepath.Clean(path)
	return Root{Path: clean, Name: filepath.Base(clean)}
}

// LogSuffix ends every activity log file name.
const LogSuffix = "_activity.md"

// LogName returns <name>_activity.md.
func (r Root) LogName() string {
	return r.Name + LogSuffix
}

// FindLogs maps root names to the activity logs found in logDir. When names
// are given only those roots are returned.
func FindLogs(logDir string, names ...string) (map[string]string, error) {
	matches, err := filepath.Glob(filepath.Join(logDir, "*"+LogSuffix))
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	logs := make(map[string]string)
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), LogSuffix)
		if len(want) > 0 && !want[name] {
			continue
		}
		logs[name] = m
	}
	return logs, nil
}

// Recorder appends entries to one root's activity log.
type Recorder struct {
	root    Root
	w       *journal.Writer
	now     func() time.Time
	entries atomic.Int64
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder opens <logDir>/<root.Name>_activity.md, writing the header only
// when the file is new.
func NewRecorder(root Root, logDir string, opts ...Option) (*Recorder, error) {
	r := &Recorder{root: root, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Development Activity Log\n\n", root.Name)
	fmt.Fprintf(&b, "**Project Path:** %s\n", root.Path)
	fmt.Fprintf(&b, "**Log Started:** %s\n\n", journal.Stamp(r.now()))
	b.WriteString("## File Changes\n\n")

	w, err := journal.Open(filepath.Join(logDir, root.LogName()), b.String())
	if err != nil {
		return nil, err
	}
	r.w = w
	return r, nil
}

// Root returns the root this recorder logs.
func (r *Recorder) Root() Root {
	return r.root
}

// Path returns the activity log path.
func (r *Recorder) Path() string {
	return r.w.Path()
}

// Entries returns the number of entries written since the recorder was opened.
func (r *Recorder) Entries() int64 {
	return r.entries.Load()
}

// Record appends one entry for path. Problems reading the changed file are
// written into the entry; only failures to write the log are returned.
func (r *Recorder) Record(action Action, path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s: %s\n", action, r.relPath(path))
	fmt.Fprintf(&b, "**Time:** %s\n\n", journal.Stamp(r.now()))

	if action != Deleted {
		b.WriteString(renderContent(path))
		b.WriteString("\n\n")
	}
	b.WriteString("---\n\n")

	if err := r.w.WriteString(b.String()); err != nil {
		return err
	}
	r.entries.Add(1)
	return nil
}

// Close releases the log file handle.
func (r *Recorder) Close() error {
	return r.w.Close()
}

func (r *Recorder) relPath(path string) string {
	rel, err := filepath.Rel(r.root.Path, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func renderContent(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if !TextExtensions[ext] {
		return BinaryPlaceholder
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("*Could not read file: %v*", err)
	}
	if !utf8.Valid(data) {
		return fmt.Sprintf("*Could not read file: %s: invalid UTF-8*", path)
	}

	content, _ := Truncate(string(data))
	return fmt.Sprintf("```%s\n%s\n```", strings.TrimPrefix(ext, "."), content)
}

// Truncate cuts s to MaxContentChars characters followed by TruncationMarker.
// It reports whether s was cut.
func Truncate(s string) (string, bool) {
	if utf8.RuneCountInString(s) <= MaxContentChars {
		return s, false
	}
	n := 0
	for i := range s {
		if n == MaxContentChars {
			return s[:i] + TruncationMarker, true
		}
		n++
	}
	return s, false
}
