// Package journal holds the append-only markdown logs devlog writes: the
// per-run session log, the per-process session files and the writer the
// per-root activity logs share.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TimeLayout renders timestamps inside log bodies.
const TimeLayout = "2006-01-02 15:04:05.000000"

// FileStampLayout renders timestamps inside log file names.
const FileStampLayout = "20060102_150405"

// Stamp formats t for a log body.
func Stamp(t time.Time) string {
	return t.Format(TimeLayout)
}

// Writer appends to a single file. It opens lazily and reopens when the
// file it holds has been removed or renamed.
type Writer struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewWriter returns a Writer for path. Nothing is opened until the first write.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Open creates path with header if it does not exist yet and returns a
// Writer appending to it. An existing file is left untouched.
func Open(path, header string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	switch {
	case err == nil:
		_, werr := f.WriteString(header)
		cerr := f.Close()
		if werr != nil {
			return nil, werr
		}
		if cerr != nil {
			return nil, cerr
		}
	case os.IsExist(err):
		// Existing log, append only.
	default:
		return nil, err
	}
	return NewWriter(path), nil
}

// Path returns the file this writer appends to.
func (w *Writer) Path() string {
	return w.path
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.current()
	if err != nil {
		return 0, err
	}
	return f.Write(p)
}

// WriteString appends s in a single write.
func (w *Writer) WriteString(s string) error {
	_, err := w.Write([]byte(s))
	return err
}

// Printf appends a formatted string.
func (w *Writer) Printf(format string, args ...interface{}) error {
	return w.WriteString(fmt.Sprintf(format, args...))
}

// Close releases the file handle. A later write reopens it.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// current returns an open handle for w.path, reopening when the held handle
// no longer refers to the file at that path.
func (w *Writer) current() (*os.File, error) {
	if w.file != nil {
		held, herr := w.file.Stat()
		onDisk, derr := os.Stat(w.path)
		if herr == nil && derr == nil && os.SameFile(held, onDisk) {
			return w.file, nil
		}
		w.file.Close()
		w.file = nil
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	w.file = f
	return f, nil
}
