package logging

import (
	"io"
	"os"
	"sync"
)

// consoleWriter is the process-wide destination of pretty output. Its
// target can be swapped while writes are in flight.
type consoleWriter struct {
	mu     sync.RWMutex
	target io.Writer
}

func (c *consoleWriter) Write(p []byte) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target.Write(p)
}

func (c *consoleWriter) swap(w io.Writer) io.Writer {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.target
	c.target = w
	return prev
}

var console = &consoleWriter{target: os.Stderr}

// SetGlobalOutput redirects pretty console output, for example to
// io.Discard while a full-screen view owns the terminal. It returns the
// previous destination so callers can restore it.
func SetGlobalOutput(w io.Writer) io.Writer {
	if w == nil {
		w = io.Discard
	}
	return console.swap(w)
}

// GetGlobalOutput returns the shared console writer.
func GetGlobalOutput() io.Writer {
	return console
}
