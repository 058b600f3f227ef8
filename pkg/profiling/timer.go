// Package profiling records nested timing spans and pprof profiles for
// command runs.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Stopper ends a span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	rec      *Recorder
}

func (s *span) Stop() {
	s.rec.mu.Lock()
	defer s.rec.mu.Unlock()
	s.duration = time.Since(s.start)
	if n := len(s.rec.stack); n > 1 && s.rec.stack[n-1] == s {
		s.rec.stack = s.rec.stack[:n-1]
	}
}

// Recorder collects spans. A disabled Recorder hands out no-op spans.
type Recorder struct {
	mu      sync.Mutex
	enabled bool
	root    *span
	stack   []*span
}

var global = &Recorder{}

// Enable turns on the global recorder.
func Enable() { global.Enable() }

// Start opens a span on the global recorder, nested under the open span.
func Start(name string) Stopper { return global.Start(name) }

// Summarize writes the global span tree to w.
func Summarize(w io.Writer) { global.Summarize(w) }

// Enable starts recording; the total duration is measured from here.
func (r *Recorder) Enable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enabled {
		return
	}
	r.enabled = true
	r.root = &span{name: "total", start: time.Now(), rec: r}
	r.stack = []*span{r.root}
}

// Start opens a span nested under the innermost open one.
func (r *Recorder) Start(name string) Stopper {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return noop{}
	}
	s := &span{name: name, start: time.Now(), rec: r}
	parent := r.stack[len(r.stack)-1]
	parent.children = append(parent.children, s)
	r.stack = append(r.stack, s)
	return s
}

// Summarize writes one line per span with its share of the total.
func (r *Recorder) Summarize(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return
	}
	total := time.Since(r.root.start)

	fmt.Fprintf(w, "timing (total %v)\n", total.Round(100*time.Microsecond))
	var walk func(s *span, depth int)
	walk = func(s *span, depth int) {
		for _, c := range s.children {
			pct := 0.0
			if total > 0 {
				pct = float64(c.duration) / float64(total) * 100
			}
			fmt.Fprintf(w, "%s- %s %v (%.1f%%)\n", strings.Repeat("  ", depth), c.name, c.duration.Round(100*time.Microsecond), pct)
			walk(c, depth+1)
		}
	}
	walk(r.root, 0)
}

type noop struct{}

func (noop) Stop() {}
