package scanner

import (
	"strings"

	"github.com/grovetools/devlog/pkg/process"
)

// DefaultIndicators mark a process as an assistant session.
var DefaultIndicators = []string{"claude", "anthropic", "claude-code"}

// Matcher decides whether a process is an assistant session by
// case-insensitive substring search over its name and command line.
type Matcher struct {
	indicators []string
}

// NewMatcher returns a Matcher for the given indicators, or for
// DefaultIndicators when none are given.
func NewMatcher(indicators ...string) Matcher {
	if len(indicators) == 0 {
		indicators = DefaultIndicators
	}
	m := Matcher{}
	for _, ind := range indicators {
		ind = strings.ToLower(strings.TrimSpace(ind))
		if ind != "" {
			m.indicators = append(m.indicators, ind)
		}
	}
	return m
}

// Indicators returns the lower-cased indicator list.
func (m Matcher) Indicators() []string {
	return append([]string(nil), m.indicators...)
}

// Match reports whether any indicator occurs in the process name or in the
// space-joined command line.
func (m Matcher) Match(p process.Info) bool {
	name := strings.ToLower(p.Name)
	cmdline := strings.ToLower(strings.Join(p.Cmdline, " "))
	for _, ind := range m.indicators {
		if strings.Contains(name, ind) || strings.Contains(cmdline, ind) {
			return true
		}
	}
	return false
}
