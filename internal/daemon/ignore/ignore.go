// Package ignore decides which watched paths are skipped before they reach
// the activity log. Matching is exact per path segment; there is no globbing.
package ignore

import (
	"path/filepath"
	"strings"
)

// DefaultSegments are skipped in every watched tree.
var DefaultSegments = []string{
	"node_modules",
	".git",
	"__pycache__",
	".vscode",
	".idea",
	"dist",
	"build",
	".next",
}

// Filter is a set of path segment names.
type Filter struct {
	segments map[string]struct{}
}

// New returns a Filter over DefaultSegments plus any extra names.
func New(extra ...string) Filter {
	segments := make(map[string]struct{}, len(DefaultSegments)+len(extra))
	for _, s := range DefaultSegments {
		segments[s] = struct{}{}
	}
	for _, s := range extra {
		if s != "" {
			segments[s] = struct{}{}
		}
	}
	return Filter{segments: segments}
}

// Match reports whether any segment of path equals an ignored name.
// "src/builder/x.js" does not match "build".
func (f Filter) Match(path string) bool {
	if len(f.segments) == 0 {
		return false
	}
	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), isSeparator) {
		if _, ok := f.segments[part]; ok {
			return true
		}
	}
	return false
}

// Segments returns the ignored names in no particular order.
func (f Filter) Segments() []string {
	out := make([]string, 0, len(f.segments))
	for s := range f.segments {
		out = append(out, s)
	}
	return out
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
