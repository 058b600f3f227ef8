package pathutil

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Canonical returns the absolute, symlink-resolved form of path. Paths that
// do not exist yet keep their absolute form. On darwin and windows the
// result is lowercased.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return strings.ToLower(abs)
	}
	return abs
}

// Same reports whether a and b name the same location.
func Same(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// Within reports whether path is dir or lies below it. Both are compared
// as given, without resolving symlinks.
func Within(path, dir string) bool {
	path, dir = filepath.Clean(path), filepath.Clean(dir)
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(dir, string(filepath.Separator))+string(filepath.Separator))
}
