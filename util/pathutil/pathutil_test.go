package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DEVLOG_TEST_DIR", "logs")

	got, err := Expand("~/claude_logs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "claude_logs"), got)

	got, err = Expand("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = Expand(filepath.Join(home, "$DEVLOG_TEST_DIR"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs"), got)

	got, err = Expand("relative")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestSame(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "project-a")
	require.NoError(t, os.Mkdir(sub, 0755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(sub, link))

	assert.True(t, Same(sub, filepath.Join(dir, ".", "project-a")))
	assert.True(t, Same(sub, link))
	assert.False(t, Same(sub, dir))
	assert.True(t, Same(filepath.Join(dir, "missing"), filepath.Join(dir, "missing", "..", "missing")))
}

func TestWithin(t *testing.T) {
	tests := []struct {
		path, dir string
		want      bool
	}{
		{"/work/logs", "/work/logs", true},
		{"/work/logs/webapp_activity.md", "/work/logs", true},
		{"/work/logs/", "/work/logs", true},
		{"/work/logs2/x.md", "/work/logs", false},
		{"/work", "/work/logs", false},
		{"/work/a", "/", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Within(tt.path, tt.dir), "%s in %s", tt.path, tt.dir)
	}
}
