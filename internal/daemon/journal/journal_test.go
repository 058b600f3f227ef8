package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.Local)

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOpenWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "log.md")

	w, err := Open(path, "# header\n")
	require.NoError(t, err)
	require.NoError(t, w.WriteString("entry 1\n"))
	require.NoError(t, w.Close())

	w, err = Open(path, "# header\n")
	require.NoError(t, err)
	require.NoError(t, w.WriteString("entry 2\n"))
	require.NoError(t, w.Close())

	assert.Equal(t, "# header\nentry 1\nentry 2\n", read(t, path))
}

func TestWriterReopensAfterRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.md")
	w := NewWriter(path)
	defer w.Close()

	require.NoError(t, w.WriteString("before\n"))
	require.NoError(t, os.Remove(path))
	require.NoError(t, w.WriteString("after\n"))

	assert.Equal(t, "after\n", read(t, path))
}

func TestWriterReopensAfterRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.md")
	w := NewWriter(path)
	defer w.Close()

	require.NoError(t, w.WriteString("one\n"))
	require.NoError(t, os.Rename(path, filepath.Join(dir, "log.md.1")))
	require.NoError(t, w.WriteString("two\n"))

	assert.Equal(t, "one\n", read(t, filepath.Join(dir, "log.md.1")))
	assert.Equal(t, "two\n", read(t, path))
}

func TestSessionLog(t *testing.T) {
	root := t.TempDir()
	log, err := CreateSessionLog(SessionLogInfo{
		Started:    fixed,
		Monitoring: "/work/app",
		LogRoot:    root,
		PID:        1234,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "logger_session_20250314_092653.md"), log.Path())

	require.NoError(t, log.AddedWatcher("/work/app", fixed))
	require.NoError(t, log.Heartbeat(fixed, 2))
	require.NoError(t, log.Ended(fixed, 2))
	require.NoError(t, log.Close())

	want := "# Claude Background Logger Session\n\n" +
		"**Started:** 2025-03-14 09:26:53.589793\n" +
		"**Monitoring:** /work/app\n" +
		"**Logging to:** " + root + "\n" +
		"**PID:** 1234\n\n" +
		"## Activity Log\n\n" +
		"**Added Watcher:** /work/app at 2025-03-14 09:26:53.589793\n" +
		"**Heartbeat:** 2025-03-14 09:26:53.589793 - Active sessions: 2\n" +
		"\n**Session Ended:** 2025-03-14 09:26:53.589793\n" +
		"**Total Active Sessions:** 2\n"
	assert.Equal(t, want, read(t, log.Path()))
}

func TestProcessLog(t *testing.T) {
	root := t.TempDir()

	path, err := CreateProcessLog(root, ProcessLogInfo{
		PID:     77,
		Started: fixed,
		Cmdline: []string{"node", "/usr/bin/claude", "--resume"},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "claude_session_77_20250314_092653.md"), path)

	require.NoError(t, MarkProcessEnded(path, fixed.Add(time.Minute)))

	content := read(t, path)
	assert.True(t, strings.HasPrefix(content, "# Claude Code Session 77\n\n"))
	assert.Contains(t, content, "**Working Directory:** unknown\n")
	assert.Contains(t, content, "**Command:** node /usr/bin/claude --resume\n")
	assert.Contains(t, content, "**PID:** 77\n\n## Session Activity\n\n")
	assert.True(t, strings.HasSuffix(content, "**Ended:** 2025-03-14 09:27:53.589793\n"))
}
