package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)

func newTestRecorder(t *testing.T) (*Recorder, string) {
	t.Helper()
	projectDir := filepath.Join(t.TempDir(), "webapp")
	require.NoError(t, os.MkdirAll(projectDir, 0755))

	rec, err := NewRecorder(NewRoot(projectDir), t.TempDir(), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })
	return rec, projectDir
}

func readLog(t *testing.T, rec *Recorder) string {
	t.Helper()
	data, err := os.ReadFile(rec.Path())
	require.NoError(t, err)
	return string(data)
}

func TestHeader(t *testing.T) {
	rec, projectDir := newTestRecorder(t)

	assert.Equal(t, "webapp_activity.md", filepath.Base(rec.Path()))
	want := "# webapp - Development Activity Log\n\n" +
		"**Project Path:** " + projectDir + "\n" +
		"**Log Started:** 2025-01-02 03:04:05.000000\n\n" +
		"## File Changes\n\n"
	assert.Equal(t, want, readLog(t, rec))
}

func TestHeaderNotRewritten(t *testing.T) {
	rec, projectDir := newTestRecorder(t)
	require.NoError(t, rec.Record(Deleted, filepath.Join(projectDir, "a.txt")))
	require.NoError(t, rec.Close())

	again, err := NewRecorder(NewRoot(projectDir), filepath.Dir(rec.Path()))
	require.NoError(t, err)
	defer again.Close()

	content := readLog(t, again)
	assert.Equal(t, 1, strings.Count(content, "# webapp - Development Activity Log"))
	assert.Contains(t, content, "### DELETED: a.txt")
}

func TestRecordTextFile(t *testing.T) {
	rec, projectDir := newTestRecorder(t)
	path := filepath.Join(projectDir, "src", "app.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("print('hi')"), 0644))

	require.NoError(t, rec.Record(Created, path))

	want := "### CREATED: " + filepath.Join("src", "app.py") + "\n" +
		"**Time:** 2025-01-02 03:04:05.000000\n\n" +
		"```py\nprint('hi')\n```\n\n" +
		"---\n\n"
	assert.True(t, strings.HasSuffix(readLog(t, rec), want))
	assert.Equal(t, int64(1), rec.Entries())
}

func TestRecordUppercaseExtension(t *testing.T) {
	rec, projectDir := newTestRecorder(t)
	path := filepath.Join(projectDir, "NOTES.MD")
	require.NoError(t, os.WriteFile(path, []byte("# notes"), 0644))

	require.NoError(t, rec.Record(Modified, path))
	assert.Contains(t, readLog(t, rec), "```md\n# notes\n```")
}

func TestRecordTruncatesLargeFile(t *testing.T) {
	rec, projectDir := newTestRecorder(t)
	path := filepath.Join(projectDir, "big.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 25000)), 0644))

	require.NoError(t, rec.Record(Modified, path))

	content := readLog(t, rec)
	fenced := "```txt\n" + strings.Repeat("x", MaxContentChars) + TruncationMarker + "\n```"
	assert.Contains(t, content, fenced)
	assert.NotContains(t, content, strings.Repeat("x", MaxContentChars+1))
}

func TestRecordBinaryPlaceholder(t *testing.T) {
	rec, projectDir := newTestRecorder(t)
	path := filepath.Join(projectDir, "logo.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0644))

	require.NoError(t, rec.Record(Created, path))
	assert.Contains(t, readLog(t, rec), "### CREATED: logo.png\n**Time:** 2025-01-02 03:04:05.000000\n\n"+BinaryPlaceholder+"\n\n---\n\n")
}

func TestRecordVanishedFile(t *testing.T) {
	rec, projectDir := newTestRecorder(t)

	require.NoError(t, rec.Record(Modified, filepath.Join(projectDir, "gone.js")))

	content := readLog(t, rec)
	assert.Contains(t, content, "### MODIFIED: gone.js")
	assert.Contains(t, content, "*Could not read file: ")
	assert.Contains(t, content, "---\n\n")
}

func TestRecordInvalidUTF8(t *testing.T) {
	rec, projectDir := newTestRecorder(t)
	path := filepath.Join(projectDir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0xfd}, 0644))

	require.NoError(t, rec.Record(Modified, path))
	assert.Contains(t, readLog(t, rec), "invalid UTF-8*")
}

func TestRecordDeletedHasNoContent(t *testing.T) {
	rec, projectDir := newTestRecorder(t)
	require.NoError(t, rec.Record(Deleted, filepath.Join(projectDir, "old.ts")))

	assert.True(t, strings.HasSuffix(readLog(t, rec),
		"### DELETED: old.ts\n**Time:** 2025-01-02 03:04:05.000000\n\n---\n\n"))
}

func TestRecordOutsideRootUsesAbsolutePath(t *testing.T) {
	rec, _ := newTestRecorder(t)
	outside := filepath.Join(t.TempDir(), "elsewhere.txt")

	require.NoError(t, rec.Record(Deleted, outside))
	assert.Contains(t, readLog(t, rec), "### DELETED: "+outside+"\n")
}

func TestEntriesAppendInOrder(t *testing.T) {
	rec, projectDir := newTestRecorder(t)
	for _, name := range []string{"a.bin", "b.bin", "c.bin"} {
		require.NoError(t, rec.Record(Deleted, filepath.Join(projectDir, name)))
	}

	content := readLog(t, rec)
	a := strings.Index(content, "a.bin")
	b := strings.Index(content, "b.bin")
	c := strings.Index(content, "c.bin")
	assert.True(t, a < b && b < c)
	assert.Equal(t, int64(3), rec.Entries())
}

func TestTruncate(t *testing.T) {
	short, cut := Truncate("héllo")
	assert.False(t, cut)
	assert.Equal(t, "héllo", short)

	exact := strings.Repeat("é", MaxContentChars)
	out, cut := Truncate(exact)
	assert.False(t, cut)
	assert.Equal(t, exact, out)

	long := strings.Repeat("é", MaxContentChars+5)
	out, cut = Truncate(long)
	assert.True(t, cut)
	assert.Equal(t, exact+TruncationMarker, out)
}

func TestFindLogs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"webapp_activity.md", "project-api_activity.md", "logger_session_20250102_030405.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("# log\n"), 0644))
	}

	logs, err := FindLogs(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"webapp":      filepath.Join(dir, "webapp_activity.md"),
		"project-api": filepath.Join(dir, "project-api_activity.md"),
	}, logs)

	logs, err = FindLogs(dir, "project-api", "missing")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"project-api": filepath.Join(dir, "project-api_activity.md")}, logs)
}
