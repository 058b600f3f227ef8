package logviewer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	line := FormatLine("webapp", "### CREATED: src/app.py", true)
	assert.Contains(t, line, "webapp")
	assert.Contains(t, line, "CREATED")
	assert.Contains(t, line, "src/app.py")

	plain := FormatLine("webapp", "print('hi')", false)
	assert.Equal(t, "print('hi')", plain)
}

func TestTailerFromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webapp_activity.md")
	require.NoError(t, os.WriteFile(path, []byte("# webapp - Development Activity Log\n### CREATED: a.py\n"), 0644))

	tailer, err := NewTailer(map[string]string{"webapp": path}, true)
	require.NoError(t, err)
	defer tailer.Stop()

	var got []string
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case msg := <-tailer.Lines():
			assert.Equal(t, "webapp", msg.Source)
			got = append(got, msg.Line)
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []string{"# webapp - Development Activity Log", "### CREATED: a.py"}, got)
}

func TestTailerStopClosesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webapp_activity.md")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	tailer, err := NewTailer(map[string]string{"webapp": path}, false)
	require.NoError(t, err)
	tailer.Stop()
	tailer.Stop()

	select {
	case _, ok := <-tailer.Lines():
		for ok {
			_, ok = <-tailer.Lines()
		}
	case <-time.After(5 * time.Second):
		t.Fatal("lines channel not closed after Stop")
	}
}

func newTestModel(sources ...string) Model {
	tailer := &Tailer{lines: make(chan LogLineMsg), done: make(chan struct{})}
	m := New(tailer, sources)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return updated.(Model)
}

func TestModelAppendsLines(t *testing.T) {
	m := newTestModel("webapp", "project-api")

	updated, cmd := m.Update(LogLineMsg{Source: "project-api", Line: "### MODIFIED: main.go"})
	m = updated.(Model)
	assert.NotNil(t, cmd)
	require.Len(t, m.Lines(), 1)
	assert.Contains(t, m.Lines()[0], "project-api")
	assert.True(t, strings.Contains(m.View(), "main.go"))
}

func TestModelSingleSourceHasNoPrefix(t *testing.T) {
	m := newTestModel("webapp")

	updated, _ := m.Update(LogLineMsg{Source: "webapp", Line: "plain line"})
	m = updated.(Model)
	assert.Equal(t, []string{"plain line"}, m.Lines())
}

func TestModelFollowToggle(t *testing.T) {
	m := newTestModel("webapp")
	assert.True(t, m.Following())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	m = updated.(Model)
	assert.False(t, m.Following())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	m = updated.(Model)
	assert.True(t, m.Following())
}

func TestModelScrollbackBounded(t *testing.T) {
	m := New(&Tailer{lines: make(chan LogLineMsg), done: make(chan struct{})}, []string{"webapp"})
	for i := 0; i < maxLines+10; i++ {
		m.appendLine("x")
	}
	assert.Len(t, m.Lines(), maxLines)
}
