// Package logviewer follows devlog activity logs in a scrollable terminal view.
package logviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/devlog/tui/theme"
)

// maxLines bounds the scrollback kept in memory.
const maxLines = 5000

type tailDoneMsg struct{}

// Model is the bubbletea model of the viewer.
type Model struct {
	viewport viewport.Model
	tailer   *Tailer
	prefix   bool
	follow   bool
	ready    bool
	width    int
	height   int
	lines    []string
	sources  []string
	done     bool
}

// New returns a viewer over tailer. Lines are tagged with their source when
// more than one source is followed.
func New(tailer *Tailer, sources []string) Model {
	return Model{
		viewport: viewport.New(0, 0),
		tailer:   tailer,
		prefix:   len(sources) > 1,
		follow:   true,
		sources:  sources,
	}
}

// Init starts reading lines.
func (m Model) Init() tea.Cmd {
	return m.waitForLine()
}

func (m Model) waitForLine() tea.Cmd {
	lines := m.tailer.Lines()
	return func() tea.Msg {
		msg, ok := <-lines
		if !ok {
			return tailDoneMsg{}
		}
		return msg
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2
		m.ready = true
		m.setContent()
	case LogLineMsg:
		m.appendLine(FormatLine(msg.Source, msg.Line, m.prefix))
		cmds = append(cmds, m.waitForLine())
	case tailDoneMsg:
		m.done = true
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.tailer.Stop()
			return m, tea.Quit
		case "f":
			m.follow = !m.follow
			if m.follow {
				m.viewport.GotoBottom()
			}
		case "g", "home":
			m.follow = false
			m.viewport.GotoTop()
		case "G", "end":
			m.follow = true
			m.viewport.GotoBottom()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}
	m.setContent()
}

func (m *Model) setContent() {
	if !m.ready {
		return
	}
	width := m.viewport.Width
	if width < 1 {
		width = 1
	}
	wrap := lipgloss.NewStyle().Width(width)

	wrapped := make([]string, len(m.lines))
	for i, line := range m.lines {
		wrapped[i] = wrap.Render(line)
	}
	m.viewport.SetContent(strings.Join(wrapped, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// View renders the log pane and a status line.
func (m Model) View() string {
	if !m.ready {
		return "Initializing log viewer..."
	}
	return m.viewport.View() + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	t := theme.DefaultTheme
	mode := "follow"
	if !m.follow {
		mode = "paused"
	}
	if m.done {
		mode = "ended"
	}
	status := fmt.Sprintf(" %s | %d lines | %3.0f%% | %s | f follow  g/G top/bottom  q quit",
		strings.Join(m.sources, ", "), len(m.lines), m.viewport.ScrollPercent()*100, mode)
	return t.Status.Width(m.width).Render(status)
}

// Following reports whether the view sticks to the newest line.
func (m Model) Following() bool {
	return m.follow
}

// Lines returns the formatted lines held by the view.
func (m Model) Lines() []string {
	return m.lines
}
