package logviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/devlog/internal/daemon/activity"
	"github.com/grovetools/devlog/tui/theme"
)

// FormatLine styles one activity log line. Entry headings are colored by
// action and, when prefix is set, the line is tagged with its source.
func FormatLine(source, line string, prefix bool) string {
	t := theme.DefaultTheme
	styled := line

	switch {
	case strings.HasPrefix(line, "### "):
		action, rest, ok := strings.Cut(strings.TrimPrefix(line, "### "), ":")
		if !ok {
			styled = t.Bold.Render(line)
			break
		}
		styled = actionStyle(action).Render(action) + ":" + rest
	case strings.HasPrefix(line, "# "), strings.HasPrefix(line, "## "):
		styled = t.Header.Render(line)
	case strings.HasPrefix(line, "**"):
		styled = t.Muted.Render(line)
	}

	if prefix {
		return fmt.Sprintf("[%s] %s", t.Accent.Render(source), styled)
	}
	return styled
}

func actionStyle(action string) lipgloss.Style {
	t := theme.DefaultTheme
	switch activity.Action(action) {
	case activity.Created:
		return t.Success
	case activity.Modified:
		return t.Warning
	case activity.Deleted:
		return t.Error
	default:
		return t.Info
	}
}
