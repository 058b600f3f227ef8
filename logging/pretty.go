package logging

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PrettyStyles are the console styles used for pretty output.
type PrettyStyles struct {
	Success lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Path    lipgloss.Style
}

// DefaultPrettyStyles uses the 16 ANSI colors so output follows the terminal palette.
func DefaultPrettyStyles() PrettyStyles {
	return PrettyStyles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Italic(true),
	}
}

// PrettyLogger writes styled console lines. Without a fixed writer each
// call resolves its destination from the context, see GetWriter.
type PrettyLogger struct {
	writer io.Writer
	styles PrettyStyles
}

// NewPrettyLogger returns a PrettyLogger bound to the context writer.
func NewPrettyLogger() *PrettyLogger {
	return &PrettyLogger{styles: DefaultPrettyStyles()}
}

// WithWriter pins all output to w.
func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.writer = w
	return p
}

func (p *PrettyLogger) out(ctx context.Context) io.Writer {
	if p.writer != nil {
		return p.writer
	}
	return GetWriter(ctx)
}

// Success prints a check-marked line.
func (p *PrettyLogger) Success(ctx context.Context, message string) {
	fmt.Fprintln(p.out(ctx), p.styles.Success.Render(IconSuccess+" "+message))
}

// ErrorPretty prints an error line, appending err when set.
func (p *PrettyLogger) ErrorPretty(ctx context.Context, message string, err error) {
	if err != nil {
		message += ": " + err.Error()
	}
	fmt.Fprintln(p.out(ctx), p.styles.Error.Render(IconError+" "+message))
}

// Field prints an indented "key: value" line.
func (p *PrettyLogger) Field(ctx context.Context, key string, value interface{}) {
	fmt.Fprintf(p.out(ctx), "  %s %s\n", p.styles.Key.Render(key+":"), p.styles.Value.Render(fmt.Sprint(value)))
}

// Path prints an indented "label: path" line.
func (p *PrettyLogger) Path(ctx context.Context, label, path string) {
	fmt.Fprintf(p.out(ctx), "  %s %s\n", p.styles.Key.Render(label+":"), p.styles.Path.Render(path))
}

// Divider prints a horizontal rule.
func (p *PrettyLogger) Divider(ctx context.Context) {
	fmt.Fprintln(p.out(ctx), p.styles.Key.Render(strings.Repeat("─", 48)))
}
