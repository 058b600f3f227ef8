package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/devlog/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxWidth = 72
	minWidth = 40
)

// terminalWidth returns the stdout width clamped to [minWidth, maxWidth].
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	return min(width, maxWidth)
}

// wrapText wraps each paragraph of text at width, keeping existing line breaks.
func wrapText(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			lines = append(lines, paragraph)
			continue
		}
		var line strings.Builder
		for _, word := range strings.Fields(paragraph) {
			if line.Len() > 0 && line.Len()+1+len(word) > width {
				lines = append(lines, line.String())
				line.Reset()
			}
			if line.Len() > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(word)
		}
		if line.Len() > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}

// SetStyledHelp installs the styled help renderer on cmd only.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive installs the styled help renderer on cmd and every
// subcommand. Call it after all subcommands are added.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// splitExamples separates an "Examples:" block from the rest of a long description.
func splitExamples(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

type helpPrinter struct {
	out     io.Writer
	t       *theme.Theme
	section lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	width   int
}

func newHelpPrinter(out io.Writer) *helpPrinter {
	t := theme.DefaultTheme
	return &helpPrinter{
		out:     out,
		t:       t,
		section: lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Orange),
		command: lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue),
		flag:    lipgloss.NewStyle().Foreground(t.Colors.Violet),
		width:   terminalWidth() - 2,
	}
}

func (p *helpPrinter) line(format string, args ...interface{}) {
	fmt.Fprintf(p.out, " "+format+"\n", args...)
}

func (p *helpPrinter) heading(name string) {
	fmt.Fprintln(p.out)
	p.line("%s", p.section.Render(name))
}

func styledHelpFunc(cmd *cobra.Command, _ []string) {
	p := newHelpPrinter(cmd.OutOrStdout())
	title := lipgloss.NewStyle().Bold(true).Foreground(p.t.Colors.Orange)
	p.line("%s", title.Render(strings.ToUpper(cmd.CommandPath())))

	description, examples := splitExamples(cmd.Long)
	if cmd.Short != "" {
		for _, l := range wrapText(cmd.Short, p.width) {
			p.line("%s", p.t.Italic.Render(l))
		}
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(p.out)
		for _, l := range wrapText(description, p.width) {
			p.line("%s", l)
		}
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		p.heading("USAGE")
		if cmd.Runnable() {
			p.line("%s", cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			p.line("%s [command]", cmd.CommandPath())
		}
	}

	p.commands(cmd)
	p.flags(cmd)

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		p.heading("EXAMPLES")
		p.examples(examples, strings.Fields(cmd.CommandPath())[0])
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(p.out, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

func (p *helpPrinter) commands(cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	pad := 0
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			pad = max(pad, len(sub.Name()))
		}
	}
	p.heading("COMMANDS")
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			p.line("%s%s  %s", p.command.Render(sub.Name()), strings.Repeat(" ", pad-len(sub.Name())), sub.Short)
		}
	}
}

// flags lists local flags in detail for leaf commands and as one compact
// line for commands with subcommands.
func (p *helpPrinter) flags(cmd *cobra.Command) {
	var visible []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			visible = append(visible, f)
		}
	})
	if len(visible) == 0 {
		return
	}

	if cmd.HasAvailableSubCommands() {
		names := make([]string, len(visible))
		for i, f := range visible {
			names[i] = strings.TrimSpace(flagName(f))
		}
		fmt.Fprintln(p.out)
		p.line("%s", p.t.Muted.Render("Flags: "+strings.Join(names, ", ")))
		return
	}

	p.heading("FLAGS")
	pad := 0
	for _, f := range visible {
		pad = max(pad, len(flagName(f)))
	}
	for _, f := range visible {
		name := flagName(f)
		usage, choices := parseChoices(f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
			usage += p.t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
		}
		p.line("%s%s  %s", p.flag.Render(name), strings.Repeat(" ", pad-len(name)), usage)
		for _, c := range choices {
			p.line("%s  %s", strings.Repeat(" ", pad), p.t.Muted.Render("• "+c))
		}
	}
}

// examples renders example lines: comments muted, the binary name, the
// subcommand and flags each in their own style.
func (p *helpPrinter) examples(text, binary string) {
	sub := lipgloss.NewStyle().Foreground(p.t.Colors.Cyan)
	for _, raw := range strings.Split(text, "\n") {
		l := strings.TrimSpace(raw)
		switch {
		case l == "":
			fmt.Fprintln(p.out)
		case strings.HasPrefix(l, "#"):
			p.line("%s", p.t.Muted.Render(l))
		default:
			parts := strings.Fields(l)
			for i, part := range parts {
				switch {
				case i == 0 && part == binary:
					parts[i] = p.command.Render(part)
				case strings.HasPrefix(part, "-"):
					parts[i] = p.flag.Render(part)
				case i == 1:
					parts[i] = sub.Render(part)
				}
			}
			p.line("  %s", strings.Join(parts, " "))
		}
	}
}

func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}

// parseChoices splits a usage string of the form "Label: a, b, c (suffix)"
// into "Label: (suffix)" and its choices. Fewer than three comma separated
// items are not treated as a choice list.
func parseChoices(usage string) (string, []string) {
	colon := strings.Index(usage, ": ")
	if colon == -1 {
		return usage, nil
	}
	rest := usage[colon+2:]
	suffix := ""
	if paren := strings.Index(rest, " ("); paren != -1 {
		rest, suffix = rest[:paren], rest[paren:]
	}

	parts := strings.Split(rest, ", ")
	if len(parts) < 3 {
		return usage, nil
	}
	for i, part := range parts {
		parts[i] = strings.TrimSpace(strings.TrimPrefix(part, "or "))
	}
	return usage[:colon+1] + suffix, parts
}
