package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/devlog/cli"
	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/pkg/daemon"
	"github.com/grovetools/devlog/pkg/models"
	"github.com/grovetools/devlog/tui/theme"
	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	var (
		all    bool
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List assistant sessions",
		Long: `List the assistant sessions tracked by the running instance. When devlog is
not running, the process table is scanned once instead. With --follow, session
changes are printed as they happen until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logRoot, err := resolveLogRoot(cmd)
			if err != nil {
				return err
			}
			client := daemon.New(logRoot)
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), apiTimeout)
			defer cancel()
			sessions, err := client.GetSessions(ctx)
			if err != nil {
				return err
			}
			if !all {
				sessions = activeOnly(sessions)
			}

			if cli.GetOptions(cmd).JSONOutput && !follow {
				if sessions == nil {
					sessions = []*models.Session{}
				}
				return printJSON(cmd, sessions)
			}
			if !client.IsRunning() {
				fmt.Fprintln(cmd.OutOrStdout(), theme.DefaultTheme.Muted.Render("devlog is not running; showing a one-time process scan"))
			}
			printSessions(cmd, sessions)
			if follow {
				return followSessions(cmd, client)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include sessions that have ended")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Print session changes from the running instance")
	return cmd
}

func activeOnly(sessions []*models.Session) []*models.Session {
	var out []*models.Session
	for _, s := range sessions {
		if s.Active() {
			out = append(out, s)
		}
	}
	return out
}

func printSessions(cmd *cobra.Command, sessions []*models.Session) {
	t := theme.DefaultTheme
	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions")
		return
	}

	pidCol := lipgloss.NewStyle().Width(8)
	stateCol := lipgloss.NewStyle().Width(8)
	timeCol := lipgloss.NewStyle().Width(21)

	fmt.Fprintln(out, t.Bold.Render(pidCol.Render("PID")+stateCol.Render("STATE")+timeCol.Render("STARTED")+"COMMAND"))
	for _, s := range sessions {
		state := t.Success.Render("active")
		if !s.Active() {
			state = t.Muted.Render("ended")
		}
		command := s.Command()
		if len(command) > 60 {
			command = command[:57] + "..."
		}
		fmt.Fprintln(out, pidCol.Render(fmt.Sprint(s.PID))+stateCol.Render(state)+
			timeCol.Render(s.StartTime.Format(time.DateTime))+strings.TrimSpace(command))
	}
}

// followSessions prints session updates streamed by the running instance,
// one line per change, or one JSON object per line with --json.
func followSessions(cmd *cobra.Command, client daemon.Client) error {
	if !client.IsRunning() {
		return errors.NotRunning()
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates, err := client.StreamState(ctx)
	if err != nil {
		return err
	}
	t := theme.DefaultTheme
	out := cmd.OutOrStdout()
	asJSON := cli.GetOptions(cmd).JSONOutput
	enc := json.NewEncoder(out)
	for u := range updates {
		if u.Session == nil {
			continue
		}
		if asJSON {
			if err := enc.Encode(u); err != nil {
				return err
			}
			continue
		}
		switch u.UpdateType {
		case "session_added":
			fmt.Fprintf(out, "%s %s %d %s\n", u.Time.Format(time.TimeOnly), t.Success.Render("+"), u.Session.PID, u.Session.Command())
		case "session_ended":
			fmt.Fprintf(out, "%s %s %d %s\n", u.Time.Format(time.TimeOnly), t.Muted.Render("-"), u.Session.PID, u.Session.Command())
		}
	}
	return nil
}
