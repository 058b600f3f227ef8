package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/devlog/cli"
	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/internal/daemon/pidfile"
	"github.com/grovetools/devlog/pkg/daemon"
	"github.com/grovetools/devlog/pkg/models"
	"github.com/grovetools/devlog/pkg/paths"
	"github.com/grovetools/devlog/tui/theme"
	"github.com/spf13/cobra"
)

const apiTimeout = 10 * time.Second

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether devlog is running and what it watches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logRoot, err := resolveLogRoot(cmd)
			if err != nil {
				return err
			}
			running, pid, err := pidfile.IsRunning(paths.PidFilePath(logRoot))
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}
			if !running {
				return errors.NotRunning()
			}

			client := daemon.New(logRoot)
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), apiTimeout)
			defer cancel()
			status, err := client.GetStatus(ctx)
			if err != nil {
				// Status API disabled or not up yet.
				fmt.Fprintf(cmd.OutOrStdout(), "Running (PID: %d)\n", pid)
				return nil
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, status)
			}
			printStatus(cmd, status)
			return nil
		},
	}
}

func printStatus(cmd *cobra.Command, s *models.Status) {
	t := theme.DefaultTheme
	out := cmd.OutOrStdout()
	label := lipgloss.NewStyle().Width(18)

	fmt.Fprintf(out, "%s %s\n", t.Success.Render("●"), t.Bold.Render(fmt.Sprintf("Running (PID: %d)", s.PID)))
	fmt.Fprintf(out, "%s%s\n", label.Render("Started:"), s.StartedAt.Format(time.DateTime))
	fmt.Fprintf(out, "%s%s\n", label.Render("Projects:"), s.Projects)
	fmt.Fprintf(out, "%s%s\n", label.Render("Logs:"), s.LogRoot)
	fmt.Fprintf(out, "%s%s\n", label.Render("Session log:"), s.SessionLog)
	fmt.Fprintf(out, "%s%d active / %d seen\n", label.Render("Sessions:"), s.ActiveSessions, s.TotalSessions)
	if !s.LastHeartbeat.IsZero() {
		fmt.Fprintf(out, "%s%s\n", label.Render("Last heartbeat:"), s.LastHeartbeat.Format(time.DateTime))
	}

	fmt.Fprintf(out, "\n%s\n", t.Header.Render("Watched roots"))
	for _, r := range s.Roots {
		fmt.Fprintf(out, "  %s %s %s\n", t.Accent.Render(r.Name), t.Muted.Render(r.Path),
			t.Muted.Render(fmt.Sprintf("(%s, %d dirs, %d entries)", r.State, r.Dirs, r.Entries)))
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running devlog instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logRoot, err := resolveLogRoot(cmd)
			if err != nil {
				return err
			}
			running, pid, err := pidfile.IsRunning(paths.PidFilePath(logRoot))
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}
			if !running {
				fmt.Fprintln(cmd.OutOrStdout(), "devlog is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sent SIGTERM to process %d\n", pid)
			return nil
		},
	}
}
