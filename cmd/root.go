// Package cmd holds the cobra commands of the devlog and specgen binaries.
package cmd

import (
	"github.com/grovetools/devlog/cli"
	"github.com/grovetools/devlog/version"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	projects string
	logs     string
	daemon   bool
}

// NewRootCmd returns the devlog command: running it starts the activity
// logger in the foreground; subcommands inspect or control a running instance.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := cli.NewStandardCommand(
		"devlog",
		"Log file activity and assistant sessions as markdown",
	)
	cmd.Long = `Watch a projects directory and its sibling project-* directories, append every
file change to a per-project markdown log, and keep a log per detected
assistant session.

Each instance is identified by its log directory: instances writing to
different log directories run side by side, and status, stop, sessions and
tail address the instance for the configured log directory (or --logs).

Examples:
  # Watch the current directory, logging to ~/claude_logs
  devlog

  # Watch a workspace and log elsewhere
  devlog -p ~/code/webapp -l ~/notes/devlog

  # Inspect a running instance
  devlog status
  devlog sessions --json
  devlog status -l ~/notes/devlog`
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.Flags().StringVarP(&flags.projects, "projects", "p", "", "Projects root to watch (default: current directory)")
	cmd.PersistentFlags().StringVarP(&flags.logs, "logs", "l", "", "Directory for activity logs (default: ~/claude_logs)")
	cmd.Flags().BoolVarP(&flags.daemon, "daemon", "d", false, "Accepted for compatibility; devlog always runs in the foreground")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runLogger(cmd, flags)
	}

	cmd.AddCommand(
		newStatusCmd(),
		newStopCmd(),
		newSessionsCmd(),
		newTailCmd(),
		newSchemaCmd(),
		cli.NewVersionCommand("devlog"),
	)
	cli.SetVersionTemplate(cmd, version.GetInfo())
	cli.ApplyStyledHelpRecursive(cmd)

	return cmd
}
