package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/devlog/cli"
	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/internal/daemon/activity"
	"github.com/grovetools/devlog/internal/daemon/orchestrator"
	"github.com/grovetools/devlog/logging"
	"github.com/grovetools/devlog/tui"
	"github.com/grovetools/devlog/tui/components/logviewer"
	"github.com/grovetools/devlog/util/pathutil"
	"github.com/spf13/cobra"
)

func newTailCmd() *cobra.Command {
	var (
		fromStart bool
		useTUI    bool
	)

	cmd := &cobra.Command{
		Use:   "tail [project...]",
		Short: "Follow project activity logs",
		Long: `Follow the <project>_activity.md logs in the log directory. With no
arguments every activity log is followed.

Examples:
  devlog tail
  devlog tail webapp project-api --from-start
  devlog tail --tui`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logRoot, err := resolveLogRoot(cmd)
			if err != nil {
				return err
			}
			files, err := activity.FindLogs(logRoot, args...)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.InvalidInput(fmt.Sprintf("no activity logs found in %s", logRoot))
			}

			sources := make([]string, 0, len(files))
			for s := range files {
				sources = append(sources, s)
			}
			sort.Strings(sources)

			tailer, err := logviewer.NewTailer(files, fromStart || useTUI)
			if err != nil {
				return err
			}
			defer tailer.Stop()

			if useTUI {
				tui.InitializeTUI()
				defer logging.SetGlobalOutput(logging.SetGlobalOutput(io.Discard))
				_, err := tea.NewProgram(logviewer.New(tailer, sources), tea.WithAltScreen()).Run()
				return err
			}
			return streamLines(cmd, tailer, len(sources) > 1)
		},
	}

	cmd.Flags().BoolVar(&fromStart, "from-start", false, "Print existing log contents before following")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Open the interactive viewer")
	return cmd
}

func streamLines(cmd *cobra.Command, tailer *logviewer.Tailer, prefix bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	for {
		select {
		case msg, ok := <-tailer.Lines():
			if !ok {
				return nil
			}
			fmt.Fprintln(out, logviewer.FormatLine(msg.Source, msg.Line, prefix))
		case <-ctx.Done():
			return nil
		}
	}
}

// resolveLogRoot returns the log root a run with the same --logs flag and
// configuration would write to.
func resolveLogRoot(cmd *cobra.Command) (string, error) {
	if flag, _ := cmd.Flags().GetString("logs"); flag != "" {
		return pathutil.Expand(flag)
	}
	cfg, _, err := cli.LoadConfig(cli.GetOptions(cmd))
	if err != nil {
		return "", err
	}
	runCfg, err := orchestrator.FromConfig(cfg)
	if err != nil {
		return "", err
	}
	return runCfg.LogRoot, nil
}
