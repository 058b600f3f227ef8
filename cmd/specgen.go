package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/devlog/cli"
	"github.com/grovetools/devlog/pkg/profiling"
	"github.com/grovetools/devlog/pkg/specgen"
	"github.com/grovetools/devlog/version"
	"github.com/spf13/cobra"
)

// NewSpecgenCmd returns the specgen command.
func NewSpecgenCmd() *cobra.Command {
	var (
		output      string
		projectType string
		project     string
	)

	types := make([]string, len(specgen.ProjectTypes))
	for i, t := range specgen.ProjectTypes {
		types[i] = string(t)
	}

	cmd := cli.NewStandardCommand(
		"specgen <conversation_file>",
		"Draft a project specification from a conversation transcript",
	)
	cmd.Long = `Scan a conversation transcript (plain text or Claude Code JSONL) for
requirements, technologies, timeline, budget, risks and features, and write
them into a markdown specification template.

Examples:
  specgen chat.txt
  specgen session.jsonl -o docs/spec.md --type ai_system --project ranker`
	cmd.Args = cobra.ExactArgs(1)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: <input>_spec.md)")
	cmd.Flags().StringVar(&projectType, "type", "", "Template type: "+strings.Join(types, ", ")+" (default: detected)")
	cmd.Flags().StringVar(&project, "project", "", "Project name (default: current directory name)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path, err := specgen.Generate(args[0], specgen.Options{
			Output:      output,
			Type:        specgen.ProjectType(projectType),
			ProjectName: project,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Specification generated: %s\n", path)
		return nil
	}

	profiling.Attach(cmd)
	cli.SetVersionTemplate(cmd, version.GetInfo())
	cli.ApplyStyledHelpRecursive(cmd)
	return cmd
}
