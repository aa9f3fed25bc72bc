package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"qbmerge/internal/adapters/editor"
	"qbmerge/internal/adapters/tui"
	"qbmerge/internal/adapters/tui/views"
	"qbmerge/internal/application"
	"qbmerge/internal/application/commands"
)

var (
	reviewRun    string
	reviewMerged string
)

var reviewCmd = &cobra.Command{
	Use:   "review [report.json]",
	Short: "Browse merge conflicts interactively",
	Long: `Open the conflict review for a conflicts report or a recorded merge run.

Keys: j/k move, h/l page, c copies the section id, o opens the merged bank
in $EDITOR, ? help, q quit.

Examples:
  qbmerge review merged.conflicts_report.json
  qbmerge review --run 3f2a`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		switch {
		case reviewRun != "":
			return runReview(runLoader(ctx, reviewRun))
		case len(args) == 1:
			loader := reportLoader(ctx, args[0], reviewMerged)
			return runReview(loader)
		default:
			return fmt.Errorf("review needs a report path or --run")
		}
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewRun, "run", "", "review a recorded merge run (id or prefix)")
	reviewCmd.Flags().StringVar(&reviewMerged, "merged", "", "merged bank to open with o (default derived from the report name)")

	rootCmd.AddCommand(reviewCmd)
}

// reportLoader reads conflicts from a report file
func reportLoader(ctx context.Context, path, merged string) views.ReviewLoader {
	return func() (*views.ReviewData, error) {
		report, err := commands.NewLoadReportCommand(GetRepo(), path).Execute(ctx)
		if err != nil {
			return nil, err
		}
		if merged == "" {
			merged = application.MergedPathForReport(path)
		}
		return &views.ReviewData{
			Source:    path,
			OutPath:   merged,
			Conflicts: report.Conflicts,
		}, nil
	}
}

// runLoader reads conflicts of a recorded run from history
func runLoader(ctx context.Context, runID string) views.ReviewLoader {
	return func() (*views.ReviewData, error) {
		history, closeHistory, err := openHistory()
		if err != nil {
			return nil, err
		}
		defer closeHistory()

		run, err := commands.NewShowRunCommand(history, runID).Execute(ctx)
		if err != nil {
			return nil, err
		}
		return &views.ReviewData{
			Source:    fmt.Sprintf("run %s, %s", run.ID, humanize.Time(run.At)),
			OutPath:   run.OutPath,
			Conflicts: run.Conflicts,
		}, nil
	}
}

func runReview(load views.ReviewLoader) error {
	app := tui.NewApp(load, editor.NewOpener())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("review: %w", err)
	}
	return nil
}
