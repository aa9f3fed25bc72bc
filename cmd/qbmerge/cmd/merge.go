package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"qbmerge/internal/application"
	"qbmerge/internal/application/commands"
)

var (
	mergeBase      string
	mergeOut       string
	mergeConflicts string
	mergeReview    bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge --out <merged.json> [--base <bank.json>] <edited.json>...",
	Short: "Merge edited banks into a base",
	Long: `Merge edited copies of a question bank into the original.

Without --base the first edited file is used as the base and the rest are
merged into it. Edited files are applied in the order given; when two of
them change the same section differently the earlier one wins and the
conflict is written to the report.

The report defaults to <out>.conflicts_report.json and is only written when
there are conflicts, unless --conflicts names it explicitly.

Examples:
  qbmerge merge --base Question_Bank.json --out merged.json editor1.json editor2.json
  qbmerge merge --out merged.json --review Question_Bank.json editor1.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		history, closeHistory, err := openHistory()
		if err != nil {
			logger.Warn("merge history unavailable", "error", err)
		}
		defer closeHistory()

		mergeCmd := commands.NewMergeCommand(GetRepo(), commands.MergeOptions{
			BasePath:      mergeBase,
			OutPath:       mergeOut,
			ConflictsPath: mergeConflicts,
			EditedPaths:   args,
		}).WithHistory(history).WithLogger(logger)

		result, err := mergeCmd.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		if result.RunID != "" {
			logger.Debug("recorded merge", "run_id", result.RunID)
		}

		if !result.HasConflicts() {
			return nil
		}

		if mergeReview {
			if err := runReview(reportLoader(ctx, result.ConflictsPath, result.OutPath)); err != nil {
				return err
			}
		}
		return application.ErrConflicts
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeBase, "base", "", "base/original bank JSON file")
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "", "output merged JSON file")
	mergeCmd.Flags().StringVar(&mergeConflicts, "conflicts", "", "conflicts report JSON path")
	mergeCmd.Flags().BoolVar(&mergeReview, "review", false, "open the conflict review when the merge has conflicts")
	mergeCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(mergeCmd)
}
