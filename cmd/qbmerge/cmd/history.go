package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"qbmerge/internal/application/commands"
	"qbmerge/internal/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past merges",
	Long: `List recent merges, newest first, or show one run and its conflicts.

A run id may be shortened to any unique prefix.

Examples:
  qbmerge history
  qbmerge history -n 5
  qbmerge history 3f2a`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		history, closeHistory, err := openHistory()
		if err != nil {
			return err
		}
		defer closeHistory()

		if len(args) == 1 {
			run, err := commands.NewShowRunCommand(history, args[0]).Execute(ctx)
			if err != nil {
				return err
			}
			printRun(out, run)
			return nil
		}

		runs, err := commands.NewListRunsCommand(history, historyLimit).Execute(ctx)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No merges recorded.")
			return nil
		}
		for _, r := range runs {
			status := "clean"
			if !r.Clean() {
				status = fmt.Sprintf("%d conflict(s)", len(r.Conflicts))
			}
			fmt.Fprintf(out, "%-8s  %-16s  %s  <- %s  %s\n",
				shortID(r.ID), humanize.Time(r.At), r.OutPath, strings.Join(r.Sources, ", "), status)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", commands.DefaultHistoryLimit, "number of runs to list")

	rootCmd.AddCommand(historyCmd)
}

func printRun(w io.Writer, r *domain.MergeRun) {
	fmt.Fprintf(w, "Run:      %s\n", r.ID)
	fmt.Fprintf(w, "When:     %s (%s)\n", r.At.Local().Format("2006-01-02 15:04:05"), humanize.Time(r.At))
	fmt.Fprintf(w, "Base:     %s\n", r.BasePath)
	fmt.Fprintf(w, "Output:   %s\n", r.OutPath)
	fmt.Fprintf(w, "Sources:  %s\n", strings.Join(r.Sources, ", "))
	fmt.Fprintf(w, "Result:   %s section(s), %s update(s)\n", humanize.Comma(int64(r.Sections)), humanize.Comma(int64(r.Updates)))

	if r.Clean() {
		fmt.Fprintln(w, "No conflicts.")
		return
	}

	fmt.Fprintf(w, "\n%d conflict(s):\n", len(r.Conflicts))
	for _, c := range r.Conflicts {
		fmt.Fprintf(w, "  %s  %s\n      kept %s, discarded %s\n", c.SectionID, c.SectionTitle, c.FirstSource, c.SecondSource)
	}
}

// shortID trims a run id to a prefix that still selects it
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
