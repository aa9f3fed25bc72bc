package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"qbmerge/internal/application/commands"
)

var idCmd = &cobra.Command{
	Use:   "id <english> [punjabi]",
	Short: "Print the section id for a title",
	Long: `Print the stable id a section with this title gets during a merge.

Case and whitespace differences do not change the id.

Examples:
  qbmerge id "History of Punjab" "ਪੰਜਾਬ ਦਾ ਇਤਿਹਾਸ"
  qbmerge id "" "ਗੁਰੂ"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pa := ""
		if len(args) == 2 {
			pa = args[1]
		}

		result, err := commands.NewSectionIDCommand(args[0], pa).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections <bank.json>",
	Short: "List the sections of a bank",
	Long: `List every section of a bank with its id, title and question count.

Sections sharing an id are flagged: a merge keeps only one of them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		result, err := commands.NewListSectionsCommand(GetRepo(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		for _, s := range result.Sections {
			line := fmt.Sprintf("%3d  %-12s  %-40s  %d", s.Index, s.ID, s.Title, s.Questions)
			if s.Duplicate {
				line += "  (duplicate id)"
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintf(out, "%d section(s), %d update(s)\n", len(result.Sections), result.Updates)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <bank.json>...",
	Short: "Check that banks can be merged",
	Long: `Check that each file is a JSON object with a sections array whose
entries each have a questions array.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		result, err := commands.NewValidateCommand(GetRepo(), args).Execute(cmd.Context())
		if err != nil {
			return err
		}

		for _, f := range result.Files {
			if f.OK() {
				fmt.Fprintf(out, "OK    %s  (%d sections, %d questions, %d updates)\n", f.Path, f.Sections, f.Questions, f.Updates)
			} else {
				fmt.Fprintf(out, "FAIL  %s  %v\n", f.Path, f.Err)
			}
		}

		if result.Invalid > 0 {
			return errors.New(result.Message)
		}
		fmt.Fprintln(out, result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(idCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(validateCmd)
}
