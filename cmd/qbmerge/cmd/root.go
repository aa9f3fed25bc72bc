package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"qbmerge/internal/adapters/filesystem"
	"qbmerge/internal/adapters/sqlite"
	"qbmerge/internal/application"
	"qbmerge/internal/config"
	"qbmerge/internal/ports"
)

// Exit codes
const (
	ExitOK        = 0
	ExitError     = 1
	ExitConflicts = 2
)

// version is set at build time with -ldflags "-X qbmerge/cmd/qbmerge/cmd.version=..."
var version = "dev"

var (
	logFormat string
	verbose   bool
	noHistory bool
	historyDB string

	cfg    *config.Config
	logger *slog.Logger
	repo   ports.BankRepository
)

var rootCmd = &cobra.Command{
	Use:   "qbmerge",
	Short: "Merge edited copies of a bilingual question bank",
	Long: `qbmerge performs a three-way merge of question bank JSON files.

Several editors each edit a copy of the same bank. qbmerge folds their
copies back into the original section by section: sections are matched by
a stable id derived from their English and Punjabi titles, the first
editor to change a section wins, and later differing changes are written
to a conflict report. Update logs are combined without duplicates.

Exit status is 0 for a clean merge, 2 when there were conflicts and 1 on
any error.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		c, err := config.Load(".")
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("log-format") {
			c.LogFormat = logFormat
		}
		if flags.Changed("verbose") {
			c.Verbose = verbose
		}
		if flags.Changed("history-db") {
			c.HistoryPath = historyDB
		}
		if noHistory {
			c.DisableHistory()
		}
		if err := c.Validate(); err != nil {
			return err
		}

		cfg = c
		logger = cfg.NewLogger(os.Stderr)
		repo = filesystem.NewRepository()
		return nil
	},
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	err := rootCmd.ExecuteContext(context.Background())
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, application.ErrConflicts):
		// The summary line was already printed
		return ExitConflicts
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return ExitError
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logFormat, "log-format", config.LogFormatText, "log format: text or json")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log merge details")
	flags.BoolVar(&noHistory, "no-history", false, "do not read or record merge history")
	flags.StringVar(&historyDB, "history-db", "", "merge history database (default $XDG_DATA_HOME/qbmerge/history.db)")
}

// GetRepo returns the initialized repository
func GetRepo() ports.BankRepository {
	return repo
}

// openHistory opens the merge history store. It returns a nil store when
// history is disabled; the returned close func is always safe to call.
func openHistory() (ports.MergeHistory, func(), error) {
	if !cfg.HistoryEnabled() {
		return nil, func() {}, nil
	}

	h := sqlite.NewHistory()
	if err := h.Open(cfg.HistoryPath); err != nil {
		return nil, func() {}, err
	}
	logger.Debug("opened merge history", "path", h.Path())

	return h, func() { h.Close() }, nil
}
