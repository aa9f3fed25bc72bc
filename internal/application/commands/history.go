package commands

import (
	"context"
	"fmt"

	"qbmerge/internal/application"
	"qbmerge/internal/domain"
	"qbmerge/internal/ports"
)

// DefaultHistoryLimit is how many runs are listed when no limit is given
const DefaultHistoryLimit = 20

// ListRunsCommand lists recent merges
type ListRunsCommand struct {
	history ports.MergeHistory
	Limit   int
}

// NewListRunsCommand creates a new ListRunsCommand
func NewListRunsCommand(history ports.MergeHistory, limit int) *ListRunsCommand {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ListRunsCommand{history: history, Limit: limit}
}

// Execute runs the list runs command
func (c *ListRunsCommand) Execute(_ context.Context) ([]domain.MergeRun, error) {
	if c.history == nil {
		return nil, application.ErrNoHistory
	}
	runs, err := c.history.ListRuns(c.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ShowRunCommand loads one merge run with its conflicts
type ShowRunCommand struct {
	history ports.MergeHistory
	RunID   string
}

// NewShowRunCommand creates a new ShowRunCommand
func NewShowRunCommand(history ports.MergeHistory, runID string) *ShowRunCommand {
	return &ShowRunCommand{history: history, RunID: runID}
}

// Validate checks if the show operation is valid
func (c *ShowRunCommand) Validate() error {
	return application.ValidateRequired("runID", c.RunID)
}

// Execute runs the show run command
func (c *ShowRunCommand) Execute(_ context.Context) (*domain.MergeRun, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.history == nil {
		return nil, application.ErrNoHistory
	}

	run, err := c.history.GetRun(c.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", c.RunID, err)
	}
	if run == nil {
		return nil, fmt.Errorf("run %s: %w", c.RunID, application.ErrNotFound)
	}
	return run, nil
}
