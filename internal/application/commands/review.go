package commands

import (
	"context"

	"qbmerge/internal/application"
	"qbmerge/internal/domain"
	"qbmerge/internal/ports"
)

// LoadReportCommand reads a conflict report for review
type LoadReportCommand struct {
	repo ports.BankRepository
	Path string
}

// NewLoadReportCommand creates a new LoadReportCommand
func NewLoadReportCommand(repo ports.BankRepository, path string) *LoadReportCommand {
	return &LoadReportCommand{repo: repo, Path: path}
}

// Validate checks if the load operation is valid
func (c *LoadReportCommand) Validate() error {
	return application.ValidateRequired("reportPath", c.Path)
}

// Execute runs the load report command
func (c *LoadReportCommand) Execute(_ context.Context) (*domain.ConflictReport, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	report, err := c.repo.LoadReport(c.Path)
	if err != nil {
		return nil, err
	}
	if report.Conflicts == nil {
		report.Conflicts = []domain.Conflict{}
	}
	return report, nil
}
