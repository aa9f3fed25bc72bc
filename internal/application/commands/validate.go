package commands

import (
	"context"
	"fmt"

	"qbmerge/internal/application"
	"qbmerge/internal/domain"
	"qbmerge/internal/ports"
)

// FileCheck is the validation outcome of one file
type FileCheck struct {
	Path      string
	Sections  int
	Questions int
	Updates   int
	Err       error
}

// OK reports whether the file can be merged
func (f FileCheck) OK() bool {
	return f.Err == nil
}

// ValidateResult contains the result of a validate operation
type ValidateResult struct {
	Files   []FileCheck
	Invalid int
	Message string
}

// ValidateCommand checks that bank files have the shape needed to merge
type ValidateCommand struct {
	repo  ports.BankRepository
	Paths []string
}

// NewValidateCommand creates a new ValidateCommand
func NewValidateCommand(repo ports.BankRepository, paths []string) *ValidateCommand {
	return &ValidateCommand{repo: repo, Paths: paths}
}

// Validate checks if the validate operation is valid
func (c *ValidateCommand) Validate() error {
	return application.ValidatePaths("paths", c.Paths)
}

// Execute checks every file. Unreadable or malformed files are reported
// per file, not returned as an error.
func (c *ValidateCommand) Execute(_ context.Context) (*ValidateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &ValidateResult{Files: make([]FileCheck, 0, len(c.Paths))}
	for _, p := range c.Paths {
		check := FileCheck{Path: p}

		bank, err := c.repo.Load(p)
		if err == nil {
			err = domain.ValidateShape(bank)
		}
		if err != nil {
			check.Err = err
			result.Invalid++
		} else {
			sections := bank.Sections()
			check.Sections = len(sections)
			for _, s := range sections {
				check.Questions += len(s.Questions())
			}
			check.Updates = len(bank.Updates())
		}

		result.Files = append(result.Files, check)
	}

	if result.Invalid == 0 {
		result.Message = fmt.Sprintf("%d file(s) OK", len(result.Files))
	} else {
		result.Message = fmt.Sprintf("%d of %d file(s) invalid", result.Invalid, len(result.Files))
	}

	return result, nil
}
