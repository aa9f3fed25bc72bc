package commands

import (
	"context"
	"fmt"

	"qbmerge/internal/application"
	"qbmerge/internal/domain"
	"qbmerge/internal/ports"
)

// SectionInfo describes one section of a bank
type SectionInfo struct {
	Index     int
	ID        string
	Title     string
	Questions int
	// Duplicate is set on every section after the first that shares an id;
	// a merge keeps only one of them
	Duplicate bool
}

// ListSectionsResult contains the sections of a bank
type ListSectionsResult struct {
	Path     string
	Sections []SectionInfo
	Updates  int
}

// ListSectionsCommand lists the sections of a bank with their identifiers
type ListSectionsCommand struct {
	repo ports.BankRepository
	Path string
}

// NewListSectionsCommand creates a new ListSectionsCommand
func NewListSectionsCommand(repo ports.BankRepository, path string) *ListSectionsCommand {
	return &ListSectionsCommand{repo: repo, Path: path}
}

// Validate checks if the list operation is valid
func (c *ListSectionsCommand) Validate() error {
	return application.ValidateRequired("path", c.Path)
}

// Execute runs the list sections command
func (c *ListSectionsCommand) Execute(_ context.Context) (*ListSectionsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	bank, err := c.repo.Load(c.Path)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateShape(bank); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Path, err)
	}

	seen := make(map[string]bool)
	sections := bank.Sections()
	result := &ListSectionsResult{
		Path:     c.Path,
		Sections: make([]SectionInfo, 0, len(sections)),
		Updates:  len(bank.Updates()),
	}
	for i, s := range sections {
		id := s.ID()
		result.Sections = append(result.Sections, SectionInfo{
			Index:     i,
			ID:        id,
			Title:     s.Title().Display(),
			Questions: len(s.Questions()),
			Duplicate: seen[id],
		})
		seen[id] = true
	}

	return result, nil
}
