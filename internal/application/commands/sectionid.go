package commands

import (
	"context"
	"fmt"

	"qbmerge/internal/domain"
)

// SectionIDResult contains the derived identifier of a title
type SectionIDResult struct {
	ID      string
	Title   string
	Message string
}

// SectionIDCommand derives the stable section identifier for a title
type SectionIDCommand struct {
	EN string
	PA string
}

// NewSectionIDCommand creates a new SectionIDCommand
func NewSectionIDCommand(en, pa string) *SectionIDCommand {
	return &SectionIDCommand{EN: en, PA: pa}
}

// Execute runs the section id command. Empty titles are allowed; they
// share one identifier like they do in the editor.
func (c *SectionIDCommand) Execute(_ context.Context) (*SectionIDResult, error) {
	title := domain.Title{EN: c.EN, PA: c.PA}
	id := domain.SectionID(title)
	return &SectionIDResult{
		ID:      id,
		Title:   title.Display(),
		Message: fmt.Sprintf("%s  %s", id, title.Display()),
	}, nil
}
