package ports

import (
	"context"

	"qbmerge/internal/domain"
)

// BankRepository defines the interface for reading and writing question
// bank documents and conflict reports
type BankRepository interface {
	// Load reads and decodes one bank. The shape is not checked.
	Load(path string) (domain.Bank, error)

	// LoadAll reads several banks, returning them in the order of paths
	LoadAll(ctx context.Context, paths []string) ([]domain.Bank, error)

	// Save writes a bank, creating parent directories as needed
	Save(path string, bank domain.Bank) error

	// Conflict reports
	SaveReport(path string, report domain.ConflictReport) error
	LoadReport(path string) (*domain.ConflictReport, error)
}
