package ports

import "qbmerge/internal/domain"

// MergeHistory keeps a record of past merges and the conflicts they hit
type MergeHistory interface {
	// Lifecycle
	Open(dbPath string) error
	Close() error

	// RecordRun stores a run and its conflicts atomically
	RecordRun(run *domain.MergeRun) error

	// ListRuns returns the most recent runs first
	ListRuns(limit int) ([]domain.MergeRun, error)

	// GetRun returns one run. The id may be a unique prefix. A missing run
	// yields (nil, nil).
	GetRun(id string) (*domain.MergeRun, error)
}
