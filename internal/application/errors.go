package application

import (
	"errors"
	"fmt"

	"qbmerge/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("not found")
	ErrNoEditedFiles = errors.New("no edited files")
	ErrNoHistory     = errors.New("merge history is disabled")
	ErrConflicts     = errors.New("merged with conflicts")
	ErrAmbiguousID   = errors.New("ambiguous run id")
	ErrInvalidShape  = domain.ErrInvalidShape
)

// ShapeError is re-exported so adapters need not import domain for it
type ShapeError = domain.ShapeError

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadError represents a bank or report that could not be read or decoded
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
