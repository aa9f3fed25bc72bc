package filesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"qbmerge/internal/application"
	"qbmerge/internal/domain"
)

// maxParallelLoads bounds how many bank files are read at once
const maxParallelLoads = 8

// Repository implements ports.BankRepository using JSON files on disk
type Repository struct{}

// NewRepository creates a new filesystem repository
func NewRepository() *Repository {
	return &Repository{}
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// Load reads and decodes one bank. A document whose top level is not an
// object decodes to an empty bank, which fails shape validation later.
func (r *Repository) Load(path string) (domain.Bank, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return nil, &application.LoadError{Path: path, Err: err}
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	// Numbers keep their literal form so integers survive a round trip
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &application.LoadError{Path: path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if dec.More() {
		return nil, &application.LoadError{Path: path, Err: fmt.Errorf("invalid JSON: trailing data")}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return domain.Bank{}, nil
	}
	return domain.Bank(obj), nil
}

// LoadAll reads banks concurrently. The result keeps the order of paths and
// the first failure cancels the remaining reads.
func (r *Repository) LoadAll(ctx context.Context, paths []string) ([]domain.Bank, error) {
	banks := make([]domain.Bank, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := r.Load(p)
			if err != nil {
				return err
			}
			banks[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return banks, nil
}

// Save writes a bank as indented UTF-8 JSON
func (r *Repository) Save(path string, bank domain.Bank) error {
	return writeJSON(ExpandPath(path), map[string]any(bank))
}

// SaveReport writes a conflict report
func (r *Repository) SaveReport(path string, report domain.ConflictReport) error {
	return writeJSON(ExpandPath(path), domain.NewConflictReport(report.Conflicts))
}

// LoadReport reads a conflict report written by SaveReport
func (r *Repository) LoadReport(path string) (*domain.ConflictReport, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return nil, &application.LoadError{Path: path, Err: err}
	}

	var report domain.ConflictReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, &application.LoadError{Path: path, Err: fmt.Errorf("invalid report: %w", err)}
	}
	return &report, nil
}

// writeJSON encodes v with two-space indentation, leaves non-ASCII text
// unescaped and ends the file with a newline
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
