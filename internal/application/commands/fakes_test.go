package commands

import (
	"context"
	"errors"
	"os"
	"strings"

	"qbmerge/internal/application"
	"qbmerge/internal/domain"
)

// memRepo is an in-memory ports.BankRepository
type memRepo struct {
	banks   map[string]domain.Bank
	saved   map[string]domain.Bank
	reports map[string]domain.ConflictReport
}

func newMemRepo() *memRepo {
	return &memRepo{
		banks:   make(map[string]domain.Bank),
		saved:   make(map[string]domain.Bank),
		reports: make(map[string]domain.ConflictReport),
	}
}

func (r *memRepo) Load(path string) (domain.Bank, error) {
	b, ok := r.banks[path]
	if !ok {
		return nil, &application.LoadError{Path: path, Err: os.ErrNotExist}
	}
	return domain.CloneBank(b)
}

func (r *memRepo) LoadAll(_ context.Context, paths []string) ([]domain.Bank, error) {
	banks := make([]domain.Bank, len(paths))
	for i, p := range paths {
		b, err := r.Load(p)
		if err != nil {
			return nil, err
		}
		banks[i] = b
	}
	return banks, nil
}

func (r *memRepo) Save(path string, bank domain.Bank) error {
	r.saved[path] = bank
	return nil
}

func (r *memRepo) SaveReport(path string, report domain.ConflictReport) error {
	r.reports[path] = report
	return nil
}

func (r *memRepo) LoadReport(path string) (*domain.ConflictReport, error) {
	report, ok := r.reports[path]
	if !ok {
		return nil, &application.LoadError{Path: path, Err: os.ErrNotExist}
	}
	return &report, nil
}

// memHistory is an in-memory ports.MergeHistory
type memHistory struct {
	runs      []domain.MergeRun
	recordErr error
}

func (h *memHistory) Open(string) error { return nil }
func (h *memHistory) Close() error      { return nil }

func (h *memHistory) RecordRun(run *domain.MergeRun) error {
	if h.recordErr != nil {
		return h.recordErr
	}
	h.runs = append(h.runs, *run)
	return nil
}

func (h *memHistory) ListRuns(limit int) ([]domain.MergeRun, error) {
	var out []domain.MergeRun
	for i := len(h.runs) - 1; i >= 0 && len(out) < limit; i-- {
		run := h.runs[i]
		run.Conflicts = nil
		out = append(out, run)
	}
	return out, nil
}

func (h *memHistory) GetRun(id string) (*domain.MergeRun, error) {
	if id == "broken" {
		return nil, errors.New("database is locked")
	}
	for _, run := range h.runs {
		if strings.HasPrefix(run.ID, id) {
			return &run, nil
		}
	}
	return nil, nil
}

func section(en string, questions ...any) map[string]any {
	if questions == nil {
		questions = []any{}
	}
	return map[string]any{
		"title":     map[string]any{"en": en, "pa": ""},
		"questions": questions,
	}
}

func bank(sections ...map[string]any) domain.Bank {
	list := make([]any, len(sections))
	for i, s := range sections {
		list[i] = s
	}
	return domain.Bank{"sections": list}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
