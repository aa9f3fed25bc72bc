package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"qbmerge/internal/application"
	"qbmerge/internal/domain"
	"qbmerge/internal/ports"
)

// MergeOptions holds the inputs of a merge
type MergeOptions struct {
	// BasePath is the original bank. When empty the first edited file is
	// the base and the rest are merged into it.
	BasePath string
	OutPath  string
	// ConflictsPath overrides the default report path. When set, a report
	// is written even if there are no conflicts.
	ConflictsPath string
	EditedPaths   []string
}

// MergeResult contains the result of a merge operation
type MergeResult struct {
	RunID         string
	BasePath      string
	OutPath       string
	ConflictsPath string
	ReportWritten bool
	Sources       []string
	Conflicts     []domain.Conflict
	Stats         []domain.ApplyStats
	Sections      int
	Updates       int
	Message       string
}

// HasConflicts reports whether the merge finished with conflicts
func (r *MergeResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// MergeCommand merges edited bank files into a base and writes the result
type MergeCommand struct {
	repo    ports.BankRepository
	history ports.MergeHistory
	logger  *slog.Logger
	now     func() time.Time
	MergeOptions
}

// NewMergeCommand creates a new MergeCommand
func NewMergeCommand(repo ports.BankRepository, opts MergeOptions) *MergeCommand {
	return &MergeCommand{
		repo:         repo,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
		MergeOptions: opts,
	}
}

// WithHistory records each successful merge in h
func (c *MergeCommand) WithHistory(h ports.MergeHistory) *MergeCommand {
	c.history = h
	return c
}

// WithLogger sets the logger used for merge progress
func (c *MergeCommand) WithLogger(l *slog.Logger) *MergeCommand {
	if l != nil {
		c.logger = l
	}
	return c
}

// Validate checks if the merge operation is valid
func (c *MergeCommand) Validate() error {
	if err := application.ValidateRequired("outPath", c.OutPath); err != nil {
		return err
	}
	if len(c.EditedPaths) == 0 {
		return fmt.Errorf("merge: %w", application.ErrNoEditedFiles)
	}
	return application.ValidatePaths("editedPaths", c.EditedPaths)
}

// inputs resolves which file is the base and which are edited copies
func (c *MergeCommand) inputs() (string, []string) {
	if c.BasePath == "" {
		return c.EditedPaths[0], c.EditedPaths[1:]
	}
	return c.BasePath, c.EditedPaths
}

// Execute runs the merge command
func (c *MergeCommand) Execute(ctx context.Context) (*MergeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	basePath, editedPaths := c.inputs()
	paths := append([]string{basePath}, editedPaths...)

	banks, err := c.repo.LoadAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	// Every input is checked before merging so a bad file names itself
	for i, b := range banks {
		if err := domain.ValidateShape(b); err != nil {
			var shapeErr *domain.ShapeError
			if errors.As(err, &shapeErr) {
				shapeErr.Source = paths[i]
			}
			return nil, err
		}
	}

	edited := make([]domain.EditedBank, len(editedPaths))
	sources := make([]string, len(editedPaths))
	for i, p := range editedPaths {
		sources[i] = application.SourceLabel(p)
		edited[i] = domain.EditedBank{Source: sources[i], Bank: banks[i+1]}
	}
	c.warnSharedLabels(editedPaths, sources)

	c.logger.Debug("merging banks", "base", basePath, "edited", len(edited))

	outcome, err := domain.Merge(banks[0], edited)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	for _, st := range outcome.Stats {
		c.logger.Info("applied edited bank",
			"source", st.Source,
			"added", st.Added,
			"replaced", st.Replaced,
			"unchanged", st.Unchanged,
			"deleted", st.Deleted,
			"conflicts", st.Conflicts,
			"updates", st.Updates,
		)
	}
	for _, cf := range outcome.Conflicts {
		c.logger.Warn("section conflict",
			"section_id", cf.SectionID,
			"section", cf.SectionTitle,
			"kept", cf.FirstSource,
			"discarded", cf.SecondSource,
		)
	}

	if err := c.repo.Save(c.OutPath, outcome.Bank); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", c.OutPath, err)
	}

	result := &MergeResult{
		BasePath:  basePath,
		OutPath:   c.OutPath,
		Sources:   sources,
		Conflicts: outcome.Conflicts,
		Stats:     outcome.Stats,
		Sections:  len(outcome.Bank.Sections()),
		Updates:   len(outcome.Bank.Updates()),
	}

	explicitReport := c.ConflictsPath != ""
	result.ConflictsPath = c.ConflictsPath
	if !explicitReport {
		result.ConflictsPath = application.DefaultReportPath(c.OutPath)
	}

	if result.HasConflicts() || explicitReport {
		report := domain.NewConflictReport(outcome.Conflicts)
		if err := c.repo.SaveReport(result.ConflictsPath, report); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", result.ConflictsPath, err)
		}
		result.ReportWritten = true
	}

	if result.HasConflicts() {
		result.Message = fmt.Sprintf("Merged with %d conflict(s). See: %s", len(result.Conflicts), result.ConflictsPath)
	} else {
		result.Message = fmt.Sprintf("Merged OK: %s", result.OutPath)
	}

	c.record(result)

	return result, nil
}

// warnSharedLabels logs edited files whose labels collide. Their edits count
// as one source, so they never conflict with each other.
func (c *MergeCommand) warnSharedLabels(paths, labels []string) {
	first := make(map[string]string, len(labels))
	for i, label := range labels {
		if prev, dup := first[label]; dup {
			c.logger.Warn("edited files share a source label",
				"label", label,
				"first", prev,
				"second", paths[i],
			)
			continue
		}
		first[label] = paths[i]
	}
}

// record stores the run in history. Failures are logged, not returned:
// the merged file is already written.
func (c *MergeCommand) record(result *MergeResult) {
	if c.history == nil {
		return
	}

	run := &domain.MergeRun{
		ID:        uuid.NewString(),
		At:        c.now().UTC(),
		BasePath:  result.BasePath,
		OutPath:   result.OutPath,
		Sources:   result.Sources,
		Sections:  result.Sections,
		Updates:   result.Updates,
		Conflicts: result.Conflicts,
	}
	if err := c.history.RecordRun(run); err != nil {
		c.logger.Warn("failed to record merge history", "error", err)
		return
	}
	result.RunID = run.ID
}
