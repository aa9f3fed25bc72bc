package sqlite

import (
	"database/sql"
	"encoding/json"

	"qbmerge/internal/domain"
)

// runTx writes one merge run and its conflicts
type runTx struct {
	tx *sql.Tx
}

// InsertRun inserts the run row
func (t *runTx) InsertRun(run *domain.MergeRun) error {
	sources, err := json.Marshal(run.Sources)
	if err != nil {
		return err
	}

	_, err = t.tx.Exec(`
		INSERT INTO runs (id, at, base_path, out_path, sources, sections, updates, conflicts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.At.UTC().Format(timeLayout), run.BasePath, run.OutPath,
		string(sources), run.Sections, run.Updates, len(run.Conflicts))
	return err
}

// InsertConflict adds one conflict of the run at position seq
func (t *runTx) InsertConflict(runID string, seq int, c domain.Conflict) error {
	_, err := t.tx.Exec(`
		INSERT INTO conflicts (run_id, seq, section_id, section_title, first_source, second_source)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, seq, c.SectionID, c.SectionTitle, c.FirstSource, c.SecondSource)
	return err
}

// Commit commits the transaction
func (t *runTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *runTx) Rollback() error {
	return t.tx.Rollback()
}
