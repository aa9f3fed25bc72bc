package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qbmerge/internal/application"
	"qbmerge/internal/domain"
	"qbmerge/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// timeLayout is fixed width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// History implements ports.MergeHistory using SQLite
type History struct {
	db     *sql.DB
	dbPath string
}

// Ensure History implements MergeHistory
var _ ports.MergeHistory = (*History)(nil)

// NewHistory creates a new SQLite history store
func NewHistory() *History {
	return &History{}
}

// DefaultDBPath returns the history database under the XDG data directory
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "qbmerge", "history.db")
}

// Open opens or creates the database at dbPath. An empty path uses
// DefaultDBPath.
func (h *History) Open(dbPath string) error {
	if dbPath == "" {
		dbPath = DefaultDBPath()
	}

	// Expand ~ in path
	if dbPath == "~" || strings.HasPrefix(dbPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	h.dbPath = dbPath

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	// WAL lets a review session read while a merge writes
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	h.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			at TEXT NOT NULL,
			base_path TEXT NOT NULL,
			out_path TEXT NOT NULL,
			sources TEXT NOT NULL,
			sections INTEGER NOT NULL,
			updates INTEGER NOT NULL,
			conflicts INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS conflicts (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			section_id TEXT NOT NULL,
			section_title TEXT NOT NULL,
			first_source TEXT NOT NULL,
			second_source TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_at ON runs(at);
		CREATE INDEX IF NOT EXISTS idx_conflicts_section ON conflicts(section_id);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := h.checkSchema(); err != nil {
		db.Close()
		return err
	}

	return nil
}

// checkSchema stamps a new database and rejects one written with another
// schema
func (h *History) checkSchema() error {
	var version string
	err := h.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = h.db.Exec("INSERT INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
		if err != nil {
			return fmt.Errorf("failed to update metadata: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("history database %s has schema %s, want %s", h.dbPath, version, schemaVersion)
	}
	return nil
}

// Path returns the database file in use
func (h *History) Path() string {
	return h.dbPath
}

// Close closes the database connection
func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// beginTx starts a new transaction
func (h *History) beginTx() (*runTx, error) {
	tx, err := h.db.Begin()
	if err != nil {
		return nil, err
	}
	return &runTx{tx: tx}, nil
}

// RecordRun stores a run and its conflicts in one transaction
func (h *History) RecordRun(run *domain.MergeRun) error {
	if run.ID == "" {
		return &application.ValidationError{Field: "run ID", Message: "cannot be empty"}
	}

	tx, err := h.beginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := tx.InsertRun(run); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert run: %w", err)
	}
	for i, c := range run.Conflicts {
		if err := tx.InsertConflict(run.ID, i, c); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert conflict: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns up to limit runs, newest first
func (h *History) ListRuns(limit int) ([]domain.MergeRun, error) {
	rows, err := h.db.Query(`
		SELECT id, at, base_path, out_path, sources, sections, updates
		FROM runs ORDER BY at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}

	var runs []domain.MergeRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, *run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		conflicts, err := h.conflicts(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Conflicts = conflicts
	}

	return runs, nil
}

// GetRun retrieves a run by id or unique id prefix
func (h *History) GetRun(id string) (*domain.MergeRun, error) {
	rows, err := h.db.Query(`
		SELECT id, at, base_path, out_path, sources, sections, updates
		FROM runs WHERE substr(id, 1, length(?)) = ?
		ORDER BY id = ? DESC, id LIMIT 2
	`, id, id, id)
	if err != nil {
		return nil, err
	}

	var matches []*domain.MergeRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, nil
	}
	// An exact id sorts first and wins over longer ids sharing its prefix
	if len(matches) > 1 && matches[0].ID != id {
		return nil, fmt.Errorf("%q: %w", id, application.ErrAmbiguousID)
	}

	run := matches[0]
	conflicts, err := h.conflicts(run.ID)
	if err != nil {
		return nil, err
	}
	run.Conflicts = conflicts
	return run, nil
}

// conflicts loads the conflicts of one run in recorded order
func (h *History) conflicts(runID string) ([]domain.Conflict, error) {
	rows, err := h.db.Query(`
		SELECT section_id, section_title, first_source, second_source
		FROM conflicts WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conflicts []domain.Conflict
	for rows.Next() {
		var c domain.Conflict
		if err := rows.Scan(&c.SectionID, &c.SectionTitle, &c.FirstSource, &c.SecondSource); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}

	return conflicts, rows.Err()
}

// scanRun reads one runs row
func scanRun(rows *sql.Rows) (*domain.MergeRun, error) {
	var run domain.MergeRun
	var at, sources string

	if err := rows.Scan(&run.ID, &at, &run.BasePath, &run.OutPath, &sources, &run.Sections, &run.Updates); err != nil {
		return nil, err
	}

	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return nil, fmt.Errorf("run %s: bad timestamp %q: %w", run.ID, at, err)
	}
	run.At = t

	if err := json.Unmarshal([]byte(sources), &run.Sources); err != nil {
		return nil, fmt.Errorf("run %s: bad sources: %w", run.ID, err)
	}

	return &run, nil
}
