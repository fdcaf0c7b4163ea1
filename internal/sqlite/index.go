// Package sqlite implements the package index: a local SQLite record of
// packaging runs, their destinations, and the digests of the files copied.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// DBFileName is the index database file inside the data directory.
const DBFileName = "index.db"

// createdAtLayout keeps every stored timestamp the same width so that
// created_at sorts chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Index records packaging runs in SQLite.
type Index struct {
	mu      sync.RWMutex
	db      *sql.DB
	dataDir string
}

// NewIndex creates a closed index; call Open before use.
func NewIndex() *Index {
	return &Index{}
}

// Open creates dataDir if needed, opens index.db, and applies the schema.
// Returns ErrIndexOpen if already open.
func (x *Index) Open(dataDir string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.db != nil {
		return types.ErrIndexOpen
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dsn := filepath.Join(dataDir, DBFileName) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	x.db = db
	x.dataDir = dataDir
	return nil
}

// Close releases the database. Idempotent.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.db == nil {
		return nil
	}
	err := x.db.Close()
	x.db = nil
	return err
}

// Record inserts run and its files. An empty RunID is replaced with a new
// UUID v7 and a zero CreatedAt with the current time. Returns the run ID.
func (x *Index) Record(run *types.Run) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.db == nil {
		return "", types.ErrIndexClosed
	}
	if run.RunID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating UUID v7: %w", err)
		}
		run.RunID = id.String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := x.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, reference, state, source_dir, package_dir, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Reference, string(run.State), run.SourceDir, run.PackageDir,
		nullString(run.Error), run.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run %s: %w", run.RunID, err)
	}
	for i, f := range run.Files {
		_, err := tx.Exec(
			`INSERT INTO run_files (run_id, ordinal, name, size, sha256) VALUES (?, ?, ?, ?, ?)`,
			run.RunID, i, f.Name, f.Size, f.SHA256,
		)
		if err != nil {
			return "", fmt.Errorf("inserting file %s: %w", f.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run %s: %w", run.RunID, err)
	}
	return run.RunID, nil
}

// Get returns the run with the given ID or ErrNotFound.
func (x *Index) Get(runID string) (*types.Run, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.db == nil {
		return nil, types.ErrIndexClosed
	}
	rows, err := x.db.Query(selectRuns+` WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}
	runs, err := x.scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, types.ErrNotFound
	}
	return &runs[0], nil
}

// List returns recorded runs oldest first. A non-empty reference restricts
// the result to that package.
func (x *Index) List(reference string) ([]types.Run, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.db == nil {
		return nil, types.ErrIndexClosed
	}
	query := selectRuns
	var args []any
	if reference != "" {
		query += ` WHERE reference = ?`
		args = append(args, reference)
	}
	query += ` ORDER BY created_at, run_id`

	rows, err := x.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return x.scanRuns(rows)
}

const selectRuns = `SELECT run_id, reference, state, source_dir, package_dir, error, created_at FROM runs`

// scanRuns hydrates rows into runs and attaches their files. It closes rows.
func (x *Index) scanRuns(rows *sql.Rows) ([]types.Run, error) {
	var runs []types.Run
	for rows.Next() {
		var (
			run     types.Run
			state   string
			errText sql.NullString
			created string
		)
		if err := rows.Scan(&run.RunID, &run.Reference, &state, &run.SourceDir, &run.PackageDir, &errText, &created); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.State = types.State(state)
		run.Error = errText.String
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("parsing created_at %q: %w", created, err)
		}
		run.CreatedAt = t
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		files, err := x.loadFiles(runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Files = files
	}
	return runs, nil
}

func (x *Index) loadFiles(runID string) ([]types.ExportedFile, error) {
	rows, err := x.db.Query(`SELECT name, size, sha256 FROM run_files WHERE run_id = ? ORDER BY ordinal`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files for run %s: %w", runID, err)
	}
	defer rows.Close()

	files := []types.ExportedFile{}
	for rows.Next() {
		var f types.ExportedFile
		if err := rows.Scan(&f.Name, &f.Size, &f.SHA256); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
