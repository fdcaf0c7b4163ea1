package sqlite

// Schema DDL for the package index. Statements use IF NOT EXISTS because the
// database persists across runs.
const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    reference TEXT NOT NULL,
    state TEXT NOT NULL,
    source_dir TEXT NOT NULL,
    package_dir TEXT NOT NULL,
    error TEXT,
    created_at TEXT NOT NULL
);`

	createRunFiles = `CREATE TABLE IF NOT EXISTS run_files (
    run_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    name TEXT NOT NULL,
    size INTEGER NOT NULL,
    sha256 TEXT NOT NULL,
    PRIMARY KEY (run_id, ordinal),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxRunsReference = `CREATE INDEX IF NOT EXISTS idx_runs_reference ON runs(reference);`
	idxRunsCreated   = `CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`
)

// schemaDDL lists all DDL statements in dependency order.
var schemaDDL = []string{
	createRuns,
	createRunFiles,
	idxRunsReference,
	idxRunsCreated,
}
