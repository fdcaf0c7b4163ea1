package types

import (
	"errors"
	"time"
)

// Run records one packaging invocation as kept in the package index.
type Run struct {
	RunID      string         `json:"run_id"`       // UUID v7, generated on record.
	Reference  string         `json:"reference"`    // name/version of the package.
	State      State          `json:"state"`        // packaged or failed.
	SourceDir  string         `json:"source_dir"`   // Absolute source path.
	PackageDir string         `json:"package_dir"`  // Absolute destination path.
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Files      []ExportedFile `json:"files"`
}

// Index errors.
var (
	ErrIndexClosed = errors.New("package index is closed")
	ErrIndexOpen   = errors.New("package index is already open")
	ErrNotFound    = errors.New("run not found")
)
