package types

import (
	"errors"
	"fmt"
)

// Packaging errors. MissingFileError and IOError match these with errors.Is.
var (
	ErrMissingFile       = errors.New("export file missing")
	ErrIO                = errors.New("package i/o failure")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// MissingFileError reports a declared export absent from the source tree.
type MissingFileError struct {
	Name string // export name as declared
	Path string // path that was looked up
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing export file %q: %s", e.Name, e.Path)
}

// Is reports whether target is ErrMissingFile.
func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}

// IOError reports a failure reading the source or writing the destination.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
