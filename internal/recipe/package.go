package recipe

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// stagePattern names the private staging directory created inside the
// destination for the duration of one Package call.
const stagePattern = ".slpack-stage-*"

// fsOps holds filesystem functions that can be overridden in tests.
var fsOps = struct {
	mkdirTemp func(dir, pattern string) (string, error)
	rename    func(oldpath, newpath string) error
}{
	mkdirTemp: os.MkdirTemp,
	rename:    os.Rename,
}

// Package copies every export from sourceDir to destDir. All sources are
// checked before destDir is touched. Files are copied into a staging
// directory inside destDir and renamed into place; if any rename fails the
// files already placed are removed and any files they replaced are restored.
func (r *Recipe) Package(sourceDir, destDir string) ([]types.ExportedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != types.StateDeclared {
		return nil, types.ErrInvalidTransition
	}

	files, err := r.packageLocked(sourceDir, destDir)
	if err != nil {
		r.state = types.StateFailed
		r.logger.Debug("package failed", "err", err)
		return nil, err
	}
	r.state = types.StatePackaged
	r.logger.Info("packaged", "dest", destDir, "files", len(files))
	return files, nil
}

func (r *Recipe) packageLocked(sourceDir, destDir string) ([]types.ExportedFile, error) {
	if err := r.checkSources(sourceDir); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, &types.IOError{Op: "create destination", Path: destDir, Err: err}
	}
	stage, err := fsOps.mkdirTemp(destDir, stagePattern)
	if err != nil {
		return nil, &types.IOError{Op: "create staging directory", Path: destDir, Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(stage); rmErr != nil {
			r.logger.Warn("remove staging directory", "path", stage, "err", rmErr)
		}
	}()

	staged := filepath.Join(stage, "files")
	backup := filepath.Join(stage, "backup")
	for _, dir := range []string{staged, backup} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return nil, &types.IOError{Op: "create staging directory", Path: dir, Err: err}
		}
	}

	files := make([]types.ExportedFile, 0, len(r.desc.Exports))
	for _, name := range r.desc.Exports {
		f, err := copyFile(filepath.Join(sourceDir, name), filepath.Join(staged, name))
		if err != nil {
			return nil, err
		}
		f.Name = name
		files = append(files, f)
		r.logger.Debug("staged", "file", name, "size", f.Size)
	}

	if err := r.commit(staged, backup, destDir); err != nil {
		return nil, err
	}
	return files, nil
}

// checkSources returns a MissingFileError for the first export that is not
// a regular file under sourceDir.
func (r *Recipe) checkSources(sourceDir string) error {
	for _, name := range r.desc.Exports {
		path := filepath.Join(sourceDir, name)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return &types.MissingFileError{Name: name, Path: path}
		}
		if err != nil {
			return &types.IOError{Op: "stat", Path: path, Err: err}
		}
		if !info.Mode().IsRegular() {
			return &types.MissingFileError{Name: name, Path: path}
		}
	}
	return nil
}

// commit moves staged files into destDir. Existing targets are first moved
// aside into backup so a failure can put them back.
func (r *Recipe) commit(staged, backup, destDir string) error {
	var placed, replaced []string

	rollback := func() {
		for _, name := range placed {
			if err := os.Remove(filepath.Join(destDir, name)); err != nil {
				r.logger.Error("rollback: remove", "file", name, "err", err)
			}
		}
		for _, name := range replaced {
			if err := os.Rename(filepath.Join(backup, name), filepath.Join(destDir, name)); err != nil {
				r.logger.Error("rollback: restore", "file", name, "err", err)
			}
		}
	}

	for _, name := range r.desc.Exports {
		target := filepath.Join(destDir, name)
		if _, err := os.Lstat(target); err == nil {
			if err := fsOps.rename(target, filepath.Join(backup, name)); err != nil {
				rollback()
				return &types.IOError{Op: "replace", Path: target, Err: err}
			}
			replaced = append(replaced, name)
		}
		if err := fsOps.rename(filepath.Join(staged, name), target); err != nil {
			rollback()
			return &types.IOError{Op: "rename", Path: target, Err: err}
		}
		placed = append(placed, name)
	}
	return nil
}

// copyFile copies src to dst byte for byte, keeping the source mode, and
// returns the size and SHA-256 of the copied content.
func copyFile(src, dst string) (types.ExportedFile, error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.ExportedFile{}, &types.MissingFileError{Name: filepath.Base(src), Path: src}
		}
		return types.ExportedFile{}, &types.IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return types.ExportedFile{}, &types.IOError{Op: "stat", Path: src, Err: err}
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return types.ExportedFile{}, &types.IOError{Op: "create", Path: dst, Err: err}
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(out, h), in)
	if err != nil {
		out.Close()
		return types.ExportedFile{}, &types.IOError{Op: "write", Path: dst, Err: err}
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return types.ExportedFile{}, &types.IOError{Op: "sync", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return types.ExportedFile{}, &types.IOError{Op: "close", Path: dst, Err: err}
	}

	return types.ExportedFile{Size: n, SHA256: hex.EncodeToString(h.Sum(nil))}, nil
}
