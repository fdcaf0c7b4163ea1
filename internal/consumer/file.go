// Package consumer reads and writes consumer metadata files. The format is
// chosen by extension: .yaml/.yml, .toml, or .json. Writes are atomic.
package consumer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// Supported file formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for paths whose extension is not recognized.
var ErrUnknownFormat = errors.New("unknown consumer metadata format")

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads consumer metadata from path. A missing file yields empty
// metadata and no error.
func Load(path string) (types.ConsumerMetadata, error) {
	var meta types.ConsumerMetadata

	format, err := FormatOf(path)
	if err != nil {
		return meta, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("reading %s: %w", path, err)
	}

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &meta)
	case FormatTOML:
		err = toml.Unmarshal(data, &meta)
	case FormatJSON:
		if len(strings.TrimSpace(string(data))) > 0 {
			err = json.Unmarshal(data, &meta)
		}
	}
	if err != nil {
		return meta, fmt.Errorf("parsing %s: %w", path, err)
	}
	return meta, nil
}

// Save writes meta to path in the format implied by its extension.
func Save(path string, meta types.ConsumerMetadata) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if meta.IncludeDirs == nil {
		meta.IncludeDirs = []string{}
	}

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(&meta)
	case FormatTOML:
		data, err = toml.Marshal(meta)
	case FormatJSON:
		data, err = json.MarshalIndent(meta, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeAtomic(path, data)
}

// writeAtomic writes data using the temp-file, fsync, rename pattern.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".consumer-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing metadata: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
