package types

import "path/filepath"

// ConsumerMetadata is the build configuration exposed to packages that
// depend on this one.
type ConsumerMetadata struct {
	IncludeDirs []string `json:"include_dirs" yaml:"include_dirs" toml:"include_dirs"`
}

// AddIncludeDir appends dir unless an entry with the same cleaned path is
// already present. It reports whether the list changed.
func (m *ConsumerMetadata) AddIncludeDir(dir string) bool {
	clean := filepath.Clean(dir)
	for _, d := range m.IncludeDirs {
		if filepath.Clean(d) == clean {
			return false
		}
	}
	m.IncludeDirs = append(m.IncludeDirs, clean)
	return true
}
