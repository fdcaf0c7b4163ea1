package types

import (
	"errors"
	"path/filepath"
	"strings"
)

// Options selects which optional behaviors a Descriptor carries. The three
// published variants of the bundle differ only in these two switches.
type Options struct {
	DeclareRequirements   bool `json:"declare_requirements" yaml:"declare_requirements" mapstructure:"declare_requirements"`
	ContributeIncludePath bool `json:"contribute_include_path" yaml:"contribute_include_path" mapstructure:"contribute_include_path"`
}

// Descriptor declares the identity, requirements, and export set of a package.
type Descriptor struct {
	Name         string        `json:"name" yaml:"name"`
	Version      string        `json:"version" yaml:"version"`
	Requirements []Requirement `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Exports      []string      `json:"exports" yaml:"exports"`
	IncludeDir   string        `json:"include_dir,omitempty" yaml:"include_dir,omitempty"`
	Options      Options       `json:"options" yaml:"options"`
}

// Identity of the bundle as published.
const (
	DefaultName    = "sl_cmake"
	DefaultVersion = "0.1.0"

	ExportBundleFunctions = "slBundleFunctions.cmake"
	ExportBundleHeader    = "Bundle.h.in"

	// DefaultIncludeDir is the package root itself.
	DefaultIncludeDir = "."
)

// DefaultExports lists the files shipped by the bundle.
func DefaultExports() []string {
	return []string{ExportBundleFunctions, ExportBundleHeader}
}

// DefaultRequirements lists the upstream packages declared by the
// requirement-carrying variant: the CMake tooling helper and the native
// micro-services framework.
func DefaultRequirements() []Requirement {
	return []Requirement{
		{Name: "conan_cmake", Version: "0.1.0", User: "azriel91", Channel: "stable"},
		{Name: "CppMicroServices", Version: "3.0.0", User: "azriel91", Channel: "testing"},
	}
}

// DefaultDescriptor returns the bundle descriptor for the given options.
func DefaultDescriptor(opts Options) Descriptor {
	return Descriptor{
		Name:         DefaultName,
		Version:      DefaultVersion,
		Requirements: DefaultRequirements(),
		Exports:      DefaultExports(),
		IncludeDir:   DefaultIncludeDir,
		Options:      opts,
	}
}

// Descriptor validation errors.
var (
	ErrNameEmpty       = errors.New("name must not be empty")
	ErrVersionEmpty    = errors.New("version must not be empty")
	ErrNoExports       = errors.New("at least one export is required")
	ErrExportName      = errors.New("export must be a top-level file name")
	ErrDuplicateExport = errors.New("duplicate export")
	ErrIncludeDir      = errors.New("include dir must be relative to the package root")
)

// Validate checks that the Descriptor is well-formed. It returns a sentinel
// error from this package on failure.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameEmpty
	}
	if strings.TrimSpace(d.Version) == "" {
		return ErrVersionEmpty
	}
	if len(d.Exports) == 0 {
		return ErrNoExports
	}
	seen := make(map[string]bool, len(d.Exports))
	for _, name := range d.Exports {
		if !isPlainFileName(name) {
			return ErrExportName
		}
		if seen[name] {
			return ErrDuplicateExport
		}
		seen[name] = true
	}
	for _, r := range d.Requirements {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if d.IncludeDir != "" {
		if filepath.IsAbs(d.IncludeDir) {
			return ErrIncludeDir
		}
		clean := filepath.Clean(d.IncludeDir)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return ErrIncludeDir
		}
	}
	return nil
}

// Reference returns the name/version pair identifying the package.
func (d Descriptor) Reference() string {
	return d.Name + "/" + d.Version
}

func isPlainFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
