package types

// Recipe defines the lifecycle hooks a packaging host invokes, in order:
// Requirements, Build, Package, PackageInfo.
type Recipe interface {
	// Requirements returns the declared upstream packages. The result is
	// empty unless the descriptor declares requirements. Pure; never fails.
	Requirements() []Requirement

	// Build performs no work. It exists because hosts require the hook.
	Build() error

	// Package copies every export from sourceDir to destDir. Either every
	// export lands byte-identical in destDir or destDir is left as it was.
	// Returns *MissingFileError or *IOError on failure and
	// ErrInvalidTransition if the recipe has already packaged or failed.
	Package(sourceDir, destDir string) ([]ExportedFile, error)

	// PackageInfo adds the package include directory, rooted at packageDir,
	// to meta when the descriptor contributes one. Idempotent.
	PackageInfo(meta *ConsumerMetadata, packageDir string)

	// State returns the current lifecycle state.
	State() State
}

// State is the lifecycle state of a recipe.
type State string

// Recipe states. A recipe starts declared and ends packaged or failed.
const (
	StateDeclared State = "declared"
	StatePackaged State = "packaged"
	StateFailed   State = "failed"
)

// ExportedFile describes one file copied into a package.
type ExportedFile struct {
	Name   string `json:"name" yaml:"name"`
	Size   int64  `json:"size" yaml:"size"`
	SHA256 string `json:"sha256" yaml:"sha256"`
}
