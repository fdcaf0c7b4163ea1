// Package recipe implements the bundle packaging recipe: requirement
// declaration, staged export copying, and consumer include-path
// contribution.
package recipe

import (
	"io"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// Recipe implements types.Recipe for a single Descriptor. A Recipe is used
// for one packaging run and then discarded.
type Recipe struct {
	mu     sync.Mutex
	desc   types.Descriptor
	state  types.State
	logger *log.Logger
}

// Option configures a Recipe.
type Option func(*Recipe)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(r *Recipe) {
		if l != nil {
			r.logger = l
		}
	}
}

// New validates desc and returns a Recipe in the declared state.
func New(desc types.Descriptor, opts ...Option) (*Recipe, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	r := &Recipe{
		desc:   cloneDescriptor(desc),
		state:  types.StateDeclared,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("package", desc.Reference())
	return r, nil
}

// Descriptor returns a copy of the descriptor the recipe was built from.
func (r *Recipe) Descriptor() types.Descriptor {
	return cloneDescriptor(r.desc)
}

// Requirements returns the declared upstream packages, or none when the
// descriptor does not declare requirements.
func (r *Recipe) Requirements() []types.Requirement {
	if !r.desc.Options.DeclareRequirements {
		return []types.Requirement{}
	}
	out := make([]types.Requirement, len(r.desc.Requirements))
	copy(out, r.desc.Requirements)
	return out
}

// Build is a no-op; the bundle ships sources only.
func (r *Recipe) Build() error {
	r.logger.Debug("build: nothing to compile")
	return nil
}

// PackageInfo appends packageDir joined with the include dir to
// meta.IncludeDirs when the descriptor contributes an include path.
// Repeated calls leave the list unchanged.
func (r *Recipe) PackageInfo(meta *types.ConsumerMetadata, packageDir string) {
	if meta == nil || !r.desc.Options.ContributeIncludePath || r.desc.IncludeDir == "" {
		return
	}
	dir := filepath.Join(packageDir, r.desc.IncludeDir)
	if meta.AddIncludeDir(dir) {
		r.logger.Debug("package info: include dir added", "dir", dir)
	}
}

// State returns the current lifecycle state.
func (r *Recipe) State() types.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func cloneDescriptor(d types.Descriptor) types.Descriptor {
	d.Exports = append([]string(nil), d.Exports...)
	d.Requirements = append([]types.Requirement(nil), d.Requirements...)
	return d
}

var _ types.Recipe = (*Recipe)(nil)
