// Package recipe provides the public API for building the bundle recipe.
// This package exposes the factory function while keeping the copy and
// staging implementation internal.
package recipe

import (
	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/slcmake/internal/recipe"
	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// New validates desc and returns a recipe in the declared state. A nil
// logger discards output.
//
// Example:
//
//	r, err := recipe.New(types.DefaultDescriptor(types.Options{
//	    DeclareRequirements: true,
//	}), nil)
//	if err != nil {
//	    return err
//	}
//	files, err := r.Package("src", "out/sl_cmake")
func New(desc types.Descriptor, logger *log.Logger) (types.Recipe, error) {
	r, err := recipe.New(desc, recipe.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return r, nil
}
