package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumerMetadata_AddIncludeDir(t *testing.T) {
	var m ConsumerMetadata

	assert.True(t, m.AddIncludeDir("/pkg/sl_cmake"))
	assert.False(t, m.AddIncludeDir("/pkg/sl_cmake/"))
	assert.False(t, m.AddIncludeDir("/pkg/./sl_cmake"))
	assert.True(t, m.AddIncludeDir("/pkg/other"))

	assert.Equal(t, []string{"/pkg/sl_cmake", "/pkg/other"}, m.IncludeDirs)
}

func TestErrorTypes(t *testing.T) {
	var missing error = &MissingFileError{Name: "Bundle.h.in", Path: "/src/Bundle.h.in"}
	assert.True(t, errors.Is(missing, ErrMissingFile))
	assert.False(t, errors.Is(missing, ErrIO))
	assert.Contains(t, missing.Error(), "Bundle.h.in")

	cause := errors.New("read-only file system")
	var ioErr error = &IOError{Op: "create", Path: "/dst", Err: cause}
	assert.True(t, errors.Is(ioErr, ErrIO))
	assert.True(t, errors.Is(ioErr, cause))
	assert.Equal(t, "create /dst: read-only file system", ioErr.Error())
}
