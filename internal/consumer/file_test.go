package consumer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/slcmake/pkg/types"
)

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"consumer.yaml": FormatYAML,
		"consumer.YML":  FormatYAML,
		"consumer.toml": FormatTOML,
		"consumer.json": FormatJSON,
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatOf("consumer.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	meta, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, meta.IncludeDirs)
}

func TestSaveLoad_EachFormat(t *testing.T) {
	want := types.ConsumerMetadata{IncludeDirs: []string{"/usr/include", "/pkg/sl_cmake"}}

	for _, ext := range []string{".yaml", ".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "consumer"+ext)
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// No temp files left behind.
			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestLoad_ReadsHandWrittenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consumer.yml")
	require.NoError(t, os.WriteFile(path, []byte("include_dirs:\n  - include\n  - third_party\n"), 0o644))

	meta, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"include", "third_party"}, meta.IncludeDirs)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consumer.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
