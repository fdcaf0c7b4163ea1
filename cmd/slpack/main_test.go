package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// envArgs carries newline-separated CLI arguments into the re-executed
// test binary, which then runs main instead of the tests.
const envArgs = "SLPACK_MAIN_ARGS"

func TestMain(m *testing.M) {
	if args, ok := os.LookupEnv(envArgs); ok {
		os.Args = append([]string{"slpack"}, strings.Split(args, "\n")...)
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// runSlpack re-executes the test binary as slpack and returns stdout,
// stderr, and the exit code.
func runSlpack(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), envArgs+"="+strings.Join(args, "\n"))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr), "running slpack: %v", err)
		code = exitErr.ExitCode()
	}
	return stdout.String(), stderr.String(), code
}

func sourceTree(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name+"\n"), 0o644))
	}
	return dir
}

func TestSlpack_Version(t *testing.T) {
	stdout, stderr, code := runSlpack(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "slpack v")
	assert.Empty(t, stderr)
}

func TestSlpack_MissingExportExitsOne(t *testing.T) {
	tmp := t.TempDir()
	src := sourceTree(t, types.ExportBundleFunctions)

	stdout, stderr, code := runSlpack(t,
		"--config-dir", filepath.Join(tmp, "config"),
		"--data-dir", filepath.Join(tmp, "data"),
		"package", "--no-index", "--source", src, "--dest", filepath.Join(tmp, "out"))

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	want := (&types.MissingFileError{
		Name: types.ExportBundleHeader,
		Path: filepath.Join(src, types.ExportBundleHeader),
	}).Error()
	assert.Equal(t, "error: "+want+"\n", stderr)
}

func TestSlpack_IOFailureExitsTwo(t *testing.T) {
	tmp := t.TempDir()
	src := sourceTree(t, types.ExportBundleFunctions, types.ExportBundleHeader)
	dest := filepath.Join(tmp, "out")
	require.NoError(t, os.WriteFile(dest, []byte("not a directory"), 0o644))

	_, stderr, code := runSlpack(t,
		"--config-dir", filepath.Join(tmp, "config"),
		"--data-dir", filepath.Join(tmp, "data"),
		"package", "--no-index", "--source", src, "--dest", dest)

	assert.Equal(t, 2, code)
	assert.True(t, strings.HasPrefix(stderr, "error: create destination "), stderr)
	assert.Equal(t, 1, strings.Count(stderr, "\n"), "one line on stderr: %q", stderr)
}
