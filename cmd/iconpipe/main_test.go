package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/iconpipe/internal/cli"
)

func TestRun_Build(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	files := map[string]string{
		"iconpipe.hcl": `
organisation "THW" {
  icon {
    template = "bar"
    names    = "A"
  }
}
`,
		"icons/THW/bar.template.svg": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10" fill="{{ main_color }}"/></svg>`,
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	out := &bytes.Buffer{}
	args := []string{
		"build", filepath.Join(dir, "iconpipe.hcl"),
		"--output", filepath.Join(dir, "build"),
		"--icons", filepath.Join(dir, "icons"),
		"--no-library",
	}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "build", "original", "svg", "THW", "A-bar.svg"))
	assert.FileExists(t, filepath.Join(dir, "build", "inverted", "png", "128", "THW", "A-bar.png"))
	assert.Contains(t, out.String(), "Build finished")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Help is handled by the parser and needs no application.
	args := []string{"--help"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when nothing is left to do")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"build", "--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_MissingConfiguration(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, []string{"build", filepath.Join(t.TempDir(), "nope.hcl")})

	require.Error(t, err)
	var exitErr *cli.ExitError
	assert.False(t, errors.As(err, &exitErr), "runtime failures exit with the generic code")
	assert.Contains(t, err.Error(), "failed to load configuration")
}
