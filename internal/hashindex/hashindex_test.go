package hashindex

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/fsutil"
)

func TestDigest_Format(t *testing.T) {
	f := filepath.Join(t.TempDir(), "a.svg")
	require.NoError(t, os.WriteFile(f, []byte("abc"), 0o644))

	d, err := Digest(f)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{64}$`), d)
	assert.Equal(t, "BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD", d)
}

func TestLoad_SnapshotsOnlyVectorFiles(t *testing.T) {
	root := t.TempDir()
	svg := filepath.Join(root, "original", "svg", "a.svg")
	png := filepath.Join(root, "original", "png", "128", "a.png")
	require.NoError(t, fsutil.WriteFile(svg, []byte("<svg/>")))
	require.NoError(t, fsutil.WriteFile(png, []byte("png")))

	ctx := context.Background()
	s, err := Load(ctx, root)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	want, err := Digest(svg)
	require.NoError(t, err)
	assert.Equal(t, want, s.Lookup(ctx, svg))
	assert.Equal(t, Create, s.Lookup(ctx, png))
}

func TestLoad_MissingRoot(t *testing.T) {
	s, err := Load(context.Background(), filepath.Join(t.TempDir(), "build"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestSnapshot_Stale(t *testing.T) {
	root := t.TempDir()
	unchanged := filepath.Join(root, "svg", "same.svg")
	changed := filepath.Join(root, "svg", "changed.svg")
	require.NoError(t, fsutil.WriteFile(unchanged, []byte("same")))
	require.NoError(t, fsutil.WriteFile(changed, []byte("before")))

	ctx := context.Background()
	s, err := Load(ctx, root)
	require.NoError(t, err)

	// Written after the snapshot, like the render stage does.
	created := filepath.Join(root, "svg", "new.svg")
	require.NoError(t, fsutil.WriteFile(created, []byte("new")))
	require.NoError(t, fsutil.WriteFile(changed, []byte("after")))
	require.NoError(t, fsutil.WriteFile(unchanged, []byte("same")))

	stale, err := s.Stale(ctx, unchanged)
	require.NoError(t, err)
	assert.False(t, stale)

	stale, err = s.Stale(ctx, changed)
	require.NoError(t, err)
	assert.True(t, stale)

	stale, err = s.Stale(ctx, created)
	require.NoError(t, err)
	assert.True(t, stale, "paths absent from the snapshot are always stale")
}

func TestSnapshot_RelativeAndAbsoluteKeysAgree(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	require.NoError(t, fsutil.WriteFile(filepath.Join("build", "svg", "a.svg"), []byte("x")))
	ctx := context.Background()
	s, err := Load(ctx, "build")
	require.NoError(t, err)

	abs := filepath.Join(root, "build", "svg", "a.svg")
	assert.Equal(t, s.Lookup(ctx, filepath.Join("build", "svg", "a.svg")), s.Lookup(ctx, abs))
	assert.NotEqual(t, Create, s.Lookup(ctx, abs))
}

func TestEmpty(t *testing.T) {
	f := filepath.Join(t.TempDir(), "a.svg")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	stale, err := Empty().Stale(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestStale_MissingFile(t *testing.T) {
	_, err := Empty().Stale(context.Background(), filepath.Join(t.TempDir(), "gone.svg"))
	require.Error(t, err)
}

func TestLookup_UnresolvablePathIsLoggedAndNew(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on getcwd failing for a removed working directory")
	}

	// --- Arrange ---
	dir := filepath.Join(t.TempDir(), "cwd")
	require.NoError(t, os.Mkdir(dir, 0o755))
	t.Chdir(dir)
	require.NoError(t, os.Remove(dir))
	_, absErr := filepath.Abs("a.svg")
	if absErr == nil {
		t.Skip("working directory still resolvable after removal")
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	// --- Act ---
	got := Empty().Lookup(ctx, "a.svg")

	// --- Assert ---
	assert.Equal(t, Create, got)
	assert.Contains(t, logs.String(), "Unresolvable path treated as new.")
	assert.Contains(t, logs.String(), "path=a.svg")
}
