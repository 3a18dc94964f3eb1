package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/specialistvlad/iconpipe/internal/fsutil"
	"github.com/specialistvlad/iconpipe/internal/metrics"
	"github.com/specialistvlad/iconpipe/internal/paths"
)

const sampleSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect x="0" y="0" width="10" height="10" fill="#003399"/></svg>`

// fakeRasterizer encodes its inputs as text and fails for listed documents.
type fakeRasterizer struct {
	mu    sync.Mutex
	calls int
	fail  map[string]bool
	delay time.Duration
}

func (f *fakeRasterizer) Rasterize(_ context.Context, svg []byte, w, h int) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail[string(svg)] {
		return nil, errors.New("bad path data")
	}
	return []byte(fmt.Sprintf("%s@%dx%d", svg, w, h)), nil
}

func writeSVG(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, fsutil.WriteFile(p, []byte(content)))
	return p
}

func TestSVGRasterizer_ProducesPNGOfRequestedSize(t *testing.T) {
	out, err := SVGRasterizer{}.Rasterize(context.Background(), []byte(sampleSVG), 128, 128)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())

	_, _, b, a := img.At(64, 64).RGBA()
	assert.NotZero(t, a, "rect should cover the centre")
	assert.NotZero(t, b)
}

func TestSVGRasterizer_Errors(t *testing.T) {
	_, err := SVGRasterizer{}.Rasterize(context.Background(), []byte("not xml <"), 16, 16)
	assert.Error(t, err)

	_, err = SVGRasterizer{}.Rasterize(context.Background(), []byte(sampleSVG), 0, 16)
	assert.Error(t, err)
}

func TestUnitsFor(t *testing.T) {
	units := UnitsFor([]string{"a.svg", "b.svg"}, paths.RasterSizes)
	assert.Len(t, units, 10)
	assert.Equal(t, Unit{SVGPath: "b.svg", Size: 128}, units[5])
}

func TestUnit_Target(t *testing.T) {
	u := Unit{SVGPath: filepath.Join("build", "inverted", "svg", "THW", "a.svg"), Size: 512}
	assert.Equal(t, filepath.Join("build", "inverted", "png", "512", "THW", "a.png"), u.Target())
}

func TestScheduler_WritesEveryUnit(t *testing.T) {
	defer goleak.VerifyNone(t)

	// --- Arrange ---
	root := t.TempDir()
	a := writeSVG(t, root, "original/svg/THW/a.svg", "A")
	b := writeSVG(t, root, "inverted/svg/THW/b.svg", "B")
	units := UnitsFor([]string{a, b}, paths.RasterSizes)
	rec := metrics.New()

	// --- Act ---
	written, err := NewScheduler(&fakeRasterizer{}, Options{Workers: 3, Metrics: rec}).Run(context.Background(), units)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, written, len(units))
	for _, u := range units {
		got, err := os.ReadFile(u.Target())
		require.NoError(t, err)
		src := "A"
		if u.SVGPath == b {
			src = "B"
		}
		assert.Equal(t, fmt.Sprintf("%s@%dx%d", src, u.Size, u.Size), string(got))
	}
	series, err := testutil.GatherAndCount(rec.Registry(), "iconpipe_raster_units_total")
	require.NoError(t, err)
	assert.Equal(t, len(paths.RasterSizes), series, "one ok series per size")
}

func TestScheduler_CollectsAllFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	good := writeSVG(t, root, "original/svg/good.svg", "good")
	bad := writeSVG(t, root, "original/svg/bad.svg", "bad")
	missing := filepath.Join(root, "original", "svg", "missing.svg")

	units := UnitsFor([]string{good, bad, missing}, []int{128, 256})
	written, err := NewScheduler(&fakeRasterizer{fail: map[string]bool{"bad": true}}, Options{Workers: 2}).Run(context.Background(), units)

	require.Error(t, err)
	sort.Strings(written)
	assert.Equal(t, []string{
		paths.RasterPath(good, 128),
		paths.RasterPath(good, 256),
	}, written)

	var re *Error
	require.True(t, errors.As(err, &re))
	for _, p := range []string{bad, missing} {
		assert.Contains(t, err.Error(), p)
	}
	assert.Contains(t, err.Error(), "bad path data")
}

func TestScheduler_Empty(t *testing.T) {
	written, err := NewScheduler(&fakeRasterizer{}, Options{}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestScheduler_CancelledContext(t *testing.T) {
	root := t.TempDir()
	a := writeSVG(t, root, "original/svg/a.svg", "A")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &fakeRasterizer{}
	_, err := NewScheduler(r, Options{Workers: 2}).Run(ctx, UnitsFor([]string{a}, paths.RasterSizes))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.calls)
}

func TestScheduler_Timeout(t *testing.T) {
	root := t.TempDir()
	a := writeSVG(t, root, "original/svg/a.svg", "A")

	r := &fakeRasterizer{delay: 200 * time.Millisecond}
	_, err := NewScheduler(r, Options{Workers: 1, Timeout: 10 * time.Millisecond}).Run(context.Background(), []Unit{{SVGPath: a, Size: 128}})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, statErr := os.Stat(paths.RasterPath(a, 128))
	assert.True(t, os.IsNotExist(statErr))
	time.Sleep(250 * time.Millisecond)
}
