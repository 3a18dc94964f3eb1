// Package pipeline runs one complete build: expansion, rendering, change
// detection, rasterization and library aggregation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/expand"
	"github.com/specialistvlad/iconpipe/internal/hashindex"
	"github.com/specialistvlad/iconpipe/internal/library"
	"github.com/specialistvlad/iconpipe/internal/metrics"
	"github.com/specialistvlad/iconpipe/internal/paths"
	"github.com/specialistvlad/iconpipe/internal/raster"
	"github.com/specialistvlad/iconpipe/internal/render"
)

// Stage names used in RunError.
const (
	StageExpand  = "expand"
	StageHash    = "hash"
	StageRender  = "render"
	StageRaster  = "raster"
	StageLibrary = "library"
)

// RunError reports the stage a run stopped in. Err may join several
// failures from the same stage.
type RunError struct {
	Stage string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Options tunes a Pipeline.
type Options struct {
	// Workers bounds both render batches and raster units. Zero means one
	// per CPU.
	Workers int
	// UnitTimeout bounds every renderer and rasterizer call.
	UnitTimeout time.Duration
	// Force rasterizes every rendered asset, ignoring the hash snapshot.
	Force bool
	// Sizes overrides the raster sizes, mainly for tests.
	Sizes []int
}

// Summary counts what a run did.
type Summary struct {
	RunID     string
	Jobs      int
	Rendered  int
	Skipped   int
	Stale     int
	Unchanged int
	Rasters   int
	Libraries int
	Duration  time.Duration
}

// Pipeline wires the stages to their collaborators.
type Pipeline struct {
	renderer   render.Renderer
	rasterizer raster.Rasterizer
	metrics    *metrics.Recorder
	opts       Options
}

// New creates a pipeline. rec may be nil.
func New(renderer render.Renderer, rasterizer raster.Rasterizer, rec *metrics.Recorder, opts Options) *Pipeline {
	if len(opts.Sizes) == 0 {
		opts.Sizes = paths.RasterSizes
	}
	return &Pipeline{renderer: renderer, rasterizer: rasterizer, metrics: rec, opts: opts}
}

// Run performs a full build of m. The model is expected to be validated.
func (p *Pipeline) Run(ctx context.Context, m *config.Model) (*Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: uuid.NewString()}
	ctx, logger := ctxlog.With(ctx, "run_id", sum.RunID)

	err := p.run(ctx, m, sum)
	sum.Duration = time.Since(start)
	p.metrics.RunFinished(sum.Duration.Seconds(), err)

	logger.Info("Run summary.",
		"jobs", sum.Jobs,
		"rendered", sum.Rendered,
		"skipped", sum.Skipped,
		"stale", sum.Stale,
		"unchanged", sum.Unchanged,
		"rasters", sum.Rasters,
		"libraries", sum.Libraries,
		"duration", sum.Duration.Round(time.Millisecond),
		"ok", err == nil,
	)
	return sum, err
}

func (p *Pipeline) run(ctx context.Context, m *config.Model, sum *Summary) error {
	logger := ctxlog.FromContext(ctx)
	s := m.Settings

	// The snapshot must describe the tree before anything is rendered.
	snapshot := hashindex.Empty()
	if s.EnablePNG && !p.opts.Force {
		var err error
		snapshot, err = hashindex.Load(ctx, s.OutputDir)
		if err != nil {
			return &RunError{Stage: StageHash, Err: err}
		}
	}

	jobs, err := expand.New(os.DirFS(s.IconsDir)).Expand(ctx, m)
	if err != nil {
		return &RunError{Stage: StageExpand, Err: err}
	}
	sum.Jobs = len(jobs)
	logger.Info("Expanded render jobs.", "jobs", len(jobs))

	stage := render.NewStage(p.renderer, render.Options{
		Root:    s.OutputDir,
		Workers: p.opts.Workers,
		Timeout: p.opts.UnitTimeout,
		Metrics: p.metrics,
	})
	res, err := stage.Run(ctx, jobs)
	sum.Rendered = len(res.Written)
	sum.Skipped = len(res.Skipped)
	if err != nil {
		if s.EnablePNG {
			p.resetChanged(ctx, snapshot, res.Written)
		}
		return &RunError{Stage: StageRender, Err: err}
	}

	if s.EnablePNG {
		stale, err := p.staleAssets(ctx, snapshot, res.Written, sum)
		if err != nil {
			p.resetChanged(ctx, snapshot, res.Written)
			return &RunError{Stage: StageHash, Err: err}
		}
		if err := p.rasterize(ctx, stale, sum); err != nil {
			return &RunError{Stage: StageRaster, Err: err}
		}
	} else {
		logger.Debug("Rasterization disabled.")
	}

	if s.EnableLibrary {
		written, err := library.Build(ctx, s.OutputDir, p.metrics)
		sum.Libraries = len(written)
		if err != nil {
			return &RunError{Stage: StageLibrary, Err: err}
		}
	} else {
		logger.Debug("Library aggregation disabled.")
	}
	return nil
}

// staleAssets compares every written vector asset against the snapshot. An
// unchanged asset with any raster size missing is stale as well, so all its
// sizes are regenerated together.
func (p *Pipeline) staleAssets(ctx context.Context, snapshot *hashindex.Snapshot, written []string, sum *Summary) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		stale []string
		errs  []error
	)
	for _, path := range written {
		changed := true
		if !p.opts.Force {
			var err error
			changed, err = snapshot.Stale(ctx, path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !changed && !p.rastersComplete(path) {
				logger.Debug("Rasters missing for unchanged asset.", "path", path)
				changed = true
			}
		}
		if changed {
			stale = append(stale, path)
			p.metrics.AssetStale()
		} else {
			p.metrics.AssetUnchanged()
		}
	}
	sum.Stale = len(stale)
	sum.Unchanged = len(written) - len(stale) - len(errs)
	logger.Info("Change detection finished.", "stale", sum.Stale, "unchanged", sum.Unchanged, "forced", p.opts.Force)
	return stale, errors.Join(errs...)
}

// rasterize runs every size of every stale asset. Vector assets with a failed
// unit are removed so the next run sees them as new and retries all sizes.
func (p *Pipeline) rasterize(ctx context.Context, stale []string, sum *Summary) error {
	logger := ctxlog.FromContext(ctx)

	sched := raster.NewScheduler(p.rasterizer, raster.Options{
		Workers: p.opts.Workers,
		Timeout: p.opts.UnitTimeout,
		Metrics: p.metrics,
	})
	written, err := sched.Run(ctx, raster.UnitsFor(stale, p.opts.Sizes))
	sum.Rasters = len(written)
	if err == nil {
		return nil
	}

	failed := failedAssets(err)
	for _, path := range failed {
		resetAsset(ctx, path)
	}
	logger.Debug("Reset vector assets after raster failure.", "count", len(failed))
	return err
}

// rastersComplete reports whether every raster size of a vector asset exists.
func (p *Pipeline) rastersComplete(svgPath string) bool {
	for _, size := range p.opts.Sizes {
		if _, err := os.Stat(paths.RasterPath(svgPath, size)); err != nil {
			return false
		}
	}
	return true
}

// resetChanged removes the vector assets written by a run that stopped before
// rasterizing, unless their content matches the snapshot. The next run then
// treats them as new instead of trusting rasters of older content.
func (p *Pipeline) resetChanged(ctx context.Context, snapshot *hashindex.Snapshot, written []string) {
	reset := 0
	for _, path := range written {
		if stale, err := snapshot.Stale(ctx, path); err == nil && !stale {
			continue
		}
		resetAsset(ctx, path)
		reset++
	}
	ctxlog.FromContext(ctx).Debug("Reset vector assets of an interrupted run.", "count", reset)
}

func resetAsset(ctx context.Context, path string) {
	logger := ctxlog.FromContext(ctx)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Could not reset vector asset.", "path", path, "error", err)
		return
	}
	logger.Debug("Reset vector asset.", "path", path)
}

// failedAssets lists the distinct vector paths named by raster errors.
func failedAssets(err error) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		var re *raster.Error
		if errors.As(err, &re) && !seen[re.Path] {
			seen[re.Path] = true
			out = append(out, re.Path)
		}
	}
	walk(err)
	return out
}
