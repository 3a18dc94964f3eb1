package raster

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/iconpipe/internal/bounded"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/fsutil"
	"github.com/specialistvlad/iconpipe/internal/metrics"
	"github.com/specialistvlad/iconpipe/internal/paths"
)

const progressEvery = 100

// Unit is one vector asset rendered at one size.
type Unit struct {
	SVGPath string
	Size    int
}

// Target is the raster path the unit writes.
func (u Unit) Target() string {
	return paths.RasterPath(u.SVGPath, u.Size)
}

// UnitsFor expands stale vector assets into one unit per raster size.
func UnitsFor(svgPaths []string, sizes []int) []Unit {
	units := make([]Unit, 0, len(svgPaths)*len(sizes))
	for _, p := range svgPaths {
		for _, s := range sizes {
			units = append(units, Unit{SVGPath: p, Size: s})
		}
	}
	return units
}

// Options configures a Scheduler.
type Options struct {
	// Workers is the pool size. Zero means one per CPU.
	Workers int
	// Timeout bounds a single rasterizer call. Zero disables it.
	Timeout time.Duration
	Metrics *metrics.Recorder
}

// Scheduler runs units on a fixed pool of workers.
type Scheduler struct {
	rasterizer Rasterizer
	opts       Options
}

// NewScheduler creates a scheduler that uses rasterizer for every unit.
func NewScheduler(rasterizer Rasterizer, opts Options) *Scheduler {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Scheduler{rasterizer: rasterizer, opts: opts}
}

// Run executes every unit and returns the raster paths written. A failed unit
// does not stop the others; all failures are returned together once the pool
// has drained. Cancelling ctx makes the remaining queued units fail fast.
func (s *Scheduler) Run(ctx context.Context, units []Unit) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	if len(units) == 0 {
		logger.Debug("No raster units to run.")
		return nil, nil
	}

	workers := min(s.opts.Workers, len(units))
	logger.Debug("Raster scheduler starting.", "units", len(units), "workers", workers)

	queue := make(chan Unit)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    []error
		written []string
		done    atomic.Int64
	)
	total := int64(len(units))

	for id := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, id, queue, func(u Unit, err error) {
				mu.Lock()
				if err != nil {
					errs = append(errs, err)
				} else {
					written = append(written, u.Target())
				}
				mu.Unlock()

				if n := done.Add(1); n%progressEvery == 0 || n == total {
					logger.Info("Rasterizing progress.", "done", n, "total", total)
				}
			})
		}()
	}

	for _, u := range units {
		queue <- u
	}
	close(queue)
	wg.Wait()

	logger.Debug("Raster scheduler finished.", "written", len(written), "failed", len(errs))
	return written, errors.Join(errs...)
}

// worker is the processing loop for a single pool member.
func (s *Scheduler) worker(ctx context.Context, id int, queue <-chan Unit, report func(Unit, error)) {
	logger := ctxlog.FromContext(ctx).With("workerID", id)
	logger.Debug("Raster worker started.")

	for u := range queue {
		err := s.runUnit(ctx, u)
		s.opts.Metrics.RasterUnit(u.Size, err)
		if err != nil {
			logger.Error("Raster unit failed.", "path", u.SVGPath, "size", u.Size, "error", err)
		}
		report(u, err)
	}
	logger.Debug("Raster worker finished.")
}

func (s *Scheduler) runUnit(ctx context.Context, u Unit) error {
	if err := ctx.Err(); err != nil {
		return &Error{Path: u.SVGPath, Size: u.Size, Err: err}
	}

	svg, err := os.ReadFile(u.SVGPath)
	if err != nil {
		return &Error{Path: u.SVGPath, Size: u.Size, Err: err}
	}

	img, err := bounded.Call(ctx, s.opts.Timeout, func() ([]byte, error) {
		return s.rasterizer.Rasterize(ctx, svg, u.Size, u.Size)
	})
	if err != nil {
		return &Error{Path: u.SVGPath, Size: u.Size, Err: err}
	}

	if err := fsutil.WriteFile(u.Target(), img); err != nil {
		return &Error{Path: u.SVGPath, Size: u.Size, Err: err}
	}
	return nil
}
