package render

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/iconpipe/internal/bounded"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/fsutil"
	"github.com/specialistvlad/iconpipe/internal/job"
	"github.com/specialistvlad/iconpipe/internal/metrics"
	"github.com/specialistvlad/iconpipe/internal/paths"
)

// progressEvery controls how often progress is logged at info level.
const progressEvery = 250

// Options configures a Stage.
type Options struct {
	// Root is the output directory vector assets are written below.
	Root string
	// Workers bounds how many organisation/group batches render at once.
	// Zero means one per CPU.
	Workers int
	// Timeout bounds a single template execution. Zero disables it.
	Timeout time.Duration
	Metrics *metrics.Recorder
}

// Result lists what a stage run produced.
type Result struct {
	// Written holds the vector paths written, sorted.
	Written []string
	// Skipped holds the jobs whose template was missing.
	Skipped []job.RenderJob
}

// Stage renders jobs to vector files.
type Stage struct {
	renderer Renderer
	opts     Options
}

// NewStage creates a render stage using renderer.
func NewStage(renderer Renderer, opts Options) *Stage {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Stage{renderer: renderer, opts: opts}
}

// Run renders every job. Batches of one organisation/group render
// concurrently; jobs inside a batch render in order. Jobs with a missing
// template are skipped. Template and write failures do not stop other
// jobs: they are collected and returned together once every batch is done.
// A cancelled context stops each batch before its next job and the first
// such error is returned alongside the collected failures.
func (s *Stage) Run(ctx context.Context, jobs []job.RenderJob) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	order, batches := groupBatches(jobs)
	logger.Debug("Render stage starting.", "jobs", len(jobs), "batches", len(order), "workers", s.opts.Workers)

	var (
		mu   sync.Mutex
		res  Result
		errs []error
		done atomic.Int64
	)
	total := int64(len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(s.opts.Workers)
	for _, key := range order {
		batch := batches[key]
		g.Go(func() error {
			bctx, blog := ctxlog.With(ctx, "batch", key)
			for _, j := range batch {
				if err := bctx.Err(); err != nil {
					return fmt.Errorf("batch %s: %w", key, err)
				}
				written, err := s.renderOne(bctx, j)

				mu.Lock()
				switch {
				case err != nil:
					errs = append(errs, err)
				case written == "":
					res.Skipped = append(res.Skipped, j)
				default:
					res.Written = append(res.Written, written)
				}
				mu.Unlock()

				if n := done.Add(1); n%progressEvery == 0 || n == total {
					blog.Info("Rendering progress.", "done", n, "total", total)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}

	sort.Strings(res.Written)
	logger.Debug("Render stage finished.", "written", len(res.Written), "skipped", len(res.Skipped), "failed", len(errs))
	return &res, errors.Join(errs...)
}

// renderOne renders a single job and returns the path written, or "" when
// the job was skipped.
func (s *Stage) renderOne(ctx context.Context, j job.RenderJob) (string, error) {
	logger := ctxlog.FromContext(ctx)

	if j.TemplateMissing {
		logger.Debug("Skipping job with missing template.", "job", j.String(), "template", j.TemplateID)
		s.opts.Metrics.JobSkipped()
		return "", nil
	}

	target := paths.SVGPath(s.opts.Root, j)
	data := BuildContext(j)

	out, err := bounded.Call(ctx, s.opts.Timeout, func() (string, error) {
		return s.renderer.Render(ctx, j.TemplateID, data)
	})
	if err != nil {
		s.opts.Metrics.JobFailed()
		var te *TemplateError
		if errors.As(err, &te) {
			te.Target = target
			return "", te
		}
		return "", &TemplateError{TemplateID: j.TemplateID, Target: target, Err: err}
	}

	if err := fsutil.WriteFile(target, []byte(out)); err != nil {
		s.opts.Metrics.JobFailed()
		return "", err
	}

	logger.Debug("Saved vector asset.", "path", target)
	s.opts.Metrics.JobRendered()
	return target, nil
}

// groupBatches splits jobs by organisation/group, keeping first-seen order.
func groupBatches(jobs []job.RenderJob) ([]string, map[string][]job.RenderJob) {
	var order []string
	batches := make(map[string][]job.RenderJob)
	for _, j := range jobs {
		key := j.BatchKey()
		if _, ok := batches[key]; !ok {
			order = append(order, key)
		}
		batches[key] = append(batches[key], j)
	}
	return order, batches
}
