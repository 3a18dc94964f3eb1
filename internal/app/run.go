package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/pipeline"
)

// Run performs a single build. A failed status server shutdown is returned
// when the build itself succeeded.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	if _, err := a.startStatusServer(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := a.closeStatusServer(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = a.Build(ctx)
	a.logger.Debug("App.Run method finished.")
	return err
}

// Build loads the configuration and runs the pipeline once.
func (a *App) Build(ctx context.Context) (*pipeline.Summary, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	m, err := a.LoadModel(ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := a.renderer(m.Settings.IconsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare templates: %w", err)
	}

	p := pipeline.New(renderer, a.rasterizer, a.metrics, pipeline.Options{
		Workers:     a.config.Workers,
		UnitTimeout: a.config.UnitTimeout,
		Force:       a.config.Force,
	})

	logger.Info("🚀 Starting build...")
	sum, err := p.Run(ctx, m)
	if err != nil {
		return sum, fmt.Errorf("build failed: %w", err)
	}
	logger.Info("🏁 Build finished.", "duration", sum.Duration.String())
	return sum, nil
}
