package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/metrics"
	"github.com/specialistvlad/iconpipe/internal/raster"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	metrics    *metrics.Recorder
	loader     config.Loader
	renderer   RendererFactory
	rasterizer raster.Rasterizer
	httpServer *http.Server
}

// Option customises an App, mainly for tests.
type Option func(*App)

// WithRasterizer replaces the rasterizer.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(a *App) { a.rasterizer = r }
}

// WithRenderer replaces the renderer factory.
func WithRenderer(f RendererFactory) Option {
	return func(a *App) { a.renderer = f }
}

// WithLoader replaces the configuration loader.
func WithLoader(l config.Loader) Option {
	return func(a *App) { a.loader = l }
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger and metrics registry.
func NewApp(outW io.Writer, appConfig *Config, opts ...Option) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:       outW,
		logger:     logger,
		config:     appConfig,
		metrics:    metrics.New(),
		renderer:   defaultRenderer,
		rasterizer: defaultRasterizer,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Metrics returns the application's metrics recorder. This is primarily for testing.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// context attaches the application logger to ctx.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
