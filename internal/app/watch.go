package app

import (
	"context"
	"os"

	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/watch"
)

// Watch builds once and then rebuilds whenever a configuration file or a
// template changes, until ctx is cancelled. Failed builds are logged and do
// not stop watching; configuration that cannot be loaded at start does.
func (a *App) Watch(ctx context.Context) (err error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	if _, err := a.startStatusServer(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := a.closeStatusServer(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	m, err := a.LoadModel(ctx)
	if err != nil {
		return err
	}
	a.buildAndReport(ctx)

	w, err := watch.New(a.watchRoots(m), watch.Options{
		Debounce: a.config.Debounce,
		Exclude:  []string{m.Settings.OutputDir},
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Start(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("✅ Watch stopped.")
			return nil
		case b, ok := <-w.Batches():
			if !ok {
				return nil
			}
			logger.Info("Inputs changed, rebuilding.", "paths", b.Paths)
			a.buildAndReport(ctx)
		}
	}
}

func (a *App) buildAndReport(ctx context.Context) {
	if _, err := a.Build(ctx); err != nil {
		ctxlog.FromContext(ctx).Error("Build failed, waiting for changes.", "error", err)
	}
}

// watchRoots lists the configuration paths and the icons directory, skipping
// an icons directory that does not exist yet.
func (a *App) watchRoots(m *config.Model) []string {
	roots := append([]string(nil), a.config.ConfigPaths...)
	if info, err := os.Stat(m.Settings.IconsDir); err == nil && info.IsDir() {
		roots = append(roots, m.Settings.IconsDir)
	}
	return roots
}
