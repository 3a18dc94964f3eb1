package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/hcl_adapter"
	"github.com/specialistvlad/iconpipe/internal/yaml_adapter"
)

// loaderFor picks the configuration loader. Without an explicit format, YAML
// is used when every path is a YAML file and HCL otherwise.
func loaderFor(format string, paths []string) (config.Loader, error) {
	switch format {
	case FormatHCL:
		return hcl_adapter.NewLoader(), nil
	case FormatYAML:
		return yaml_adapter.NewLoader(), nil
	}

	yamlCount := 0
	for _, p := range paths {
		if yaml_adapter.IsYAML(p) {
			yamlCount++
		}
	}
	switch yamlCount {
	case 0:
		return hcl_adapter.NewLoader(), nil
	case len(paths):
		return yaml_adapter.NewLoader(), nil
	}
	return nil, config.Errorf("", "", "cannot mix YAML and HCL configuration paths without an explicit format")
}

// LoadModel reads the configuration and applies the command line overrides.
func (a *App) LoadModel(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration...", "paths", a.config.ConfigPaths, "format", a.config.Format)

	loader := a.loader
	if loader == nil {
		var err error
		loader, err = loaderFor(a.config.Format, a.config.ConfigPaths)
		if err != nil {
			return nil, err
		}
	}

	m, err := loader.Load(ctx, a.config.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if a.config.OutputDir != "" {
		m.Settings.OutputDir = a.config.OutputDir
	}
	if a.config.IconsDir != "" {
		m.Settings.IconsDir = a.config.IconsDir
	}
	if a.config.NoPNG {
		m.Settings.EnablePNG = false
	}
	if a.config.NoLibrary {
		m.Settings.EnableLibrary = false
	}

	logger.Info("Configuration loaded.",
		"organisations", len(m.Organisations),
		"descriptions", m.DescriptionCount(),
		"output_dir", m.Settings.OutputDir,
		"icons_dir", m.Settings.IconsDir,
		"png", m.Settings.EnablePNG,
		"library", m.Settings.EnableLibrary,
	)
	return m, nil
}
