package testutil

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/iconpipe/internal/app"
	"github.com/specialistvlad/iconpipe/internal/pipeline"
)

// HarnessResult holds the outcome of one build in a Project.
type HarnessResult struct {
	LogOutput string
	Err       error
	Summary   *pipeline.Summary
}

// Project is a temporary icon project: configuration files, an icons tree
// and a build directory, wired to an App with a recording rasterizer.
type Project struct {
	Root       string
	Rasterizer *RecordingRasterizer
	App        *app.App

	logs *app.SafeBuffer
}

// NewProject writes files below a temporary root and prepares an App for it.
// Top-level .hcl, .yaml and .yml files become the configuration paths; the
// icons and build directories live directly below the root. mutate can
// adjust the configuration before the App is created.
func NewProject(t *testing.T, files map[string]string, mutate ...func(*app.Config)) *Project {
	t.Helper()

	root := t.TempDir()
	WriteTree(t, root, files)

	cfg := &app.Config{
		ConfigPaths: configPaths(root, files),
		OutputDir:   filepath.Join(root, "build"),
		IconsDir:    filepath.Join(root, "icons"),
		LogFormat:   "text",
		Workers:     4,
	}
	for _, m := range mutate {
		m(cfg)
	}
	require.NotEmpty(t, cfg.ConfigPaths, "project needs at least one configuration file")

	rasterizer := NewRecordingRasterizer()
	a, logs := app.SetupAppTest(t, cfg, app.WithRasterizer(rasterizer))
	return &Project{Root: root, Rasterizer: rasterizer, App: a, logs: logs}
}

func configPaths(root string, files map[string]string) []string {
	var out []string
	for name := range files {
		if strings.Contains(name, "/") {
			continue
		}
		switch filepath.Ext(name) {
		case ".hcl", ".yaml", ".yml":
			out = append(out, filepath.Join(root, name))
		}
	}
	sort.Strings(out)
	return out
}

// Build runs one build and returns its outcome. LogOutput holds the logs of
// every build so far.
func (p *Project) Build(t *testing.T) *HarnessResult {
	t.Helper()
	return p.BuildWithContext(context.Background(), t)
}

// BuildWithContext runs one build with a caller supplied context.
func (p *Project) BuildWithContext(ctx context.Context, t *testing.T) *HarnessResult {
	t.Helper()
	sum, err := p.App.Build(ctx)
	return &HarnessResult{LogOutput: p.logs.String(), Err: err, Summary: sum}
}

// Output returns the build tree keyed by slash separated relative paths.
func (p *Project) Output(t *testing.T) map[string]string {
	t.Helper()
	return ReadTree(t, filepath.Join(p.Root, "build"))
}

// Write adds or replaces files below the project root.
func (p *Project) Write(t *testing.T, files map[string]string) {
	t.Helper()
	WriteTree(t, p.Root, files)
}

// RunBuild creates a project and builds it once.
func RunBuild(t *testing.T, files map[string]string, mutate ...func(*app.Config)) (*Project, *HarnessResult) {
	t.Helper()
	p := NewProject(t, files, mutate...)
	return p, p.Build(t)
}
