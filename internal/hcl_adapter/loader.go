package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/fsutil"
)

// Extension is the file extension the loader reads.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{environ: defaultEnviron}
}

// Load parses every .hcl file named by paths, or found below a directory in
// paths, and merges them into one validated model. Organisations declared in
// several files are merged in file order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, config.Errorf("", "", "no %s files found in %v", Extension, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext(l.environ())
	model := config.NewModel()
	settingsFrom := ""

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, &config.Error{Source: file, Err: diags}
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, &config.Error{Source: file, Err: diags}
		}

		for _, s := range root.Settings {
			if settingsFrom != "" {
				return nil, config.Errorf(file, "settings", "declared more than once, first in %s", settingsFrom)
			}
			settingsFrom = file
			translateSettings(s, &model.Settings)
		}
		for _, org := range root.Organisations {
			if err := translateOrganisation(ctx, evalCtx, file, org, model); err != nil {
				return nil, err
			}
		}
		for _, p := range root.Persons {
			if err := translatePersons(ctx, evalCtx, file, p, model); err != nil {
				return nil, err
			}
		}
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.",
		"organisations", len(model.Organisations),
		"descriptions", model.DescriptionCount(),
		"persons", len(model.Persons.Persons),
	)
	return model, nil
}

// findAllHCLFiles returns the .hcl files named by paths, expanding
// directories recursively. Files are returned once, in argument order, and
// sorted within each directory.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			allFiles = append(allFiles, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &config.Error{Source: path, Err: err}
		}

		if info.IsDir() {
			found, err := fsutil.FindFiles(path, "**/*"+Extension)
			if err != nil {
				return nil, &config.Error{Source: path, Err: err}
			}
			for _, f := range found {
				add(filepath.Clean(f))
			}
			continue
		}
		if filepath.Ext(path) != Extension {
			return nil, config.Errorf(path, "", "expected a %s file", Extension)
		}
		add(filepath.Clean(path))
	}
	return allFiles, nil
}

var _ config.Loader = (*Loader)(nil)
