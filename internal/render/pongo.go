package render

import (
	"context"
	"fmt"

	"github.com/flosch/pongo2/v6"
)

// PongoRenderer renders Django/Jinja style templates from the icons
// directory. Parsed templates are cached, and output is autoescaped.
type PongoRenderer struct {
	set *pongo2.TemplateSet
}

// NewPongoRenderer creates a renderer whose template identifiers are
// relative to iconsDir.
func NewPongoRenderer(iconsDir string) (*PongoRenderer, error) {
	loader, err := pongo2.NewLocalFileSystemLoader(iconsDir)
	if err != nil {
		return nil, fmt.Errorf("open icons directory %s: %w", iconsDir, err)
	}
	return &PongoRenderer{set: pongo2.NewSet("icons", loader)}, nil
}

// Render executes the template with the given context.
func (r *PongoRenderer) Render(_ context.Context, templateID string, data Context) (string, error) {
	tpl, err := r.set.FromCache(templateID)
	if err != nil {
		return "", &TemplateError{TemplateID: templateID, Err: err}
	}

	pctx := make(pongo2.Context, len(data))
	for k, v := range data {
		pctx[k] = v
	}

	out, err := tpl.Execute(pctx)
	if err != nil {
		return "", &TemplateError{TemplateID: templateID, Err: err}
	}
	return out, nil
}
