package app

import (
	"github.com/specialistvlad/iconpipe/internal/raster"
	"github.com/specialistvlad/iconpipe/internal/render"
)

// RendererFactory creates the template renderer for an icons directory. The
// renderer is created per build so template edits are always picked up.
type RendererFactory func(iconsDir string) (render.Renderer, error)

// defaultRenderer is the pongo2 template engine.
func defaultRenderer(iconsDir string) (render.Renderer, error) {
	return render.NewPongoRenderer(iconsDir)
}

// defaultRasterizer is the oksvg rasterizer compiled into the binary.
var defaultRasterizer raster.Rasterizer = raster.SVGRasterizer{}
