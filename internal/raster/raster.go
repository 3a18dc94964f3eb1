// Package raster converts vector assets to PNG files at fixed sizes.
//
// The Scheduler fans units of work out to a pool of workers. Each unit reads
// one vector file and writes one raster file, so units share nothing but the
// progress counter and the error list.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterizer converts vector markup to encoded raster bytes of the given size.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error)
}

// Error reports a unit that could not be rasterized or written.
type Error struct {
	Path string
	Size int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rasterize %s at %dpx: %v", e.Path, e.Size, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SVGRasterizer draws SVG documents with oksvg and encodes them as PNG.
type SVGRasterizer struct {
	// Strict rejects documents containing elements oksvg does not support.
	Strict bool
}

// Rasterize implements Rasterizer. The document's view box is scaled to fill
// the target rectangle.
func (r SVGRasterizer) Rasterize(_ context.Context, svg []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	mode := oksvg.WarnErrorMode
	if r.Strict {
		mode = oksvg.StrictErrorMode
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), mode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
