// Package paths maps render jobs to their output locations.
//
// Every function here is pure: the same job always yields the same path, and
// nothing touches the filesystem. Callers must pass fields that contain no
// path separators; config.Model.Validate enforces that for loaded input.
package paths

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/specialistvlad/iconpipe/internal/job"
)

// Fixed path segments of the output tree.
const (
	SVGSegment    = "svg"
	PNGSegment    = "png"
	CustomSegment = "custom"
	DrawioSegment = "drawio"

	SVGExt = ".svg"
	PNGExt = ".png"
)

// RasterSizes is the fixed set of square resolutions every stale vector
// asset is rasterized at.
var RasterSizes = []int{128, 256, 512, 1024, 2048}

// SVGPath returns the vector output path of a job below root.
//
// Icons land in {root}/{polarity}/svg/{organisation}/{group}/{Directory}/{name}.svg
// where name joins display name, special and template with "-", omitting
// empty parts. Personalised jobs land in
// {root}/custom/svg/{polarity}/{organisation}/{group}/{label}-{template}-{display}.svg.
func SVGPath(root string, j job.RenderJob) string {
	if j.IsPerson() {
		name := j.ExtraLabel + "-" + j.TemplateName + "-" + j.DisplayName + SVGExt
		return filepath.Join(root, CustomSegment, SVGSegment, j.Polarity.String(), j.Organisation, j.Group, name)
	}
	// filepath.Join drops empty elements, so an empty group or directory
	// collapses instead of producing a double separator.
	return filepath.Join(
		root,
		j.Polarity.String(),
		SVGSegment,
		j.Organisation,
		j.Group,
		TitleCase(j.Directory),
		JoinName(j.DisplayName, j.Special, j.TemplateName)+SVGExt,
	)
}

// RasterPath derives the raster output path for one size from a vector
// path: the first "svg" segment becomes "png/{size}" and the extension
// becomes ".png".
func RasterPath(svgPath string, size int) string {
	segs := Split(svgPath)
	out := make(Segments, 0, len(segs)+1)
	replaced := false
	for _, s := range segs {
		if !replaced && s == SVGSegment {
			out = append(out, PNGSegment, strconv.Itoa(size))
			replaced = true
			continue
		}
		out = append(out, s)
	}
	p := out.Path()
	return strings.TrimSuffix(p, filepath.Ext(p)) + PNGExt
}

// DrawioDir is the directory library manifests are written to.
func DrawioDir(root string) string {
	return filepath.Join(root, DrawioSegment)
}

// TitleCase upper-cases the first character and leaves the rest untouched.
func TitleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// JoinName joins the non-empty parts with "-".
func JoinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-")
}
