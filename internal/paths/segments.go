package paths

import (
	"path/filepath"
	"strings"

	"github.com/specialistvlad/iconpipe/internal/job"
)

// Segments is a path split into its components. The grouping rules of the
// library manifest are expressed as operations on it.
type Segments []string

// Split breaks a path into segments. A leading separator is kept as an
// empty first segment so absolute paths survive a round trip.
func Split(p string) Segments {
	p = filepath.ToSlash(filepath.Clean(p))
	if p == "." {
		return Segments{}
	}
	return Segments(strings.Split(p, "/"))
}

// Path joins the segments back into an OS path.
func (s Segments) Path() string {
	return filepath.FromSlash(strings.Join(s, "/"))
}

// StripRoot removes root's segments from the front. Segments that do not
// start with root are returned unchanged.
func (s Segments) StripRoot(root string) Segments {
	r := Split(root)
	if len(r) == 0 || len(r) > len(s) {
		return s
	}
	for i := range r {
		if s[i] != r[i] {
			return s
		}
	}
	return s[len(r):]
}

// Without removes the first segment equal to seg.
func (s Segments) Without(seg string) Segments {
	for i, v := range s {
		if v == seg {
			out := make(Segments, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}

// PolarityLast moves the first polarity segment to the end, so grouping
// reads by domain before polarity.
func (s Segments) PolarityLast() Segments {
	for i, v := range s {
		if _, ok := job.ParsePolarity(v); ok {
			out := make(Segments, 0, len(s))
			out = append(out, s[:i]...)
			out = append(out, s[i+1:]...)
			return append(out, v)
		}
	}
	return s
}

// Dir drops the last segment.
func (s Segments) Dir() Segments {
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}

// GroupID derives the library group of a vector asset below root, e.g.
// build/original/svg/THW/Zug1/Foo/a.svg yields "THW-Zug1-Foo-original".
func GroupID(root, svgPath string) string {
	segs := Split(svgPath).StripRoot(root).Dir().Without(SVGSegment).PolarityLast()
	return strings.Join(segs, "-")
}

// Title derives the human readable library title of a vector asset below
// root, e.g. build/original/svg/THW/Zug1/Foo/a-b.svg yields
// "THW Zug1 Foo a b original".
func Title(root, svgPath string) string {
	segs := Split(svgPath).StripRoot(root).Without(SVGSegment).PolarityLast()
	words := make([]string, 0, len(segs))
	for _, seg := range segs {
		seg = strings.TrimSuffix(seg, SVGExt)
		words = append(words, strings.ReplaceAll(seg, "-", " "))
	}
	return strings.Join(words, " ")
}
