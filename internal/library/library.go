// Package library bundles the vector assets of an output tree into draw.io
// shape libraries, one file per group.
package library

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/fsutil"
	"github.com/specialistvlad/iconpipe/internal/metrics"
	"github.com/specialistvlad/iconpipe/internal/paths"
)

const (
	dataURIPrefix = "data:image/svg+xml;base64,"
	// EntrySize is the width and height every library shape is placed at.
	EntrySize   = 256
	aspectFixed = "fixed"
)

// Entry is one shape of a draw.io library. draw.io reads the size from the
// short keys w and h.
type Entry struct {
	Data   string `json:"data"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
	Title  string `json:"title"`
	Aspect string `json:"aspect"`
}

// Manifest maps a group id to its entries in path order.
type Manifest map[string][]Entry

// Groups returns the group ids sorted.
func (m Manifest) Groups() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Collect walks root for vector assets and groups them. The drawio output
// directory is never scanned.
func Collect(ctx context.Context, root string) (Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(root, fsutil.SVGPattern)
	if err != nil {
		return nil, err
	}

	drawio := paths.DrawioDir(root) + string(filepath.Separator)
	m := make(Manifest)
	for _, f := range files {
		if strings.HasPrefix(f, drawio) {
			continue
		}
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		id := paths.GroupID(root, f)
		m[id] = append(m[id], Entry{
			Data:   dataURIPrefix + base64.StdEncoding.EncodeToString(content),
			Width:  EntrySize,
			Height: EntrySize,
			Title:  paths.Title(root, f),
			Aspect: aspectFixed,
		})
	}

	logger.Debug("Library collected.", "files", len(files), "groups", len(m))
	return m, nil
}

// Encode renders a group's entries as an mxlibrary document.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	body, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode library entries: %w", err)
	}
	var buf bytes.Buffer
	buf.Grow(len(body) + 23)
	buf.WriteString("<mxlibrary>")
	buf.Write(body)
	buf.WriteString("</mxlibrary>")
	return buf.Bytes(), nil
}

// Write stores every group of m as {root}/drawio/{group}.xml, replacing any
// previous file, and returns the paths written.
func Write(ctx context.Context, root string, m Manifest, rec *metrics.Recorder) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	dir := paths.DrawioDir(root)

	var written []string
	for _, id := range m.Groups() {
		doc, err := Encode(m[id])
		if err != nil {
			return written, fmt.Errorf("group %s: %w", id, err)
		}
		target := filepath.Join(dir, id+".xml")
		if err := fsutil.WriteFile(target, doc); err != nil {
			return written, err
		}
		rec.ManifestWritten()
		logger.Debug("Saved library.", "group", id, "entries", len(m[id]), "path", target)
		written = append(written, target)
	}
	return written, nil
}

// Build collects root and writes its libraries.
func Build(ctx context.Context, root string, rec *metrics.Recorder) ([]string, error) {
	m, err := Collect(ctx, root)
	if err != nil {
		return nil, err
	}
	return Write(ctx, root, m, rec)
}
