// Package hashindex records content digests of the vector assets present
// before a run, so the pipeline can tell which rendered assets changed.
package hashindex

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/fsutil"
)

// Create is the digest reported for paths the snapshot has never seen. It
// never equals a real digest.
const Create = "CREATE"

// Snapshot maps absolute vector paths to their content digest. It is built
// once before rendering and only read afterwards, so it is safe to share
// between goroutines.
type Snapshot struct {
	digests map[string]string
}

// Empty returns a snapshot that knows no paths, which makes every asset stale.
func Empty() *Snapshot {
	return &Snapshot{digests: map[string]string{}}
}

// Load walks root and digests every vector file found. A missing root yields
// an empty snapshot.
func Load(ctx context.Context, root string) (*Snapshot, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(root, fsutil.SVGPattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	digests := make(map[string]string, len(files))
	for _, f := range files {
		key, err := Key(f)
		if err != nil {
			return nil, err
		}
		d, err := Digest(f)
		if err != nil {
			return nil, err
		}
		digests[key] = d
	}

	logger.Debug("Hash snapshot loaded.", "root", root, "files", len(digests))
	return &Snapshot{digests: digests}, nil
}

// Lookup returns the recorded digest of path, or Create when the path was
// not present before the run. A path that cannot be resolved is treated as
// not present.
func (s *Snapshot) Lookup(ctx context.Context, path string) string {
	key, err := Key(path)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Unresolvable path treated as new.", "path", path, "error", err)
		return Create
	}
	if d, ok := s.digests[key]; ok {
		return d
	}
	return Create
}

// Len returns the number of recorded paths.
func (s *Snapshot) Len() int {
	return len(s.digests)
}

// Stale digests path as it is now and reports whether it differs from the
// snapshot.
func (s *Snapshot) Stale(ctx context.Context, path string) (bool, error) {
	fresh, err := Digest(path)
	if err != nil {
		return false, err
	}
	return fresh != s.Lookup(ctx, path), nil
}

// Key normalises a path into the snapshot's key space.
func Key(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

// Digest returns the upper-case hex SHA-256 of a file's content.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s for hashing: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}
