// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// SVGPattern matches every vector asset below a root.
const SVGPattern = "**/*.svg"

// FindFiles returns the regular files below rootPath matching the doublestar
// pattern, joined onto rootPath and sorted. A missing root yields no files.
func FindFiles(rootPath, pattern string) ([]string, error) {
	if pattern == "" {
		panic("pattern must not be empty")
	}

	info, err := os.Stat(rootPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rootPath)
	}

	matches, err := doublestar.Glob(os.DirFS(rootPath), pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", pattern, rootPath, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(rootPath, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}
