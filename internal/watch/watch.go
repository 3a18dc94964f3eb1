// Package watch reports debounced batches of changes to configuration and
// template files, so a build can be re-run when its inputs change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/hashindex"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// DefaultExtensions are the input file types that trigger a rebuild.
var DefaultExtensions = []string{".svg", ".hcl", ".yaml", ".yml"}

// Options configures a Watcher.
type Options struct {
	// Debounce is how long changes are collected before a batch is emitted.
	Debounce time.Duration
	// Extensions filters the files that count as changes.
	Extensions []string
	// Exclude lists directories that are never watched, such as the build
	// output directory.
	Exclude []string
}

// Batch is a set of changed input files.
type Batch struct {
	Paths []string
}

// Watcher watches directories recursively, and individual files through
// their parent directory.
type Watcher struct {
	opts    Options
	fsw     *fsnotify.Watcher
	dirs    []string
	files   map[string]bool
	exts    map[string]bool
	exclude []string

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashes  map[string]string
	batches chan Batch
}

// New creates a watcher over roots, which may be files or directories.
func New(roots []string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}

	w := &Watcher{
		opts:    opts,
		files:   make(map[string]bool),
		exts:    make(map[string]bool),
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		batches: make(chan Batch, 1),
	}
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.exts[strings.ToLower(ext)] = true
	}
	for _, ex := range opts.Exclude {
		abs, err := filepath.Abs(ex)
		if err != nil {
			return nil, err
		}
		w.exclude = append(w.exclude, abs)
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, abs)
		} else {
			w.files[abs] = true
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsw = fsw
	return w, nil
}

// Batches delivers change batches. It is closed when the watcher stops.
func (w *Watcher) Batches() <-chan Batch {
	return w.batches
}

// Start registers the watches and processes events until ctx is done or the
// watcher is closed.
func (w *Watcher) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for _, dir := range w.dirs {
		if err := w.addRecursive(ctx, dir); err != nil {
			return err
		}
	}
	for file := range w.files {
		if err := w.fsw.Add(filepath.Dir(file)); err != nil {
			return err
		}
		w.remember(file)
	}

	go w.processEvents(ctx)

	logger.Info("👀 Watching for changes.", "dirs", len(w.dirs), "files", len(w.files), "debounce", w.opts.Debounce)
	return nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(ctx context.Context, root string) error {
	logger := ctxlog.FromContext(ctx)
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if w.relevant(p) {
				w.remember(p)
			}
			return nil
		}
		if w.excluded(p) || (strings.HasPrefix(d.Name(), ".") && p != root) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			logger.Warn("Failed to watch directory.", "path", p, "error", err)
			return nil
		}
		logger.Debug("Watching directory.", "path", p)
		return nil
	})
}

// remember records the current digest of a file so unchanged rewrites do not
// trigger a build.
func (w *Watcher) remember(p string) {
	if d, err := hashindex.Digest(p); err == nil {
		w.hashes[p] = d
	}
}

func (w *Watcher) excluded(p string) bool {
	for _, ex := range w.exclude {
		if p == ex || strings.HasPrefix(p, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relevant reports whether a changed file is an input of the build.
func (w *Watcher) relevant(p string) bool {
	if w.files[p] {
		return true
	}
	if !w.exts[strings.ToLower(filepath.Ext(p))] || w.excluded(p) {
		return false
	}
	for _, dir := range w.dirs {
		if strings.HasPrefix(p, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.batches)
	logger := ctxlog.FromContext(ctx)
	ticker := time.NewTicker(w.opts.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Error("Watcher error.", "error", err)

		case <-ticker.C:
			if b, ok := w.flush(); ok {
				select {
				case w.batches <- b:
					logger.Debug("Change batch emitted.", "paths", len(b.Paths))
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	logger := ctxlog.FromContext(ctx)
	p := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if w.relevantDir(p) {
				if err := w.addRecursive(ctx, p); err != nil {
					logger.Warn("Failed to watch new directory.", "path", p, "error", err)
				}
				// Files may have landed before the watch was added.
				w.pendingMu.Lock()
				w.pending[p] = fsnotify.Create
				w.pendingMu.Unlock()
			}
			return
		}
	}
	if !w.relevant(p) {
		return
	}

	w.pendingMu.Lock()
	w.pending[p] |= event.Op
	w.pendingMu.Unlock()
	logger.Debug("Input change detected.", "path", p, "op", event.Op.String())
}

func (w *Watcher) relevantDir(p string) bool {
	if w.excluded(p) || strings.HasPrefix(filepath.Base(p), ".") {
		return false
	}
	for _, dir := range w.dirs {
		if strings.HasPrefix(p, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// flush drains the pending set and keeps only real content changes.
func (w *Watcher) flush() (Batch, bool) {
	w.pendingMu.Lock()
	pending := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	var changed []string
	for p := range pending {
		d, err := hashindex.Digest(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if _, known := w.hashes[p]; known {
				delete(w.hashes, p)
				changed = append(changed, p)
			}
		case err != nil:
			// Directories and unreadable files are reported as is.
			changed = append(changed, p)
		case w.hashes[p] != d:
			w.hashes[p] = d
			changed = append(changed, p)
		}
	}
	if len(changed) == 0 {
		return Batch{}, false
	}
	slices.Sort(changed)
	return Batch{Paths: changed}, true
}
