package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"mediamend/internal/logging"
	"mediamend/internal/services"
)

// LockFileName is the advisory lock file created at the root of a tree during a run.
const LockFileName = ".mediamend.lock"

// File is a regular file found in the tree.
type File struct {
	Path string
	Name string
	Ext  string
}

// Directory groups the regular files that live directly inside Path.
type Directory struct {
	Path  string
	Files []File
}

// Walker enumerates a tree while honoring exclusion patterns.
type Walker struct {
	exclude []string
	skip    map[string]struct{}
	logger  *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithSkipPaths excludes specific absolute file paths, such as the failure log.
func WithSkipPaths(paths ...string) Option {
	return func(w *Walker) {
		for _, p := range paths {
			if strings.TrimSpace(p) == "" {
				continue
			}
			if abs, err := filepath.Abs(p); err == nil {
				w.skip[abs] = struct{}{}
			}
		}
	}
}

// WithLogger attaches a logger for entries that cannot be read.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// NewWalker constructs a walker. Invalid patterns are dropped with a warning
// at walk time rather than failing construction.
func NewWalker(exclude []string, opts ...Option) *Walker {
	w := &Walker{
		exclude: append([]string(nil), exclude...),
		skip:    make(map[string]struct{}),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.NewComponentLogger(w.logger, "discovery")
	return w
}

// Walk returns every directory under root that contains at least one regular
// file. Only a failure to read root itself is returned as an error.
func (w *Walker) Walk(ctx context.Context, root string) ([]Directory, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "discovery", "resolve root", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "discovery", "stat root", absRoot, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrNotFound, "discovery", "stat root", fmt.Sprintf("%s is not a directory", absRoot), nil)
	}

	byDir := make(map[string][]File)
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == absRoot {
				return err
			}
			logging.WarnWithContext(w.logger, "skipping unreadable entry", "discovery_unreadable",
				logging.String(logging.FieldFile, path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the entry"),
				logging.String(logging.FieldImpact, "entry not processed"),
			)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == absRoot {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		if w.excluded(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if d.Name() == LockFileName {
			return nil
		}
		if _, ok := w.skip[path]; ok {
			return nil
		}
		dir := filepath.Dir(path)
		byDir[dir] = append(byDir[dir], File{
			Path: path,
			Name: d.Name(),
			Ext:  filepath.Ext(d.Name()),
		})
		return nil
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrNotFound, "discovery", "walk root", absRoot, walkErr)
	}

	dirs := make([]Directory, 0, len(byDir))
	for path, files := range byDir {
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		dirs = append(dirs, Directory{Path: path, Files: files})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Path < dirs[j].Path })
	return dirs, nil
}

// Files flattens the walk result in directory then name order.
func (w *Walker) Files(ctx context.Context, root string) ([]File, error) {
	dirs, err := w.Walk(ctx, root)
	if err != nil {
		return nil, err
	}
	var files []File
	for _, dir := range dirs {
		files = append(files, dir.Files...)
	}
	return files, nil
}

func (w *Walker) excluded(rel string) bool {
	for _, pattern := range w.exclude {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			w.logger.Debug("invalid exclude pattern", logging.String("pattern", pattern), logging.Error(err))
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
