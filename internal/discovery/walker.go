// Package discovery implements the marker-gated directory walk that locates
// plugin roots and hands each one to the manifest reader. A directory that
// directly contains the marker file terminates the search for its whole
// subtree; anything else is recursed into, immediate subdirectories first,
// in lexicographic order so builds stay reproducible.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/learningequality/bundlescan/internal/domain"
	"github.com/learningequality/bundlescan/internal/manifest"
	"github.com/learningequality/bundlescan/internal/utils"
)

// Result is the aggregate of one scan: the ordered bundle list and the
// cross-tree external map. Externals are merged across plugin directories
// last-write-wins in traversal order, matching the per-reader duplicate
// policy.
type Result struct {
	Bundles   []domain.BundleDescriptor
	Externals map[string]domain.ExternalDescriptor
}

// Walker recursively walks start directories looking for plugin roots.
type Walker struct {
	fs      afero.Fs
	reader  *manifest.Reader
	workers int
	osFs    bool
	logger  *utils.Logger
}

// WalkerOptions contains options for creating a walker
type WalkerOptions struct {
	// Fs is the filesystem to traverse; defaults to the OS filesystem
	Fs afero.Fs
	// Reader reads manifests from discovered plugin directories
	Reader *manifest.Reader
	// Workers > 1 walks top-level start directories concurrently. Output
	// order stays deterministic: results are concatenated in start-dir
	// order regardless of completion order.
	Workers int
	Logger  *utils.Logger
}

// NewWalker creates a new directory walker
func NewWalker(opts WalkerOptions) *Walker {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	_, osFs := fsys.(*afero.OsFs)
	return &Walker{
		fs:      fsys,
		reader:  opts.Reader,
		workers: workers,
		osFs:    osFs,
		logger:  logger.WithComponent("walker"),
	}
}

// Walk returns the concatenated bundle lists of every plugin directory found
// under startDirs, in traversal order.
func (w *Walker) Walk(ctx context.Context, startDirs []string, rootDir string) ([]domain.BundleDescriptor, error) {
	res, err := w.Scan(ctx, startDirs, rootDir)
	if err != nil {
		return nil, err
	}
	return res.Bundles, nil
}

// Scan walks startDirs and returns both the ordered bundle list and the
// merged external map.
func (w *Walker) Scan(ctx context.Context, startDirs []string, rootDir string) (*Result, error) {
	results := make([]*Result, len(startDirs))

	walkOne := func(ctx context.Context, idx int) error {
		res := &Result{
			Bundles:   []domain.BundleDescriptor{},
			Externals: map[string]domain.ExternalDescriptor{},
		}
		if err := w.walkDir(ctx, startDirs[idx], rootDir, map[string]bool{}, res); err != nil {
			return err
		}
		results[idx] = res
		return nil
	}

	if w.workers > 1 && len(startDirs) > 1 {
		indices := make([]int, len(startDirs))
		for i := range indices {
			indices[i] = i
		}
		if err := utils.FirstError(utils.ParallelForEach(ctx, indices, w.workers, walkOne)); err != nil {
			return nil, err
		}
	} else {
		for i := range startDirs {
			if err := walkOne(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	combined := &Result{
		Bundles:   []domain.BundleDescriptor{},
		Externals: map[string]domain.ExternalDescriptor{},
	}
	for _, res := range results {
		combined.Bundles = append(combined.Bundles, res.Bundles...)
		for name, ext := range res.Externals {
			combined.Externals[name] = ext
		}
	}

	w.logger.Info().
		Int("bundles", len(combined.Bundles)).
		Int("externals", len(combined.Externals)).
		Msg("Plugin discovery complete")

	return combined, nil
}

func (w *Walker) walkDir(ctx context.Context, dir, rootDir string, visited map[string]bool, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := w.resolve(dir)
	if visited[key] {
		w.logger.Debug().Str("dir", dir).Msg("Skipping already visited directory")
		return nil
	}
	visited[key] = true

	info, err := w.fs.Stat(dir)
	if err != nil {
		return domain.NewTraversalError(dir, err)
	}
	if !info.IsDir() {
		return domain.NewTraversalError(dir, fmt.Errorf("%w: %s", domain.ErrNotDirectory, dir))
	}

	hasMarker, err := w.hasMarker(dir)
	if err != nil {
		return err
	}

	// A plugin root terminates the search: its subdirectories belong to
	// the plugin, not to the tree being scanned.
	if hasMarker {
		w.logger.Debug().Str("dir", dir).Msg("Found plugin root")
		bundles, externals, err := w.reader.Read(ctx, dir, rootDir)
		if err != nil {
			return err
		}
		res.Bundles = append(res.Bundles, bundles...)
		for name, ext := range externals {
			res.Externals[name] = ext
		}
		return nil
	}

	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return domain.NewTraversalError(dir, err)
	}

	// afero.ReadDir sorts by name, which keeps recursion order stable.
	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())
		childInfo, err := w.fs.Stat(child)
		if err != nil {
			return domain.NewTraversalError(child, err)
		}
		if !childInfo.IsDir() {
			continue
		}
		if err := w.walkDir(ctx, child, rootDir, visited, res); err != nil {
			return err
		}
	}

	return nil
}

// hasMarker reports whether dir directly contains the marker file.
func (w *Walker) hasMarker(dir string) (bool, error) {
	marker := filepath.Join(dir, domain.MarkerFilename)
	info, err := w.fs.Stat(marker)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, domain.NewTraversalError(marker, err)
	}
	return !info.IsDir(), nil
}

// resolve maps a directory to its visited-set key. On the real filesystem
// symlinks are resolved so a symlink cycle cannot recurse forever.
func (w *Walker) resolve(dir string) string {
	if w.osFs {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return resolved
		}
	}
	return filepath.Clean(dir)
}
