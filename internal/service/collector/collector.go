package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mtml-lang/pkg-manifest/internal/logger"
)

// ErrNotDirectory is returned when the root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Options tunes a collection run.
type Options struct {
	// Exclude lists doublestar patterns matched against slash-separated paths relative to the root.
	Exclude []string
}

// Collect returns the root-joined paths of files below root whose
// extension is one of extensions.
func Collect(ctx context.Context, root string, extensions []string, opts *Options) ([]string, error) {
	if opts == nil {
		opts = new(Options)
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, pattern)
		}
	}

	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		wanted[ext] = struct{}{}
	}

	var artifacts []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == root {
			if !entry.IsDir() {
				return ErrNotDirectory
			}

			return nil
		}

		if isExcluded(opts.Exclude, root, path) {
			logger.DebugKV(ctx, "Skipping excluded path", "path", path)

			if entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if entry.IsDir() {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			// Links are resolved but never descended into.
			info, err := os.Stat(path)
			if err != nil {
				return err
			}

			if info.IsDir() {
				logger.DebugKV(ctx, "Skipping linked directory", "path", path)

				return nil
			}
		}

		if _, ok := wanted[Ext(entry.Name())]; ok {
			artifacts = append(artifacts, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect artifacts under %s: %w", root, err)
	}

	logger.DebugKV(ctx, "Collected artifacts", "root", root, "count", len(artifacts))

	return artifacts, nil
}

// Ext returns the extension of a base name the way npm tooling sees it:
// the suffix from the last dot, except that a leading dot does not start one.
func Ext(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return ""
	}

	return name[idx:]
}

// isExcluded reports whether path, relative to root, matches any pattern.
func isExcluded(patterns []string, root, path string) bool {
	if len(patterns) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	rel = filepath.ToSlash(rel)

	for _, pattern := range patterns {
		// Patterns are validated before the walk starts.
		if ok, _ := doublestar.Match(filepath.ToSlash(pattern), rel); ok {
			return true
		}
	}

	return false
}
