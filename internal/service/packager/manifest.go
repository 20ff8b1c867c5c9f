package packager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mtml-lang/pkg-manifest/internal/logger"
	repo "github.com/mtml-lang/pkg-manifest/internal/repository/manifest"
)

// errOutsideRoot is returned for an artifact that does not live below the root.
var errOutsideRoot = errors.New("artifact is outside the root")

// UpdateOptions tunes how the manifest is rewritten.
type UpdateOptions struct {
	// PlatformSeparators keeps OS separators in the files list.
	PlatformSeparators bool
	// DryRun renders the manifest without saving it.
	DryRun bool
}

// Result describes a manifest update.
type Result struct {
	// Path is the manifest location.
	Path string
	// Name is the package name written to the manifest.
	Name string
	// Files is the files list written to the manifest.
	Files []string
	// Contents is the rendered manifest.
	Contents []byte
	// Changed reports whether Contents differ from the manifest before the update.
	Changed bool
	// Written reports whether the manifest was saved.
	Written bool
}

// UpdateManifest sets the name and files members of the manifest held by
// repository and saves it. Artifact paths are made relative to root.
func UpdateManifest(
	ctx context.Context,
	repository repo.Repository,
	name string,
	artifacts []string,
	root string,
	opts *UpdateOptions,
) (*Result, error) {
	if opts == nil {
		opts = new(UpdateOptions)
	}

	doc, err := repository.Load(ctx)
	if err != nil {
		return nil, err
	}

	files, err := RelativePaths(root, artifacts, opts.PlatformSeparators)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Replacing manifest fields",
		"members", len(doc.Keys()),
		"previous_name", doc.Name(),
		"previous_files", len(doc.Files()),
	)

	if err = doc.SetName(name); err != nil {
		return nil, err
	}

	if err = doc.SetFiles(files); err != nil {
		return nil, err
	}

	contents, err := doc.Marshal()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Path:     repository.Path(),
		Name:     name,
		Files:    files,
		Contents: contents,
		Changed:  !bytes.Equal(doc.Source(), contents),
	}

	if opts.DryRun {
		return result, nil
	}

	if err = repository.Save(ctx, contents); err != nil {
		return nil, err
	}

	result.Written = true

	return result, nil
}

// RelativePaths strips root from every artifact path. Separators become
// forward slashes unless platformSeparators is set.
func RelativePaths(root string, artifacts []string, platformSeparators bool) ([]string, error) {
	files := make([]string, 0, len(artifacts))

	for _, artifact := range artifacts {
		rel, err := filepath.Rel(root, artifact)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errOutsideRoot, artifact, err)
		}

		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: %s", errOutsideRoot, artifact)
		}

		if !platformSeparators {
			rel = filepath.ToSlash(rel)
		}

		files = append(files, rel)
	}

	return files, nil
}
