package packager

import (
	"context"
	"fmt"

	"github.com/mtml-lang/pkg-manifest/internal/config"
	domain "github.com/mtml-lang/pkg-manifest/internal/domain/manifest"
	"github.com/mtml-lang/pkg-manifest/internal/logger"
	repo "github.com/mtml-lang/pkg-manifest/internal/repository/manifest"
	"github.com/mtml-lang/pkg-manifest/internal/service/collector"
)

// packager updates one manifest from one build output.
// It is unexported; callers use Run, which validates the configuration first.
type packager struct {
	// cfg holds the root, manifest path, name and filters.
	cfg *config.Config
	// repository loads and saves the manifest.
	repository repo.Repository
}

// Run collects the artifacts described by cfg and rewrites the manifest.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	ctx = logger.WithName(ctx, "pkg-manifest")

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	pkg := &packager{
		cfg:        cfg,
		repository: repo.NewFileRepository(cfg.Manifest),
	}

	result, err := pkg.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("update manifest: %w", err)
	}

	return result, nil
}

// Run executes the collect phase and then the update phase.
func (p *packager) Run(ctx context.Context) (*Result, error) {
	logger.InfoKV(ctx, "Collecting artifacts", "root", p.cfg.Root, "extensions", p.cfg.Extensions)

	artifacts, err := collector.Collect(ctx, p.cfg.Root, p.cfg.Extensions, &collector.Options{
		Exclude: p.cfg.Exclude,
	})
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Updating manifest", "path", p.repository.Path(), "name", p.cfg.Name, "files", len(artifacts))

	result, err := UpdateManifest(ctx, p.repository, p.cfg.Name, artifacts, p.cfg.Root, &UpdateOptions{
		PlatformSeparators: p.cfg.PlatformSeparators,
		DryRun:             p.cfg.DryRun,
	})
	if err != nil {
		return nil, err
	}

	switch {
	case result.Written && result.Changed:
		logger.InfoKV(ctx, "Manifest updated", "path", result.Path, "digest", domain.Digest(result.Contents))
	case result.Written:
		logger.InfoKV(ctx, "Manifest already up to date", "path", result.Path)
	default:
		logger.InfoKV(ctx, "Dry run, manifest not written", "path", result.Path, "changed", result.Changed)
	}

	for _, file := range result.Files {
		logger.DebugKV(ctx, "Listed file", "file", file)
	}

	logger.Info(ctx, "Manifest update completed")

	return result, nil
}
