package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mtml-lang/pkg-manifest/internal/config"
	"github.com/mtml-lang/pkg-manifest/internal/logger"
	"github.com/mtml-lang/pkg-manifest/internal/service/packager"
	"github.com/mtml-lang/pkg-manifest/internal/version"
)

// flags holds command-line values before they are merged into the config.
type flags struct {
	configPath         string
	root               string
	manifest           string
	name               string
	extensions         []string
	exclude            []string
	platformSeparators bool
	dryRun             bool
	saveConfig         bool
	logLevel           string
}

// NewRootCommand builds the pkg-manifest command.
func NewRootCommand() *cobra.Command {
	f := new(flags)

	root := &cobra.Command{
		Use:   "pkg-manifest",
		Short: "Sync a build output's package.json name and files with its artifacts",
		Long: "Scan the build output directory for .wasm, .js and .ts artifacts and rewrite " +
			"the name and files fields of its package.json. Other fields are kept as they are.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}

			level, ok := logger.ParseLogLevel(cfg.LogLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", cfg.LogLevel)
			}

			logger.SetLevel(level)

			if f.saveConfig {
				if err = config.Save(f.configPath, cfg); err != nil {
					return err
				}

				logger.InfoKV(cmd.Context(), "Saved settings", "path", f.settingsPath())
			}

			result, err := packager.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if cfg.DryRun {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(result.Contents))
			}

			return nil
		},
	}

	root.Flags().StringVarP(&f.configPath, "config", "c", "", "path to settings file (default "+config.DefaultConfigFilename+" if present)")
	root.Flags().StringVarP(&f.root, "root", "r", config.DefaultRoot, "build output directory to scan")
	root.Flags().StringVarP(&f.manifest, "manifest", "m", "", "manifest to rewrite (default <root>/"+config.DefaultManifestFilename+")")
	root.Flags().StringVarP(&f.name, "name", "n", config.DefaultPackageName, "package name to write")
	root.Flags().StringSliceVarP(&f.extensions, "ext", "e", config.DefaultExtensions(), "artifact extensions, including the dot")
	root.Flags().StringSliceVarP(&f.exclude, "exclude", "x", nil, "doublestar patterns, relative to the root, to leave out")
	root.Flags().BoolVar(&f.platformSeparators, "platform-separators", false, "keep OS path separators in the files list")
	root.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the manifest instead of writing it")
	root.Flags().BoolVar(&f.saveConfig, "save-config", false, "write the resolved settings to the settings file before running")
	root.Flags().StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")

	version.AttachCobraVersionCommand(root)

	return root
}

// settingsPath returns the settings file in use.
func (f *flags) settingsPath() string {
	if f.configPath == "" {
		return config.DefaultConfigFilename
	}

	return f.configPath
}

// resolve loads the settings file and applies the flags that were set explicitly.
func (f *flags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed

	if changed("root") {
		// A manifest derived from the old root follows the new one.
		if !changed("manifest") && cfg.Manifest == filepath.Join(cfg.Root, config.DefaultManifestFilename) {
			cfg.Manifest = ""
		}

		cfg.Root = f.root
	}

	if changed("manifest") {
		cfg.Manifest = f.manifest
	}

	if changed("name") {
		cfg.Name = f.name
	}

	if changed("ext") {
		cfg.Extensions = f.extensions
	}

	if changed("exclude") {
		cfg.Exclude = f.exclude
	}

	if changed("platform-separators") {
		cfg.PlatformSeparators = f.platformSeparators
	}

	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	cfg.DryRun = f.dryRun

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Execute runs the pkg-manifest CLI and exits with non-zero status on error.
func Execute() {
	ctx := context.Background()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		logger.ErrorKV(ctx, "pkg-manifest failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}

	logger.Sync()
}
