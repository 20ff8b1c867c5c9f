package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config holds the inputs of a manifest update run.
type Config struct {
	// Root is the build output directory scanned for artifacts.
	Root string `yaml:"root"`
	// Manifest is the path of the JSON manifest to rewrite.
	// When empty it resolves to package.json inside Root.
	Manifest string `yaml:"manifest"`
	// Name is written into the manifest's name field.
	Name string `yaml:"name"`
	// Extensions lists artifact extensions including the leading dot.
	Extensions []string `yaml:"extensions"`
	// Exclude lists doublestar patterns, relative to Root, that are never collected.
	Exclude []string `yaml:"exclude,omitempty"`
	// PlatformSeparators keeps OS path separators in the files list
	// instead of normalizing them to forward slashes.
	PlatformSeparators bool `yaml:"platform_separators,omitempty"`
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
	// DryRun computes the manifest without writing it. Not persisted.
	DryRun bool `yaml:"-"`
}

const (
	// DefaultConfigFilename is the settings file looked up when none is given.
	DefaultConfigFilename = "pkg-manifest.yaml"

	// DefaultRoot is the build output directory produced by wasm-pack.
	DefaultRoot = "pkg"

	// DefaultManifestFilename is the manifest file name inside the root.
	DefaultManifestFilename = "package.json"

	// DefaultPackageName is the published npm package name.
	DefaultPackageName = "mtml-parser"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is used for files this tool creates.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errRootRequired is returned when the root directory is missing.
	errRootRequired = errors.New("root directory must be provided")
	// errNameRequired is returned when the package name is missing.
	errNameRequired = errors.New("package name must be provided")
	// errExtensionsRequired is returned when no extension is configured.
	errExtensionsRequired = errors.New("at least one artifact extension must be provided")
	// ErrInvalidExtension is returned for an extension without a leading dot.
	ErrInvalidExtension = errors.New("extension must start with a dot")
	// ErrInvalidPattern is returned for a malformed exclude pattern.
	ErrInvalidPattern = errors.New("invalid exclude pattern")
)

// DefaultExtensions returns the artifact extensions produced by the wasm build.
func DefaultExtensions() []string {
	return []string{".wasm", ".js", ".ts"}
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Root:       DefaultRoot,
		Manifest:   filepath.Join(DefaultRoot, DefaultManifestFilename),
		Name:       DefaultPackageName,
		Extensions: DefaultExtensions(),
		LogLevel:   DefaultLogLevel,
	}
}

// Load reads settings from path on top of Default and validates them.
// A missing file at the default location yields the defaults; a missing
// file that was asked for explicitly is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	cfg := Default()
	// Let a settings file pick its own root without inheriting the default manifest path.
	cfg.Manifest = ""

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No settings file: defaults only.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in derived defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.Root) == "" {
		return errRootRequired
	}

	if strings.TrimSpace(cfg.Name) == "" {
		return errNameRequired
	}

	if len(cfg.Extensions) == 0 {
		return errExtensionsRequired
	}

	for _, ext := range cfg.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}

	if cfg.Manifest == "" {
		cfg.Manifest = filepath.Join(cfg.Root, DefaultManifestFilename)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}
