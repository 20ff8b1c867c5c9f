package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mtml-lang/pkg-manifest/internal/config"
	domain "github.com/mtml-lang/pkg-manifest/internal/domain/manifest"
)

// Repository defines persistence operations for the manifest.
type Repository interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, data []byte) error
	Path() string
}

// FileRepository persists the manifest as a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the manifest.
	path string
}

// ErrNotFound is returned when the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")

// NewFileRepository creates a repository for the manifest at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the manifest location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and parses the manifest.
func (r *FileRepository) Load(_ context.Context) (*domain.Document, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}

		return nil, fmt.Errorf("read manifest: %w", err)
	}

	doc, err := domain.Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", r.path, err)
	}

	return doc, nil
}

// Save overwrites the manifest with data. The file must already exist;
// its permissions are kept.
func (r *FileRepository) Save(_ context.Context, data []byte) error {
	file, err := os.OpenFile(r.path, os.O_WRONLY|os.O_TRUNC, config.DefaultFilePermissions)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}

		return fmt.Errorf("open manifest: %w", err)
	}

	if _, err = file.Write(data); err != nil {
		_ = file.Close()

		return fmt.Errorf("write manifest: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}

	return nil
}
