package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/mtml-lang/pkg-manifest/internal/domain/manifest"
)

// TestFileRepository_NotFound verifies Load and Save report ErrNotFound and create nothing.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "package.json")
	repo := NewFileRepository(path)

	doc, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, doc)

	require.ErrorIs(t, repo.Save(context.Background(), []byte("{}")), ErrNotFound)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFileRepository_InvalidJSON leaves the file as it was.
func TestFileRepository_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": `), 0o600))

	_, err := NewFileRepository(path).Load(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidJSON)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{"name": `, string(contents))
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns the same document.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"a","version":"1.0.0","description":"long enough to be truncated"}`), 0o640))

	repo := NewFileRepository(path)
	require.Equal(t, path, repo.Path())

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, doc.SetName("b"))

	data, err := doc.Marshal()
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), data))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "b", got.Name())
	require.Equal(t, data, got.Source())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
