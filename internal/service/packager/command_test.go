package packager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtml-lang/pkg-manifest/internal/config"
)

// TestRun_RewritesManifest runs both phases against a real tree.
func TestRun_RewritesManifest(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "pkg")
	for _, name := range []string{"a.wasm", "sub/b.js", "sub/c.ts", "sub/d.txt", "snippets/s/x.js"} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}

	manifestPath := filepath.Join(root, "package.json")
	original := `{"name":"old","version":"1.0.0","dependencies":{"a":"^1"}}`
	require.NoError(t, os.WriteFile(manifestPath, []byte(original), 0o600))

	cfg := &config.Config{
		Root:       root,
		Name:       "mtml-parser",
		Extensions: config.DefaultExtensions(),
		Exclude:    []string{"snippets/**"},
	}

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, manifestPath, result.Path)
	require.Equal(t, []string{"a.wasm", "sub/b.js", "sub/c.ts"}, result.Files)

	want := `{
  "name": "mtml-parser",
  "version": "1.0.0",
  "dependencies": {
    "a": "^1"
  },
  "files": [
    "a.wasm",
    "sub/b.js",
    "sub/c.ts"
  ]
}`
	contents, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	require.Equal(t, want, string(contents))

	again, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.False(t, again.Changed)

	contents, err = os.ReadFile(manifestPath)
	require.NoError(t, err)
	require.Equal(t, want, string(contents))
}

// TestRun_InvalidManifestUntouched ensures a parse failure writes nothing.
func TestRun_InvalidManifestUntouched(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	manifestPath := filepath.Join(root, "package.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte("not json"), 0o600))

	cfg := &config.Config{Root: root, Name: "x", Extensions: []string{".js"}}

	_, err := Run(context.Background(), cfg)
	require.Error(t, err)

	contents, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	require.Equal(t, "not json", string(contents))
}

// TestRun_InvalidConfig fails before touching the filesystem.
func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), &config.Config{Root: "pkg"})
	require.Error(t, err)
}
