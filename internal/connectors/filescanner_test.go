package connectors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a.csv":          "x\n1\n",
		"B.CSV":          "x\n1\n2\n3\n",
		"notes.txt":      "ignored",
		"nested/c.csv":   "y\n",
		"nested/d.json":  "{}",
		"nested/e/f.csv": "z\n1\n2\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func paths(root string, files []FileMeta) []string {
	out := make([]string, len(files))
	for i, f := range files {
		rel, _ := filepath.Rel(root, f.Path)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscoverFilesTopLevel(t *testing.T) {
	root := makeTree(t)

	files, total, err := DiscoverFiles(root, "csv", DiscoveryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B.CSV", "a.csv"}, paths(root, files))
	assert.Equal(t, int64(12), total)
}

func TestDiscoverFilesRecursive(t *testing.T) {
	root := makeTree(t)

	files, _, err := DiscoverFiles(root, ".csv", DiscoveryOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"B.CSV", "a.csv", "nested/c.csv", "nested/e/f.csv"}, paths(root, files))
}

func TestDiscoverFilesSizeFilters(t *testing.T) {
	root := makeTree(t)

	files, _, err := DiscoverFiles(root, "csv", DiscoveryOptions{Recursive: true, MinSize: 4, MaxSize: 7})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "nested/e/f.csv"}, paths(root, files))
}

func TestDiscoverFilesErrors(t *testing.T) {
	root := makeTree(t)

	_, _, err := DiscoverFiles("", "csv", DiscoveryOptions{})
	assert.Error(t, err)

	_, _, err = DiscoverFiles(filepath.Join(root, "missing"), "csv", DiscoveryOptions{})
	assert.Error(t, err)

	_, _, err = DiscoverFiles(filepath.Join(root, "a.csv"), "csv", DiscoveryOptions{})
	assert.Error(t, err)

	_, _, err = DiscoverFiles(root, "", DiscoveryOptions{})
	assert.Error(t, err)

	_, _, err = DiscoverFiles(root, "parquet", DiscoveryOptions{})
	assert.ErrorIs(t, err, ErrNoFiles)
}
