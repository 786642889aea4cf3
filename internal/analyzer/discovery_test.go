package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Collect only files with registered extensions
// - Skip ignored directories before descending into them
// - Ignore patterns match at the root and at any depth
// - Walk order is lexical so repeated runs agree

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))
}

func TestFileDiscovery_DiscoverFiles(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "main.py")
	writeFile(t, tmpDir, "src/app.js")
	writeFile(t, tmpDir, "src/deep/util.py")
	writeFile(t, tmpDir, "README.md")
	writeFile(t, tmpDir, "node_modules/pkg/index.js")
	writeFile(t, tmpDir, "venv/lib/site.py")
	writeFile(t, tmpDir, "src/node_modules/dep/mod.js")
	writeFile(t, tmpDir, "src/__pycache__/app.cpython-312.py")

	fd, err := NewFileDiscovery(tmpDir, []string{".py", ".js"}, DefaultIgnorePatterns)
	require.NoError(t, err)

	files, err := fd.DiscoverFiles()
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rel, err := filepath.Rel(tmpDir, f)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"main.py", "src/app.js", "src/deep/util.py"}, rels)
}

func TestFileDiscovery_CustomPatterns(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "keep.py")
	writeFile(t, tmpDir, "generated/out.py")
	writeFile(t, tmpDir, "skip_me.py")

	fd, err := NewFileDiscovery(tmpDir, []string{".py"}, []string{"**/generated/**", "skip_me.py"})
	require.NoError(t, err)

	files, err := fd.DiscoverFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "keep.py", filepath.Base(files[0]))
}

func TestFileDiscovery_BadPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), []string{".py"}, []string{"[unclosed"})
	assert.Error(t, err)
}
