package formmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFile_NestedDirs(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "maps", "t661", "smart.json")

	f, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	for _, dir := range []string{filepath.Join(root, "maps"), filepath.Dir(path)} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Zero(t, info.Mode().Perm()&^DirPerm, "%s is wider than %v", dir, DirPerm)
		assert.Zero(t, info.Mode().Perm()&0o007, "others have no access to %s", dir)
	}
}

func TestSave_UsesDirPerm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "full.json")
	require.NoError(t, Save(path, FullMap{}))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&^DirPerm)
	assert.FileExists(t, path)
}

func TestCreateFile_EmptyPath(t *testing.T) {
	_, err := CreateFile("")
	assert.ErrorContains(t, err, "output path cannot be empty")
}
