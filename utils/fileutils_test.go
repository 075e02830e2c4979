package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFileInDirAndParents(t *testing.T) {
	projectRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectRoot, "settings.gradle"), []byte("rootProject.name = 'mod'"), 0644))
	subDir := filepath.Join(projectRoot, "src", "main")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	// Find the file in the current directory
	root, err := FindFileInDirAndParents(projectRoot, "settings.gradle")
	assert.NoError(t, err)
	assert.Equal(t, projectRoot, root)

	// Find the file in a parent directory
	root, err = FindFileInDirAndParents(subDir, "settings.gradle.kts", "settings.gradle")
	assert.NoError(t, err)
	assert.Equal(t, projectRoot, root)

	// Look for a file that doesn't exist
	_, err = FindFileInDirAndParents(projectRoot, "notexist")
	assert.Error(t, err)
}

func TestIsFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "mod.jar")
	require.NoError(t, os.WriteFile(filePath, []byte("jar"), 0644))

	exists, err := IsFileExists(filePath, true)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = IsFileExists(dir, true)
	assert.NoError(t, err)
	assert.False(t, exists, "a directory is not a file")

	exists, err = IsFileExists(filepath.Join(dir, "missing.jar"), true)
	assert.NoError(t, err)
	assert.False(t, exists)

	exists, err = IsDirExists(dir, true)
	assert.NoError(t, err)
	assert.True(t, exists)
}
