package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileRef(t *testing.T) {
	assert.Equal(t, ArchiveTask("jar"), ParseFileRef("task:jar"))
	assert.Equal(t, ArchiveTask("remapJar"), ParseFileRef("task:remapJar"))
	assert.Equal(t, ProjectPath("build/libs/mod.jar"), ParseFileRef("build/libs/mod.jar"))
	assert.Equal(t, "task:sourcesJar", ParseFileRef("task:sourcesJar").String())
}

func TestResolveUploadFile(t *testing.T) {
	project := newGradleProject(t, "version = '1.0.0'\narchivesBaseName = 'mymod'\n")
	libs := filepath.Join(project.Dir(), "build", "libs")
	require.NoError(t, os.MkdirAll(libs, 0o755))
	jar := filepath.Join(libs, "mymod-1.0.0.jar")
	require.NoError(t, os.WriteFile(jar, []byte("jar"), 0o644))

	tests := []struct {
		name string
		ref  FileRef
	}{
		{"archive task", ArchiveTask("jar")},
		{"project path", ProjectPath("build/libs/mymod-1.0.0.jar")},
		{"file path", FilePath(jar)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path, err := resolveUploadFile(test.ref, project)
			require.NoError(t, err)
			assert.Equal(t, jar, path)
		})
	}
}

func TestResolveUploadFileMissing(t *testing.T) {
	project := newGradleProject(t, "version = '1.0.0'\n")
	tests := []struct {
		name    string
		ref     FileRef
		project bool
	}{
		{"no reference", nil, true},
		{"task output not built", ArchiveTask("jar"), true},
		{"unknown task", ArchiveTask("compileJava"), true},
		{"task without project", ArchiveTask("jar"), false},
		{"directory", ProjectPath("."), true},
		{"missing path", ProjectPath("build/libs/missing.jar"), true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resolveProject := project
			if !test.project {
				resolveProject = nil
			}
			_, err := resolveUploadFile(test.ref, resolveProject)
			assert.ErrorIs(t, err, ErrMissingUploadFile)
		})
	}
}
