package upload

import (
	"path/filepath"
	"strings"

	"github.com/diluv/diluv-upload/gradle"
	"github.com/diluv/diluv-upload/utils"
	"github.com/pkg/errors"
)

const archiveTaskPrefix = "task:"

// FileRef is anything that can be resolved to the artifact to upload.
type FileRef interface {
	Resolve(project *gradle.Project) (string, error)
	String() string
}

// FilePath is a path used as-is, relative paths being taken from the working directory.
type FilePath string

func (fp FilePath) Resolve(*gradle.Project) (string, error) {
	return filepath.Abs(string(fp))
}

func (fp FilePath) String() string {
	return string(fp)
}

// ArchiveTask is the output of a Gradle archive task such as jar or remapJar.
type ArchiveTask string

func (at ArchiveTask) Resolve(project *gradle.Project) (string, error) {
	if project == nil {
		return "", errors.Errorf("cannot resolve the output of task '%s' without a Gradle project", string(at))
	}
	return project.ArchivePath(string(at))
}

func (at ArchiveTask) String() string {
	return archiveTaskPrefix + string(at)
}

// ProjectPath is resolved against the project directory, like Gradle's project.file.
type ProjectPath string

func (pp ProjectPath) Resolve(project *gradle.Project) (string, error) {
	if project == nil {
		return filepath.Abs(string(pp))
	}
	return project.File(string(pp)), nil
}

func (pp ProjectPath) String() string {
	return string(pp)
}

// ParseFileRef reads the command line form: "task:<name>" for archive tasks, a path otherwise.
func ParseFileRef(value string) FileRef {
	if taskName, isTask := strings.CutPrefix(value, archiveTaskPrefix); isTask {
		return ArchiveTask(taskName)
	}
	return ProjectPath(value)
}

// resolveUploadFile returns the path of an existing regular file or ErrMissingUploadFile.
func resolveUploadFile(ref FileRef, project *gradle.Project) (string, error) {
	if ref == nil {
		return "", errors.Wrap(ErrMissingUploadFile, "no upload file was configured")
	}
	path, err := ref.Resolve(project)
	if err != nil {
		return "", errors.Wrapf(ErrMissingUploadFile, "%s: %s", ref, err.Error())
	}
	exists, err := utils.IsFileExists(path, true)
	if err != nil || !exists {
		return "", errors.Wrapf(ErrMissingUploadFile, "%s resolved to %s", ref, path)
	}
	return path, nil
}
