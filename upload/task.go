package upload

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/diluv/diluv-upload/detect"
	"github.com/diluv/diluv-upload/entities"
	"github.com/diluv/diluv-upload/gradle"
	"github.com/diluv/diluv-upload/utils"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	DefaultReleaseType = "alpha"
	DefaultClassifier  = "binary"
)

// Task uploads one file to Diluv. It is configured, applied once, and then inspected.
type Task struct {
	ApiURL    string
	ProjectId string
	Token     string
	// Defaults to the output of the jar task.
	UploadFile FileRef
	// Log and swallow every error of Apply instead of returning it.
	FailSilently bool
	// Skip the semantic versioning check of the file version.
	IgnoreSemVer      bool
	DetectLoaders     bool
	DetectGameVersion bool

	request    *entities.UploadRequest
	project    *gradle.Project
	detector   *detect.Detector
	httpClient *http.Client
	logger     utils.Log

	uploadInfo *entities.UploadInfo
	errorInfo  *entities.ErrorInfo
}

// NewTask creates a task for the given Gradle project. A nil project is allowed: build metadata
// is then unavailable and detection only looks at the environment.
func NewTask(project *gradle.Project) *Task {
	return &Task{
		ApiURL:            DefaultApiURL,
		UploadFile:        ArchiveTask("jar"),
		DetectLoaders:     true,
		DetectGameVersion: true,
		request:           entities.NewUploadRequest(),
		project:           project,
		logger:            &utils.NullLog{},
	}
}

func (t *Task) SetLogger(logger utils.Log) *Task {
	t.logger = logger
	return t
}

// SetDetector replaces the detector built from the project.
func (t *Task) SetDetector(detector *detect.Detector) *Task {
	t.detector = detector
	return t
}

func (t *Task) SetHttpClient(httpClient *http.Client) *Task {
	t.httpClient = httpClient
	return t
}

func (t *Task) Request() *entities.UploadRequest {
	return t.request
}

func (t *Task) SetVersion(version string) {
	t.logger.Debug("Setting file version to " + version + ".")
	t.request.SetVersion(version)
}

func (t *Task) SetChangelog(changelog string) {
	t.logger.Debug("Setting changelog to " + changelog + ".")
	t.request.SetChangelog(changelog)
}

// SetChangelogFromFile uses the whole content of a file as the changelog. An empty charset means UTF-8.
func (t *Task) SetChangelogFromFile(path, charset string) error {
	if t.project != nil {
		path = t.project.File(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read the changelog file")
	}
	if charset != "" {
		encoding, err := htmlindex.Get(charset)
		if err != nil {
			return errors.Wrapf(err, "unsupported changelog charset '%s'", charset)
		}
		if content, err = encoding.NewDecoder().Bytes(content); err != nil {
			return errors.Wrapf(err, "failed to decode the changelog file as %s", charset)
		}
	}
	t.logger.Debug("Setting changelog from file " + path + ".")
	t.request.SetChangelog(string(content))
	return nil
}

func (t *Task) SetReleaseType(releaseType string) {
	t.logger.Debug("Setting release type to " + releaseType + ".")
	t.request.SetReleaseType(releaseType)
}

func (t *Task) SetClassifier(classifier string) {
	t.logger.Debug("Setting classifier to " + classifier + ".")
	t.request.SetClassifier(classifier)
}

func (t *Task) AddGameVersion(version string) {
	t.logger.Debug("Adding game version " + version + ".")
	if !t.request.AddGameVersion(version) {
		t.logger.Warn("The game version " + version + " was already applied.")
	}
}

func (t *Task) AddLoader(loader string) {
	t.logger.Debug("Adding loader tag " + loader + ".")
	if !t.request.AddLoader(loader) {
		t.logger.Warn("The loader tag " + loader + " was already applied.")
	}
}

// AddRelation accepts relation types Diluv does not document yet, with a warning.
func (t *Task) AddRelation(projectId int64, relationType entities.RelationType) {
	t.logger.Debug(fmt.Sprintf("Adding %s relation with project %d.", relationType, projectId))
	if !relationType.IsKnown() {
		t.logger.Warn(fmt.Sprintf("The relation type %s is not recognized and may be rejected by Diluv.", relationType))
	}
	if previous, replaced := t.request.AddRelation(projectId, relationType); replaced {
		t.logger.Warn(fmt.Sprintf("The relation with project %d changed from %s to %s.", projectId, previous.Type, relationType))
	}
}

func (t *Task) AddDependency(projectId int64) {
	t.AddRelation(projectId, entities.Required)
}

func (t *Task) AddOptionalDependency(projectId int64) {
	t.AddRelation(projectId, entities.Optional)
}

func (t *Task) AddIncompatibility(projectId int64) {
	t.AddRelation(projectId, entities.Incompatible)
}

func (t *Task) WasUploadSuccessful() bool {
	return t.uploadInfo != nil && t.errorInfo == nil
}

// UploadInfo returns nil without error when the upload was attempted and rejected.
func (t *Task) UploadInfo() (*entities.UploadInfo, error) {
	if t.uploadInfo != nil {
		return t.uploadInfo, nil
	}
	if t.errorInfo == nil {
		return nil, ErrResultNotAvailable
	}
	return nil, nil
}

// ErrorInfo returns nil without error when the upload succeeded.
func (t *Task) ErrorInfo() (*entities.ErrorInfo, error) {
	if t.errorInfo != nil {
		return t.errorInfo, nil
	}
	if t.uploadInfo == nil {
		return nil, ErrResultNotAvailable
	}
	return nil, nil
}

// Apply validates the request, resolves the upload file and uploads it.
func (t *Task) Apply(ctx context.Context) error {
	err := t.apply(ctx)
	if err == nil {
		return nil
	}
	err = errors.Wrap(err, "diluv upload failed")
	if t.FailSilently {
		t.logger.Info("Failed to upload to Diluv. Check logs for more info.")
		t.logger.Error("Diluv upload failed silently: " + err.Error())
		return nil
	}
	return err
}

func (t *Task) apply(ctx context.Context) error {
	if err := t.validate(); err != nil {
		return err
	}
	filePath, err := resolveUploadFile(t.UploadFile, t.project)
	if err != nil {
		t.logger.Error("The upload file is missing: " + err.Error())
		return err
	}

	client := NewClient(t.ApiURL).SetLogger(t.logger)
	if t.httpClient != nil {
		client.SetHttpClient(t.httpClient)
	}
	uploadInfo, err := client.Upload(ctx, t.ProjectId, t.Token, filePath, t.request)
	if err != nil {
		var uploadFailed *UploadFailedError
		if errors.As(err, &uploadFailed) {
			t.errorInfo = uploadFailed.Info
		}
		return err
	}
	t.uploadInfo = uploadInfo
	t.logger.Info(fmt.Sprintf("Successfully uploaded %s to %s as file id %d.", filepath.Base(filePath), t.ProjectId, uploadInfo.Id))
	return nil
}

// validate fills the values the user left empty and checks the request. The order matters:
// detection runs before the game version check and the version fallback before the semver check.
func (t *Task) validate() error {
	if !t.request.HasGameVersion() && t.DetectGameVersion {
		if version, found := t.getDetector().DetectGameVersion(); found {
			t.logger.Info("No game version was specified, using detected version " + version + ".")
			t.AddGameVersion(version)
		}
	}
	if !t.request.HasGameVersion() {
		return ErrMissingGameVersion
	}

	if !t.request.HasVersion() {
		buildVersion := ""
		if t.project != nil {
			buildVersion = t.project.Version()
		}
		if buildVersion == "" {
			return ErrMissingVersion
		}
		t.logger.Debug("File version will fall back to build version of " + buildVersion + ".")
		t.request.SetVersion(buildVersion)
	}

	if !t.request.HasLoader() && t.DetectLoaders {
		for _, loader := range t.getDetector().DetectLoaders() {
			t.AddLoader(loader)
		}
	}

	if !t.IgnoreSemVer && !IsSemVer(t.request.Version) {
		t.logger.Error("Project version " + t.request.Version + " is not semantic versioning compatible. The file can not be uploaded.")
		return errors.Wrapf(ErrNonSemverVersion, "'%s'", t.request.Version)
	}

	if !t.request.HasChangelog() {
		t.request.SetChangelog("The project has been updated to " + t.request.Version + ".")
		t.logger.Warn("No changelog was specified. A default one will be used. This is not recommended.")
	}
	if t.request.ReleaseType == "" {
		t.request.SetReleaseType(DefaultReleaseType)
	}
	if t.request.Classifier == "" {
		t.request.SetClassifier(DefaultClassifier)
	}
	return nil
}

func (t *Task) getDetector() *detect.Detector {
	if t.detector == nil {
		t.detector = detect.NewDetector(t.project, t.logger)
	}
	return t.detector
}
