package entities

import (
	"github.com/diluv/diluv-upload/utils"
)

type RelationType string

const (
	// The file requires an instance of the project to work.
	Required RelationType = "required"
	// The file has additional functionality when the project is present.
	Optional RelationType = "optional"
	// The file does not work when the project is present.
	Incompatible RelationType = "incompatible"
)

// IsKnown reports whether the relation type is one the Diluv API documents.
// Unknown types are still sent so newer server-side types keep working.
func (rt RelationType) IsKnown() bool {
	switch rt {
	case Required, Optional, Incompatible:
		return true
	}
	return false
}

// ProjectRelation links the uploaded file to another project hosted on Diluv.
type ProjectRelation struct {
	ProjectId int64        `json:"projectId"`
	Type      RelationType `json:"type"`
}

// UploadRequest is serialized as the "data" part of the upload.
type UploadRequest struct {
	Version      string            `json:"version"`
	Changelog    string            `json:"changelog"`
	ReleaseType  string            `json:"releaseType"`
	Classifier   string            `json:"classifier"`
	GameVersions *utils.StringSet  `json:"gameVersions"`
	Loaders      *utils.StringSet  `json:"loaders"`
	Dependencies []ProjectRelation `json:"dependencies"`
}

func NewUploadRequest() *UploadRequest {
	return &UploadRequest{
		GameVersions: utils.NewStringSet(),
		Loaders:      utils.NewStringSet(),
		Dependencies: []ProjectRelation{},
	}
}

func (ur *UploadRequest) SetVersion(version string) {
	ur.Version = version
}

func (ur *UploadRequest) SetChangelog(changelog string) {
	ur.Changelog = changelog
}

func (ur *UploadRequest) SetReleaseType(releaseType string) {
	ur.ReleaseType = releaseType
}

func (ur *UploadRequest) SetClassifier(classifier string) {
	ur.Classifier = classifier
}

// AddGameVersion returns false if the version was already present.
func (ur *UploadRequest) AddGameVersion(version string) bool {
	return ur.GameVersions.Add(version)
}

// AddLoader returns false if the loader was already present.
func (ur *UploadRequest) AddLoader(loader string) bool {
	return ur.Loaders.Add(loader)
}

// AddRelation sets the relation for projectId, replacing any existing one in place.
// The replaced relation is returned so the caller can report the overwrite.
func (ur *UploadRequest) AddRelation(projectId int64, relationType RelationType) (previous ProjectRelation, replaced bool) {
	relation := ProjectRelation{ProjectId: projectId, Type: relationType}
	for i, existing := range ur.Dependencies {
		if existing.ProjectId == projectId {
			ur.Dependencies[i] = relation
			return existing, true
		}
	}
	ur.Dependencies = append(ur.Dependencies, relation)
	return ProjectRelation{}, false
}

// GetRelation returns the relation currently registered for projectId.
func (ur *UploadRequest) GetRelation(projectId int64) (ProjectRelation, bool) {
	for _, existing := range ur.Dependencies {
		if existing.ProjectId == projectId {
			return existing, true
		}
	}
	return ProjectRelation{}, false
}

func (ur *UploadRequest) HasVersion() bool {
	return ur.Version != ""
}

func (ur *UploadRequest) HasChangelog() bool {
	return ur.Changelog != ""
}

func (ur *UploadRequest) HasGameVersion() bool {
	return !ur.GameVersions.IsEmpty()
}

func (ur *UploadRequest) HasLoader() bool {
	return !ur.Loaders.IsEmpty()
}
