package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/diluv/diluv-upload/upload"
	"github.com/diluv/diluv-upload/utils"
)

const DefaultFileName = "diluv.toml"

// Relations lists related Diluv project ids by relation type.
type Relations struct {
	Required     []int64 `toml:"required"`
	Optional     []int64 `toml:"optional"`
	Incompatible []int64 `toml:"incompatible"`
}

// Config holds every upload setting. Unset booleans are nil so that a file or flag value of
// false can still override a default of true.
type Config struct {
	ApiURL           string    `toml:"api_url"`
	ProjectId        string    `toml:"project_id"`
	Token            string    `toml:"token"`
	File             string    `toml:"file"`
	Version          string    `toml:"version"`
	Changelog        string    `toml:"changelog"`
	ChangelogFile    string    `toml:"changelog_file"`
	ChangelogCharset string    `toml:"changelog_charset"`
	ReleaseType      string    `toml:"release_type"`
	Classifier       string    `toml:"classifier"`
	GameVersions     []string  `toml:"game_versions"`
	Loaders          []string  `toml:"loaders"`
	Relations        Relations `toml:"relations"`

	FailSilently      *bool `toml:"fail_silently"`
	IgnoreSemVer      *bool `toml:"ignore_semver"`
	DetectLoaders     *bool `toml:"detect_loaders"`
	DetectGameVersion *bool `toml:"detect_game_version"`
}

// Load decodes a diluv.toml file. Unknown keys are reported as an error since they are most
// likely typos.
func Load(path string) (*Config, error) {
	config := &Config{}
	metadata, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return config, nil
}

// Find returns the diluv.toml of dir or of its closest parent, so that one file can serve every
// project of a multi-project build.
func Find(dir string) (string, bool) {
	found, err := utils.FindFileInDirAndParents(dir, DefaultFileName)
	if err != nil {
		return "", false
	}
	return filepath.Join(found, DefaultFileName), true
}

// Merge overrides c with every value that is set in other.
func (c *Config) Merge(other *Config) {
	mergeString(&c.ApiURL, other.ApiURL)
	mergeString(&c.ProjectId, other.ProjectId)
	mergeString(&c.Token, other.Token)
	mergeString(&c.File, other.File)
	mergeString(&c.Version, other.Version)
	mergeString(&c.Changelog, other.Changelog)
	mergeString(&c.ChangelogFile, other.ChangelogFile)
	mergeString(&c.ChangelogCharset, other.ChangelogCharset)
	mergeString(&c.ReleaseType, other.ReleaseType)
	mergeString(&c.Classifier, other.Classifier)
	mergeSlice(&c.GameVersions, other.GameVersions)
	mergeSlice(&c.Loaders, other.Loaders)
	mergeSlice(&c.Relations.Required, other.Relations.Required)
	mergeSlice(&c.Relations.Optional, other.Relations.Optional)
	mergeSlice(&c.Relations.Incompatible, other.Relations.Incompatible)
	mergeBool(&c.FailSilently, other.FailSilently)
	mergeBool(&c.IgnoreSemVer, other.IgnoreSemVer)
	mergeBool(&c.DetectLoaders, other.DetectLoaders)
	mergeBool(&c.DetectGameVersion, other.DetectGameVersion)
}

func mergeString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// mergeSlice replaces the whole collection, values are never appended.
func mergeSlice[T any](target *[]T, value []T) {
	if len(value) > 0 {
		*target = value
	}
}

func mergeBool(target **bool, value *bool) {
	if value != nil {
		*target = value
	}
}

// ApplyTo configures the task. Values left unset keep the task defaults.
func (c *Config) ApplyTo(task *upload.Task) error {
	if c.ApiURL != "" {
		task.ApiURL = c.ApiURL
	}
	task.ProjectId = c.ProjectId
	task.Token = c.Token
	if c.File != "" {
		task.UploadFile = upload.ParseFileRef(c.File)
	}
	applyBool(&task.FailSilently, c.FailSilently)
	applyBool(&task.IgnoreSemVer, c.IgnoreSemVer)
	applyBool(&task.DetectLoaders, c.DetectLoaders)
	applyBool(&task.DetectGameVersion, c.DetectGameVersion)

	if c.Version != "" {
		task.SetVersion(c.Version)
	}
	if c.ChangelogFile != "" {
		if err := task.SetChangelogFromFile(c.ChangelogFile, c.ChangelogCharset); err != nil {
			return err
		}
	}
	if c.Changelog != "" {
		task.SetChangelog(c.Changelog)
	}
	if c.ReleaseType != "" {
		task.SetReleaseType(c.ReleaseType)
	}
	if c.Classifier != "" {
		task.SetClassifier(c.Classifier)
	}
	for _, gameVersion := range c.GameVersions {
		task.AddGameVersion(gameVersion)
	}
	for _, loader := range c.Loaders {
		task.AddLoader(loader)
	}
	for _, projectId := range c.Relations.Required {
		task.AddDependency(projectId)
	}
	for _, projectId := range c.Relations.Optional {
		task.AddOptionalDependency(projectId)
	}
	for _, projectId := range c.Relations.Incompatible {
		task.AddIncompatibility(projectId)
	}
	return nil
}

func applyBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}
