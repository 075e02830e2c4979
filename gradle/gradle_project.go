package gradle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/diluv/diluv-upload/utils"
	"github.com/jfrog/gofrog/log"
	"github.com/magiconair/properties"
)

// Gradle reports this when a project never set a version.
const unspecified = "unspecified"

// Project is a read-only view of a Gradle project directory. It never runs Gradle: everything
// is read from build.gradle(.kts), settings.gradle(.kts), gradle.properties and the environment.
type Project struct {
	workingDirectory string
	buildScript      string
	buildScriptPath  string
	settings         string
	properties       *properties.Properties
	name             string
}

func NewProject(workingDirectory string) (*Project, error) {
	if workingDirectory == "" {
		return nil, fmt.Errorf("working directory cannot be empty")
	}
	absDir, err := filepath.Abs(workingDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for working directory: %w", err)
	}
	if exists, err := utils.IsDirExists(absDir, true); err != nil || !exists {
		return nil, fmt.Errorf("working directory does not exist: %s", workingDirectory)
	}

	project := &Project{workingDirectory: absDir}
	if err = project.loadBuildScript(); err != nil {
		log.Warn("Failed to load build script: " + err.Error())
	}
	settings, err := project.readSettingsFile()
	if err != nil {
		log.Debug("Failed to read settings file: " + err.Error())
	}
	project.settings = stripComments(settings)
	project.properties = project.loadProperties()
	project.name = project.resolveName()
	return project, nil
}

func (p *Project) loadBuildScript() error {
	content, path, err := p.getBuildFileContent()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("build.gradle not found, continuing without build script metadata")
			return nil
		}
		return fmt.Errorf("failed to read build.gradle: %w", err)
	}
	p.buildScriptPath = path
	p.buildScript = stripComments(string(content))
	return nil
}

// rootProject.name is the authoritative source; the directory name is Gradle's own default.
func (p *Project) resolveName() string {
	if match := rootProjectRegex.FindStringSubmatch(p.settings); len(match) > 1 {
		return match[1]
	}
	return filepath.Base(p.workingDirectory)
}

func (p *Project) Dir() string {
	return p.workingDirectory
}

func (p *Project) Name() string {
	return p.name
}

// BuildScriptPath is empty when the directory has no build script.
func (p *Project) BuildScriptPath() string {
	return p.buildScriptPath
}

// Version returns the project version the way the build declares it, or an empty string when
// the build never sets one.
func (p *Project) Version() string {
	if raw, ok := findTopLevelAssignment(p.buildScript, "version"); ok {
		if version, resolved := p.resolveValue(raw); resolved && version != unspecified {
			return version
		}
		log.Debug("Could not resolve the version expression " + raw)
	}
	if version, ok := p.Property("version"); ok && version != unspecified {
		return version
	}
	return ""
}

// File resolves a path the way Gradle's project.file does: absolute paths are kept and
// relative paths are taken from the project directory.
func (p *Project) File(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.workingDirectory, path)
}

// HasPlugin reports whether the build script applies the plugin through the plugins block or
// the legacy apply syntax.
func (p *Project) HasPlugin(pluginId string) bool {
	for _, id := range p.Plugins() {
		if id == pluginId {
			return true
		}
	}
	return false
}

func (p *Project) Plugins() []string {
	var ids []string
	if pluginsBlock := extractBlock(p.buildScript, "plugins"); pluginsBlock != "" {
		for _, match := range pluginIdRegex.FindAllStringSubmatch(pluginsBlock, -1) {
			ids = append(ids, match[1])
		}
	}
	for _, match := range applyPluginRegex.FindAllStringSubmatch(p.buildScript, -1) {
		ids = append(ids, match[1])
	}
	return ids
}

// MinecraftDependency returns the resolved coordinate declared on the "minecraft" configuration,
// ex. "com.mojang:minecraft:1.16.5" for Loom or "net.minecraftforge:forge:1.16.5-36.1.0" for
// ForgeGradle.
func (p *Project) MinecraftDependency() (string, bool) {
	dependencies := extractBlock(p.buildScript, "dependencies")
	match := minecraftDepRegex.FindStringSubmatch(dependencies)
	if len(match) < 2 {
		return "", false
	}
	coordinate, ok := p.resolveValue(match[1])
	if !ok || coordinate == "" {
		log.Debug("Could not resolve the minecraft dependency " + match[1])
		return "", false
	}
	return coordinate, true
}

func (p *Project) resolveValue(raw string) (string, bool) {
	return resolveExpression(raw, p.Property)
}

// Property looks a project property up with Gradle's precedence: ORG_GRADLE_PROJECT_ environment
// variables, then gradle.properties in GRADLE_USER_HOME, then the project's gradle.properties.
func (p *Project) Property(key string) (string, bool) {
	if value, ok := os.LookupEnv(projectPropertyEnvPrefix + key); ok {
		return value, true
	}
	if p.properties == nil {
		return "", false
	}
	return p.properties.Get(key)
}
