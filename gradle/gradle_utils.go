package gradle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jfrog/gofrog/log"
	"github.com/magiconair/properties"
)

// Gradle maps ORG_GRADLE_PROJECT_<name> environment variables to project properties.
const projectPropertyEnvPrefix = "ORG_GRADLE_PROJECT_"

// getBuildFileContent reads the build.gradle or build.gradle.kts file of the project.
func (p *Project) getBuildFileContent() ([]byte, string, error) {
	buildGradlePath := filepath.Join(p.workingDirectory, "build.gradle")
	buildGradleKtsPath := filepath.Join(p.workingDirectory, "build.gradle.kts")

	if _, err := os.Stat(buildGradlePath); err == nil {
		content, err := os.ReadFile(buildGradlePath)
		return content, buildGradlePath, err
	}

	if _, err := os.Stat(buildGradleKtsPath); err == nil {
		content, err := os.ReadFile(buildGradleKtsPath)
		return content, buildGradleKtsPath, err
	}
	return nil, "", fmt.Errorf("%w: neither build.gradle nor build.gradle.kts found", os.ErrNotExist)
}

func (p *Project) readSettingsFile() (string, error) {
	settingsPath := filepath.Join(p.workingDirectory, "settings.gradle")
	settingsKtsPath := filepath.Join(p.workingDirectory, "settings.gradle.kts")

	if _, err := os.Stat(settingsPath); err == nil {
		data, err := os.ReadFile(settingsPath)
		return string(data), err
	}
	if _, err := os.Stat(settingsKtsPath); err == nil {
		data, err := os.ReadFile(settingsKtsPath)
		return string(data), err
	}
	return "", nil
}

// loadProperties merges the project's gradle.properties with the one in GRADLE_USER_HOME,
// the latter taking precedence like in Gradle.
func (p *Project) loadProperties() *properties.Properties {
	merged := properties.NewProperties()
	files := []string{filepath.Join(p.workingDirectory, "gradle.properties")}
	if userHome, err := getGradleUserHome(); err == nil {
		files = append(files, filepath.Join(userHome, "gradle.properties"))
	} else {
		log.Debug("Failed to resolve GRADLE_USER_HOME: " + err.Error())
	}

	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		loader := &properties.Loader{Encoding: properties.ISO_8859_1, DisableExpansion: true}
		loaded, err := loader.LoadFile(path)
		if err != nil {
			log.Debug(fmt.Sprintf("Failed to read %s: %s", path, err.Error()))
			continue
		}
		merged.Merge(loaded)
	}
	return merged
}

func getGradleUserHome() (string, error) {
	gradleUserHome := os.Getenv("GRADLE_USER_HOME")
	if gradleUserHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		gradleUserHome = filepath.Join(homeDir, ".gradle")
	} else if strings.Contains(gradleUserHome, "..") {
		return "", fmt.Errorf("path traversal pattern detected in GRADLE_USER_HOME: %s", gradleUserHome)
	}
	return filepath.Abs(filepath.Clean(gradleUserHome))
}

func (p *Project) validatePathWithinWorkingDir(resolvedPath string) bool {
	absResolvedPath, err := filepath.Abs(filepath.Clean(resolvedPath))
	if err != nil {
		log.Debug(fmt.Sprintf("Failed to get absolute path for resolved path: %s", err.Error()))
		return false
	}
	if absResolvedPath == p.workingDirectory {
		return true
	}
	return strings.HasPrefix(absResolvedPath, p.workingDirectory+string(filepath.Separator))
}
