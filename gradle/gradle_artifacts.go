package gradle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Archive classifiers of the archive tasks that the common Java and Minecraft plugins register.
var archiveTaskClassifiers = map[string]string{
	"jar":             "",
	"remapJar":        "",
	"reobfJar":        "",
	"shadowJar":       "all",
	"sourcesJar":      "sources",
	"remapSourcesJar": "sources",
	"javadocJar":      "javadoc",
	"apiJar":          "api",
	"deobfJar":        "deobf",
	"devJar":          "dev",
}

// ArchivesBaseName mirrors the base plugin's archivesName convention, which defaults to the
// project name.
func (p *Project) ArchivesBaseName() string {
	if raw, ok := findTopLevelAssignment(p.buildScript, "archivesBaseName"); ok {
		if name, resolved := p.resolveValue(raw); resolved && name != "" {
			return name
		}
	}
	if base := extractBlock(p.buildScript, "base"); base != "" {
		raw, ok := findTopLevelAssignment(base, "archivesName")
		if !ok {
			if match := archivesSetRegex.FindStringSubmatch(base); match != nil {
				raw, ok = match[1], true
			}
		}
		if ok {
			if name, resolved := p.resolveValue(raw); resolved && name != "" {
				return name
			}
		}
	}
	return p.name
}

// ArchivePath returns the file an archive task writes: build/libs/<base>-<version>[-<classifier>].jar.
func (p *Project) ArchivePath(taskName string) (string, error) {
	classifier, known := archiveTaskClassifiers[taskName]
	if !known {
		return "", fmt.Errorf("unknown archive task '%s'", taskName)
	}
	parts := []string{p.ArchivesBaseName()}
	if version := p.Version(); version != "" {
		parts = append(parts, version)
	}
	if classifier != "" {
		parts = append(parts, classifier)
	}
	archivePath := filepath.Join(p.workingDirectory, "build", "libs", strings.Join(parts, "-")+".jar")
	if !p.validatePathWithinWorkingDir(archivePath) {
		return "", fmt.Errorf("path traversal attempt detected for archive task %s", taskName)
	}
	return archivePath, nil
}
