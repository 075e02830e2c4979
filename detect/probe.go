package detect

import (
	"os"
	"strings"

	"github.com/diluv/diluv-upload/gradle"
)

const (
	ForgePluginId = "net.minecraftforge.gradle"
	LoomPluginId  = "fabric-loom"

	// ForgeGradle builds conventionally inject the Minecraft version under this name.
	mcVersionProperty = "MC_VERSION"
	// Fabric example mods keep the Minecraft version in gradle.properties under this name.
	loomVersionProperty = "minecraft_version"

	forgeCoordinatePrefix     = "net.minecraftforge:forge:"
	minecraftCoordinatePrefix = "com.mojang:minecraft:"
)

// Probe looks for a Minecraft version left behind by companion build tooling.
// Not finding one is a normal outcome and is reported as false, never as an error.
type Probe interface {
	Name() string
	TryDetect() (string, bool)
}

// NoSignal is used when there is no build environment to inspect.
type NoSignal struct{}

func (NoSignal) Name() string {
	return "none"
}

func (NoSignal) TryDetect() (string, bool) {
	return "", false
}

// ForgeProbe reads the MC_VERSION property that ForgeGradle builds set, falling back to the
// Minecraft version embedded in the Forge dependency coordinate.
type ForgeProbe struct {
	project *gradle.Project
}

// NewForgeProbe accepts a nil project, in which case only the environment is inspected.
func NewForgeProbe(project *gradle.Project) *ForgeProbe {
	return &ForgeProbe{project: project}
}

func (fp *ForgeProbe) Name() string {
	return "forge"
}

func (fp *ForgeProbe) TryDetect() (string, bool) {
	for _, key := range []string{"ORG_GRADLE_PROJECT_" + mcVersionProperty, mcVersionProperty} {
		if version := strings.TrimSpace(os.Getenv(key)); version != "" {
			return version, true
		}
	}
	if fp.project == nil {
		return "", false
	}
	if version, ok := fp.project.Property(mcVersionProperty); ok && strings.TrimSpace(version) != "" {
		return strings.TrimSpace(version), true
	}
	if !fp.project.HasPlugin(ForgePluginId) {
		return "", false
	}
	// net.minecraftforge:forge:<minecraft>-<forge>
	coordinate, ok := fp.project.MinecraftDependency()
	if !ok || !strings.HasPrefix(coordinate, forgeCoordinatePrefix) {
		return "", false
	}
	version, _, _ := strings.Cut(strings.TrimPrefix(coordinate, forgeCoordinatePrefix), "-")
	return version, version != ""
}

// LoomProbe reads the Minecraft dependency that Fabric Loom resolves the game from.
type LoomProbe struct {
	project *gradle.Project
}

func NewLoomProbe(project *gradle.Project) *LoomProbe {
	return &LoomProbe{project: project}
}

func (lp *LoomProbe) Name() string {
	return "loom"
}

func (lp *LoomProbe) TryDetect() (string, bool) {
	if lp.project == nil || !lp.project.HasPlugin(LoomPluginId) {
		return "", false
	}
	if coordinate, ok := lp.project.MinecraftDependency(); ok && strings.HasPrefix(coordinate, minecraftCoordinatePrefix) {
		version := strings.TrimPrefix(coordinate, minecraftCoordinatePrefix)
		// Drop a classifier such as com.mojang:minecraft:1.16.5:client.
		version, _, _ = strings.Cut(version, ":")
		if version != "" {
			return version, true
		}
	}
	if version, ok := lp.project.Property(loomVersionProperty); ok && strings.TrimSpace(version) != "" {
		return strings.TrimSpace(version), true
	}
	return "", false
}
