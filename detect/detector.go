package detect

import (
	"fmt"

	"github.com/diluv/diluv-upload/gradle"
	"github.com/diluv/diluv-upload/utils"
)

// LoaderPlugin maps a build plugin id to the Diluv loader tag it implies.
type LoaderPlugin struct {
	PluginId string
	Loader   string
}

var DefaultLoaderPlugins = []LoaderPlugin{
	{PluginId: ForgePluginId, Loader: "forge"},
	{PluginId: LoomPluginId, Loader: "fabric"},
}

// PluginSource is satisfied by *gradle.Project.
type PluginSource interface {
	HasPlugin(pluginId string) bool
}

// Detector infers default game versions and loaders from the build environment.
// It never fails: every probe that panics or finds nothing counts as "not detected".
type Detector struct {
	probes        []Probe
	plugins       PluginSource
	loaderPlugins []LoaderPlugin
	logger        utils.Log
}

// NewDetector builds the standard probe chain for a Gradle project. A nil project yields a
// detector that only inspects the process environment.
func NewDetector(project *gradle.Project, logger utils.Log) *Detector {
	if project == nil {
		return NewDetectorWithProbes(nil, logger, NewForgeProbe(nil), NoSignal{})
	}
	return NewDetectorWithProbes(project, logger, NewForgeProbe(project), NewLoomProbe(project))
}

// NewDetectorWithProbes runs the probes in order; the first one to report a version wins.
func NewDetectorWithProbes(plugins PluginSource, logger utils.Log, probes ...Probe) *Detector {
	if logger == nil {
		logger = &utils.NullLog{}
	}
	return &Detector{
		probes:        probes,
		plugins:       plugins,
		loaderPlugins: DefaultLoaderPlugins,
		logger:        logger,
	}
}

func (d *Detector) SetLoaderPlugins(loaderPlugins []LoaderPlugin) *Detector {
	d.loaderPlugins = loaderPlugins
	return d
}

// Detect returns the detected game version, whether one was found, and the detected loaders.
func (d *Detector) Detect() (string, bool, []string) {
	version, found := d.DetectGameVersion()
	return version, found, d.DetectLoaders()
}

func (d *Detector) DetectGameVersion() (string, bool) {
	for _, probe := range d.probes {
		if version, found := d.tryProbe(probe); found {
			d.logger.Debug(fmt.Sprintf("Detected game version %s from %s.", version, probe.Name()))
			return version, true
		}
	}
	return "", false
}

func (d *Detector) DetectLoaders() []string {
	var loaders []string
	if d.plugins == nil {
		return loaders
	}
	for _, pair := range d.loaderPlugins {
		if d.hasPlugin(pair.PluginId) {
			d.logger.Debug(fmt.Sprintf("Detected loader %s from plugin %s.", pair.Loader, pair.PluginId))
			loaders = append(loaders, pair.Loader)
		}
	}
	return loaders
}

func (d *Detector) tryProbe(probe Probe) (version string, found bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Debug(fmt.Sprintf("Game version probe %s failed: %v", probe.Name(), r))
			version, found = "", false
		}
	}()
	return probe.TryDetect()
}

func (d *Detector) hasPlugin(pluginId string) (applied bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Debug(fmt.Sprintf("Plugin lookup for %s failed: %v", pluginId, r))
			applied = false
		}
	}()
	return d.plugins.HasPlugin(pluginId)
}
