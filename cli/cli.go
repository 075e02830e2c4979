package cli

import (
	"fmt"
	"strings"

	"github.com/diluv/diluv-upload/config"
	"github.com/diluv/diluv-upload/detect"
	"github.com/diluv/diluv-upload/gradle"
	"github.com/diluv/diluv-upload/upload"
	"github.com/diluv/diluv-upload/utils"
	clitool "github.com/urfave/cli/v2"
)

const (
	apiUrlFlag             = "api-url"
	projectIdFlag          = "project-id"
	tokenFlag              = "token"
	fileFlag               = "file"
	projectDirFlag         = "project-dir"
	configFlag             = "config"
	versionFlag            = "version"
	changelogFlag          = "changelog"
	changelogFileFlag      = "changelog-file"
	changelogCharsetFlag   = "changelog-charset"
	releaseTypeFlag        = "release-type"
	classifierFlag         = "classifier"
	gameVersionFlag        = "game-version"
	loaderFlag             = "loader"
	dependencyFlag         = "dependency"
	optionalDependencyFlag = "optional-dependency"
	incompatibilityFlag    = "incompatibility"
	failSilentlyFlag       = "fail-silently"
	ignoreSemVerFlag       = "ignore-semver"
	detectLoadersFlag      = "detect-loaders"
	detectGameVersionFlag  = "detect-game-version"
	formatFlag             = "format"
)

func GetCommands(logger utils.Log) []*clitool.Command {
	projectDir := &clitool.StringFlag{
		Name:  projectDirFlag,
		Value: ".",
		Usage: "[Optional] The Gradle project directory.` `",
	}
	uploadFlags := []clitool.Flag{
		projectDir,
		&clitool.StringFlag{
			Name:        apiUrlFlag,
			EnvVars:     []string{"DILUV_API_URL"},
			DefaultText: upload.DefaultApiURL,
			Usage:       "[Optional] The Diluv API base URL.` `",
		},
		&clitool.StringFlag{
			Name:    projectIdFlag,
			EnvVars: []string{"DILUV_PROJECT_ID"},
			Usage:   "[Mandatory] The Diluv project to upload the file to.` `",
		},
		&clitool.StringFlag{
			Name:    tokenFlag,
			EnvVars: []string{"DILUV_TOKEN"},
			Usage:   "[Mandatory] A Diluv API token with upload permission.` `",
		},
		&clitool.StringFlag{
			Name:        fileFlag,
			DefaultText: "task:jar",
			Usage:       "[Optional] The file to upload, or 'task:<name>' for the output of a Gradle archive task.` `",
		},
		&clitool.StringFlag{
			Name:    configFlag,
			EnvVars: []string{"DILUV_CONFIG"},
			Usage:   fmt.Sprintf("[Optional] Path to a TOML settings file. Defaults to the closest %s in the project directory or its parents.` `", config.DefaultFileName),
		},
		&clitool.StringFlag{
			Name:  versionFlag,
			Usage: "[Optional] The file version. Defaults to the version of the Gradle project.` `",
		},
		&clitool.StringFlag{
			Name:  changelogFlag,
			Usage: "[Optional] The changelog of the file.` `",
		},
		&clitool.StringFlag{
			Name:  changelogFileFlag,
			Usage: "[Optional] Read the changelog from a file.` `",
		},
		&clitool.StringFlag{
			Name:  changelogCharsetFlag,
			Usage: "[Optional] The charset of the changelog file. Defaults to UTF-8.` `",
		},
		&clitool.StringFlag{
			Name:        releaseTypeFlag,
			DefaultText: upload.DefaultReleaseType,
			Usage:       "[Optional] The release type of the file.` `",
		},
		&clitool.StringFlag{
			Name:        classifierFlag,
			DefaultText: upload.DefaultClassifier,
			Usage:       "[Optional] The classifier of the file.` `",
		},
		&clitool.StringSliceFlag{
			Name:  gameVersionFlag,
			Usage: "[Optional] A compatible game version. Can be repeated. Detected from the build when omitted.` `",
		},
		&clitool.StringSliceFlag{
			Name:  loaderFlag,
			Usage: "[Optional] A compatible loader. Can be repeated. Detected from the build when omitted.` `",
		},
		&clitool.Int64SliceFlag{
			Name:  dependencyFlag,
			Usage: "[Optional] The id of a project the file requires. Can be repeated.` `",
		},
		&clitool.Int64SliceFlag{
			Name:  optionalDependencyFlag,
			Usage: "[Optional] The id of a project the file optionally depends on. Can be repeated.` `",
		},
		&clitool.Int64SliceFlag{
			Name:  incompatibilityFlag,
			Usage: "[Optional] The id of a project the file is incompatible with. Can be repeated.` `",
		},
		&clitool.BoolFlag{
			Name:  failSilentlyFlag,
			Usage: "[Default: false] Log upload errors instead of failing.` `",
		},
		&clitool.BoolFlag{
			Name:  ignoreSemVerFlag,
			Usage: "[Default: false] Allow versions that are not semantic versioning compatible.` `",
		},
		&clitool.BoolFlag{
			Name:  detectLoadersFlag,
			Value: true,
			Usage: "[Default: true] Detect the loaders from the Gradle plugins when none is given.` `",
		},
		&clitool.BoolFlag{
			Name:  detectGameVersionFlag,
			Value: true,
			Usage: "[Default: true] Detect the game version from the build when none is given.` `",
		},
		&clitool.StringFlag{
			Name:  formatFlag,
			Usage: fmt.Sprintf("[Optional] Set to print the upload result in a different format. Supported values are '%s' and '%s'.` `", upload.CycloneDxXml, upload.CycloneDxJson),
		},
	}

	return []*clitool.Command{
		{
			Name:      "upload",
			Usage:     "Upload a file to a Diluv project",
			UsageText: "diluv upload --project-id <id> --token <token> [command options]",
			Flags:     uploadFlags,
			Action: func(context *clitool.Context) error {
				return runUpload(context, logger)
			},
		},
		{
			Name:      "detect",
			Usage:     "Print the game version, loaders and version detected from a Gradle project",
			UsageText: "diluv detect [--project-dir <dir>]",
			Flags:     []clitool.Flag{projectDir},
			Action: func(context *clitool.Context) error {
				return runDetect(context, logger)
			},
		},
	}
}

func runUpload(context *clitool.Context, logger utils.Log) error {
	format := context.String(formatFlag)
	if err := validateFormat(format); err != nil {
		return err
	}
	project, err := gradle.NewProject(context.String(projectDirFlag))
	if err != nil {
		return err
	}
	settings, err := loadConfig(context, project)
	if err != nil {
		return err
	}
	settings.Merge(configFromFlags(context))

	task := upload.NewTask(project).SetLogger(logger)
	if err = settings.ApplyTo(task); err != nil {
		return err
	}
	if err = task.Apply(context.Context); err != nil {
		return err
	}
	uploadInfo, err := task.UploadInfo()
	if err != nil || uploadInfo == nil {
		// The upload failed silently, it was already logged.
		return nil
	}
	return upload.WriteReport(context.App.Writer, uploadInfo, task.Request(), format)
}

func runDetect(context *clitool.Context, logger utils.Log) error {
	project, err := gradle.NewProject(context.String(projectDirFlag))
	if err != nil {
		return err
	}
	gameVersion, found, loaders := detect.NewDetector(project, logger).Detect()
	if !found {
		gameVersion = "not detected"
	}
	loaderList := "not detected"
	if len(loaders) > 0 {
		loaderList = strings.Join(loaders, ", ")
	}
	version := project.Version()
	if version == "" {
		version = "not declared"
	}
	_, err = fmt.Fprintf(context.App.Writer, "Project: %s\nVersion: %s\nGame version: %s\nLoaders: %s\n",
		project.Name(), version, gameVersion, loaderList)
	return err
}

// loadConfig reads --config when given, otherwise the closest diluv.toml if there is one.
func loadConfig(context *clitool.Context, project *gradle.Project) (*config.Config, error) {
	if context.IsSet(configFlag) {
		return config.Load(context.String(configFlag))
	}
	if path, found := config.Find(project.Dir()); found {
		return config.Load(path)
	}
	return &config.Config{}, nil
}

// configFromFlags only carries the flags set on the command line or through the environment,
// so that they override the settings file without erasing it.
func configFromFlags(context *clitool.Context) *config.Config {
	flags := &config.Config{
		ApiURL:           context.String(apiUrlFlag),
		ProjectId:        context.String(projectIdFlag),
		Token:            context.String(tokenFlag),
		File:             context.String(fileFlag),
		Version:          context.String(versionFlag),
		Changelog:        context.String(changelogFlag),
		ChangelogFile:    context.String(changelogFileFlag),
		ChangelogCharset: context.String(changelogCharsetFlag),
		ReleaseType:      context.String(releaseTypeFlag),
		Classifier:       context.String(classifierFlag),
		GameVersions:     context.StringSlice(gameVersionFlag),
		Loaders:          context.StringSlice(loaderFlag),
		Relations: config.Relations{
			Required:     context.Int64Slice(dependencyFlag),
			Optional:     context.Int64Slice(optionalDependencyFlag),
			Incompatible: context.Int64Slice(incompatibilityFlag),
		},
	}
	flags.FailSilently = boolFlag(context, failSilentlyFlag)
	flags.IgnoreSemVer = boolFlag(context, ignoreSemVerFlag)
	flags.DetectLoaders = boolFlag(context, detectLoadersFlag)
	flags.DetectGameVersion = boolFlag(context, detectGameVersionFlag)
	return flags
}

func boolFlag(context *clitool.Context, name string) *bool {
	if !context.IsSet(name) {
		return nil
	}
	value := context.Bool(name)
	return &value
}

func validateFormat(format string) error {
	switch format {
	case "", upload.CycloneDxXml, upload.CycloneDxJson:
		return nil
	default:
		return fmt.Errorf("'%s' is not a valid value for '%s'", format, formatFlag)
	}
}
