package main

import (
	"os"

	"github.com/diluv/diluv-upload/cli"
	"github.com/diluv/diluv-upload/utils"
	gofroglog "github.com/jfrog/gofrog/log"
	clitool "github.com/urfave/cli/v2"
)

var log utils.Log

func main() {
	logLevel := getCliLogLevel()
	log = utils.NewDefaultLogger(logLevel)
	setGradleLogLevel(logLevel)
	app := &clitool.App{
		Name:     "diluv",
		Usage:    "upload mod files to Diluv",
		Commands: cli.GetCommands(log),
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func getCliLogLevel() utils.LevelType {
	switch os.Getenv("DILUV_LOG_LEVEL") {
	case "ERROR":
		return utils.ERROR
	case "WARN":
		return utils.WARN
	case "DEBUG":
		return utils.DEBUG
	default:
		return utils.INFO
	}
}

// The Gradle reader logs through the gofrog package logger, which otherwise follows JFROG_LOG_LEVEL.
func setGradleLogLevel(logLevel utils.LevelType) {
	gofrogLevel := gofroglog.INFO
	switch logLevel {
	case utils.ERROR:
		gofrogLevel = gofroglog.ERROR
	case utils.WARN:
		gofrogLevel = gofroglog.WARN
	case utils.DEBUG:
		gofrogLevel = gofroglog.DEBUG
	}
	gofroglog.GetLogger().SetLogLevel(gofrogLevel)
}
