package utils

import (
	"io"
	"log"
	"os"
)

type Log interface {
	Debug(a ...interface{})
	Info(a ...interface{})
	Warn(a ...interface{})
	Error(a ...interface{})
	Output(a ...interface{})
}

type LevelType int

const (
	ERROR LevelType = iota
	WARN
	INFO
	DEBUG
)

type defaultLogger struct {
	logLevel  LevelType
	debugLog  *log.Logger
	infoLog   *log.Logger
	warnLog   *log.Logger
	errorLog  *log.Logger
	outputLog *log.Logger
}

// NewDefaultLogger writes log lines to stderr and output lines to stdout.
func NewDefaultLogger(logLevel LevelType) Log {
	return NewLoggerWithWriters(logLevel, os.Stderr, os.Stdout)
}

func NewLoggerWithWriters(logLevel LevelType, logWriter, outputWriter io.Writer) Log {
	return &defaultLogger{
		logLevel:  logLevel,
		debugLog:  log.New(logWriter, "[Debug] ", 0),
		infoLog:   log.New(logWriter, "[Info] ", 0),
		warnLog:   log.New(logWriter, "[Warn] ", 0),
		errorLog:  log.New(logWriter, "[Error] ", 0),
		outputLog: log.New(outputWriter, "", 0),
	}
}

func (l *defaultLogger) Debug(a ...interface{}) {
	if l.logLevel >= DEBUG {
		l.debugLog.Println(a...)
	}
}

func (l *defaultLogger) Info(a ...interface{}) {
	if l.logLevel >= INFO {
		l.infoLog.Println(a...)
	}
}

func (l *defaultLogger) Warn(a ...interface{}) {
	if l.logLevel >= WARN {
		l.warnLog.Println(a...)
	}
}

func (l *defaultLogger) Error(a ...interface{}) {
	if l.logLevel >= ERROR {
		l.errorLog.Println(a...)
	}
}

func (l *defaultLogger) Output(a ...interface{}) {
	l.outputLog.Println(a...)
}

// NullLog is a logger that does nothing
type NullLog struct {
}

func (nl *NullLog) Debug(...interface{}) {
}

func (nl *NullLog) Info(...interface{}) {
}

func (nl *NullLog) Warn(...interface{}) {
}

func (nl *NullLog) Error(...interface{}) {
}

func (nl *NullLog) Output(...interface{}) {
}
