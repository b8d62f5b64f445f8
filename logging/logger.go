// Package logging defines the minimal logger used throughout dsi and an
// apex/log backed implementation that writes to a pair of writers.
package logging

import (
	"io"

	"github.com/apex/log"
)

const (
	// DebugLevel is the verbose level
	DebugLevel = log.DebugLevel
	// InfoLevel is the default level
	InfoLevel = log.InfoLevel
	// WarnLevel is for warnings
	WarnLevel = log.WarnLevel
	// ErrorLevel is for errors
	ErrorLevel = log.ErrorLevel
)

// Logger defines behavior required by dsi components
type Logger interface {
	Debug(msg string)
	Debugf(fmt string, v ...interface{})

	Info(msg string)
	Infof(fmt string, v ...interface{})

	Warn(msg string)
	Warnf(fmt string, v ...interface{})

	Error(msg string)
	Errorf(fmt string, v ...interface{})

	Writer() io.Writer

	IsVerbose() bool
}

type writerForLevel interface {
	WriterForLevel(level log.Level) io.Writer
}

// GetWriterForLevel returns the writer a logger uses for the given level, or
// the default writer when the logger cannot tell levels apart.
func GetWriterForLevel(logger Logger, level log.Level) io.Writer {
	if er, ok := logger.(writerForLevel); ok {
		return er.WriterForLevel(level)
	}
	return logger.Writer()
}

// IsQuiet reports whether the logger suppresses info output.
func IsQuiet(logger Logger) bool {
	if q, ok := logger.(interface{ IsQuiet() bool }); ok {
		return q.IsQuiet()
	}
	return false
}

// Tip logs a tip.
func Tip(l Logger, format string, v ...interface{}) {
	l.Infof(tipColor("Tip: ")+format, v...)
}
