// Package rlog is the structured-logging ambient stack, wrapping logrus
// the way rclone's fs.Debugf/fs.Errorf/fs.Logf wrap its global logger —
// each call is tagged with the object (here, a path) it concerns.
package rlog

import (
	"github.com/sirupsen/logrus"
)

// Logger is the package-level logger, replaceable by the CLI layer.
var Logger = logrus.StandardLogger()

// Tag returns a *logrus.Entry pre-populated with the path field, standing
// in for fs.Debugf(o, ...)'s convention of taking the affected object as
// its first argument.
func Tag(path string) *logrus.Entry {
	return Logger.WithField("path", path)
}

// Debugf logs at debug level for the given path.
func Debugf(path, format string, args ...interface{}) {
	Tag(path).Debugf(format, args...)
}

// Infof logs at info level for the given path.
func Infof(path, format string, args ...interface{}) {
	Tag(path).Infof(format, args...)
}

// Errorf logs at error level for the given path.
func Errorf(path, format string, args ...interface{}) {
	Tag(path).Errorf(format, args...)
}

// Warnf logs at warn level for the given path.
func Warnf(path, format string, args ...interface{}) {
	Tag(path).Warnf(format, args...)
}
