// Package logger is the process-wide leveled logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// SetOutput sets the destination for all levels.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// SetLevel sets the minimum level: debug, info, warn or error. Unrecognised
// names fall back to warn.
func SetLevel(levelStr string) {
	switch strings.ToLower(levelStr) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
}

// Level returns the current level name.
func Level() string {
	return log.GetLevel().String()
}

// WithField returns an entry carrying key for structured call sites.
func WithField(key string, value interface{}) *logrus.Entry {
	return log.WithField(key, value)
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	log.Infof(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	log.Errorf(format, v...)
}
