package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup builds the application logger. When logPath is non-empty, output is
// duplicated to the file (directories created as needed).
func Setup(level logrus.Level, logPath string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if logPath == "" {
		return logger
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		logger.WithError(err).Warn("failed to create log directory, logging to stderr only")
		return logger
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.WithError(err).Warn("failed to open log file, logging to stderr only")
		return logger
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	return logger
}

// ParseLevel converts a config string into a logrus level, defaulting to info.
func ParseLevel(raw string) logrus.Level {
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
