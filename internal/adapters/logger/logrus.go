// Package logger provides the ports.Logger implementation used by the
// application: logrus with optional JSON output and lumberjack file rotation.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the logrus-backed logger.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "text"
	Output string // file path; empty or "stderr" logs to stderr

	// Rotation settings, used only when Output is a file.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// LogrusLogger implements ports.Logger on top of a logrus.Logger.
type LogrusLogger struct {
	log *logrus.Logger
}

// New creates a configured logger. Unknown levels fall back to info.
func New(cfg Config) *LogrusLogger {
	log := logrus.New()

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	var writer io.Writer = os.Stderr
	if cfg.Output != "" && cfg.Output != "stderr" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}
		writer = &lumberjack.Logger{
			Filename:   cfg.Output,
			MaxSize:    maxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
	}
	log.SetOutput(writer)

	return &LogrusLogger{log: log}
}

func (l *LogrusLogger) entry(fields ...map[string]interface{}) *logrus.Entry {
	if len(fields) > 0 && fields[0] != nil {
		return l.log.WithFields(logrus.Fields(fields[0]))
	}
	return logrus.NewEntry(l.log)
}

// Debug logs a message at Debug level.
func (l *LogrusLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.entry(fields...).Debug(msg)
}

// Info logs a message at Info level.
func (l *LogrusLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.entry(fields...).Info(msg)
}

// Warn logs a message at Warning level.
func (l *LogrusLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.entry(fields...).Warn(msg)
}

// Error logs an error message at Error level.
func (l *LogrusLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	e := l.entry(fields...)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}
