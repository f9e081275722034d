// Package logger is the levelled application logger used across the
// pixelpulse core. It is a thin wrapper over slog writing text to stdout.
package logger

import (
	"log/slog"
	"os"
)

// Numeric levels accepted by New, matching slog's values. The LOG_LEVEL
// environment variable uses the same scale.
const (
	LevelDebug = int(slog.LevelDebug)
	LevelInfo  = int(slog.LevelInfo)
	LevelWarn  = int(slog.LevelWarn)
	LevelError = int(slog.LevelError)
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// New creates new Logger instance with the specified level.
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
