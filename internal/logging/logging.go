package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel parses a level string
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger is the application logger
type Logger struct {
	*slog.Logger
	level  *slog.LevelVar
	file   *os.File
	writer io.Writer
}

// Config contains logger configuration
type Config struct {
	Level   string
	File    string
	Console bool
}

// New creates a new logger. The terminal belongs to the UI, so console
// output is only used when asked for or when no file is configured.
func New(cfg Config) (*Logger, error) {
	l := &Logger{level: new(slog.LevelVar)}
	l.level.Set(ParseLevel(cfg.Level))

	var writers []io.Writer

	if cfg.File != "" {
		dir := filepath.Dir(cfg.File)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}

	if cfg.Console || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	if len(writers) == 1 {
		l.writer = writers[0]
	} else {
		l.writer = io.MultiWriter(writers...)
	}

	l.Logger = slog.New(tint.NewHandler(l.writer, &tint.Options{
		Level:      l.level,
		TimeFormat: time.DateTime,
		NoColor:    l.file != nil && !cfg.Console,
	}))

	return l, nil
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Writer returns the destination of the logger
func (l *Logger) Writer() io.Writer {
	return l.writer
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Default logger for package-level functions
var defaultLogger *Logger

// Init initializes the default logger and installs it as the slog default
func Init(cfg Config) (*Logger, error) {
	l, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defaultLogger = l
	slog.SetDefault(l.Logger)
	return l, nil
}

// Debug logs a debug message to the default logger
func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debug(msg, args...)
	}
}

// Info logs an info message to the default logger
func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

// Warn logs a warning message to the default logger
func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

// Error logs an error message to the default logger
func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Error(msg, args...)
	}
}
