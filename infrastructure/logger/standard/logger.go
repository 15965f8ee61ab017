// ABOUTME: Standard logger implementation backed by logrus
// ABOUTME: Provides leveled structured logging with optional rotating file output

package standard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger
type Options struct {
	// Level is one of debug, info, warn, error
	Level string

	// Format is "json" or "text"
	Format string

	// File enables size-rotated file output in addition to stdout
	File string

	// Output overrides stdout, mainly for tests
	Output io.Writer
}

// StandardLogger implements the Logger interface on top of logrus
type StandardLogger struct {
	entry *logrus.Logger
}

// NewStandardLogger creates a new logger with info level text output on stdout
func NewStandardLogger() *StandardLogger {
	logger, _ := New(Options{Level: "info", Format: "text"})
	return logger
}

// New creates a logger from options
func New(opts Options) (*StandardLogger, error) {
	l := logrus.New()

	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	l.SetLevel(lvl)

	switch strings.ToLower(opts.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	l.SetOutput(out)

	return &StandardLogger{entry: l}, nil
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.withFields(fields).Debug(msg)
}

// Info logs an info message
func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.withFields(fields).Info(msg)
}

// Warn logs a warning message
func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.withFields(fields).Warn(msg)
}

// Error logs an error message
func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.withFields(fields).Error(msg)
}

func (l *StandardLogger) withFields(fields map[string]interface{}) *logrus.Entry {
	if len(fields) == 0 {
		return logrus.NewEntry(l.entry)
	}
	return l.entry.WithFields(logrus.Fields(fields))
}
