package server

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// DefaultLogger writes one key=value line per call.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger logs at info level to stdout.
func NewDefaultLogger() *DefaultLogger {
	return NewLogger(os.Stdout, slog.LevelInfo)
}

func NewLogger(w io.Writer, level slog.Level) *DefaultLogger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &DefaultLogger{logger: slog.New(h)}
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	l.log(slog.LevelDebug, msg, fields...)
}

func (l *DefaultLogger) Info(msg string, fields ...Field) {
	l.log(slog.LevelInfo, msg, fields...)
}

func (l *DefaultLogger) Error(msg string, fields ...Field) {
	l.log(slog.LevelError, msg, fields...)
}

func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	l.log(slog.LevelWarn, msg, fields...)
}

func (l *DefaultLogger) log(level slog.Level, msg string, fields ...Field) {
	logger := l.logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (n *NullLogger) Debug(msg string, fields ...Field) {}
func (n *NullLogger) Info(msg string, fields ...Field)  {}
func (n *NullLogger) Error(msg string, fields ...Field) {}
func (n *NullLogger) Warn(msg string, fields ...Field)  {}
