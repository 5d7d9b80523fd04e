// Package logger provides a runtime.Logger backed by log/slog for processes
// that run the game outside of Nakama.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Logger adapts *slog.Logger to runtime.Logger.
type Logger struct {
	base   *slog.Logger
	fields map[string]interface{}
}

var _ runtime.Logger = (*Logger)(nil)

// New builds a logger writing to w at the named level (debug, info, warn, error).
// Unknown levels fall back to info.
func New(w io.Writer, level string, format Format) *Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Logger{base: slog.New(h)}
}

// Discard drops everything; handy for tests and quiet runs.
func Discard() *Logger {
	return New(io.Discard, "error", FormatText)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log(slog.LevelDebug, format, v) }
func (l *Logger) Info(format string, v ...interface{})  { l.log(slog.LevelInfo, format, v) }
func (l *Logger) Warn(format string, v ...interface{})  { l.log(slog.LevelWarn, format, v) }
func (l *Logger) Error(format string, v ...interface{}) { l.log(slog.LevelError, format, v) }

func (l *Logger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *Logger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, fields)

	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{base: l.base.With(args...), fields: merged}
}

func (l *Logger) Fields() map[string]interface{} {
	return maps.Clone(l.fields)
}

func (l *Logger) log(level slog.Level, format string, v []interface{}) {
	ctx := context.Background()
	if !l.base.Enabled(ctx, level) {
		return
	}
	l.base.Log(ctx, level, fmt.Sprintf(format, v...))
}
