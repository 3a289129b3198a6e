package parser

import (
	"context"
	"log/slog"
)

// Logger is the interface that castr uses for structured logging.
//
// The interface is minimal yet compatible with popular logging libraries
// including log/slog, zap, and zerolog. It uses variadic key-value pairs for
// structured attributes, following the same convention as log/slog:
//
//	logger.Debug("resolved reference", "ref", "#/components/schemas/Pet")
//
// Use [NewSlogAdapter] to wrap a standard library slog.Logger.
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)
	With(attrs ...any) Logger
}

// NewSlogAdapter wraps a slog.Logger in the castr Logger interface.
// A nil argument wraps slog.Default().
func NewSlogAdapter(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogAdapter{logger: logger}
}

type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Debug(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, argsToAttrs(attrs)...)
}

func (a *slogAdapter) Info(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, argsToAttrs(attrs)...)
}

func (a *slogAdapter) Warn(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, argsToAttrs(attrs)...)
}

func (a *slogAdapter) Error(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelError, msg, argsToAttrs(attrs)...)
}

func (a *slogAdapter) With(attrs ...any) Logger {
	return &slogAdapter{logger: a.logger.With(attrs...)}
}

// argsToAttrs converts alternating key-value pairs to slog attributes.
// A trailing key with no value becomes a "!BADKEY" attribute, matching slog.
func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			attrs = append(attrs, slog.Any("!BADKEY", args[i]))
			i++
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
		i += 2
	}
	return attrs
}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)    {}
func (nopLogger) Info(string, ...any)     {}
func (nopLogger) Warn(string, ...any)     {}
func (nopLogger) Error(string, ...any)    {}
func (nopLogger) With(...any) Logger      { return nopLogger{} }
