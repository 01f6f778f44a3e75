package smtgo

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/smtgo/model"
)

// Logger wraps slog.Logger with engine-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithSession adds a session field to the logger.
func (l *Logger) WithSession(id model.SessionID) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", uint64(id)),
	}
}

// WithFeature adds a feature field to the logger.
func (l *Logger) WithFeature(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("feature", name),
	}
}

// LogInit logs a model initialization.
func (l *Logger) LogInit(ctx context.Context, path string, features int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "engine initialization failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "engine ready",
			"path", path,
			"features", features,
			"duration", d,
		)
	}
}

// LogTranslate logs a translate request.
func (l *Logger) LogTranslate(ctx context.Context, nbest, results int, d time.Duration, err error) {
	if err != nil {
		l.DebugContext(ctx, "translate failed",
			"nbest", nbest,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "translate completed",
			"nbest", nbest,
			"results", results,
			"duration", d,
		)
	}
}

// LogDispose logs an engine shutdown.
func (l *Logger) LogDispose(ctx context.Context, sessions int) {
	l.InfoContext(ctx, "engine disposed",
		"sessions_invalidated", sessions,
	)
}

// LogModelRelease logs the release of a model after its last reader.
func (l *Logger) LogModelRelease(name string, bytes int64) {
	l.Info("model released",
		"model", name,
		"bytes", bytes,
	)
}
