package odtree

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with odtree-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithDataset adds a dataset name field to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// WithDepth adds a depth field to the logger.
func (l *Logger) WithDepth(depth int) *Logger {
	return &Logger{
		Logger: l.Logger.With("depth", depth),
	}
}

// WithSupport adds a minimum support field to the logger.
func (l *Logger) WithSupport(support int) *Logger {
	return &Logger{
		Logger: l.Logger.With("support", support),
	}
}

// LogFit logs the outcome of a fit.
func (l *Logger) LogFit(ctx context.Context, treeError float64, optimal bool, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "fit completed",
			"tree_error", treeError,
			"optimal", optimal,
			"duration", duration,
		)
	}
}

// LogRestart logs one restart of an anytime run.
func (l *Logger) LogRestart(ctx context.Context, restart, budget int, treeError float64) {
	l.DebugContext(ctx, "restart completed",
		"restart", restart,
		"budget", budget,
		"tree_error", treeError,
	)
}
