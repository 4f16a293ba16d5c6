package pagesearch

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with pagesearch-specific context.
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

// WithRunID adds a run ID field to the logger.
func (l *Logger) WithRunID(id uuid.UUID) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id.String()),
	}
}

// WithWorker adds a worker field to the logger.
func (l *Logger) WithWorker(worker int) *Logger {
	return &Logger{
		Logger: l.Logger.With("worker", worker),
	}
}

// LogRunStart logs the beginning of a Start or Continue call.
func (l *Logger) LogRunStart(ctx context.Context, resumed bool, workers, frontier int) {
	l.InfoContext(ctx, "search started",
		"resumed", resumed,
		"workers", workers,
		"frontier", frontier,
	)
}

// LogRun logs the outcome of a Start or Continue call.
func (l *Logger) LogRun(ctx context.Context, found bool, reason string, stats Stats) {
	if found {
		l.InfoContext(ctx, "search found goal",
			"expanded", stats.Expanded,
			"generated", stats.Generated,
			"duration", stats.RunTime,
		)
	} else {
		l.InfoContext(ctx, "search stopped without goal",
			"reason", reason,
			"expanded", stats.Expanded,
			"frontier", stats.FrontierSize,
			"duration", stats.RunTime,
		)
	}
}

// LogStats logs a statistics report.
func (l *Logger) LogStats(ctx context.Context, stats Stats) {
	l.InfoContext(ctx, "search stats",
		"expanded", stats.Expanded,
		"generated", stats.Generated,
		"duplicates", stats.Duplicates,
		"frontier", stats.FrontierSize,
		"frontier_approx", stats.ApproxFrontierSize,
		"dedup_size", stats.DuplicateSetSize,
		"expanded_per_sec", stats.ExpandedPerSecond(),
		"collision_rate", stats.CollisionRate(),
		"operator_time", stats.OperatorTime,
		"heuristic_time", stats.HeuristicTime,
		"hash_time", stats.HashTime,
		"dedup_time", stats.DedupTime,
		"insert_time", stats.InsertTime,
	)
}

// LogExpand logs the expansion of a state.
func (l *Logger) LogExpand(ctx context.Context, seq uint64, cost, heuristic int, operator string) {
	l.DebugContext(ctx, "expand",
		"seq", seq,
		"cost", cost,
		"heuristic", heuristic,
		"operator", operator,
	)
}

// LogOffspring logs a generated state and whether it was rejected as a duplicate.
func (l *Logger) LogOffspring(ctx context.Context, parent uint64, hash uint64, cost int, duplicate bool) {
	l.DebugContext(ctx, "offspring",
		"parent", parent,
		"hash", hash,
		"cost", cost,
		"duplicate", duplicate,
	)
}
