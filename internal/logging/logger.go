// Package logging builds the application's *slog.Logger.
//
// The environment picks the defaults:
//
//	dev (and anything unrecognised): text output at DEBUG
//	staging:                         JSON output at DEBUG
//	prod:                            JSON output at INFO
//
// Level and format from the config's log section override them.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// New returns a logger writing to w for the given environment.
// level and format may be empty to keep the environment defaults.
func New(w io.Writer, env, level, format string) *slog.Logger {
	lvl := slog.LevelDebug
	useJSON := false

	switch env {
	case "prod":
		lvl = slog.LevelInfo
		useJSON = true
	case "staging":
		useJSON = true
	}

	if level != "" {
		lvl = parseLevel(level)
	}
	switch strings.ToLower(format) {
	case "json":
		useJSON = true
	case "text":
		useJSON = false
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if useJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// FromContext returns the default logger enriched with the chi request id
// stored in ctx, if any.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With(slog.String("request_id", reqID))
	}

	return logger
}
