// Package logging defines the structured-logging interface used across the
// checklist service, with adapters for log/slog and zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "checklist deleted", "id", id, "files", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New builds a Logger writing to w. backend is "slog" or "zap"; format is
// "json" or "text" and only applies to slog.
func New(backend, format string, w io.Writer) (Logger, error) {
	switch backend {
	case "", "slog":
		var h slog.Handler
		switch format {
		case "", "json":
			h = slog.NewJSONHandler(w, nil)
		case "text":
			h = slog.NewTextHandler(w, nil)
		default:
			return nil, fmt.Errorf("unknown log format %q", format)
		}
		return NewSlogLogger(slog.New(h)), nil
	case "zap":
		return NewZapLoggerTo(w), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
