package flags

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

var logLevel slog.LevelVar

func init() {
	h := &errorTrackingHandler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}),
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelError)
}

var hadSlogError atomic.Bool

// ExitError exits with status 1 if anything was logged at error level.
func ExitError() {
	if hadSlogError.Load() {
		os.Exit(1)
	}
	os.Exit(0)
}

type errorTrackingHandler struct {
	slog.Handler
}

func (h *errorTrackingHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		hadSlogError.Store(true)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *errorTrackingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorTrackingHandler{h.Handler.WithAttrs(attrs)}
}

func (h *errorTrackingHandler) WithGroup(name string) slog.Handler {
	return &errorTrackingHandler{h.Handler.WithGroup(name)}
}
