package telemetry

import (
	"context"
	"log/slog"

	"tattle/src/internal/core"
)

// Handler bridges log/slog to the telemetry service so slog-based hosts
// route qualifying records without writing the dispatch callback by hand.
// It is a pure tap: pair it with the host's real handler via a multi-handler
// or install it on a dedicated logger.
type Handler struct {
	svc      *Service
	loggerID string
	attrs    []slog.Attr
	groups   []string
}

// NewHandler creates a slog bridge. loggerID identifies the producing logger
// for the console-logger filter.
func NewHandler(svc *Service, loggerID string) *Handler {
	return &Handler{svc: svc, loggerID: loggerID}
}

// Enabled reports interest only in records the dispatch filter could accept.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.svc.Enabled() && level >= slog.LevelError
}

// Handle forwards the record through the service's dispatch hook.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	level := core.LevelError
	if r.Level >= slog.LevelError+4 {
		level = core.LevelFatal
	}
	h.svc.Dispatch(level, h.loggerID, r.Message, DispatchNormal)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append(h2.attrs, attrs...)
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	h2 := *h
	h2.groups = append(h2.groups, name)
	return &h2
}
