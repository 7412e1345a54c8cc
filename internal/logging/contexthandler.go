package logging

import (
	"context"
	"log/slog"
)

// AttrProvider supplies attributes that change while the program runs, such as the
// current match and turn.
type AttrProvider interface {
	LogAttrs() []slog.Attr
}

// AttrFunc adapts a plain function to AttrProvider.
type AttrFunc func() []slog.Attr

// LogAttrs calls f.
func (f AttrFunc) LogAttrs() []slog.Attr { return f() }

// ContextHandler wraps another handler and injects the provider's attributes into
// every record at the moment it is handled.
type ContextHandler struct {
	inner    slog.Handler
	provider AttrProvider
}

// NewContextHandler creates a ContextHandler. A nil provider adds nothing.
func NewContextHandler(inner slog.Handler, provider AttrProvider) *ContextHandler {
	return &ContextHandler{inner: inner, provider: provider}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		if attrs := h.provider.LogAttrs(); len(attrs) > 0 {
			r = r.Clone()
			r.AddAttrs(attrs...)
		}
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}
