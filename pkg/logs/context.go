package logs

import (
	"context"
	"log/slog"

	"github.com/Alijeyrad/medibook_backend/pkg/reqctx"
)

// contextHandler adds the caller metadata stored by the HTTP middleware to
// every record logged with a request context.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := reqctx.Attrs(ctx); len(attrs) > 0 {
		r.Add(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
