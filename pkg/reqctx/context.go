package reqctx

import (
	"context"
	"time"
)

type ctxKey struct{}

// Meta is what the HTTP layer knows about the caller of a request.
type Meta struct {
	RequestID  string
	ClientIP   string
	UserAgent  string
	ReceivedAt time.Time
}

// With returns a copy of ctx carrying m.
func With(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// From returns the Meta stored in ctx, if any.
func From(ctx context.Context) (Meta, bool) {
	m, ok := ctx.Value(ctxKey{}).(Meta)
	return m, ok
}

// RequestID returns the request id stored in ctx or "".
func RequestID(ctx context.Context) string {
	m, _ := From(ctx)
	return m.RequestID
}

// Attrs lists the log attributes for ctx: request_id and client_ip when set.
func Attrs(ctx context.Context) []any {
	m, ok := From(ctx)
	if !ok {
		return nil
	}
	var out []any
	if m.RequestID != "" {
		out = append(out, "request_id", m.RequestID)
	}
	if m.ClientIP != "" {
		out = append(out, "client_ip", m.ClientIP)
	}
	return out
}
