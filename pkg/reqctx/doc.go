// Package reqctx carries request-scoped caller metadata through
// context.Context.
//
// The RequestID middleware stores a Meta for every request and the logging
// handler in pkg/logs reads it back, so each log line written with the
// request context carries its request id:
//
//	ctx = reqctx.With(ctx, reqctx.Meta{RequestID: "abc-123"})
//	rid := reqctx.RequestID(ctx)
package reqctx
