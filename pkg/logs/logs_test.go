package logs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/Alijeyrad/medibook_backend/pkg/reqctx"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMultiHandler_FanOutRespectsLevels(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	logger := slog.New(h).With("component", "test")

	logger.Info("reconciled")
	logger.Error("compensation failed")

	if strings.Count(infoBuf.String(), "\n") != 2 {
		t.Errorf("info handler expected 2 lines, got %q", infoBuf.String())
	}
	if strings.Count(errBuf.String(), "\n") != 1 {
		t.Errorf("error handler expected 1 line, got %q", errBuf.String())
	}
	if !strings.Contains(errBuf.String(), `"component":"test"`) {
		t.Errorf("attrs not propagated: %q", errBuf.String())
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled on every handler")
	}
}

func TestContextHandler_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(contextHandler{slog.NewJSONHandler(&buf, nil)})

	ctx := reqctx.With(context.Background(), reqctx.Meta{RequestID: "rid-42", ClientIP: "10.1.2.3"})
	logger.InfoContext(ctx, "payment: reconciled")
	logger.Info("no request")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], `"request_id":"rid-42"`) {
		t.Errorf("request id missing: %s", lines[0])
	}
	if !strings.Contains(lines[0], `"client_ip":"10.1.2.3"`) {
		t.Errorf("client ip missing: %s", lines[0])
	}
	if strings.Contains(lines[1], "request_id") {
		t.Errorf("unexpected request id: %s", lines[1])
	}
}
