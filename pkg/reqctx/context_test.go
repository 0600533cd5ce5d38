package reqctx

import (
	"context"
	"testing"
)

func TestMetaRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Errorf("RequestID(empty) = %q", got)
	}
	if _, ok := From(ctx); ok {
		t.Error("From(empty) reported a Meta")
	}

	ctx = With(ctx, Meta{RequestID: "rid-1", ClientIP: "10.0.0.1"})
	if got := RequestID(ctx); got != "rid-1" {
		t.Errorf("RequestID() = %q, want rid-1", got)
	}
	if m, _ := From(ctx); m.ClientIP != "10.0.0.1" {
		t.Errorf("ClientIP = %q", m.ClientIP)
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want int
	}{
		{"no meta", context.Background(), 0},
		{"request id only", With(context.Background(), Meta{RequestID: "r"}), 2},
		{"request id and ip", With(context.Background(), Meta{RequestID: "r", ClientIP: "1.2.3.4"}), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Attrs(tt.ctx)); got != tt.want {
				t.Errorf("len(Attrs) = %d, want %d", got, tt.want)
			}
		})
	}
}
