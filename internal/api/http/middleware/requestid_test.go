package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/medibook_backend/pkg/reqctx"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generated"},
		{name: "preserved", incoming: "rid-from-proxy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			app := fiber.New()
			app.Use(RequestID())
			app.Get("/", func(c fiber.Ctx) error {
				fromCtx = reqctx.RequestID(c.Context())
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}

			got := resp.Header.Get(HeaderRequestID)
			if got == "" {
				t.Fatal("missing response request id")
			}
			if tt.incoming != "" && got != tt.incoming {
				t.Errorf("request id = %q, want %q", got, tt.incoming)
			}
			if fromCtx != got {
				t.Errorf("context request id = %q, header = %q", fromCtx, got)
			}
		})
	}
}
