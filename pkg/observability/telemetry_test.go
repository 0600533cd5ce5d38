package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alijeyrad/medibook_backend/config"
)

func TestFromCentralConfig(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "production"},
		Observability: config.ObservabilityConfig{
			ServiceName: "medibook",
			Tracing:     config.TracingConfig{Enabled: true, OTLPEndpoint: "otel:4318", SamplingRate: 0.5},
			Metrics:     config.MetricsConfig{Enabled: true},
		},
	}

	got := FromCentralConfig(cfg)
	if got.Environment != "production" || got.OTLPEndpoint != "otel:4318" || got.SamplingRate != 0.5 {
		t.Errorf("FromCentralConfig() = %+v", got)
	}
	if !got.TracingEnabled || !got.MetricsEnabled {
		t.Errorf("flags not carried over: %+v", got)
	}
}

func TestInitTelemetry_ServesMetrics(t *testing.T) {
	ctx := context.Background()
	p, err := InitTelemetry(ctx, Config{ServiceName: "medibook-test"})
	if err != nil {
		t.Fatalf("InitTelemetry() error = %v", err)
	}
	defer func() { _ = p.Shutdown(ctx) }()

	counter, err := otel.Meter("test").Int64Counter("medibook_test_hits")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	counter.Add(ctx, 3)

	rec := httptest.NewRecorder()
	p.MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "medibook_test_hits") {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}

func TestFiberMiddleware_SetsTraceHeader(t *testing.T) {
	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	app := fiber.New()
	app.Use(FiberMiddleware())
	app.Get("/payments/:appointmentId", func(c fiber.Ctx) error {
		if !trace.SpanContextFromContext(c.Context()).IsValid() {
			t.Error("handler context carries no span")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/payments/abc", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(HeaderTraceID) == "" {
		t.Error("missing trace id header")
	}
}
