package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/medibook_backend/config"
	"github.com/Alijeyrad/medibook_backend/internal/api/http/handler"
	"github.com/Alijeyrad/medibook_backend/internal/repo"
	"github.com/Alijeyrad/medibook_backend/internal/service/appointment"
	"github.com/Alijeyrad/medibook_backend/internal/service/payment"
	"github.com/Alijeyrad/medibook_backend/pkg/database"
	"github.com/Alijeyrad/medibook_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/medibook_backend/pkg/redis"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg            *config.Config
	Redis          *redis.Client
	DB             *repo.Client
	AppointmentSvc appointment.Service
	PaymentSvc     payment.Service
	OTel           *observability.Provider `optional:"true"`
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Handlers
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc)
	paymentH := handler.NewPaymentHandler(r.p.PaymentSvc)

	api := app.Group("/api/v1")

	// 3. Delegate to sub-files
	r.registerAppointmentRoutes(api, appointmentH)
	r.registerPaymentRoutes(api, paymentH)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.ready(c.Context()) },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.OTel != nil && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(r.p.OTel.MetricsHandler()))
	}
}

// ready reports whether Postgres and Redis both answer.
func (r *Router) ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := database.Ping(ctx, r.p.DB.DB()); err != nil {
		slog.WarnContext(ctx, "readiness: database unavailable", "err", err)
		return false
	}
	if r.p.Redis != nil {
		if err := redispkg.Ping(ctx, r.p.Redis); err != nil {
			slog.WarnContext(ctx, "readiness: redis unavailable", "err", err)
			return false
		}
	}
	return true
}
