package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/medibook_backend/config"
	"github.com/Alijeyrad/medibook_backend/internal/api/http/router"
	"github.com/Alijeyrad/medibook_backend/internal/app"
)

// Options assembles the full HTTP application graph.
func Options(cfg *config.Config, timeout time.Duration) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module, // This is the http.Module from server.go

		// Invoke *fiber.App because that's what NewServer returns.
		// This forces the creation of fiber.App, triggering the OnStart hook.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(timeout),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	)
}

func Start(cfg *config.Config, timeout time.Duration) {
	fx.New(Options(cfg, timeout)).Run()
}
