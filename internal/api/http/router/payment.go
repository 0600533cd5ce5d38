package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/medibook_backend/internal/api/http/handler"
)

func (r *Router) registerPaymentRoutes(api fiber.Router, ph *handler.PaymentHandler) {
	// Post-checkout callback from the client, keyed by appointment
	payments := api.Group("/payments")
	payments.Post("/:appointmentId", ph.Reconcile)
	payments.Get("/:appointmentId", ph.Get)
}
