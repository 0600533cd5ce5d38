package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/medibook_backend/internal/api/http/handler"
)

func (r *Router) registerAppointmentRoutes(api fiber.Router, ah *handler.AppointmentHandler) {
	appts := api.Group("/appointments")
	appts.Post("/", ah.Book)

	a := appts.Group("/:id")
	a.Get("/", ah.GetByID)
	a.Patch("/", ah.Update)
	a.Post("/cancel", ah.Cancel)
}
