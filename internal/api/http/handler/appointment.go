package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/medibook_backend/internal/service/appointment"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, appointment.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrInvalidDept),
		errors.Is(err, appointment.ErrInvalidPhone),
		errors.Is(err, appointment.ErrInvalidRequest):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrAlreadyCancelled):
		return conflict(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "appointment: unexpected error", "err", err)
		return internalError(c)
	}
}

func appointmentIDParam(c fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// POST /appointments
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	var body struct {
		MemberID           string `json:"member_id"`
		HospitalID         string `json:"hospital_id"`
		Dept               string `json:"dept"`
		Comment            string `json:"comment"`
		AppointName        string `json:"appoint_name"`
		AppointPhonenumber string `json:"appoint_phonenumber"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	memberID, err := uuid.Parse(body.MemberID)
	if err != nil {
		return badRequest(c, "invalid member_id")
	}
	hospitalID, err := uuid.Parse(body.HospitalID)
	if err != nil {
		return badRequest(c, "invalid hospital_id")
	}

	appt, err := h.svc.Book(c.Context(), appointment.BookRequest{
		MemberID:           memberID,
		HospitalID:         hospitalID,
		Dept:               body.Dept,
		Comment:            body.Comment,
		AppointName:        body.AppointName,
		AppointPhonenumber: body.AppointPhonenumber,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, appt)
}

// GET /appointments/:id
func (h *AppointmentHandler) GetByID(c fiber.Ctx) error {
	id, valid := appointmentIDParam(c)
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	appt, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// PATCH /appointments/:id
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	id, valid := appointmentIDParam(c)
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		Dept               *string `json:"dept"`
		Comment            *string `json:"comment"`
		AppointName        *string `json:"appoint_name"`
		AppointPhonenumber *string `json:"appoint_phonenumber"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.Update(c.Context(), id, appointment.UpdateRequest{
		Dept:               body.Dept,
		Comment:            body.Comment,
		AppointName:        body.AppointName,
		AppointPhonenumber: body.AppointPhonenumber,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// POST /appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c fiber.Ctx) error {
	id, valid := appointmentIDParam(c)
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	if err := h.svc.Cancel(c.Context(), id); err != nil {
		return mapAppointmentError(c, err)
	}
	return noContent(c)
}
