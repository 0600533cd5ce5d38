package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/medibook_backend/internal/service/payment"
)

type PaymentHandler struct {
	svc payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// paymentStatus maps a stable payment code to its HTTP status.
var paymentStatus = map[string]int{
	payment.CodeClientReportedFailure: fiber.StatusBadRequest,
	payment.CodeNotFound:              fiber.StatusNotFound,
	payment.CodeAlreadyPaid:           fiber.StatusConflict,
	payment.CodeAlreadyCancelled:      fiber.StatusConflict,
	payment.CodeGateway:               fiber.StatusBadGateway,
	payment.CodeTimeout:               fiber.StatusGatewayTimeout,
	payment.CodePersistence:           fiber.StatusInternalServerError,
}

func mapPaymentError(c fiber.Ctx, err error) error {
	code := payment.Code(err)
	status, known := paymentStatus[code]
	if !known {
		slog.ErrorContext(c.Context(), "payment: unexpected error", "err", err)
		return internalError(c)
	}

	var re *payment.ReconcileError
	primary := err
	if errors.As(err, &re) {
		primary = re.Err
	}

	var extra fiber.Map
	if comp := payment.CompensationCode(err); comp != "" {
		extra = fiber.Map{"compensation": comp}
	}
	return coded(c, status, code, rootMessage(primary), extra)
}

// rootMessage returns the message of the outermost sentinel so gateway
// internals are not echoed to clients.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		payment.ErrClientReportedFailure,
		payment.ErrNotFound,
		payment.ErrPaymentNotFound,
		payment.ErrAlreadyPaid,
		payment.ErrAlreadyCancelled,
		payment.ErrTimeout,
		payment.ErrGateway,
		payment.ErrPersistence,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// POST /payments/:appointmentId
func (h *PaymentHandler) Reconcile(c fiber.Ctx) error {
	apptID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		ImpUID      string `json:"imp_uid"`
		MerchantUID string `json:"merchant_uid"`
		Success     bool   `json:"success"`
		ErrorMsg    string `json:"error_msg"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Success && (body.ImpUID == "" || body.MerchantUID == "") {
		return badRequest(c, "imp_uid and merchant_uid are required")
	}

	p, err := h.svc.Reconcile(c.Context(), payment.ReconciliationRequest{
		AppointmentID:         apptID,
		ExternalTransactionID: body.ImpUID,
		MerchantUID:           body.MerchantUID,
		ClientReportedSuccess: body.Success,
		ClientErrorMessage:    body.ErrorMsg,
	})
	if err != nil {
		return mapPaymentError(c, err)
	}
	return created(c, p)
}

// GET /payments/:appointmentId
func (h *PaymentHandler) Get(c fiber.Ctx) error {
	apptID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	p, err := h.svc.GetByAppointment(c.Context(), apptID)
	if err != nil {
		return mapPaymentError(c, err)
	}
	return ok(c, p)
}
