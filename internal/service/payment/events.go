package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher is the subset of *nats.Conn the payment flow needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// CompensationEvent is published on constants.SubjectPaymentRefunded after a
// real refund and on constants.SubjectCompensationFailed when a refund could
// not be issued. Subjects are suffixed with the appointment id.
type CompensationEvent struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	MerchantUID   string    `json:"merchant_uid"`
	ImpUID        string    `json:"imp_uid,omitempty"`
	Reason        string    `json:"reason"`
	Code          string    `json:"code,omitempty"`
	Error         string    `json:"error,omitempty"`
	At            time.Time `json:"at"`
}

// CompletedEvent is published on constants.SubjectPaymentCompleted.
type CompletedEvent struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PaymentID     uuid.UUID `json:"payment_id"`
	MerchantUID   string    `json:"merchant_uid"`
	Amount        int64     `json:"amount"`
	PaidAt        time.Time `json:"paid_at"`
}

// publish is fire-and-forget. A nil Publisher disables events.
func publish(ctx context.Context, pub Publisher, subject string, appointmentID uuid.UUID, v any) {
	if pub == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "payment: marshal event failed", "subject", subject, "err", err)
		return
	}
	if err := pub.Publish(subject+"."+appointmentID.String(), data); err != nil {
		slog.ErrorContext(ctx, "payment: publish event failed", "subject", subject, "appointment_id", appointmentID, "err", err)
	}
}
