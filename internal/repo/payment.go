package repo

import (
	"time"

	"github.com/google/uuid"
)

// Payment is the confirmed gateway charge for an appointment. It is written
// once, together with the appointment's pay status, and never updated.
type Payment struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ImpUID        string    `json:"imp_uid"`
	MerchantUID   string    `json:"merchant_uid"`
	Amount        int64     `json:"amount"`
	PaidAt        time.Time `json:"paid_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewPayment builds an unsaved Payment bound to appointmentID.
func NewPayment(appointmentID uuid.UUID, impUID, merchantUID string, amount int64, paidAt time.Time) (*Payment, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return &Payment{
		ID:            id,
		AppointmentID: appointmentID,
		ImpUID:        impUID,
		MerchantUID:   merchantUID,
		Amount:        amount,
		PaidAt:        paidAt,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
