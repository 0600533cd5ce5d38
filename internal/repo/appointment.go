package repo

import (
	"time"

	"github.com/google/uuid"
)

// Status is the booking lifecycle of an appointment. COMPLETE means the
// booking was made; CANCEL is terminal.
type Status string

const (
	StatusComplete Status = "COMPLETE"
	StatusCancel   Status = "CANCEL"
)

// PayStatus is the payment axis of an appointment. COMPLETED is terminal.
type PayStatus string

const (
	PayStatusNone      PayStatus = "NONE"
	PayStatusCompleted PayStatus = "COMPLETED"
)

// Dept is the hospital department an appointment is booked with.
type Dept string

const (
	DeptInternalMedicine Dept = "INTERNAL_MEDICINE"
	DeptSurgery          Dept = "SURGERY"
	DeptPediatrics       Dept = "PEDIATRICS"
	DeptObstetrics       Dept = "OBSTETRICS"
	DeptOphthalmology    Dept = "OPHTHALMOLOGY"
	DeptOtolaryngology   Dept = "OTOLARYNGOLOGY"
	DeptDermatology      Dept = "DERMATOLOGY"
	DeptOrthopedics      Dept = "ORTHOPEDICS"
	DeptNeurology        Dept = "NEUROLOGY"
	DeptPsychiatry       Dept = "PSYCHIATRY"
	DeptUrology          Dept = "UROLOGY"
	DeptDental           Dept = "DENTAL"
)

var validDepts = map[Dept]struct{}{
	DeptInternalMedicine: {}, DeptSurgery: {}, DeptPediatrics: {}, DeptObstetrics: {},
	DeptOphthalmology: {}, DeptOtolaryngology: {}, DeptDermatology: {}, DeptOrthopedics: {},
	DeptNeurology: {}, DeptPsychiatry: {}, DeptUrology: {}, DeptDental: {},
}

// Valid reports whether d is a known department.
func (d Dept) Valid() bool {
	_, ok := validDepts[d]
	return ok
}

type Appointment struct {
	ID                 uuid.UUID `json:"id"`
	MemberID           uuid.UUID `json:"member_id"`
	HospitalID         uuid.UUID `json:"hospital_id"`
	Dept               Dept      `json:"dept"`
	Comment            string    `json:"comment"`
	AppointName        string    `json:"appoint_name"`
	AppointPhonenumber string    `json:"appoint_phonenumber"`
	Status             Status    `json:"status"`
	PayStatus          PayStatus `json:"pay_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewAppointment builds a freshly booked appointment: status COMPLETE,
// pay status NONE.
func NewAppointment(memberID, hospitalID uuid.UUID, dept Dept, comment, name, phone string) (*Appointment, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Appointment{
		ID:                 id,
		MemberID:           memberID,
		HospitalID:         hospitalID,
		Dept:               dept,
		Comment:            comment,
		AppointName:        name,
		AppointPhonenumber: phone,
		Status:             StatusComplete,
		PayStatus:          PayStatusNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Payable reports whether a payment may still be committed against a.
func (a *Appointment) Payable() error {
	if a.PayStatus == PayStatusCompleted {
		return ErrAlreadyPaid
	}
	if a.Status == StatusCancel {
		return ErrAlreadyCancelled
	}
	return nil
}

// Cancel moves the appointment to CANCEL. A second cancel is an error.
func (a *Appointment) Cancel() error {
	if a.Status == StatusCancel {
		return ErrAlreadyCancelled
	}
	a.Status = StatusCancel
	a.UpdatedAt = time.Now().UTC()
	return nil
}
