package payment

import (
	"errors"
	"fmt"
)

var (
	ErrClientReportedFailure = errors.New("client reported checkout failure")
	ErrNotFound              = errors.New("appointment not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrAlreadyPaid           = errors.New("appointment is already paid")
	ErrAlreadyCancelled      = errors.New("appointment is already cancelled")
	ErrGateway               = errors.New("payment gateway rejected or returned malformed data")
	ErrTimeout               = errors.New("payment gateway timed out")
	ErrPersistence           = errors.New("payment could not be recorded")

	// Compensation outcomes. These surface as the secondary error of a
	// ReconcileError, never as the primary one.
	ErrAuthFailure        = errors.New("gateway authentication failed")
	ErrCompensationFailed = errors.New("refund compensation failed")
)

// Stable error codes exposed to API clients.
const (
	CodeClientReportedFailure = "CLIENT_REPORTED_FAILURE"
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyPaid           = "ALREADY_PAID"
	CodeAlreadyCancelled      = "ALREADY_CANCELLED"
	CodeGateway               = "GATEWAY_ERROR"
	CodeTimeout               = "GATEWAY_TIMEOUT"
	CodePersistence           = "PERSISTENCE_ERROR"
	CodeAuthFailure           = "AUTH_FAILURE"
	CodeCompensationFailed    = "COMPENSATION_FAILED"
	CodeInternal              = "INTERNAL_ERROR"
)

// ReconcileError is a failed reconciliation whose failure path ran a refund.
// Err is the primary outcome; Compensation is nil when the refund succeeded
// or was a no-op.
type ReconcileError struct {
	Err          error
	Compensation error
}

func (e *ReconcileError) Error() string {
	if e.Compensation == nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (compensation: %v)", e.Err, e.Compensation)
}

func (e *ReconcileError) Unwrap() []error {
	if e.Compensation == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Compensation}
}

// Code returns the stable code for the primary outcome of err.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var re *ReconcileError
	if errors.As(err, &re) {
		err = re.Err
	}
	switch {
	case errors.Is(err, ErrClientReportedFailure):
		return CodeClientReportedFailure
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPaymentNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyPaid):
		return CodeAlreadyPaid
	case errors.Is(err, ErrAlreadyCancelled):
		return CodeAlreadyCancelled
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrGateway):
		return CodeGateway
	case errors.Is(err, ErrPersistence):
		return CodePersistence
	case errors.Is(err, ErrAuthFailure):
		return CodeAuthFailure
	case errors.Is(err, ErrCompensationFailed):
		return CodeCompensationFailed
	default:
		return CodeInternal
	}
}

// CompensationCode returns the code of the refund failure attached to err,
// or "" when no refund failed.
func CompensationCode(err error) string {
	var re *ReconcileError
	if !errors.As(err, &re) || re.Compensation == nil {
		return ""
	}
	return Code(re.Compensation)
}
