package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Alijeyrad/medibook_backend/config"
	"github.com/Alijeyrad/medibook_backend/internal/repo"
	"github.com/Alijeyrad/medibook_backend/pkg/constants"
	"github.com/Alijeyrad/medibook_backend/pkg/iamport"
)

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// Gateway is the part of the iamport client the payment flow uses.
type Gateway interface {
	PaymentByImpUID(ctx context.Context, impUID string) (iamport.Payment, error)
	Authenticate(ctx context.Context) (iamport.AccessToken, error)
	Cancel(ctx context.Context, token iamport.AccessToken, merchantUID, reason string) error
}

// Store reads appointments and commits payments. CommitPayment must be an
// atomic conditional update that returns repo.ErrPreconditionFailed when the
// appointment is no longer payable.
type Store interface {
	GetAppointment(ctx context.Context, id uuid.UUID) (*repo.Appointment, error)
	CommitPayment(ctx context.Context, p *repo.Payment) error
	PaymentByAppointment(ctx context.Context, appointmentID uuid.UUID) (*repo.Payment, error)
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// ReconciliationRequest is the post-checkout callback of one appointment.
type ReconciliationRequest struct {
	AppointmentID         uuid.UUID
	ExternalTransactionID string // iamport imp_uid
	MerchantUID           string
	ClientReportedSuccess bool
	ClientErrorMessage    string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Reconcile confirms a client-reported checkout against the gateway and
	// commits the payment exactly once. Every failure after the gateway was
	// consulted runs a refund before returning.
	Reconcile(ctx context.Context, req ReconciliationRequest) (*repo.Payment, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*repo.Payment, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type paymentService struct {
	store        Store
	gw           Gateway
	compensator  *Compensator
	events       Publisher
	fetchTimeout time.Duration
	metrics      *metrics
}

func New(store Store, gw Gateway, compensator *Compensator, events Publisher, cfg config.IamportConfig) Service {
	return &paymentService{
		store:        store,
		gw:           gw,
		compensator:  compensator,
		events:       events,
		fetchTimeout: cfg.FetchTimeout(),
		metrics:      newMetrics(),
	}
}

func (s *paymentService) Reconcile(ctx context.Context, req ReconciliationRequest) (*repo.Payment, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "payment.Reconcile")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.id", req.AppointmentID.String()),
		attribute.String("iamport.imp_uid", req.ExternalTransactionID),
		attribute.String("iamport.merchant_uid", req.MerchantUID),
	)

	p, err := s.reconcile(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.metrics.reconciled(ctx, Code(err))
		return nil, err
	}
	s.metrics.reconciled(ctx, outcomeOK)
	return p, nil
}

func (s *paymentService) reconcile(ctx context.Context, req ReconciliationRequest) (*repo.Payment, error) {
	if !req.ClientReportedSuccess {
		slog.WarnContext(ctx, "payment: client reported checkout failure",
			"appointment_id", req.AppointmentID,
			"merchant_uid", req.MerchantUID,
			"error_msg", req.ClientErrorMessage,
		)
		if msg := strings.TrimSpace(req.ClientErrorMessage); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrClientReportedFailure, msg)
		}
		return nil, ErrClientReportedFailure
	}

	appt, err := s.store.GetAppointment(ctx, req.AppointmentID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get appointment: %w", ErrPersistence, err)
	}
	if err := payable(appt); err != nil {
		return nil, err
	}

	gp, err := s.fetch(ctx, req.ExternalTransactionID)
	if err != nil {
		return nil, s.fail(ctx, req, err)
	}
	if err := verify(gp, req); err != nil {
		return nil, s.fail(ctx, req, err)
	}

	p, err := repo.NewPayment(appt.ID, gp.ImpUID, gp.MerchantUID, gp.Amount, gp.PaidAt)
	if err != nil {
		return nil, s.fail(ctx, req, fmt.Errorf("%w: %w", ErrPersistence, err))
	}

	if err := s.store.CommitPayment(ctx, p); err != nil {
		if !errors.Is(err, repo.ErrPreconditionFailed) {
			return nil, s.fail(ctx, req, fmt.Errorf("%w: %w", ErrPersistence, err))
		}
		return nil, s.lostCommit(ctx, req)
	}

	slog.InfoContext(ctx, "payment: reconciled",
		"appointment_id", appt.ID,
		"payment_id", p.ID,
		"imp_uid", p.ImpUID,
		"merchant_uid", p.MerchantUID,
		"amount", p.Amount,
	)
	publish(ctx, s.events, constants.SubjectPaymentCompleted, appt.ID, CompletedEvent{
		AppointmentID: appt.ID,
		PaymentID:     p.ID,
		MerchantUID:   p.MerchantUID,
		Amount:        p.Amount,
		PaidAt:        p.PaidAt,
	})
	return p, nil
}

// fetch asks the gateway for the authoritative record under the fetch
// timeout and maps its failures onto ErrTimeout or ErrGateway.
func (s *paymentService) fetch(ctx context.Context, impUID string) (iamport.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	gp, err := s.gw.PaymentByImpUID(ctx, impUID)
	if err == nil {
		return gp, nil
	}
	if errors.Is(err, iamport.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return iamport.Payment{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return iamport.Payment{}, fmt.Errorf("%w: %w", ErrGateway, err)
}

// lostCommit decides what a failed conditional update meant. A concurrent
// winner already holds the charge, so only a cancellation in the meantime
// leaves money to give back.
func (s *paymentService) lostCommit(ctx context.Context, req ReconciliationRequest) error {
	appt, err := s.store.GetAppointment(ctx, req.AppointmentID)
	if err != nil {
		return s.fail(ctx, req, fmt.Errorf("%w: reload appointment: %w", ErrPersistence, err))
	}
	switch err := payable(appt); {
	case errors.Is(err, ErrAlreadyPaid):
		return ErrAlreadyPaid
	case errors.Is(err, ErrAlreadyCancelled):
		return s.fail(ctx, req, ErrAlreadyCancelled)
	default:
		// The appointment is still payable, so the imp_uid is recorded
		// against another appointment. Refunding would undo that payment.
		slog.WarnContext(ctx, "payment: imp_uid already recorded elsewhere",
			"appointment_id", req.AppointmentID,
			"imp_uid", req.ExternalTransactionID,
		)
		return fmt.Errorf("%w: imp_uid %s already recorded", ErrAlreadyPaid, req.ExternalTransactionID)
	}
}

// fail runs the refund for a confirmation that went wrong after the client
// believed it had paid. A refund failure is escalated but never replaces
// the primary error.
func (s *paymentService) fail(ctx context.Context, req ReconciliationRequest, primary error) error {
	slog.WarnContext(ctx, "payment: confirmation failed, compensating",
		"appointment_id", req.AppointmentID,
		"merchant_uid", req.MerchantUID,
		"err", primary,
	)

	compErr := s.compensator.Compensate(ctx, req.MerchantUID, req.AppointmentID)
	if compErr != nil {
		s.escalate(ctx, req, primary, compErr)
	}
	return &ReconcileError{Err: primary, Compensation: compErr}
}

func (s *paymentService) escalate(ctx context.Context, req ReconciliationRequest, primary, compErr error) {
	slog.ErrorContext(ctx, "payment: compensation failed, manual refund required",
		"appointment_id", req.AppointmentID,
		"merchant_uid", req.MerchantUID,
		"imp_uid", req.ExternalTransactionID,
		"code", Code(compErr),
		"primary_err", primary,
		"err", compErr,
	)
	publish(ctx, s.events, constants.SubjectCompensationFailed, req.AppointmentID, CompensationEvent{
		AppointmentID: req.AppointmentID,
		MerchantUID:   req.MerchantUID,
		ImpUID:        req.ExternalTransactionID,
		Reason:        primary.Error(),
		Code:          Code(compErr),
		Error:         compErr.Error(),
		At:            time.Now().UTC(),
	})
}

func (s *paymentService) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*repo.Payment, error) {
	p, err := s.store.PaymentByAppointment(ctx, appointmentID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// payable maps the appointment state guard onto this package's errors.
func payable(a *repo.Appointment) error {
	switch err := a.Payable(); {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrAlreadyPaid):
		return ErrAlreadyPaid
	case errors.Is(err, repo.ErrAlreadyCancelled):
		return ErrAlreadyCancelled
	default:
		return err
	}
}

// verify rejects a gateway record that does not confirm the request.
func verify(gp iamport.Payment, req ReconciliationRequest) error {
	if gp.Status != iamport.StatusPaid {
		return fmt.Errorf("%w: gateway status %q", ErrGateway, gp.Status)
	}
	if req.MerchantUID != "" && gp.MerchantUID != req.MerchantUID {
		return fmt.Errorf("%w: merchant_uid mismatch: gateway %q, request %q", ErrGateway, gp.MerchantUID, req.MerchantUID)
	}
	if gp.Amount <= 0 {
		return fmt.Errorf("%w: non-positive amount %d", ErrGateway, gp.Amount)
	}
	return nil
}
