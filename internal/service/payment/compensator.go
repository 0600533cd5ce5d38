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
	"github.com/Alijeyrad/medibook_backend/pkg/constants"
	"github.com/Alijeyrad/medibook_backend/pkg/iamport"
)

// Compensator cancels a gateway charge that could not be confirmed locally.
// It only talks to the gateway; appointment and payment rows are never
// touched here.
type Compensator struct {
	gw      Gateway
	events  Publisher
	timeout time.Duration
	metrics *metrics
}

func NewCompensator(gw Gateway, events Publisher, cfg config.IamportConfig) *Compensator {
	return &Compensator{
		gw:      gw,
		events:  events,
		timeout: cfg.CancelTimeout(),
		metrics: newMetrics(),
	}
}

// Compensate fully cancels the charge identified by merchantUID. A gateway
// answer that there is nothing to cancel counts as success.
//
// Every call authenticates with a fresh token and runs under its own
// timeout, independent of the caller's cancellation.
func (c *Compensator) Compensate(ctx context.Context, merchantUID string, appointmentID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "payment.Compensate")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.id", appointmentID.String()),
		attribute.String("iamport.merchant_uid", merchantUID),
	)

	err := c.compensate(ctx, merchantUID, appointmentID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.metrics.compensated(ctx, Code(err))
	}
	return err
}

func (c *Compensator) compensate(ctx context.Context, merchantUID string, appointmentID uuid.UUID) error {
	if strings.TrimSpace(merchantUID) == "" {
		return fmt.Errorf("%w: empty merchant_uid", ErrCompensationFailed)
	}

	token, err := c.gw.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}

	reason := cancelReason(appointmentID)
	err = c.gw.Cancel(ctx, token, merchantUID, reason)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "payment: charge cancelled", "appointment_id", appointmentID, "merchant_uid", merchantUID)
		c.metrics.compensated(ctx, outcomeRefund)
		publish(ctx, c.events, constants.SubjectPaymentRefunded, appointmentID, CompensationEvent{
			AppointmentID: appointmentID,
			MerchantUID:   merchantUID,
			Reason:        reason,
			At:            time.Now().UTC(),
		})
		return nil
	case errors.Is(err, iamport.ErrNothingToCancel):
		slog.InfoContext(ctx, "payment: nothing to cancel", "appointment_id", appointmentID, "merchant_uid", merchantUID)
		c.metrics.compensated(ctx, outcomeNoop)
		return nil
	default:
		return fmt.Errorf("%w: %w", ErrCompensationFailed, err)
	}
}

func cancelReason(appointmentID uuid.UUID) string {
	return fmt.Sprintf("payment confirmation failed for appointment %s", appointmentID)
}
