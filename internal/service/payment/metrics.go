package payment

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const tracerName = "github.com/Alijeyrad/medibook_backend/internal/service/payment"

const (
	outcomeOK     = "OK"
	outcomeNoop   = "NOOP"
	outcomeRefund = "REFUNDED"
)

type metrics struct {
	reconciliations metric.Int64Counter
	compensations   metric.Int64Counter
}

// newMetrics binds counters on the global meter. Instrument creation only
// fails on invalid names, in which case the noop counter is kept.
func newMetrics() *metrics {
	meter := otel.Meter(tracerName)

	reconciliations, _ := meter.Int64Counter(
		"payment_reconciliations_total",
		metric.WithDescription("Payment reconciliations by outcome code"),
		metric.WithUnit("{reconciliation}"),
	)
	compensations, _ := meter.Int64Counter(
		"payment_compensations_total",
		metric.WithDescription("Refund compensations by outcome"),
		metric.WithUnit("{compensation}"),
	)
	return &metrics{reconciliations: reconciliations, compensations: compensations}
}

func (m *metrics) reconciled(ctx context.Context, outcome string) {
	if m == nil || m.reconciliations == nil {
		return
	}
	m.reconciliations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *metrics) compensated(ctx context.Context, outcome string) {
	if m == nil || m.compensations == nil {
		return
	}
	m.compensations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
