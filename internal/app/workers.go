package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/medibook_backend/internal/repo"
	"github.com/Alijeyrad/medibook_backend/internal/service/payment"
	"github.com/Alijeyrad/medibook_backend/pkg/constants"
	"github.com/Alijeyrad/medibook_backend/pkg/email"
	svcsms "github.com/Alijeyrad/medibook_backend/pkg/sms"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc    fx.Lifecycle
	NC    *nats.Conn
	DB    *repo.Client
	Email *email.Client
	SMS   *svcsms.Client
}

// AppointmentReader is what the refund notifier needs from the store.
type AppointmentReader interface {
	GetAppointment(ctx context.Context, id uuid.UUID) (*repo.Appointment, error)
}

// RefundNotifier sends the patient-facing refund message.
type RefundNotifier interface {
	SendRefundNotice(ctx context.Context, phoneNumber string, n svcsms.RefundNotice) error
}

// AlertSender delivers operations alerts.
type AlertSender interface {
	Send(ctx context.Context, m email.Message) error
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startAlertWorker(p.NC, p.Email)
			startRefundWorker(p.NC, p.DB, p.SMS)
			startAuditWorker(p.NC)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// appointmentFromSubject extracts the trailing appointment id of a subject
// such as medibook.payment.refunded.<id>.
func appointmentFromSubject(subject string) (uuid.UUID, bool) {
	i := strings.LastIndexByte(subject, '.')
	if i < 0 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(subject[i+1:])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// ---------------------------------------------------------------------------
// alert_worker
// ---------------------------------------------------------------------------

func startAlertWorker(nc *nats.Conn, mailer *email.Client) {
	if !mailer.Enabled() || len(mailer.OpsRecipients()) == 0 {
		slog.Info("alert_worker: email disabled or no ops recipients, skipping")
		return
	}

	_, err := nc.Subscribe(constants.SubjectCompensationFailed+".*", func(msg *nats.Msg) {
		handleCompensationFailed(context.Background(), mailer, mailer.OpsRecipients(), msg)
	})
	if err != nil {
		slog.Error("alert_worker: subscribe compensation_failed failed", "err", err)
		return
	}
	slog.Info("alert_worker: started")
}

func handleCompensationFailed(ctx context.Context, mailer AlertSender, to []string, msg *nats.Msg) {
	var ev payment.CompensationEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		slog.Warn("alert_worker: bad payload", "subject", msg.Subject, "err", err)
		return
	}

	m := email.BuildCompensationAlertEmail(to, email.CompensationAlertData{
		AppointmentID: ev.AppointmentID.String(),
		MerchantUID:   ev.MerchantUID,
		ImpUID:        ev.ImpUID,
		Reason:        ev.Reason,
		Code:          ev.Code,
		Error:         ev.Error,
		At:            ev.At,
		AppName:       constants.AppName,
	})
	if err := mailer.Send(ctx, m); err != nil {
		slog.Error("alert_worker: send alert failed",
			"appointment_id", ev.AppointmentID,
			"merchant_uid", ev.MerchantUID,
			"err", err,
		)
	}
}

// ---------------------------------------------------------------------------
// refund_worker
// ---------------------------------------------------------------------------

func startRefundWorker(nc *nats.Conn, db *repo.Client, smsCli *svcsms.Client) {
	if !smsCli.IsEnabled() {
		slog.Info("refund_worker: sms disabled, skipping")
		return
	}

	_, err := nc.Subscribe(constants.SubjectPaymentRefunded+".*", func(msg *nats.Msg) {
		handleRefunded(context.Background(), db, smsCli, msg)
	})
	if err != nil {
		slog.Error("refund_worker: subscribe refunded failed", "err", err)
		return
	}
	slog.Info("refund_worker: started")
}

func handleRefunded(ctx context.Context, db AppointmentReader, notifier RefundNotifier, msg *nats.Msg) {
	apptID, ok := appointmentFromSubject(msg.Subject)
	if !ok {
		return
	}

	var ev payment.CompensationEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		slog.Warn("refund_worker: bad payload", "subject", msg.Subject, "err", err)
		return
	}

	appt, err := db.GetAppointment(ctx, apptID)
	if err != nil {
		slog.Warn("refund_worker: appointment not found", "id", apptID, "err", err)
		return
	}
	if appt.AppointPhonenumber == "" {
		return
	}

	err = notifier.SendRefundNotice(ctx, appt.AppointPhonenumber, svcsms.RefundNotice{
		PatientName:   appt.AppointName,
		AppointmentID: appt.ID.String(),
		MerchantUID:   ev.MerchantUID,
	})
	if err != nil {
		slog.Warn("refund_worker: send refund notice failed", "appointment_id", apptID, "err", err)
	}
}

// ---------------------------------------------------------------------------
// audit_worker
// ---------------------------------------------------------------------------

func startAuditWorker(nc *nats.Conn) {
	_, err := nc.Subscribe(constants.SubjectPaymentCompleted+".*", func(msg *nats.Msg) {
		var ev payment.CompletedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("audit_worker: bad payload", "subject", msg.Subject, "err", err)
			return
		}
		slog.Info("audit_worker: payment completed",
			"appointment_id", ev.AppointmentID,
			"payment_id", ev.PaymentID,
			"merchant_uid", ev.MerchantUID,
			"amount", ev.Amount,
			"paid_at", ev.PaidAt,
		)
	})
	if err != nil {
		slog.Error("audit_worker: subscribe completed failed", "err", err)
		return
	}
	slog.Info("audit_worker: started")
}
