// Package repo is the Postgres persistence layer for appointments and their
// payments.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Client groups the per-table repositories over one *sql.DB.
type Client struct {
	db *sql.DB

	Appointment *AppointmentRepo
	Payment     *PaymentRepo
}

func NewClient(db *sql.DB) *Client {
	return &Client{
		db:          db,
		Appointment: &AppointmentRepo{db: db},
		Payment:     &PaymentRepo{db: db},
	}
}

// DB exposes the underlying handle for health checks.
func (c *Client) DB() *sql.DB { return c.db }

func (c *Client) Close() error { return c.db.Close() }

// GetAppointment, CommitPayment and PaymentByAppointment let *Client serve
// as the payment service's store.

func (c *Client) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return c.Appointment.Get(ctx, id)
}

func (c *Client) CommitPayment(ctx context.Context, p *Payment) error {
	return c.Appointment.CommitPayment(ctx, p)
}

func (c *Client) PaymentByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Payment, error) {
	return c.Payment.GetByAppointment(ctx, appointmentID)
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

type AppointmentRepo struct {
	db *sql.DB
}

const appointmentColumns = `id, member_id, hospital_id, dept, comment, appoint_name, appoint_phonenumber,
       status, pay_status, created_at, updated_at`

func (r *AppointmentRepo) Create(ctx context.Context, a *Appointment) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO appointments (id, member_id, hospital_id, dept, comment, appoint_name, appoint_phonenumber,
                          status, pay_status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.MemberID, a.HospitalID, a.Dept, a.Comment, a.AppointName, a.AppointPhonenumber,
		a.Status, a.PayStatus, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)

	var a Appointment
	err := row.Scan(
		&a.ID, &a.MemberID, &a.HospitalID, &a.Dept, &a.Comment, &a.AppointName, &a.AppointPhonenumber,
		&a.Status, &a.PayStatus, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select appointment: %w", err)
	}
	return &a, nil
}

// UpdateDetails rewrites the editable booking fields of an active appointment.
func (r *AppointmentRepo) UpdateDetails(ctx context.Context, a *Appointment) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE appointments
   SET dept = $2, comment = $3, appoint_name = $4, appoint_phonenumber = $5, updated_at = $6
 WHERE id = $1 AND status = $7`,
		a.ID, a.Dept, a.Comment, a.AppointName, a.AppointPhonenumber, a.UpdatedAt, StatusComplete,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return expectOneRow(res)
}

// Cancel flips status to CANCEL only if the appointment is still active.
func (r *AppointmentRepo) Cancel(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE appointments SET status = $2, updated_at = $3
 WHERE id = $1 AND status = $4`,
		id, StatusCancel, at, StatusComplete,
	)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	return expectOneRow(res)
}

// CommitPayment is the single commit point of a reconciliation. In one
// transaction it moves pay_status NONE -> COMPLETED, guarded by
// pay_status = NONE and status = COMPLETE, and inserts the payment row.
// A lost guard returns ErrPreconditionFailed and writes nothing.
func (r *AppointmentRepo) CommitPayment(ctx context.Context, p *Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit payment: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
UPDATE appointments SET pay_status = $2, updated_at = $3
 WHERE id = $1 AND pay_status = $4 AND status = $5`,
		p.AppointmentID, PayStatusCompleted, p.CreatedAt, PayStatusNone, StatusComplete,
	)
	if err != nil {
		return fmt.Errorf("mark appointment paid: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO payments (id, appointment_id, imp_uid, merchant_uid, amount, paid_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.AppointmentID, p.ImpUID, p.MerchantUID, p.Amount, p.PaidAt, p.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert payment: %w: %s", ErrPreconditionFailed, pqErr.Constraint)
		}
		return fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

type PaymentRepo struct {
	db *sql.DB
}

func (r *PaymentRepo) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Payment, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, appointment_id, imp_uid, merchant_uid, amount, paid_at, created_at
  FROM payments WHERE appointment_id = $1`, appointmentID)

	var p Payment
	if err := row.Scan(&p.ID, &p.AppointmentID, &p.ImpUID, &p.MerchantUID, &p.Amount, &p.PaidAt, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select payment: %w", err)
	}
	return &p, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrPreconditionFailed
	}
	return nil
}
