package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/medibook_backend/internal/repo"
	"github.com/Alijeyrad/medibook_backend/pkg/sms"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type BookRequest struct {
	MemberID           uuid.UUID
	HospitalID         uuid.UUID
	Dept               string
	Comment            string
	AppointName        string
	AppointPhonenumber string
}

type UpdateRequest struct {
	Dept               *string
	Comment            *string
	AppointName        *string
	AppointPhonenumber *string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Book(ctx context.Context, req BookRequest) (*repo.Appointment, error)
	GetByID(ctx context.Context, apptID uuid.UUID) (*repo.Appointment, error)
	Update(ctx context.Context, apptID uuid.UUID, req UpdateRequest) (*repo.Appointment, error)
	Cancel(ctx context.Context, apptID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	db     *repo.Client
	region string
}

// New builds the service. region is the default region used to normalize
// appointment phone numbers.
func New(db *repo.Client, region string) Service {
	return &appointmentService{db: db, region: region}
}

func (s *appointmentService) Book(ctx context.Context, req BookRequest) (*repo.Appointment, error) {
	if req.MemberID == uuid.Nil || req.HospitalID == uuid.Nil {
		return nil, fmt.Errorf("%w: member_id and hospital_id are required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.AppointName) == "" {
		return nil, fmt.Errorf("%w: appoint_name is required", ErrInvalidRequest)
	}

	dept := repo.Dept(strings.ToUpper(strings.TrimSpace(req.Dept)))
	if !dept.Valid() {
		return nil, ErrInvalidDept
	}
	phone, err := sms.NormalizePhone(req.AppointPhonenumber, s.region)
	if err != nil {
		return nil, ErrInvalidPhone
	}

	appt, err := repo.NewAppointment(req.MemberID, req.HospitalID, dept, req.Comment, strings.TrimSpace(req.AppointName), phone)
	if err != nil {
		return nil, fmt.Errorf("new appointment: %w", err)
	}
	if err := s.db.Appointment.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	slog.InfoContext(ctx, "appointment: booked", "appointment_id", appt.ID, "dept", appt.Dept)
	return appt, nil
}

func (s *appointmentService) GetByID(ctx context.Context, apptID uuid.UUID) (*repo.Appointment, error) {
	appt, err := s.db.Appointment.Get(ctx, apptID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

func (s *appointmentService) Update(ctx context.Context, apptID uuid.UUID, req UpdateRequest) (*repo.Appointment, error) {
	appt, err := s.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.Status == repo.StatusCancel {
		return nil, ErrAlreadyCancelled
	}

	if req.Dept != nil {
		dept := repo.Dept(strings.ToUpper(strings.TrimSpace(*req.Dept)))
		if !dept.Valid() {
			return nil, ErrInvalidDept
		}
		appt.Dept = dept
	}
	if req.Comment != nil {
		appt.Comment = *req.Comment
	}
	if req.AppointName != nil {
		name := strings.TrimSpace(*req.AppointName)
		if name == "" {
			return nil, fmt.Errorf("%w: appoint_name is required", ErrInvalidRequest)
		}
		appt.AppointName = name
	}
	if req.AppointPhonenumber != nil {
		phone, err := sms.NormalizePhone(*req.AppointPhonenumber, s.region)
		if err != nil {
			return nil, ErrInvalidPhone
		}
		appt.AppointPhonenumber = phone
	}
	appt.UpdatedAt = time.Now().UTC()

	if err := s.db.Appointment.UpdateDetails(ctx, appt); err != nil {
		if errors.Is(err, repo.ErrPreconditionFailed) {
			return nil, ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return appt, nil
}

// Cancel is one-way. Cancelling twice is an error, also when two cancels
// race past the read.
func (s *appointmentService) Cancel(ctx context.Context, apptID uuid.UUID) error {
	appt, err := s.GetByID(ctx, apptID)
	if err != nil {
		return err
	}
	if err := appt.Cancel(); err != nil {
		return ErrAlreadyCancelled
	}

	if err := s.db.Appointment.Cancel(ctx, appt.ID, appt.UpdatedAt); err != nil {
		if errors.Is(err, repo.ErrPreconditionFailed) {
			return ErrAlreadyCancelled
		}
		return fmt.Errorf("cancel appointment: %w", err)
	}

	slog.InfoContext(ctx, "appointment: cancelled", "appointment_id", appt.ID, "pay_status", appt.PayStatus)
	return nil
}
