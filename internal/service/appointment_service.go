package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/provider"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentService struct {
	repo         appointment.Repository
	patientRepo  patient.Repository
	providerRepo provider.Repository
	auditSvc     *AuditService
	metrics      *metrics.Collector
	log          *zap.Logger
	now          func() time.Time
}

func NewAppointmentService(
	repo appointment.Repository,
	patientRepo patient.Repository,
	providerRepo provider.Repository,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:         repo,
		patientRepo:  patientRepo,
		providerRepo: providerRepo,
		auditSvc:     auditSvc,
		metrics:      m,
		log:          log,
		now:          time.Now,
	}
}

func (s *AppointmentService) ScheduleAppointment(ctx context.Context, cmd *appointment.CreateAppointmentCommand, actor Actor) (*appointment.Appointment, error) {
	// ── Verify patient is active and ours ─────────────────────────────────
	p, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !actor.canWrite(p.CaregiverID) {
		return nil, ErrForbidden
	}
	if !p.IsActive {
		return nil, ErrPatientNotActive
	}

	if cmd.ProviderID != nil {
		if _, err := s.providerRepo.GetByID(ctx, *cmd.ProviderID); err != nil {
			return nil, fmt.Errorf("verifying provider: %w", err)
		}
	}

	cmd.CreatedBy = actor.UserID
	a, err := appointment.New(cmd, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionCreate,
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
	})

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID, actor Actor) (*appointment.Appointment, error) {
	a, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canRead(p.ID, p.CaregiverID) {
		return nil, ErrForbidden
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionRead,
		ResourceType: "appointment",
		ResourceID:   id.String(),
	})

	return a, nil
}

func (s *AppointmentService) CancelAppointment(ctx context.Context, id uuid.UUID, actor Actor) (*appointment.Appointment, error) {
	return s.transition(ctx, id, actor, func(a *appointment.Appointment, now time.Time) error {
		return a.Cancel(now)
	})
}

func (s *AppointmentService) CompleteAppointment(ctx context.Context, id uuid.UUID, actor Actor) (*appointment.Appointment, error) {
	return s.transition(ctx, id, actor, func(a *appointment.Appointment, now time.Time) error {
		return a.Complete(now)
	})
}

func (s *AppointmentService) RescheduleAppointment(ctx context.Context, id uuid.UUID, cmd *appointment.RescheduleAppointmentCommand, actor Actor) (*appointment.Appointment, error) {
	return s.transition(ctx, id, actor, func(a *appointment.Appointment, now time.Time) error {
		return a.Reschedule(cmd.ScheduledAt, cmd.DurationMins, now)
	})
}

func (s *AppointmentService) transition(
	ctx context.Context,
	id uuid.UUID,
	actor Actor,
	apply func(*appointment.Appointment, time.Time) error,
) (*appointment.Appointment, error) {
	a, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canWrite(p.CaregiverID) {
		return nil, ErrForbidden
	}

	before := a.Status
	if err := apply(a, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	if a.Status != before {
		s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}
	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionUpdate,
		ResourceType: "appointment",
		ResourceID:   id.String(),
		Changes:      fmt.Sprintf(`{"status":%q,"scheduled_at":%q}`, a.Status, a.ScheduledAt.Format(time.RFC3339)),
	})

	return a, nil
}

func (s *AppointmentService) ListAppointments(ctx context.Context, q *appointment.ListAppointmentsQuery, actor Actor) (*appointment.PagedAppointments, error) {
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleCaregiver:
		q.CaregiverID = &actor.UserID
	case domain.RoleFamily:
		if actor.PatientID == nil {
			return nil, ErrForbidden
		}
		q.PatientID = actor.PatientID
	default:
		return nil, ErrForbidden
	}

	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}

func (s *AppointmentService) load(ctx context.Context, id uuid.UUID) (*appointment.Appointment, *patient.Patient, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.patientRepo.GetByID(ctx, a.PatientID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading patient: %w", err)
	}
	return a, p, nil
}
