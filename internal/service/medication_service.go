package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MedicationService struct {
	repo        medication.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	metrics     *metrics.Collector
	log         *zap.Logger
	now         func() time.Time
}

func NewMedicationService(
	repo medication.Repository,
	patientRepo patient.Repository,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *MedicationService {
	return &MedicationService{
		repo:        repo,
		patientRepo: patientRepo,
		auditSvc:    auditSvc,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

// MedicationCreated carries the advisory conflict warnings next to the new medication.
type MedicationCreated struct {
	Medication *medication.Medication `json:"medication"`
	Warnings   []string               `json:"warnings"`
}

func (s *MedicationService) CreateMedication(ctx context.Context, cmd *medication.CreateMedicationCommand, actor Actor) (*MedicationCreated, error) {
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

	cmd.CreatedBy = actor.UserID
	m, err := medication.New(cmd)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByPatient(ctx, p.ID, true)
	if err != nil {
		return nil, fmt.Errorf("loading current medications: %w", err)
	}
	warnings := medication.CheckConflicts(existing, m)

	if err := s.repo.Create(ctx, m); err != nil {
		s.log.Error("failed to create medication", zap.Error(err))
		return nil, fmt.Errorf("creating medication: %w", err)
	}

	s.metrics.MedicationsCreatedTotal.Inc()
	if len(warnings) > 0 {
		s.metrics.ConflictWarningsTotal.Add(float64(len(warnings)))
		s.log.Info("medication created with conflict warnings",
			zap.String("medication_id", m.ID.String()),
			zap.String("patient_id", p.ID.String()),
			zap.Strings("warnings", warnings),
		)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionCreate,
		ResourceType: "medication",
		ResourceID:   m.ID.String(),
	})

	return &MedicationCreated{Medication: m, Warnings: warnings}, nil
}

func (s *MedicationService) GetMedication(ctx context.Context, id uuid.UUID, actor Actor) (*medication.Medication, error) {
	m, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canRead(p.ID, p.CaregiverID) {
		return nil, ErrForbidden
	}
	return m, nil
}

func (s *MedicationService) ListPatientMedications(ctx context.Context, patientID uuid.UUID, activeOnly bool, actor Actor) ([]*medication.Medication, error) {
	p, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !actor.canRead(p.ID, p.CaregiverID) {
		return nil, ErrForbidden
	}
	return s.repo.ListByPatient(ctx, patientID, activeOnly)
}

func (s *MedicationService) DeactivateMedication(ctx context.Context, id uuid.UUID, actor Actor) (*medication.Medication, error) {
	m, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canWrite(p.CaregiverID) {
		return nil, ErrForbidden
	}

	if err := m.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("updating medication: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionUpdate,
		ResourceType: "medication",
		ResourceID:   id.String(),
		Changes:      `{"is_active":false}`,
	})
	return m, nil
}

func (s *MedicationService) UpdateSchedule(ctx context.Context, id uuid.UUID, times []medication.TimeOfDay, actor Actor) (*medication.Medication, error) {
	m, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canWrite(p.CaregiverID) {
		return nil, ErrForbidden
	}

	if err := m.UpdateSchedule(times); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("updating medication: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionUpdate,
		ResourceType: "medication",
		ResourceID:   id.String(),
		Changes:      `{"action":"schedule_updated"}`,
	})
	return m, nil
}

// DailySchedule lists the doses of every active medication of the patient on date.
func (s *MedicationService) DailySchedule(ctx context.Context, patientID uuid.UUID, date time.Time, actor Actor) ([]medication.ScheduledDose, error) {
	meds, err := s.ListPatientMedications(ctx, patientID, true, actor)
	if err != nil {
		return nil, err
	}
	return medication.GenerateDailySchedule(meds, date), nil
}

// NextDose returns the zero time for inactive medications.
func (s *MedicationService) NextDose(ctx context.Context, id uuid.UUID, actor Actor) (time.Time, error) {
	m, err := s.GetMedication(ctx, id, actor)
	if err != nil {
		return time.Time{}, err
	}
	if !m.IsActive {
		return time.Time{}, nil
	}
	return medication.NextDose(m, s.now()), nil
}

func (s *MedicationService) load(ctx context.Context, id uuid.UUID) (*medication.Medication, *patient.Patient, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.patientRepo.GetByID(ctx, m.PatientID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading patient: %w", err)
	}
	return m, p, nil
}
