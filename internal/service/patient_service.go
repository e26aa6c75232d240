package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/contact"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrPatientNotActive = errors.New("patient is not active")

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
	now      func() time.Time
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, cmd *patient.CreatePatientCommand, actor Actor) (*patient.Patient, error) {
	switch actor.Role {
	case domain.RoleCaregiver:
		// caregivers register their own patients
		cmd.CaregiverID = actor.UserID
	case domain.RoleAdmin:
		if cmd.CaregiverID == uuid.Nil {
			return nil, &ValidationError{Fields: []string{"caregiver_id is required"}}
		}
	default:
		return nil, ErrForbidden
	}

	if err := patient.ValidateRegistration(cmd.FullName, cmd.DateOfBirth, cmd.Gender, s.now()); err != nil {
		return nil, err
	}

	cpf, err := document.New(cmd.CPF, document.KindCPF)
	if err != nil {
		return nil, err
	}

	phone, err := optionalPhone(cmd.Phone, "phone")
	if err != nil {
		return nil, err
	}
	emergencyPhone, err := optionalPhone(cmd.EmergencyPhone, "emergency_phone")
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCPF(ctx, cpf)
	if err != nil {
		s.log.Error("failed to check CPF uniqueness", zap.Error(err))
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, patient.ErrPatientAlreadyExists
	}

	p := &patient.Patient{
		ID:                uuid.New(),
		CaregiverID:       cmd.CaregiverID,
		FullName:          strings.TrimSpace(cmd.FullName),
		CPF:               cpf,
		DateOfBirth:       cmd.DateOfBirth,
		Gender:            cmd.Gender,
		Address:           strings.TrimSpace(cmd.Address),
		Phone:             phone,
		EmergencyContact:  strings.TrimSpace(cmd.EmergencyContact),
		EmergencyPhone:    emergencyPhone,
		MedicalConditions: strings.TrimSpace(cmd.MedicalConditions),
		Allergies:         strings.TrimSpace(cmd.Allergies),
		Observations:      strings.TrimSpace(cmd.Observations),
		IsActive:          true,
		CreatedBy:         actor.UserID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, patient.ErrPatientAlreadyExists) {
			return nil, err
		}
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.metrics.PatientsCreatedTotal.Inc()
	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionCreate,
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
	})

	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
		zap.String("created_by", actor.UserID.String()),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID, actor Actor) (*patient.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canRead(p.ID, p.CaregiverID) {
		return nil, ErrForbidden
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionRead,
		ResourceType: "patient",
		ResourceID:   id.String(),
	})

	return p, nil
}

func (s *PatientService) ListPatients(ctx context.Context, q *patient.ListPatientsQuery, actor Actor) (*patient.PagedPatients, error) {
	normalizePage(&q.Page, &q.PageSize)

	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleCaregiver:
		q.CaregiverID = &actor.UserID
	case domain.RoleFamily:
		return s.linkedPatient(ctx, q, actor)
	default:
		return nil, ErrForbidden
	}

	return s.repo.List(ctx, q)
}

// linkedPatient pages over the single patient a family member follows.
func (s *PatientService) linkedPatient(ctx context.Context, q *patient.ListPatientsQuery, actor Actor) (*patient.PagedPatients, error) {
	out := &patient.PagedPatients{Patients: []*patient.Patient{}, Page: q.Page, PageSize: q.PageSize}
	if actor.PatientID == nil {
		return out, nil
	}

	p, err := s.repo.GetByID(ctx, *actor.PatientID)
	if errors.Is(err, patient.ErrPatientNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	if q.IsActive != nil && p.IsActive != *q.IsActive {
		return out, nil
	}

	out.TotalCount = 1
	out.TotalPages = 1
	if q.Page == 1 {
		out.Patients = append(out.Patients, p)
	}
	return out, nil
}

func (s *PatientService) UpdateMedicalInfo(ctx context.Context, id uuid.UUID, cmd *patient.UpdateMedicalInfoCommand, actor Actor) (*patient.Patient, error) {
	p, err := s.writablePatient(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	p.UpdateMedicalInfo(cmd)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating patient: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionUpdate,
		ResourceType: "patient",
		ResourceID:   id.String(),
		Changes:      `{"action":"medical_info_updated"}`,
	})
	return p, nil
}

func (s *PatientService) DeactivatePatient(ctx context.Context, id uuid.UUID, actor Actor) error {
	p, err := s.writablePatient(ctx, id, actor)
	if err != nil {
		return err
	}

	if err := p.Deactivate(); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deleting patient: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionDelete,
		ResourceType: "patient",
		ResourceID:   id.String(),
	})
	return nil
}

func (s *PatientService) writablePatient(ctx context.Context, id uuid.UUID, actor Actor) (*patient.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canWrite(p.CaregiverID) {
		return nil, ErrForbidden
	}
	return p, nil
}

// optionalPhone validates raw when present and returns its digits.
func optionalPhone(raw, field string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	phone, err := contact.NewPhone(raw)
	if err != nil {
		return "", &ValidationError{Fields: []string{field + " is invalid"}}
	}
	return string(phone), nil
}
