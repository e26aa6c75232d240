package service

import (
	"context"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validCPF = "529.982.247-25"

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func setupPatientService(t *testing.T) (*PatientService, *MockPatientRepository, *fakeAuditRepository) {
	t.Helper()
	repo := &MockPatientRepository{}
	audit, auditRepo := testAudit(t)
	svc := NewPatientService(repo, audit, testMetrics(), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, auditRepo
}

func caregiver() Actor {
	return Actor{UserID: uuid.New(), Role: domain.RoleCaregiver, IP: "10.0.0.1"}
}

func admin() Actor {
	return Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func familyOf(patientID uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), Role: domain.RoleFamily, PatientID: &patientID}
}

func ownedPatient(caregiverID uuid.UUID) *patient.Patient {
	cpf, _ := document.New(validCPF, document.KindCPF)
	return &patient.Patient{
		ID:          uuid.New(),
		CaregiverID: caregiverID,
		FullName:    "Maria da Silva",
		CPF:         cpf,
		DateOfBirth: time.Date(1940, 5, 2, 0, 0, 0, 0, time.UTC),
		Gender:      patient.GenderFemale,
		IsActive:    true,
	}
}

func validPatientCommand() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		FullName:       "  Maria da Silva ",
		CPF:            validCPF,
		DateOfBirth:    time.Date(1940, 5, 2, 0, 0, 0, 0, time.UTC),
		Gender:         patient.GenderFemale,
		Phone:          "(11) 98765-4321",
		EmergencyPhone: "",
	}
}

func TestCreatePatient_CaregiverOwnsPatient(t *testing.T) {
	svc, repo, auditRepo := setupPatientService(t)
	actor := caregiver()

	repo.On("ExistsByCPF", mock.Anything, mock.AnythingOfType("document.Document")).Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*patient.Patient")).Return(nil)

	cmd := validPatientCommand()
	cmd.CaregiverID = uuid.New() // ignored for caregivers

	p, err := svc.CreatePatient(context.Background(), cmd, actor)
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, p.CaregiverID)
	assert.Equal(t, "Maria da Silva", p.FullName)
	assert.Equal(t, "52998224725", p.CPF.Digits())
	assert.Equal(t, "11987654321", p.Phone)
	assert.True(t, p.IsActive)
	repo.AssertExpectations(t)

	assert.Eventually(t, func() bool { return len(auditRepo.Entries()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, domain.ActionCreate, auditRepo.Entries()[0].Action)
}

func TestCreatePatient_AdminMustNameCaregiver(t *testing.T) {
	svc, _, _ := setupPatientService(t)

	_, err := svc.CreatePatient(context.Background(), validPatientCommand(), admin())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "caregiver_id is required")
}

func TestCreatePatient_FamilyForbidden(t *testing.T) {
	svc, _, _ := setupPatientService(t)
	_, err := svc.CreatePatient(context.Background(), validPatientCommand(), familyOf(uuid.New()))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreatePatient_InvalidCPF(t *testing.T) {
	svc, repo, _ := setupPatientService(t)
	cmd := validPatientCommand()
	cmd.CPF = "111.111.111-11"

	_, err := svc.CreatePatient(context.Background(), cmd, caregiver())
	assert.ErrorIs(t, err, document.ErrInvalidDocument)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePatient_DuplicateCPF(t *testing.T) {
	svc, repo, _ := setupPatientService(t)
	repo.On("ExistsByCPF", mock.Anything, mock.Anything).Return(true, nil)

	_, err := svc.CreatePatient(context.Background(), validPatientCommand(), caregiver())
	assert.ErrorIs(t, err, patient.ErrPatientAlreadyExists)
}

func TestCreatePatient_InvalidPhone(t *testing.T) {
	svc, _, _ := setupPatientService(t)
	cmd := validPatientCommand()
	cmd.Phone = "123"

	_, err := svc.CreatePatient(context.Background(), cmd, caregiver())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"phone is invalid"}, verr.Fields)
}

func TestGetPatient_Access(t *testing.T) {
	svc, repo, _ := setupPatientService(t)
	owner := caregiver()
	p := ownedPatient(owner.UserID)
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	tests := []struct {
		name  string
		actor Actor
		err   error
	}{
		{"owner", owner, nil},
		{"admin", admin(), nil},
		{"linked family", familyOf(p.ID), nil},
		{"other caregiver", caregiver(), ErrForbidden},
		{"other family", familyOf(uuid.New()), ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetPatient(context.Background(), p.ID, tt.actor)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, p.ID, got.ID)
		})
	}
}

func TestListPatients_ScopesCaregiver(t *testing.T) {
	svc, repo, _ := setupPatientService(t)
	actor := caregiver()

	repo.On("List", mock.Anything, mock.MatchedBy(func(q *patient.ListPatientsQuery) bool {
		return q.CaregiverID != nil && *q.CaregiverID == actor.UserID && q.Page == 1 && q.PageSize == 20
	})).Return(&patient.PagedPatients{}, nil)

	_, err := svc.ListPatients(context.Background(), &patient.ListPatientsQuery{}, actor)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListPatients_FamilySeesLinkedPatientOnly(t *testing.T) {
	svc, repo, _ := setupPatientService(t)
	p := ownedPatient(uuid.New())
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	page, err := svc.ListPatients(context.Background(), &patient.ListPatientsQuery{}, familyOf(p.ID))
	require.NoError(t, err)
	require.Len(t, page.Patients, 1)
	assert.Equal(t, int64(1), page.TotalCount)

	page, err = svc.ListPatients(context.Background(), &patient.ListPatientsQuery{Page: 2}, familyOf(p.ID))
	require.NoError(t, err)
	assert.Empty(t, page.Patients)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestDeactivatePatient(t *testing.T) {
	svc, repo, _ := setupPatientService(t)
	owner := caregiver()
	p := ownedPatient(owner.UserID)
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("SoftDelete", mock.Anything, p.ID).Return(nil).Once()

	assert.ErrorIs(t, svc.DeactivatePatient(context.Background(), p.ID, familyOf(p.ID)), ErrForbidden)

	require.NoError(t, svc.DeactivatePatient(context.Background(), p.ID, owner))
	assert.False(t, p.IsActive)

	assert.ErrorIs(t, svc.DeactivatePatient(context.Background(), p.ID, owner), patient.ErrPatientInactive)
	repo.AssertExpectations(t)
}

func TestUpdateMedicalInfo(t *testing.T) {
	svc, repo, _ := setupPatientService(t)
	owner := caregiver()
	p := ownedPatient(owner.UserID)
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Update", mock.Anything, p).Return(nil)

	allergies := "dipirona"
	got, err := svc.UpdateMedicalInfo(context.Background(), p.ID, &patient.UpdateMedicalInfoCommand{Allergies: &allergies}, owner)
	require.NoError(t, err)
	assert.Equal(t, "dipirona", got.Allergies)
}
