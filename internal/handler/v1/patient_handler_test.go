package v1

import (
	"net/http"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePatientHandler(t *testing.T) {
	s := newTestServer(t)
	caregiverID := uuid.New()
	token := s.token(t, caregiverID, domain.RoleCaregiver, nil)

	s.patients.On("ExistsByCPF", mock.Anything, mock.Anything).Return(false, nil)
	s.patients.On("Create", mock.Anything, mock.AnythingOfType("*patient.Patient")).Return(nil)

	w := s.do(t, http.MethodPost, "/api/v1/patients", token, map[string]any{
		"full_name":          "Maria da Silva",
		"cpf":                "529.982.247-25",
		"date_of_birth":      "1948-05-20",
		"gender":             "F",
		"phone":              "(11) 98765-4321",
		"medical_conditions": "hipertensão",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode[APIResponse[map[string]any]](t, w)
	assert.Equal(t, "Maria da Silva", body.Data["full_name"])
	assert.Equal(t, caregiverID.String(), body.Data["caregiver_id"])
	assert.Equal(t, string(patient.RiskHigh), body.Data["risk_level"])
	assert.Equal(t, true, body.Data["requires_companion"])
	assert.Greater(t, body.Data["age"], float64(70))
}

func TestCreatePatientHandler_BindingErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, uuid.New(), domain.RoleCaregiver, nil)

	w := s.do(t, http.MethodPost, "/api/v1/patients", token, map[string]any{
		"full_name":       "Maria da Silva",
		"cpf":             "111.111.111-11",
		"date_of_birth":   "1948-05-20",
		"gender":          "X",
		"emergency_phone": "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[ValidationErrorResponse](t, w)
	assert.Equal(t, "validation failed", body.Error)
	assert.ElementsMatch(t, []string{
		"cpf must be a valid CPF",
		"gender must be one of: M F Other",
		"emergency_phone must be a valid Brazilian phone number",
	}, body.Fields)
	s.patients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetPatientHandler(t *testing.T) {
	s := newTestServer(t)
	caregiverID := uuid.New()
	p := ownedPatient(t, caregiverID)
	s.patients.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	s.patients.On("GetByID", mock.Anything, mock.Anything).Return(nil, patient.ErrPatientNotFound)

	t.Run("owner", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/patients/"+p.ID.String(), s.token(t, caregiverID, domain.RoleCaregiver, nil), nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[APIResponse[map[string]any]](t, w)
		assert.Equal(t, "529.982.247-25", body.Data["cpf"])
	})

	t.Run("linked family member", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/patients/"+p.ID.String(), s.token(t, uuid.New(), domain.RoleFamily, &p.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other caregiver", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/patients/"+p.ID.String(), s.token(t, uuid.New(), domain.RoleCaregiver, nil), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/patients/"+uuid.NewString(), s.token(t, caregiverID, domain.RoleAdmin, nil), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"patient not found"}`, w.Body.String())
	})

	t.Run("malformed id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/patients/not-a-uuid", s.token(t, caregiverID, domain.RoleAdmin, nil), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no token", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/patients/"+p.ID.String(), "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDeactivatePatientHandler(t *testing.T) {
	s := newTestServer(t)
	caregiverID := uuid.New()
	p := ownedPatient(t, caregiverID)
	s.patients.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	s.patients.On("SoftDelete", mock.Anything, p.ID).Return(nil)

	w := s.do(t, http.MethodDelete, "/api/v1/patients/"+p.ID.String(), s.token(t, uuid.New(), domain.RoleFamily, &p.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/patients/"+p.ID.String(), s.token(t, caregiverID, domain.RoleCaregiver, nil), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	s.patients.AssertCalled(t, "SoftDelete", mock.Anything, p.ID)
}
