package v1

import (
	"net/http"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/medication"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateMedicationHandler_ReturnsWarnings(t *testing.T) {
	s := newTestServer(t)
	caregiverID := uuid.New()
	p := ownedPatient(t, caregiverID)

	eight, err := medication.ParseTimeOfDay("08:00")
	require.NoError(t, err)
	existing := &medication.Medication{
		ID:            uuid.New(),
		PatientID:     p.ID,
		Name:          "Losartana",
		Dosage:        "50mg",
		Frequency:     medication.FrequencyDaily,
		ScheduleTimes: []medication.TimeOfDay{eight},
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}

	s.patients.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	s.medications.On("ListByPatient", mock.Anything, p.ID, true).Return([]*medication.Medication{existing}, nil)
	s.medications.On("Create", mock.Anything, mock.AnythingOfType("*medication.Medication")).Return(nil)

	w := s.do(t, http.MethodPost, "/api/v1/patients/"+p.ID.String()+"/medications", s.token(t, caregiverID, domain.RoleCaregiver, nil), map[string]any{
		"name":           "losartana",
		"dosage":         "25mg",
		"frequency":      "daily",
		"schedule_times": []string{"08:00"},
		"start_date":     "2025-03-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode[APIResponse[medicationCreatedBody]](t, w)
	assert.Equal(t, "losartana", body.Data.Medication.Name)
	assert.Equal(t, []string{
		"Patient is already taking medication with the same name: Losartana",
		"Schedule overlaps with Losartana at times: 08:00",
	}, body.Data.Warnings)
}

// medicationCreatedBody is the wire shape of a create response.
type medicationCreatedBody struct {
	Medication struct {
		Name          string   `json:"name"`
		ScheduleTimes []string `json:"schedule_times"`
	} `json:"medication"`
	Warnings []string `json:"warnings"`
}

func TestCreateMedicationHandler_FamilyForbidden(t *testing.T) {
	s := newTestServer(t)
	p := ownedPatient(t, uuid.New())
	s.patients.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	w := s.do(t, http.MethodPost, "/api/v1/patients/"+p.ID.String()+"/medications", s.token(t, uuid.New(), domain.RoleFamily, &p.ID), map[string]any{
		"name":           "Dipirona",
		"dosage":         "500mg",
		"frequency":      "as_needed",
		"schedule_times": []string{"12:00"},
		"start_date":     "2025-03-01",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDailyScheduleHandler(t *testing.T) {
	s := newTestServer(t)
	caregiverID := uuid.New()
	p := ownedPatient(t, caregiverID)

	eight, _ := medication.ParseTimeOfDay("08:00")
	twenty, _ := medication.ParseTimeOfDay("20:00")
	med := &medication.Medication{
		ID:            uuid.New(),
		PatientID:     p.ID,
		Name:          "Metformina",
		Dosage:        "850mg",
		Frequency:     medication.FrequencyTwiceDaily,
		ScheduleTimes: []medication.TimeOfDay{twenty, eight},
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
	s.patients.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	s.medications.On("ListByPatient", mock.Anything, p.ID, true).Return([]*medication.Medication{med}, nil)

	token := s.token(t, caregiverID, domain.RoleCaregiver, nil)

	w := s.do(t, http.MethodGet, "/api/v1/patients/"+p.ID.String()+"/schedule?date=2025-03-10", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[APIResponse[[]medication.ScheduledDose]](t, w)
	require.Len(t, body.Data, 2)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), body.Data[0].ScheduledAt.UTC())
	assert.Equal(t, time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), body.Data[1].ScheduledAt.UTC())

	w = s.do(t, http.MethodGet, "/api/v1/patients/"+p.ID.String()+"/schedule?date=10/03/2025", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDailyScheduleHandler_DefaultsToTodaysDate(t *testing.T) {
	s := newTestServer(t)
	saoPaulo := time.FixedZone("America/Sao_Paulo", -3*60*60)
	s.medHandler.now = func() time.Time { return time.Date(2025, 3, 10, 23, 30, 0, 0, saoPaulo) }

	caregiverID := uuid.New()
	p := ownedPatient(t, caregiverID)
	eight, _ := medication.ParseTimeOfDay("08:00")
	lastDay := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	med := &medication.Medication{
		ID:            uuid.New(),
		PatientID:     p.ID,
		Name:          "Amoxicilina",
		Dosage:        "500mg",
		Frequency:     medication.FrequencyDaily,
		ScheduleTimes: []medication.TimeOfDay{eight},
		StartDate:     time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC).In(saoPaulo),
		EndDate:       &lastDay,
		IsActive:      true,
	}
	s.patients.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	s.medications.On("ListByPatient", mock.Anything, p.ID, true).Return([]*medication.Medication{med}, nil)

	w := s.do(t, http.MethodGet, "/api/v1/patients/"+p.ID.String()+"/schedule", s.token(t, caregiverID, domain.RoleCaregiver, nil), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[APIResponse[[]medication.ScheduledDose]](t, w)
	require.Len(t, body.Data, 1)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), body.Data[0].ScheduledAt.UTC())
}
