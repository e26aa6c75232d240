package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/handler/middleware"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	_ patient.Repository      = (*mockPatientRepository)(nil)
	_ medication.Repository   = (*mockMedicationRepository)(nil)
	_ service.AuditRepository = (*discardAuditRepository)(nil)
)

type mockPatientRepository struct {
	mock.Mock
}

func (m *mockPatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*patient.Patient)
	return p, args.Error(1)
}

func (m *mockPatientRepository) Update(ctx context.Context, p *patient.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPatientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	args := m.Called(ctx, q)
	p, _ := args.Get(0).(*patient.PagedPatients)
	return p, args.Error(1)
}

func (m *mockPatientRepository) ExistsByCPF(ctx context.Context, cpf document.Document) (bool, error) {
	args := m.Called(ctx, cpf)
	return args.Bool(0), args.Error(1)
}

func (m *mockPatientRepository) Stats(ctx context.Context, from, to time.Time) (*patient.Stats, error) {
	args := m.Called(ctx, from, to)
	s, _ := args.Get(0).(*patient.Stats)
	return s, args.Error(1)
}

type mockMedicationRepository struct {
	mock.Mock
}

func (m *mockMedicationRepository) Create(ctx context.Context, med *medication.Medication) error {
	return m.Called(ctx, med).Error(0)
}

func (m *mockMedicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error) {
	args := m.Called(ctx, id)
	med, _ := args.Get(0).(*medication.Medication)
	return med, args.Error(1)
}

func (m *mockMedicationRepository) Update(ctx context.Context, med *medication.Medication) error {
	return m.Called(ctx, med).Error(0)
}

func (m *mockMedicationRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*medication.Medication, error) {
	args := m.Called(ctx, patientID, activeOnly)
	meds, _ := args.Get(0).([]*medication.Medication)
	return meds, args.Error(1)
}

type discardAuditRepository struct {
	mu sync.Mutex
	n  int
}

func (d *discardAuditRepository) Create(context.Context, *domain.AuditLog) error {
	d.mu.Lock()
	d.n++
	d.mu.Unlock()
	return nil
}

type testServer struct {
	router      *gin.Engine
	jwt         *auth.JWTManager
	patients    *mockPatientRepository
	medications *mockMedicationRepository
	medHandler  *MedicationHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	require.NoError(t, RegisterValidators())

	log := zap.NewNop()
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	audit := service.NewAuditService(&discardAuditRepository{}, m, log)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		audit.Shutdown(ctx)
	})

	patients := &mockPatientRepository{}
	meds := &mockMedicationRepository{}

	jwt := auth.NewJWTManager(config.JWTConfig{
		Secret:          "handler-test-secret-0123456789abcdef",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "cuidarplus-test",
	})

	r := gin.New()
	api := r.Group("/api/v1", middleware.RequestID(), middleware.Auth(jwt))
	patientGroup := api.Group("/patients")
	NewPatientHandler(service.NewPatientService(patients, audit, m, log)).Register(patientGroup)
	medHandler := NewMedicationHandler(service.NewMedicationService(meds, patients, audit, m, log))
	medHandler.RegisterPatientRoutes(patientGroup)
	medHandler.Register(api.Group("/medications"))

	return &testServer{router: r, jwt: jwt, patients: patients, medications: meds, medHandler: medHandler}
}

func (s *testServer) token(t *testing.T, userID uuid.UUID, role domain.Role, patientID *uuid.UUID) string {
	t.Helper()
	pair, err := s.jwt.GenerateTokenPair(&domain.Claims{UserID: userID, Email: "user@cuidarplus.com.br", Role: role, PatientID: patientID})
	require.NoError(t, err)
	return pair.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func ownedPatient(t *testing.T, caregiverID uuid.UUID) *patient.Patient {
	t.Helper()
	cpf, err := document.New("529.982.247-25", document.KindCPF)
	require.NoError(t, err)
	return &patient.Patient{
		ID:                uuid.New(),
		CaregiverID:       caregiverID,
		FullName:          "Maria da Silva",
		CPF:               cpf,
		DateOfBirth:       time.Date(1948, 5, 20, 0, 0, 0, 0, time.UTC),
		Gender:            patient.GenderFemale,
		MedicalConditions: "hipertensão",
		IsActive:          true,
	}
}
