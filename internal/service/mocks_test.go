package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/insurer"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/inventory"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/provider"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var (
	_ patient.Repository     = (*MockPatientRepository)(nil)
	_ medication.Repository  = (*MockMedicationRepository)(nil)
	_ appointment.Repository = (*MockAppointmentRepository)(nil)
	_ inventory.Repository   = (*MockInventoryRepository)(nil)
	_ report.Repository      = (*MockReportRepository)(nil)
	_ insurer.Repository     = (*MockInsurerRepository)(nil)
	_ provider.Repository    = (*MockProviderRepository)(nil)
	_ UserRepository         = (*MockUserRepository)(nil)
	_ AuditRepository        = (*fakeAuditRepository)(nil)
	_ Notifier               = (*MockNotifier)(nil)
)

// get returns the i-th return value as T, or T's zero value when nil was configured.
func get[T any](args mock.Arguments, i int) T {
	var zero T
	v := args.Get(i)
	if v == nil {
		return zero
	}
	return v.(T)
}

func testMetrics() *metrics.Collector {
	return metrics.NewCollector("test", prometheus.NewRegistry())
}

// testAudit returns an audit service whose persisted entries the test can inspect.
func testAudit(t *testing.T) (*AuditService, *fakeAuditRepository) {
	t.Helper()
	repo := &fakeAuditRepository{}
	svc := newAuditService(repo, testMetrics(), zap.NewNop(), 100)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		svc.Shutdown(ctx)
	})
	return svc, repo
}

type fakeAuditRepository struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (f *fakeAuditRepository) Create(_ context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepository) Entries() []*domain.AuditLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.AuditLog(nil), f.entries...)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, id)
	return get[*patient.Patient](args, 0), args.Error(1)
}

func (m *MockPatientRepository) Update(ctx context.Context, p *patient.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPatientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	args := m.Called(ctx, q)
	return get[*patient.PagedPatients](args, 0), args.Error(1)
}

func (m *MockPatientRepository) ExistsByCPF(ctx context.Context, cpf document.Document) (bool, error) {
	args := m.Called(ctx, cpf)
	return args.Bool(0), args.Error(1)
}

func (m *MockPatientRepository) Stats(ctx context.Context, from, to time.Time) (*patient.Stats, error) {
	args := m.Called(ctx, from, to)
	return get[*patient.Stats](args, 0), args.Error(1)
}

type MockMedicationRepository struct {
	mock.Mock
}

func (m *MockMedicationRepository) Create(ctx context.Context, med *medication.Medication) error {
	return m.Called(ctx, med).Error(0)
}

func (m *MockMedicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error) {
	args := m.Called(ctx, id)
	return get[*medication.Medication](args, 0), args.Error(1)
}

func (m *MockMedicationRepository) Update(ctx context.Context, med *medication.Medication) error {
	return m.Called(ctx, med).Error(0)
}

func (m *MockMedicationRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*medication.Medication, error) {
	args := m.Called(ctx, patientID, activeOnly)
	return get[[]*medication.Medication](args, 0), args.Error(1)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	args := m.Called(ctx, id)
	return get[*appointment.Appointment](args, 0), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	args := m.Called(ctx, q)
	return get[*appointment.PagedAppointments](args, 0), args.Error(1)
}

func (m *MockAppointmentRepository) DueForReminder(ctx context.Context, from, to time.Time) ([]*appointment.Appointment, error) {
	args := m.Called(ctx, from, to)
	return get[[]*appointment.Appointment](args, 0), args.Error(1)
}

func (m *MockAppointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAppointmentRepository) CountByStatusBetween(ctx context.Context, from, to time.Time) (map[appointment.AppointmentStatus]int64, error) {
	args := m.Called(ctx, from, to)
	return get[map[appointment.AppointmentStatus]int64](args, 0), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock

	rowLock   sync.Mutex
	movements []*inventory.Movement
}

func (m *MockInventoryRepository) Create(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	return get[*inventory.Item](args, 0), args.Error(1)
}

func (m *MockInventoryRepository) Update(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockInventoryRepository) List(ctx context.Context, q *inventory.ListItemsQuery) (*inventory.PagedItems, error) {
	args := m.Called(ctx, q)
	return get[*inventory.PagedItems](args, 0), args.Error(1)
}

func (m *MockInventoryRepository) ListLowStock(ctx context.Context) ([]*inventory.Item, error) {
	args := m.Called(ctx)
	return get[[]*inventory.Item](args, 0), args.Error(1)
}

// ApplyMovement stands in for the row lock with a mutex. The configured item is
// updated only when apply succeeds, and a copy is returned.
func (m *MockInventoryRepository) ApplyMovement(ctx context.Context, id uuid.UUID, apply func(*inventory.Item) (*inventory.Movement, error)) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	item := get[*inventory.Item](args, 0)

	m.rowLock.Lock()
	defer m.rowLock.Unlock()

	working := *item
	mv, err := apply(&working)
	if err != nil {
		return nil, err
	}
	*item = working
	m.movements = append(m.movements, mv)
	return &working, nil
}

func (m *MockInventoryRepository) savedMovements() []*inventory.Movement {
	m.rowLock.Lock()
	defer m.rowLock.Unlock()
	return append([]*inventory.Movement(nil), m.movements...)
}

func (m *MockInventoryRepository) ListMovements(ctx context.Context, itemID uuid.UUID, limit int) ([]*inventory.Movement, error) {
	args := m.Called(ctx, itemID, limit)
	return get[[]*inventory.Movement](args, 0), args.Error(1)
}

func (m *MockInventoryRepository) ListAll(ctx context.Context) ([]*inventory.Item, error) {
	args := m.Called(ctx)
	return get[[]*inventory.Item](args, 0), args.Error(1)
}

func (m *MockInventoryRepository) MovementTotals(ctx context.Context, from, to time.Time) (float64, float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, r *report.Report) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	args := m.Called(ctx, id)
	return get[*report.Report](args, 0), args.Error(1)
}

func (m *MockReportRepository) Update(ctx context.Context, r *report.Report) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReportRepository) List(ctx context.Context, q *report.ListReportsQuery) (*report.PagedReports, error) {
	args := m.Called(ctx, q)
	return get[*report.PagedReports](args, 0), args.Error(1)
}

func (m *MockReportRepository) ListByStatus(ctx context.Context, status report.Status) ([]*report.Report, error) {
	args := m.Called(ctx, status)
	return get[[]*report.Report](args, 0), args.Error(1)
}

type MockInsurerRepository struct {
	mock.Mock
}

func (m *MockInsurerRepository) Create(ctx context.Context, i *insurer.Insurer) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockInsurerRepository) GetByID(ctx context.Context, id uuid.UUID) (*insurer.Insurer, error) {
	args := m.Called(ctx, id)
	return get[*insurer.Insurer](args, 0), args.Error(1)
}

func (m *MockInsurerRepository) Update(ctx context.Context, i *insurer.Insurer) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockInsurerRepository) List(ctx context.Context, q *insurer.ListInsurersQuery) (*insurer.PagedInsurers, error) {
	args := m.Called(ctx, q)
	return get[*insurer.PagedInsurers](args, 0), args.Error(1)
}

func (m *MockInsurerRepository) ExistsByCNPJ(ctx context.Context, cnpj document.Document) (bool, error) {
	args := m.Called(ctx, cnpj)
	return args.Bool(0), args.Error(1)
}

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Create(ctx context.Context, p *provider.Provider) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error) {
	args := m.Called(ctx, id)
	return get[*provider.Provider](args, 0), args.Error(1)
}

func (m *MockProviderRepository) Update(ctx context.Context, p *provider.Provider) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProviderRepository) List(ctx context.Context, q *provider.ListProvidersQuery) (*provider.PagedProviders, error) {
	args := m.Called(ctx, q)
	return get[*provider.PagedProviders](args, 0), args.Error(1)
}

func (m *MockProviderRepository) ExistsByDocument(ctx context.Context, doc document.Document) (bool, error) {
	args := m.Called(ctx, doc)
	return args.Bool(0), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return get[*domain.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	return get[*domain.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, q *domain.ListUsersQuery) (*domain.PagedUsers, error) {
	args := m.Called(ctx, q)
	return get[*domain.PagedUsers](args, 0), args.Error(1)
}

func (m *MockUserRepository) UpdateLoginState(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, changedAt time.Time) error {
	return m.Called(ctx, id, hash, changedAt).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAppointment(ctx context.Context, a *appointment.Appointment) error {
	return m.Called(ctx, a).Error(0)
}
