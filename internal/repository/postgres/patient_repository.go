package postgres

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ patient.Repository = (*PatientRepository)(nil)

type PatientRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db, now: time.Now}
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return patient.ErrPatientAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).Scopes(notDeleted).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, notFound(err, patient.ErrPatientNotFound)
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PatientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Scopes(notDeleted).
		Where("id = ?", id).
		Updates(map[string]any{"deleted_at": r.now(), "is_active": false})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

var patientSortColumns = map[string]string{
	"full_name":  "full_name",
	"created_at": "created_at",
}

func (r *PatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	tx := r.db.WithContext(ctx).Model(&patient.Patient{}).Scopes(notDeleted)
	if q.CaregiverID != nil {
		tx = tx.Where("caregiver_id = ?", *q.CaregiverID)
	}
	if q.IsActive != nil {
		tx = tx.Where("is_active = ?", *q.IsActive)
	}
	if q.Search != "" {
		tx = tx.Where("full_name ILIKE ?", likePattern(q.Search))
	}

	var count int64
	if err := tx.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	col, ok := patientSortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if q.SortOrder == "asc" {
		dir = "ASC"
	}

	patients := make([]*patient.Patient, 0)
	if err := tx.Order(col + " " + dir).Scopes(paginate(q.Page, q.PageSize)).Find(&patients).Error; err != nil {
		return nil, err
	}

	return &patient.PagedPatients{
		Patients:   patients,
		TotalCount: count,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(count, q.PageSize),
	}, nil
}

func (r *PatientRepository) ExistsByCPF(ctx context.Context, cpf document.Document) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Scopes(notDeleted).
		Where("cpf = ?", cpf).
		Count(&count).Error
	return count > 0, err
}

func (r *PatientRepository) Stats(ctx context.Context, from, to time.Time) (*patient.Stats, error) {
	var st patient.Stats
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Scopes(notDeleted).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active) AS active,
			COUNT(*) FILTER (WHERE NOT is_active) AS inactive,
			COUNT(*) FILTER (WHERE created_at >= ? AND created_at < ?) AS "new"`, from, to).
		Scan(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}
