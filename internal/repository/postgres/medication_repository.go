package postgres

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/medication"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ medication.Repository = (*MedicationRepository)(nil)

type MedicationRepository struct {
	db *gorm.DB
}

func NewMedicationRepository(db *gorm.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

func (r *MedicationRepository) Create(ctx context.Context, m *medication.Medication) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MedicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error) {
	var m medication.Medication
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, medication.ErrMedicationNotFound)
	}
	return &m, nil
}

func (r *MedicationRepository) Update(ctx context.Context, m *medication.Medication) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MedicationRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*medication.Medication, error) {
	tx := r.db.WithContext(ctx).Where("patient_id = ?", patientID)
	if activeOnly {
		tx = tx.Where("is_active")
	}

	meds := make([]*medication.Medication, 0)
	if err := tx.Order("created_at ASC").Find(&meds).Error; err != nil {
		return nil, err
	}
	return meds, nil
}
