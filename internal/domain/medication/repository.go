package medication

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Medication) error

	// GetByID returns ErrMedicationNotFound if no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)

	Update(ctx context.Context, m *Medication) error

	// ListByPatient returns the patient's medications oldest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*Medication, error)
}
