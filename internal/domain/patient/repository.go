package patient

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists on duplicate CPF.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// Update saves every column of p.
	Update(ctx context.Context, p *Patient) error

	// SoftDelete marks the patient as deleted and inactive.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns a paginated, filtered list of patients.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)

	// ExistsByCPF checks for uniqueness without fetching the full record.
	ExistsByCPF(ctx context.Context, cpf document.Document) (bool, error)

	// Stats counts every non-deleted patient, split by active flag, plus the
	// registrations in [from, to).
	Stats(ctx context.Context, from, to time.Time) (*Stats, error)
}

type Stats struct {
	Total    int64
	Active   int64
	Inactive int64
	New      int64
}
