package insurer

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/google/uuid"
)

type Repository interface {
	// Create returns ErrInsurerAlreadyExists on duplicate CNPJ.
	Create(ctx context.Context, i *Insurer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Insurer, error)
	Update(ctx context.Context, i *Insurer) error
	List(ctx context.Context, q *ListInsurersQuery) (*PagedInsurers, error)
	ExistsByCNPJ(ctx context.Context, cnpj document.Document) (bool, error)
}
