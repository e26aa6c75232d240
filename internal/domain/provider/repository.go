package provider

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/google/uuid"
)

type Repository interface {
	// Create returns ErrProviderAlreadyExists on duplicate document.
	Create(ctx context.Context, p *Provider) error
	GetByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	Update(ctx context.Context, p *Provider) error
	List(ctx context.Context, q *ListProvidersQuery) (*PagedProviders, error)
	ExistsByDocument(ctx context.Context, doc document.Document) (bool, error)
}
