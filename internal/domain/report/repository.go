package report

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	Update(ctx context.Context, r *Report) error
	List(ctx context.Context, q *ListReportsQuery) (*PagedReports, error)

	// ListByStatus returns reports in status, oldest first, without their summary.
	ListByStatus(ctx context.Context, status Status) ([]*Report, error)
}
