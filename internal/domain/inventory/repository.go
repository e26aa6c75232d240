package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, item *Item) error
	List(ctx context.Context, q *ListItemsQuery) (*PagedItems, error)

	// ListLowStock returns items at or below their minimum, out of stock included.
	ListLowStock(ctx context.Context) ([]*Item, error)

	// ApplyMovement loads the item under a row lock, runs apply on it and persists
	// the item with the returned movement in one transaction. Errors from apply are
	// returned unchanged and nothing is written.
	ApplyMovement(ctx context.Context, id uuid.UUID, apply func(*Item) (*Movement, error)) (*Item, error)

	// ListMovements returns movements for an item, newest first.
	ListMovements(ctx context.Context, itemID uuid.UUID, limit int) ([]*Movement, error)

	// ListAll returns every non-deleted item; used by inventory reports.
	ListAll(ctx context.Context) ([]*Item, error)

	// MovementTotals prices the IN movements at cost and the OUT movements at sale
	// price for movements created in [from, to).
	MovementTotals(ctx context.Context, from, to time.Time) (in, out float64, err error)
}
