package postgres

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/inventory"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ inventory.Repository = (*InventoryRepository)(nil)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, item *inventory.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if isUniqueViolation(err) {
			return inventory.ErrItemAlreadyExists
		}
		return err
	}
	return nil
}

func (r *InventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	err := r.db.WithContext(ctx).Scopes(notDeleted).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, notFound(err, inventory.ErrItemNotFound)
	}
	return &item, nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *InventoryRepository) List(ctx context.Context, q *inventory.ListItemsQuery) (*inventory.PagedItems, error) {
	tx := r.db.WithContext(ctx).Model(&inventory.Item{}).Scopes(notDeleted)
	if q.Category != nil {
		tx = tx.Where("category = ?", *q.Category)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.Search != "" {
		p := likePattern(q.Search)
		tx = tx.Where("name ILIKE ? OR code ILIKE ? OR barcode ILIKE ?", p, p, p)
	}

	var count int64
	if err := tx.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	items := make([]*inventory.Item, 0)
	if err := tx.Order("name ASC").Scopes(paginate(q.Page, q.PageSize)).Find(&items).Error; err != nil {
		return nil, err
	}

	return &inventory.PagedItems{
		Items:      items,
		TotalCount: count,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(count, q.PageSize),
	}, nil
}

func (r *InventoryRepository) ListLowStock(ctx context.Context) ([]*inventory.Item, error) {
	items := make([]*inventory.Item, 0)
	err := r.db.WithContext(ctx).Scopes(notDeleted).
		Where("quantity <= min_quantity").
		Order("quantity ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ApplyMovement holds SELECT ... FOR UPDATE on the item until commit, so
// concurrent movements on one item run one after the other.
func (r *InventoryRepository) ApplyMovement(
	ctx context.Context,
	id uuid.UUID,
	apply func(*inventory.Item) (*inventory.Movement, error),
) (*inventory.Item, error) {
	var item inventory.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Scopes(notDeleted).
			Where("id = ?", id).
			First(&item).Error
		if err != nil {
			return notFound(err, inventory.ErrItemNotFound)
		}

		m, err := apply(&item)
		if err != nil {
			return err
		}

		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) ListMovements(ctx context.Context, itemID uuid.UUID, limit int) ([]*inventory.Movement, error) {
	movements := make([]*inventory.Movement, 0)
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *InventoryRepository) ListAll(ctx context.Context) ([]*inventory.Item, error) {
	items := make([]*inventory.Item, 0)
	if err := r.db.WithContext(ctx).Scopes(notDeleted).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InventoryRepository) MovementTotals(ctx context.Context, from, to time.Time) (in, out float64, err error) {
	var totals struct {
		In  float64
		Out float64
	}
	err = r.db.WithContext(ctx).Table("stock.movements m").
		Joins("JOIN stock.items i ON i.id = m.item_id").
		Select(`COALESCE(SUM(CASE WHEN m.type = ? THEN m.quantity * i.cost_price END), 0) AS "in",
			COALESCE(SUM(CASE WHEN m.type = ? THEN m.quantity * COALESCE(i.sale_price, i.cost_price) END), 0) AS "out"`,
			inventory.MovementIn, inventory.MovementOut).
		Where("m.created_at >= ? AND m.created_at < ?", from, to).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, err
	}
	return totals.In, totals.Out, nil
}
