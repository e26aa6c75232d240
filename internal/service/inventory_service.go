package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/inventory"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMovementLimit = 50

type InventoryService struct {
	repo     inventory.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
	now      func() time.Time
}

func NewInventoryService(repo inventory.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, auditSvc: auditSvc, metrics: m, log: log, now: time.Now}
}

func (s *InventoryService) CreateItem(ctx context.Context, cmd *inventory.CreateItemCommand, actor Actor) (*inventory.Item, error) {
	if !actor.Role.CanWrite() {
		return nil, ErrForbidden
	}

	item, errs := inventory.New(cmd, s.now())
	if err := validationError(errs); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.log.Error("failed to create inventory item", zap.Error(err))
		return nil, fmt.Errorf("creating item: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionCreate,
		ResourceType: "inventory_item",
		ResourceID:   item.ID.String(),
	})
	return item, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InventoryService) ListItems(ctx context.Context, q *inventory.ListItemsQuery) (*inventory.PagedItems, error) {
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}

func (s *InventoryService) ListLowStock(ctx context.Context) ([]*inventory.Item, error) {
	return s.repo.ListLowStock(ctx)
}

// ListExpiringSoon returns items that expire within days, already expired ones excluded.
func (s *InventoryService) ListExpiringSoon(ctx context.Context, days int) ([]*inventory.Item, error) {
	if days <= 0 {
		days = inventory.DefaultExpirationWarningDays
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*inventory.Item, 0)
	for _, it := range items {
		if it.IsNearExpiration(now, days) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *InventoryService) AddStock(ctx context.Context, id uuid.UUID, qty int, reason string, actor Actor) (*inventory.Item, error) {
	return s.move(ctx, id, actor, func(it *inventory.Item, now time.Time) (*inventory.Movement, error) {
		return it.AddStock(qty, reason, actor.UserID, now)
	})
}

func (s *InventoryService) RemoveStock(ctx context.Context, id uuid.UUID, qty int, reason string, actor Actor) (*inventory.Item, error) {
	return s.move(ctx, id, actor, func(it *inventory.Item, now time.Time) (*inventory.Movement, error) {
		return it.RemoveStock(qty, reason, actor.UserID, now)
	})
}

func (s *InventoryService) AdjustStock(ctx context.Context, id uuid.UUID, newQty int, reason string, actor Actor) (*inventory.Item, error) {
	return s.move(ctx, id, actor, func(it *inventory.Item, now time.Time) (*inventory.Movement, error) {
		return it.Adjust(newQty, reason, actor.UserID, now)
	})
}

func (s *InventoryService) move(
	ctx context.Context,
	id uuid.UUID,
	actor Actor,
	apply func(*inventory.Item, time.Time) (*inventory.Movement, error),
) (*inventory.Item, error) {
	if !actor.Role.CanWrite() {
		return nil, ErrForbidden
	}

	var (
		m        *inventory.Movement
		applyErr error
	)
	item, err := s.repo.ApplyMovement(ctx, id, func(it *inventory.Item) (*inventory.Movement, error) {
		m, applyErr = apply(it, s.now())
		return m, applyErr
	})
	switch {
	case applyErr != nil:
		return nil, applyErr
	case errors.Is(err, inventory.ErrItemNotFound):
		return nil, err
	case err != nil:
		s.log.Error("failed to save stock movement",
			zap.String("item_id", id.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("saving movement: %w", err)
	}

	s.metrics.StockMovementsTotal.WithLabelValues(string(m.Type)).Inc()
	if item.IsLowStock() || item.IsOutOfStock() {
		s.log.Warn("inventory item below minimum",
			zap.String("item_id", item.ID.String()),
			zap.String("code", item.Code),
			zap.Int("quantity", item.Quantity),
			zap.Int("reorder", item.ReorderQuantity()),
		)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionUpdate,
		ResourceType: "inventory_item",
		ResourceID:   id.String(),
		Changes:      fmt.Sprintf(`{"movement":%q,"quantity":%d,"new_quantity":%d}`, m.Type, m.Quantity, m.NewQuantity),
	})
	return item, nil
}

func (s *InventoryService) ListMovements(ctx context.Context, itemID uuid.UUID, limit int) ([]*inventory.Movement, error) {
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultMovementLimit
	}
	return s.repo.ListMovements(ctx, itemID, limit)
}
