package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/inventory"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

type createItemRequest struct {
	Name           string             `json:"name" binding:"required,min=2"`
	Category       inventory.Category `json:"category" binding:"required"`
	Quantity       int                `json:"quantity" binding:"min=0"`
	MinQuantity    int                `json:"min_quantity" binding:"min=0"`
	MaxQuantity    int                `json:"max_quantity" binding:"min=0"`
	Unit           inventory.Unit     `json:"unit" binding:"required"`
	Location       string             `json:"location"`
	CostPrice      float64            `json:"cost_price" binding:"min=0"`
	SalePrice      *float64           `json:"sale_price" binding:"omitempty,min=0"`
	Barcode        string             `json:"barcode"`
	Description    string             `json:"description"`
	Batch          string             `json:"batch"`
	ExpirationDate *time.Time         `json:"expiration_date"`
	Supplier       string             `json:"supplier"`
	Notes          string             `json:"notes"`
}

type stockMovementRequest struct {
	Quantity int    `json:"quantity" binding:"min=0"`
	Reason   string `json:"reason" binding:"required"`
}

// itemView adds the derived stock figures.
type itemView struct {
	*inventory.Item
	TotalValue      float64 `json:"total_value"`
	ReorderQuantity int     `json:"reorder_quantity"`
}

func (h *InventoryHandler) view(item *inventory.Item) itemView {
	return itemView{
		Item:            item,
		TotalValue:      item.TotalValue(),
		ReorderQuantity: item.ReorderQuantity(),
	}
}

func (h *InventoryHandler) views(items []*inventory.Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, item := range items {
		out = append(out, h.view(item))
	}
	return out
}

func (h *InventoryHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/expiring", h.Expiring)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/movements", h.Movements)
	rg.POST("/:id/stock-in", h.AddStock)
	rg.POST("/:id/stock-out", h.RemoveStock)
	rg.POST("/:id/adjust", h.Adjust)
}

func (h *InventoryHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req createItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.svc.CreateItem(c.Request.Context(), &inventory.CreateItemCommand{
		Name:           req.Name,
		Category:       req.Category,
		Quantity:       req.Quantity,
		MinQuantity:    req.MinQuantity,
		MaxQuantity:    req.MaxQuantity,
		Unit:           req.Unit,
		Location:       req.Location,
		CostPrice:      req.CostPrice,
		SalePrice:      req.SalePrice,
		Barcode:        req.Barcode,
		Description:    req.Description,
		Batch:          req.Batch,
		ExpirationDate: req.ExpirationDate,
		Supplier:       req.Supplier,
		Notes:          req.Notes,
	}, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, h.view(item))
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	item, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, h.view(item))
}

func (h *InventoryHandler) List(c *gin.Context) {
	q := &inventory.ListItemsQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("category"); raw != "" {
		cat := inventory.Category(raw)
		if !cat.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid category")
			return
		}
		q.Category = &cat
	}
	if raw := c.Query("status"); raw != "" {
		st := inventory.Status(raw)
		q.Status = &st
	}

	paged, err := h.svc.ListItems(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, paged)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, h.views(items))
}

func (h *InventoryHandler) Expiring(c *gin.Context) {
	items, err := h.svc.ListExpiringSoon(c.Request.Context(), parseQueryInt(c, "days", 0))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, h.views(items))
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	movements, err := h.svc.ListMovements(c.Request.Context(), id, parseQueryInt(c, "limit", 0))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, movements)
}

func (h *InventoryHandler) AddStock(c *gin.Context) { h.move(c, h.svc.AddStock) }

func (h *InventoryHandler) RemoveStock(c *gin.Context) { h.move(c, h.svc.RemoveStock) }

func (h *InventoryHandler) Adjust(c *gin.Context) { h.move(c, h.svc.AdjustStock) }

func (h *InventoryHandler) move(
	c *gin.Context,
	apply func(ctx context.Context, id uuid.UUID, qty int, reason string, actor service.Actor) (*inventory.Item, error),
) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req stockMovementRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := apply(c.Request.Context(), id, req.Quantity, req.Reason, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, h.view(item))
}
