package inventory

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newItem(t *testing.T, qty, minQty, maxQty int) *Item {
	t.Helper()
	item, errs := New(&CreateItemCommand{
		Name:        "Luvas descartáveis",
		Category:    CategorySupplies,
		Quantity:    qty,
		MinQuantity: minQty,
		MaxQuantity: maxQty,
		Unit:        UnitBox,
		CostPrice:   25.5,
	}, now)
	require.Empty(t, errs)
	return item
}

func TestNew(t *testing.T) {
	item := newItem(t, 50, 10, 100)

	assert.True(t, strings.HasPrefix(item.Code, "INV-"))
	assert.Equal(t, strings.ToUpper(item.ID.String()[:8]), strings.TrimPrefix(item.Code, "INV-"))
	assert.Equal(t, StatusAvailable, item.Status)
}

func TestNew_Validation(t *testing.T) {
	sale := 10.0
	_, errs := New(&CreateItemCommand{
		Name:        "X",
		Category:    "FOOD",
		Unit:        UnitBox,
		Quantity:    -1,
		MinQuantity: 5,
		MaxQuantity: 2,
		CostPrice:   20,
		SalePrice:   &sale,
	}, now)

	assert.Equal(t, []string{
		"name must have at least 2 characters",
		"category is invalid",
		"quantity cannot be negative",
		"max_quantity must be greater than or equal to min_quantity",
		"sale_price cannot be lower than cost_price",
	}, errs)
}

func TestComputeStatus(t *testing.T) {
	expired := now.Add(-time.Hour)

	tests := []struct {
		name    string
		qty     int
		expires *time.Time
		want    Status
	}{
		{"available", 20, nil, StatusAvailable},
		{"low", 10, nil, StatusLowStock},
		{"out", 0, nil, StatusOutOfStock},
		{"expired wins over out of stock", 0, &expired, StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{Quantity: tt.qty, MinQuantity: 10, ExpirationDate: tt.expires}
			assert.Equal(t, tt.want, item.ComputeStatus(now))
		})
	}
}

func TestReorderAndValue(t *testing.T) {
	item := newItem(t, 4, 10, 100)

	assert.Equal(t, 96, item.ReorderQuantity())
	assert.InDelta(t, 102.0, item.TotalValue(), 0.0001)

	item.Quantity = 10
	assert.Zero(t, item.ReorderQuantity())
}

func TestIsNearExpiration(t *testing.T) {
	in10 := now.AddDate(0, 0, 10)
	in40 := now.AddDate(0, 0, 40)
	past := now.AddDate(0, 0, -1)

	assert.True(t, (&Item{ExpirationDate: &in10}).IsNearExpiration(now, DefaultExpirationWarningDays))
	assert.False(t, (&Item{ExpirationDate: &in40}).IsNearExpiration(now, DefaultExpirationWarningDays))
	assert.False(t, (&Item{ExpirationDate: &past}).IsNearExpiration(now, DefaultExpirationWarningDays))
	assert.False(t, (&Item{}).IsNearExpiration(now, DefaultExpirationWarningDays))
}

func TestStockMovements(t *testing.T) {
	item := newItem(t, 20, 10, 100)
	actor := uuid.New()

	in, err := item.AddStock(30, "Compra fornecedor", actor, now)
	require.NoError(t, err)
	assert.Equal(t, MovementIn, in.Type)
	assert.Equal(t, 20, in.PreviousQuantity)
	assert.Equal(t, 50, in.NewQuantity)
	assert.Equal(t, item.ID, in.ItemID)

	out, err := item.RemoveStock(45, "Uso em atendimento", actor, now)
	require.NoError(t, err)
	assert.Equal(t, MovementOut, out.Type)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, StatusLowStock, item.Status)

	_, err = item.RemoveStock(6, "Uso", actor, now)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, item.Quantity)

	adj, err := item.Adjust(0, "Inventário físico", actor, now)
	require.NoError(t, err)
	assert.Equal(t, MovementAdjustment, adj.Type)
	assert.Equal(t, 5, adj.Quantity)
	assert.Equal(t, StatusOutOfStock, item.Status)

	_, err = item.AddStock(0, "nada", actor, now)
	assert.ErrorIs(t, err, ErrNonPositiveQuantity)
	_, err = item.AddStock(1, "  ", actor, now)
	assert.ErrorIs(t, err, ErrReasonRequired)
	_, err = item.Adjust(-1, "x", actor, now)
	assert.ErrorIs(t, err, ErrNegativeQuantity)
}

func TestRemoveStock_Expired(t *testing.T) {
	item := newItem(t, 20, 10, 100)
	yesterday := now.AddDate(0, 0, -1)
	item.ExpirationDate = &yesterday

	_, err := item.RemoveStock(1, "Uso", uuid.New(), now)
	assert.ErrorIs(t, err, ErrItemExpired)
}
