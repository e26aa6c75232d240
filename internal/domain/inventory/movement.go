package inventory

import (
	"time"

	"github.com/google/uuid"
)

type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// Movement is an append-only record of a stock change.
type Movement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	ItemID           uuid.UUID    `gorm:"column:item_id;type:uuid;not null;index" json:"item_id"`
	Type             MovementType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Quantity         int          `gorm:"column:quantity;not null" json:"quantity"`
	PreviousQuantity int          `gorm:"column:previous_quantity;not null" json:"previous_quantity"`
	NewQuantity      int          `gorm:"column:new_quantity;not null" json:"new_quantity"`
	Reason           string       `gorm:"column:reason;type:text;not null" json:"reason"`
	PerformedBy      uuid.UUID    `gorm:"column:performed_by;type:uuid;not null" json:"performed_by"`
}

func (Movement) TableName() string {
	return "stock.movements"
}
