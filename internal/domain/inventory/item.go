package inventory

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryMedication  Category = "MEDICATION"
	CategoryEquipment   Category = "EQUIPMENT"
	CategorySupplies    Category = "SUPPLIES"
	CategoryConsumables Category = "CONSUMABLES"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryMedication, CategoryEquipment, CategorySupplies, CategoryConsumables:
		return true
	}
	return false
}

type Status string

const (
	StatusAvailable  Status = "AVAILABLE"
	StatusLowStock   Status = "LOW_STOCK"
	StatusOutOfStock Status = "OUT_OF_STOCK"
	StatusExpired    Status = "EXPIRED"
)

type Unit string

const (
	UnitUnit   Unit = "UNIT"
	UnitBox    Unit = "BOX"
	UnitBottle Unit = "BOTTLE"
	UnitTube   Unit = "TUBE"
	UnitSachet Unit = "SACHET"
	UnitML     Unit = "ML"
	UnitMG     Unit = "MG"
	UnitG      Unit = "G"
	UnitKG     Unit = "KG"
)

func (u Unit) IsValid() bool {
	switch u {
	case UnitUnit, UnitBox, UnitBottle, UnitTube, UnitSachet, UnitML, UnitMG, UnitG, UnitKG:
		return true
	}
	return false
}

const DefaultExpirationWarningDays = 30

type Item struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Name        string   `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	Code        string   `gorm:"column:code;type:varchar(20);not null;uniqueIndex" json:"code"`
	Category    Category `gorm:"column:category;type:varchar(30);not null;index" json:"category"`
	Quantity    int      `gorm:"column:quantity;not null" json:"quantity"`
	MinQuantity int      `gorm:"column:min_quantity;not null" json:"min_quantity"`
	MaxQuantity int      `gorm:"column:max_quantity;not null" json:"max_quantity"`
	Unit        Unit     `gorm:"column:unit;type:varchar(20);not null" json:"unit"`
	Status      Status   `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	Location    string   `gorm:"column:location;type:varchar(255)" json:"location"`

	CostPrice float64  `gorm:"column:cost_price;type:numeric(12,2);not null" json:"cost_price"`
	SalePrice *float64 `gorm:"column:sale_price;type:numeric(12,2)" json:"sale_price,omitempty"`

	Barcode        string     `gorm:"column:barcode;type:varchar(64);index" json:"barcode,omitempty"`
	Description    string     `gorm:"column:description;type:text" json:"description,omitempty"`
	Batch          string     `gorm:"column:batch;type:varchar(64)" json:"batch,omitempty"`
	ExpirationDate *time.Time `gorm:"column:expiration_date;index" json:"expiration_date,omitempty"`
	Supplier       string     `gorm:"column:supplier;type:varchar(255)" json:"supplier,omitempty"`
	Notes          string     `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (Item) TableName() string {
	return "stock.items"
}

// New validates cmd and builds an item. Its code derives from the generated ID.
func New(cmd *CreateItemCommand, now time.Time) (*Item, []string) {
	if errs := ValidateItem(cmd.Name, cmd.Category, cmd.Unit, cmd.Quantity, cmd.MinQuantity, cmd.MaxQuantity, cmd.CostPrice, cmd.SalePrice); len(errs) > 0 {
		return nil, errs
	}

	id := uuid.New()
	item := &Item{
		ID:             id,
		Name:           strings.TrimSpace(cmd.Name),
		Code:           codeFor(id),
		Category:       cmd.Category,
		Quantity:       cmd.Quantity,
		MinQuantity:    cmd.MinQuantity,
		MaxQuantity:    cmd.MaxQuantity,
		Unit:           cmd.Unit,
		Location:       cmd.Location,
		CostPrice:      cmd.CostPrice,
		SalePrice:      cmd.SalePrice,
		Barcode:        cmd.Barcode,
		Description:    cmd.Description,
		Batch:          cmd.Batch,
		ExpirationDate: cmd.ExpirationDate,
		Supplier:       cmd.Supplier,
		Notes:          cmd.Notes,
	}
	item.RefreshStatus(now)
	return item, nil
}

func codeFor(id uuid.UUID) string {
	return "INV-" + strings.ToUpper(id.String()[:8])
}

// ValidateItem returns a message per invalid field.
func ValidateItem(name string, category Category, unit Unit, qty, minQty, maxQty int, cost float64, sale *float64) []string {
	var errs []string
	if utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
		errs = append(errs, "name must have at least 2 characters")
	}
	if !category.IsValid() {
		errs = append(errs, "category is invalid")
	}
	if !unit.IsValid() {
		errs = append(errs, "unit is invalid")
	}
	if qty < 0 {
		errs = append(errs, "quantity cannot be negative")
	}
	if minQty < 0 {
		errs = append(errs, "min_quantity cannot be negative")
	}
	if maxQty < minQty {
		errs = append(errs, "max_quantity must be greater than or equal to min_quantity")
	}
	if cost < 0 {
		errs = append(errs, "cost_price cannot be negative")
	}
	if sale != nil {
		if *sale < 0 {
			errs = append(errs, "sale_price cannot be negative")
		} else if *sale < cost {
			errs = append(errs, "sale_price cannot be lower than cost_price")
		}
	}
	return errs
}

// ComputeStatus applies the precedence EXPIRED > OUT_OF_STOCK > LOW_STOCK > AVAILABLE.
func (i *Item) ComputeStatus(now time.Time) Status {
	switch {
	case i.IsExpired(now):
		return StatusExpired
	case i.IsOutOfStock():
		return StatusOutOfStock
	case i.IsLowStock():
		return StatusLowStock
	}
	return StatusAvailable
}

func (i *Item) RefreshStatus(now time.Time) {
	i.Status = i.ComputeStatus(now)
}

func (i *Item) IsLowStock() bool { return i.Quantity > 0 && i.Quantity <= i.MinQuantity }

func (i *Item) IsOutOfStock() bool { return i.Quantity == 0 }

func (i *Item) IsExpired(now time.Time) bool {
	return i.ExpirationDate != nil && i.ExpirationDate.Before(now)
}

// IsNearExpiration is true when the item expires in more than zero and at most days whole days.
func (i *Item) IsNearExpiration(now time.Time, days int) bool {
	if i.ExpirationDate == nil {
		return false
	}
	remaining := int(i.ExpirationDate.Sub(now).Hours() / 24)
	return remaining > 0 && remaining <= days
}

// ReorderQuantity suggests how much to buy to reach MaxQuantity once below MinQuantity.
func (i *Item) ReorderQuantity() int {
	if i.Quantity >= i.MinQuantity {
		return 0
	}
	return i.MaxQuantity - i.Quantity
}

func (i *Item) TotalValue() float64 {
	return float64(i.Quantity) * i.CostPrice
}

func (i *Item) CanPerformOutput(qty int, now time.Time) error {
	if i.IsExpired(now) {
		return ErrItemExpired
	}
	if i.Quantity < qty {
		return ErrInsufficientStock
	}
	return nil
}

func (i *Item) AddStock(qty int, reason string, by uuid.UUID, now time.Time) (*Movement, error) {
	if qty <= 0 {
		return nil, ErrNonPositiveQuantity
	}
	return i.move(MovementIn, qty, i.Quantity+qty, reason, by, now)
}

func (i *Item) RemoveStock(qty int, reason string, by uuid.UUID, now time.Time) (*Movement, error) {
	if qty <= 0 {
		return nil, ErrNonPositiveQuantity
	}
	if err := i.CanPerformOutput(qty, now); err != nil {
		return nil, err
	}
	return i.move(MovementOut, qty, i.Quantity-qty, reason, by, now)
}

// Adjust sets the quantity to an absolute count, e.g. after a physical inventory.
func (i *Item) Adjust(newQty int, reason string, by uuid.UUID, now time.Time) (*Movement, error) {
	if newQty < 0 {
		return nil, ErrNegativeQuantity
	}
	diff := newQty - i.Quantity
	if diff < 0 {
		diff = -diff
	}
	return i.move(MovementAdjustment, diff, newQty, reason, by, now)
}

func (i *Item) move(kind MovementType, qty, newQty int, reason string, by uuid.UUID, now time.Time) (*Movement, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	m := &Movement{
		ID:               uuid.New(),
		ItemID:           i.ID,
		Type:             kind,
		Quantity:         qty,
		PreviousQuantity: i.Quantity,
		NewQuantity:      newQty,
		Reason:           reason,
		PerformedBy:      by,
		CreatedAt:        now,
	}
	i.Quantity = newQty
	i.RefreshStatus(now)
	return m, nil
}

type CreateItemCommand struct {
	Name           string
	Category       Category
	Quantity       int
	MinQuantity    int
	MaxQuantity    int
	Unit           Unit
	Location       string
	CostPrice      float64
	SalePrice      *float64
	Barcode        string
	Description    string
	Batch          string
	ExpirationDate *time.Time
	Supplier       string
	Notes          string
}

type ListItemsQuery struct {
	Search   string
	Category *Category
	Status   *Status
	Page     int
	PageSize int
}

type PagedItems struct {
	Items      []*Item `json:"items"`
	TotalCount int64   `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}
