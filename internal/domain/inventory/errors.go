package inventory

import "errors"

var (
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrItemAlreadyExists   = errors.New("inventory item with this code already exists")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrItemExpired         = errors.New("item is expired")
	ErrNonPositiveQuantity = errors.New("quantity must be greater than 0")
	ErrNegativeQuantity    = errors.New("quantity cannot be negative")
	ErrReasonRequired      = errors.New("a reason is required for stock movements")
)
