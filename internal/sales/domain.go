// Package sales records point-of-sale transactions and keeps inventory in
// step with them.
package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lodgebooks/lodgebooks/internal/catalog"
)

// Sale is one completed point-of-sale transaction. Total is always derived as
// Quantity x UnitPrice at creation time.
type Sale struct {
	ID           string
	ItemID       string
	Quantity     int
	UnitPrice    decimal.Decimal
	Total        decimal.Decimal
	CustomerName string
	Date         time.Time
}

// SaleLine is a sale joined with its catalog item.
type SaleLine struct {
	Sale
	Item catalog.Item
}

// CreateSaleInput carries the fields for a new sale. A zero Date means "now".
type CreateSaleInput struct {
	ItemID       string
	Quantity     int
	UnitPrice    decimal.Decimal
	CustomerName string
	Date         time.Time
}

// Validate checks the input before any storage work happens.
func (in CreateSaleInput) Validate() error {
	if in.ItemID == "" {
		return fmt.Errorf("%w: itemId required", ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if in.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price cannot be negative", ErrInvalidInput)
	}
	return nil
}

// ErrInvalidInput wraps field-level validation failures.
var ErrInvalidInput = errors.New("sales: invalid input")

// ErrItemNotFound is returned when the referenced catalog item does not exist.
var ErrItemNotFound = errors.New("sales: item not found")
