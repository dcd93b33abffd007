// Package catalog manages the item catalog and the per-item inventory record.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is applied when an item is created without a category.
const DefaultCategory = "other"

// Item is a sellable catalog entry. The price is a snapshot used as the
// default unit price for new sales.
type Item struct {
	ID           string
	Name         string
	PricePerUnit decimal.Decimal
	Category     string
	CreatedAt    time.Time
}

// InventoryRecord tracks current stock for exactly one item. It is created
// together with the item and lives as long as the item does.
type InventoryRecord struct {
	ID           string
	ItemID       string
	CurrentStock int
	LastUpdated  time.Time
}

// InventoryLine is an inventory record joined with its item.
type InventoryLine struct {
	InventoryRecord
	Item Item
}

// CreateItemInput carries validated fields for a new item.
type CreateItemInput struct {
	Name         string
	PricePerUnit decimal.Decimal
	Category     string
}

// Validate ensures the create input is coherent.
func (in CreateItemInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if in.PricePerUnit.IsNegative() {
		return fmt.Errorf("%w: price per unit cannot be negative", ErrInvalidInput)
	}
	return nil
}

// UpdateItemInput carries a partial item update. Nil fields are left as-is.
type UpdateItemInput struct {
	Name         *string
	PricePerUnit *decimal.Decimal
	Category     *string
}

// ErrItemNotFound indicates an unknown item id.
var ErrItemNotFound = errors.New("catalog: item not found")

// ErrItemInUse is returned when deleting an item that sales or daily
// snapshots still reference.
var ErrItemInUse = errors.New("catalog: item is referenced by sales or snapshots")

// ErrInventoryNotFound indicates no inventory record exists for the item.
var ErrInventoryNotFound = errors.New("catalog: inventory record not found")

// ErrInvalidStock is returned for negative stock writes.
var ErrInvalidStock = errors.New("catalog: stock must be zero or positive")

// ErrInvalidInput wraps field-level validation failures.
var ErrInvalidInput = errors.New("catalog: invalid input")
