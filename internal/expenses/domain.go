// Package expenses records operational cash outflows.
package expenses

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is applied when an expense is created without a category.
const DefaultCategory = "general"

// Expense is a single cash outflow entry.
type Expense struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
}

// CreateExpenseInput carries the fields for a new expense. A zero Date means
// "now".
type CreateExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
}

// Validate checks the input before any storage work happens.
func (in CreateExpenseInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description required", ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return nil
}

// ErrInvalidInput wraps field-level validation failures.
var ErrInvalidInput = errors.New("expenses: invalid input")

// ErrExpenseNotFound indicates an unknown expense id.
var ErrExpenseNotFound = errors.New("expenses: expense not found")
