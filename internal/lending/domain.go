// Package lending tracks informal credit: money lent out to borrowers and
// security deposits held for guests.
package lending

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Borrower is a person the business has lent cash to. Repayments accumulate
// into AmountRepaid; the record is never deleted on full repayment so the
// history stays visible.
type Borrower struct {
	ID             string
	Name           string
	Phone          string
	AmountBorrowed decimal.Decimal
	AmountRepaid   decimal.Decimal
	CreatedAt      time.Time
}

// Outstanding returns the amount still owed. Over-repayment yields a negative
// outstanding, which the caller may surface as a credit.
func (b Borrower) Outstanding() decimal.Decimal {
	return b.AmountBorrowed.Sub(b.AmountRepaid)
}

// Depositor is someone whose money the business holds. Returning a deposit
// records the amount actually handed back, which may differ from the deposit
// after deductions.
type Depositor struct {
	ID             string
	Name           string
	Amount         decimal.Decimal
	Purpose        string
	Returned       bool
	ReturnedAmount decimal.Decimal
	Date           time.Time
}

// CreateBorrowerInput carries the fields for a new borrower.
type CreateBorrowerInput struct {
	Name           string
	Phone          string
	AmountBorrowed decimal.Decimal
}

// Validate checks the input before any storage work happens.
func (in CreateBorrowerInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if !in.AmountBorrowed.IsPositive() {
		return fmt.Errorf("%w: amount borrowed must be positive", ErrInvalidInput)
	}
	return nil
}

// CreateDepositorInput carries the fields for a new depositor.
type CreateDepositorInput struct {
	Name    string
	Amount  decimal.Decimal
	Purpose string
}

// Validate checks the input before any storage work happens.
func (in CreateDepositorInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", ErrInvalidInput)
	}
	return nil
}

// ErrInvalidInput wraps field-level validation failures.
var ErrInvalidInput = errors.New("lending: invalid input")

// ErrBorrowerNotFound indicates an unknown borrower id.
var ErrBorrowerNotFound = errors.New("lending: borrower not found")

// ErrDepositorNotFound indicates an unknown depositor id.
var ErrDepositorNotFound = errors.New("lending: depositor not found")
