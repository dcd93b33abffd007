// Package payments records digital settlements received outside the cash
// drawer. They count toward revenue but never toward cash on hand.
package payments

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Method enumerates the supported settlement channels.
type Method string

const (
	MethodUPI        Method = "upi"
	MethodCard       Method = "card"
	MethodNetbanking Method = "netbanking"
	MethodWallet     Method = "wallet"
)

// Valid reports whether the method is one of the supported channels.
func (m Method) Valid() bool {
	switch m {
	case MethodUPI, MethodCard, MethodNetbanking, MethodWallet:
		return true
	}
	return false
}

// OnlinePayment is one digital settlement entry.
type OnlinePayment struct {
	ID             string
	Amount         decimal.Decimal
	Method         Method
	TransactionRef string
	Date           time.Time
}

// CreatePaymentInput carries the fields for a new payment. A zero Date means
// "now".
type CreatePaymentInput struct {
	Amount         decimal.Decimal
	Method         Method
	TransactionRef string
	Date           time.Time
}

// Validate checks the input before any storage work happens.
func (in CreatePaymentInput) Validate() error {
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !in.Method.Valid() {
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidInput, in.Method)
	}
	return nil
}

// ErrInvalidInput wraps field-level validation failures.
var ErrInvalidInput = errors.New("payments: invalid input")

// ErrPaymentNotFound indicates an unknown payment id.
var ErrPaymentNotFound = errors.New("payments: payment not found")
