// Package staff manages employees, daily attendance, and salary payouts.
package staff

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a staff member on the payroll, paid by the day.
type Employee struct {
	ID        string
	Name      string
	Position  string
	DailyPay  decimal.Decimal
	CreatedAt time.Time
}

// Attendance is one employee's presence mark for one calendar day. At most
// one record exists per employee per day; re-marking updates it in place.
type Attendance struct {
	ID         string
	EmployeeID string
	Day        time.Time
	Present    bool
}

// AttendanceLine is an attendance record joined with its employee.
type AttendanceLine struct {
	Attendance
	Employee Employee
}

// SalaryPayment is a payout to an employee for a given month.
type SalaryPayment struct {
	ID         string
	EmployeeID string
	Amount     decimal.Decimal
	Month      string
	Year       int
	Date       time.Time
}

// SalaryLine is a salary payment joined with its employee.
type SalaryLine struct {
	SalaryPayment
	Employee Employee
}

// CreateEmployeeInput carries the fields for a new employee.
type CreateEmployeeInput struct {
	Name     string
	Position string
	DailyPay decimal.Decimal
}

// Validate checks the input before any storage work happens.
func (in CreateEmployeeInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if in.DailyPay.IsNegative() {
		return fmt.Errorf("%w: daily pay cannot be negative", ErrInvalidInput)
	}
	return nil
}

// CreateSalaryPaymentInput carries the fields for a payout. A zero Date means
// "now".
type CreateSalaryPaymentInput struct {
	EmployeeID string
	Amount     decimal.Decimal
	Month      string
	Year       int
	Date       time.Time
}

// Validate checks the input before any storage work happens.
func (in CreateSalaryPaymentInput) Validate() error {
	if in.EmployeeID == "" {
		return fmt.Errorf("%w: employeeId required", ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Month) == "" {
		return fmt.Errorf("%w: month required", ErrInvalidInput)
	}
	if in.Year < 2000 || in.Year > 2200 {
		return fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}
	return nil
}

// ErrInvalidInput wraps field-level validation failures.
var ErrInvalidInput = errors.New("staff: invalid input")

// ErrEmployeeNotFound indicates an unknown employee id.
var ErrEmployeeNotFound = errors.New("staff: employee not found")
