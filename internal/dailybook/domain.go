// Package dailybook is the bookkeeping core: the per-day cash balance state
// machine, per-day inventory snapshots, the aggregated daily account summary,
// and the transactional day reset.
package dailybook

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DailyBalance tracks the cash drawer for one calendar day. It moves through
// three states: no row, open (opening balance set), closed (closing balance
// recorded). Closed is terminal; only a reset reopens the day.
type DailyBalance struct {
	ID             string
	Day            time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance *decimal.Decimal
	IsClosed       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InventorySnapshot freezes one item's stock for one day: opening count in
// the morning, closing count at day end. Unique per (day, item).
type InventorySnapshot struct {
	ID           string
	Day          time.Time
	ItemID       string
	OpeningStock int
	ClosingStock *int
	IsClosed     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Variance returns closing minus opening stock. The bool is false while the
// snapshot is still open. A negative variance means more stock left than the
// recorded sales explain.
func (s InventorySnapshot) Variance() (int, bool) {
	if s.ClosingStock == nil {
		return 0, false
	}
	return *s.ClosingStock - s.OpeningStock, true
}

// Summary is the aggregated daily account view. Monetary fields are 2dp
// decimal strings; the struct is cached in Redis as-is.
type Summary struct {
	Date                string         `json:"date"`
	TotalSales          string         `json:"totalSales"`
	TotalExpenses       string         `json:"totalExpenses"`
	TotalOnlinePayments string         `json:"totalOnlinePayments"`
	NetCash             string         `json:"netCash"`
	OpeningBalance      *string        `json:"openingBalance,omitempty"`
	CurrentBalance      *string        `json:"currentBalance,omitempty"`
	ClosingBalance      *string        `json:"closingBalance,omitempty"`
	IsClosed            bool           `json:"isClosed"`
	Sales               []SaleEntry    `json:"sales"`
	Expenses            []ExpenseEntry `json:"expenses"`
	OnlinePayments      []PaymentEntry `json:"onlinePayments"`
}

// SaleEntry is one sale in the summary breakdown.
type SaleEntry struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"itemId"`
	ItemName     string    `json:"itemName,omitempty"`
	Quantity     int       `json:"quantity"`
	UnitPrice    string    `json:"unitPrice"`
	Total        string    `json:"total"`
	CustomerName string    `json:"customerName,omitempty"`
	Date         time.Time `json:"date"`
}

// ExpenseEntry is one expense in the summary breakdown.
type ExpenseEntry struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}

// PaymentEntry is one online payment in the summary breakdown.
type PaymentEntry struct {
	ID             string    `json:"id"`
	Amount         string    `json:"amount"`
	Method         string    `json:"method"`
	TransactionRef string    `json:"transactionRef,omitempty"`
	Date           time.Time `json:"date"`
}

// ResetResult reports what a day reset removed.
type ResetResult struct {
	Date            string `json:"date"`
	SalesDeleted    int64  `json:"salesDeleted"`
	ExpensesDeleted int64  `json:"expensesDeleted"`
	PaymentsDeleted int64  `json:"paymentsDeleted"`
	BalanceCleared  bool   `json:"balanceCleared"`
}

// ErrDayClosed is returned when a write hits a day whose balance is already
// closed.
var ErrDayClosed = errors.New("dailybook: day already closed")

// ErrBalanceNotFound indicates no balance row exists for the day.
var ErrBalanceNotFound = errors.New("dailybook: daily balance not found")

// ErrSnapshotExists indicates a snapshot already exists for the (day, item).
var ErrSnapshotExists = errors.New("dailybook: snapshot already exists")

// ErrSnapshotNotFound indicates no snapshot exists for the (day, item).
var ErrSnapshotNotFound = errors.New("dailybook: snapshot not found")

// ErrSnapshotClosed is returned when closing an already-closed snapshot.
var ErrSnapshotClosed = errors.New("dailybook: snapshot already closed")

// ErrInvalidInput wraps field-level validation failures.
var ErrInvalidInput = errors.New("dailybook: invalid input")
