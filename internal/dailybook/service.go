package dailybook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lodgebooks/lodgebooks/internal/expenses"
	"github.com/lodgebooks/lodgebooks/internal/payments"
	"github.com/lodgebooks/lodgebooks/internal/platform/cache"
	"github.com/lodgebooks/lodgebooks/internal/sales"
	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// SalesReader provides the day's sales for aggregation.
type SalesReader interface {
	ListByRange(ctx context.Context, from, to time.Time) ([]sales.SaleLine, error)
}

// ExpensesReader provides the day's expenses for aggregation.
type ExpensesReader interface {
	ListByRange(ctx context.Context, from, to time.Time) ([]expenses.Expense, error)
}

// PaymentsReader provides the day's online payments for aggregation.
type PaymentsReader interface {
	ListByRange(ctx context.Context, from, to time.Time) ([]payments.OnlinePayment, error)
}

// Enqueuer schedules background work after a reset. Optional.
type Enqueuer interface {
	EnqueueSummaryWarmup(ctx context.Context, day string) error
}

// Service implements the daily bookkeeping use cases.
type Service struct {
	repo     Repository
	sales    SalesReader
	expenses ExpensesReader
	payments PaymentsReader
	cache    *cache.Cache
	enqueue  Enqueuer
	loc      *time.Location
	now      func() time.Time
}

// NewService wires the dailybook service. loc fixes the business day
// boundary for all windowing.
func NewService(repo Repository, salesR SalesReader, expensesR ExpensesReader, paymentsR PaymentsReader, c *cache.Cache, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:     repo,
		sales:    salesR,
		expenses: expensesR,
		payments: paymentsR,
		cache:    c,
		loc:      loc,
		now:      time.Now,
	}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithEnqueuer attaches the background task client.
func (s *Service) WithEnqueuer(e Enqueuer) *Service {
	s.enqueue = e
	return s
}

// Summary aggregates the day's account. The result is cached under the
// current cache version; any mutating write bumps the version, so a stale
// entry is never served after a change.
func (s *Service) Summary(ctx context.Context, day string) (Summary, error) {
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	key, err := s.cache.BuildKey(ctx, "lodgebooks", "summary", window.Day())
	if err != nil {
		// Redis being down must not take the summary endpoint with it.
		return s.buildSummary(ctx, window)
	}
	var summary Summary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (any, error) {
		return s.buildSummary(ctx, window)
	})
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

func (s *Service) buildSummary(ctx context.Context, window shared.DayWindow) (Summary, error) {
	var (
		saleLines   []sales.SaleLine
		expenseList []expenses.Expense
		paymentList []payments.OnlinePayment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		saleLines, err = s.sales.ListByRange(gctx, window.From, window.To)
		return err
	})
	g.Go(func() error {
		var err error
		expenseList, err = s.expenses.ListByRange(gctx, window.From, window.To)
		return err
	})
	g.Go(func() error {
		var err error
		paymentList, err = s.payments.ListByRange(gctx, window.From, window.To)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("dailybook: aggregate %s: %w", window.Day(), err)
	}

	totalSales := decimal.Zero
	saleEntries := make([]SaleEntry, 0, len(saleLines))
	for _, line := range saleLines {
		totalSales = totalSales.Add(line.Total)
		saleEntries = append(saleEntries, SaleEntry{
			ID:           line.ID,
			ItemID:       line.ItemID,
			ItemName:     line.Item.Name,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice.StringFixed(2),
			Total:        line.Total.StringFixed(2),
			CustomerName: line.CustomerName,
			Date:         line.Date,
		})
	}

	totalExpenses := decimal.Zero
	expenseEntries := make([]ExpenseEntry, 0, len(expenseList))
	for _, exp := range expenseList {
		totalExpenses = totalExpenses.Add(exp.Amount)
		expenseEntries = append(expenseEntries, ExpenseEntry{
			ID:          exp.ID,
			Description: exp.Description,
			Amount:      exp.Amount.StringFixed(2),
			Category:    exp.Category,
			Date:        exp.Date,
		})
	}

	totalPayments := decimal.Zero
	paymentEntries := make([]PaymentEntry, 0, len(paymentList))
	for _, p := range paymentList {
		totalPayments = totalPayments.Add(p.Amount)
		paymentEntries = append(paymentEntries, PaymentEntry{
			ID:             p.ID,
			Amount:         p.Amount.StringFixed(2),
			Method:         string(p.Method),
			TransactionRef: p.TransactionRef,
			Date:           p.Date,
		})
	}

	// Online settlements count toward revenue but never reach the drawer.
	netCash := totalSales.Sub(totalExpenses).Sub(totalPayments)

	summary := Summary{
		Date:                window.Day(),
		TotalSales:          totalSales.StringFixed(2),
		TotalExpenses:       totalExpenses.StringFixed(2),
		TotalOnlinePayments: totalPayments.StringFixed(2),
		NetCash:             netCash.StringFixed(2),
		Sales:               saleEntries,
		Expenses:            expenseEntries,
		OnlinePayments:      paymentEntries,
	}

	bal, err := s.repo.GetBalance(ctx, window.From)
	switch {
	case err == nil:
		opening := bal.OpeningBalance.StringFixed(2)
		current := bal.OpeningBalance.Add(netCash).StringFixed(2)
		summary.OpeningBalance = &opening
		summary.CurrentBalance = &current
		summary.IsClosed = bal.IsClosed
		if bal.ClosingBalance != nil {
			closing := bal.ClosingBalance.StringFixed(2)
			summary.ClosingBalance = &closing
		}
	case errors.Is(err, ErrBalanceNotFound):
		// No balance row yet; totals stand alone.
	default:
		return Summary{}, err
	}

	return summary, nil
}

// GetBalance returns the day's balance row.
func (s *Service) GetBalance(ctx context.Context, day string) (DailyBalance, error) {
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return DailyBalance{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.repo.GetBalance(ctx, window.From)
}

// SetOpeningBalance opens the day with the counted cash float, or corrects it
// while the day is still open. A closed day rejects the write.
func (s *Service) SetOpeningBalance(ctx context.Context, day string, amount decimal.Decimal) (DailyBalance, error) {
	if amount.IsNegative() {
		return DailyBalance{}, fmt.Errorf("%w: opening balance cannot be negative", ErrInvalidInput)
	}
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return DailyBalance{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	now := s.now()
	bal, err := s.repo.UpsertOpeningBalance(ctx, DailyBalance{
		ID:             uuid.NewString(),
		Day:            window.From,
		OpeningBalance: amount,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return DailyBalance{}, err
	}
	_ = s.cache.Bump(ctx)
	return bal, nil
}

// CloseDay locks the day with the counted closing cash.
func (s *Service) CloseDay(ctx context.Context, day string, closing decimal.Decimal) (DailyBalance, error) {
	if closing.IsNegative() {
		return DailyBalance{}, fmt.Errorf("%w: closing balance cannot be negative", ErrInvalidInput)
	}
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return DailyBalance{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	bal, err := s.repo.CloseBalance(ctx, window.From, closing)
	if err != nil {
		return DailyBalance{}, err
	}
	_ = s.cache.Bump(ctx)
	return bal, nil
}

// ListSnapshots returns the day's inventory snapshots.
func (s *Service) ListSnapshots(ctx context.Context, day string) ([]InventorySnapshot, error) {
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.repo.ListSnapshots(ctx, window.From)
}

// CreateSnapshot records the morning count for an item.
func (s *Service) CreateSnapshot(ctx context.Context, day, itemID string, openingStock int) (InventorySnapshot, error) {
	if itemID == "" {
		return InventorySnapshot{}, fmt.Errorf("%w: itemId required", ErrInvalidInput)
	}
	if openingStock < 0 {
		return InventorySnapshot{}, fmt.Errorf("%w: opening stock cannot be negative", ErrInvalidInput)
	}
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return InventorySnapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	now := s.now()
	snap, err := s.repo.CreateSnapshot(ctx, InventorySnapshot{
		ID:           uuid.NewString(),
		Day:          window.From,
		ItemID:       itemID,
		OpeningStock: openingStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return InventorySnapshot{}, err
	}
	_ = s.cache.Bump(ctx)
	return snap, nil
}

// CloseSnapshot records the evening count for an item.
func (s *Service) CloseSnapshot(ctx context.Context, day, itemID string, closingStock int) (InventorySnapshot, error) {
	if itemID == "" {
		return InventorySnapshot{}, fmt.Errorf("%w: itemId required", ErrInvalidInput)
	}
	if closingStock < 0 {
		return InventorySnapshot{}, fmt.Errorf("%w: closing stock cannot be negative", ErrInvalidInput)
	}
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return InventorySnapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	snap, err := s.repo.CloseSnapshot(ctx, window.From, itemID, closingStock)
	if err != nil {
		return InventorySnapshot{}, err
	}
	_ = s.cache.Bump(ctx)
	return snap, nil
}

// Reset wipes the day's transactions and reopens the balance atomically.
func (s *Service) Reset(ctx context.Context, day string) (ResetResult, error) {
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return ResetResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	result, err := s.repo.ResetDay(ctx, window)
	if err != nil {
		return ResetResult{}, fmt.Errorf("dailybook: reset %s: %w", window.Day(), err)
	}
	_ = s.cache.Bump(ctx)
	if s.enqueue != nil {
		_ = s.enqueue.EnqueueSummaryWarmup(ctx, window.Day())
	}
	return result, nil
}

// Rollover carries yesterday's closed snapshots into today as opening
// snapshots and returns how many items were carried.
func (s *Service) Rollover(ctx context.Context) (int64, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	yesterday := today.AddDate(0, 0, -1)
	return s.repo.CarryForwardSnapshots(ctx, yesterday, today)
}

// WarmSummary recomputes and caches the summary for a day.
func (s *Service) WarmSummary(ctx context.Context, day string) error {
	_, err := s.Summary(ctx, day)
	return err
}
