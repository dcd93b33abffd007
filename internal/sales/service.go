package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgebooks/lodgebooks/internal/platform/cache"
	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// Service implements sales use cases.
type Service struct {
	repo  Repository
	cache *cache.Cache
	loc   *time.Location
	now   func() time.Time
}

// NewService wires the sales service. loc fixes the business day boundary.
func NewService(repo Repository, c *cache.Cache, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, cache: c, loc: loc, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// ListSales returns all sales, or only the given calendar day's when day is
// non-empty.
func (s *Service) ListSales(ctx context.Context, day string) ([]SaleLine, error) {
	if day == "" {
		return s.repo.List(ctx)
	}
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByRange(ctx, window.From, window.To)
}

// ListByRange exposes range queries for the daily summary aggregator.
func (s *Service) ListByRange(ctx context.Context, from, to time.Time) ([]SaleLine, error) {
	return s.repo.ListByRange(ctx, from, to)
}

// CreateSale records a sale and decrements the item's stock. The total is
// always recomputed server-side from quantity and unit price.
func (s *Service) CreateSale(ctx context.Context, in CreateSaleInput) (Sale, error) {
	if err := in.Validate(); err != nil {
		return Sale{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now().In(s.loc)
	}
	sale := Sale{
		ID:           uuid.NewString(),
		ItemID:       in.ItemID,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		Total:        in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		CustomerName: in.CustomerName,
		Date:         date,
	}
	created, err := s.repo.Create(ctx, sale)
	if err != nil {
		return Sale{}, err
	}
	_ = s.cache.Bump(ctx)
	return created, nil
}
