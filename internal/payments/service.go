package payments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lodgebooks/lodgebooks/internal/platform/cache"
	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// Service implements online payment use cases.
type Service struct {
	repo  Repository
	cache *cache.Cache
	loc   *time.Location
	now   func() time.Time
}

// NewService wires the payments service.
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

// ListPayments returns all payments, or only the given calendar day's when
// day is non-empty.
func (s *Service) ListPayments(ctx context.Context, day string) ([]OnlinePayment, error) {
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
func (s *Service) ListByRange(ctx context.Context, from, to time.Time) ([]OnlinePayment, error) {
	return s.repo.ListByRange(ctx, from, to)
}

// CreatePayment records a digital settlement.
func (s *Service) CreatePayment(ctx context.Context, in CreatePaymentInput) (OnlinePayment, error) {
	if err := in.Validate(); err != nil {
		return OnlinePayment{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now().In(s.loc)
	}
	p := OnlinePayment{
		ID:             uuid.NewString(),
		Amount:         in.Amount,
		Method:         in.Method,
		TransactionRef: in.TransactionRef,
		Date:           date,
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return OnlinePayment{}, err
	}
	_ = s.cache.Bump(ctx)
	return created, nil
}

// DeletePayment removes a payment entry.
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Bump(ctx)
	return nil
}
