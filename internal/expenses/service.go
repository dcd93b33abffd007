package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lodgebooks/lodgebooks/internal/platform/cache"
	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// Service implements expense use cases.
type Service struct {
	repo  Repository
	cache *cache.Cache
	loc   *time.Location
	now   func() time.Time
}

// NewService wires the expenses service.
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

// ListExpenses returns all expenses, or only the given calendar day's when
// day is non-empty.
func (s *Service) ListExpenses(ctx context.Context, day string) ([]Expense, error) {
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
func (s *Service) ListByRange(ctx context.Context, from, to time.Time) ([]Expense, error) {
	return s.repo.ListByRange(ctx, from, to)
}

// CreateExpense records a new expense.
func (s *Service) CreateExpense(ctx context.Context, in CreateExpenseInput) (Expense, error) {
	if err := in.Validate(); err != nil {
		return Expense{}, err
	}
	category := in.Category
	if category == "" {
		category = DefaultCategory
	}
	date := in.Date
	if date.IsZero() {
		date = s.now().In(s.loc)
	}
	exp := Expense{
		ID:          uuid.NewString(),
		Description: in.Description,
		Amount:      in.Amount,
		Category:    category,
		Date:        date,
	}
	created, err := s.repo.Create(ctx, exp)
	if err != nil {
		return Expense{}, err
	}
	_ = s.cache.Bump(ctx)
	return created, nil
}

// DeleteExpense removes an expense entry.
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Bump(ctx)
	return nil
}
