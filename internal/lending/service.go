package lending

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgebooks/lodgebooks/internal/platform/cache"
)

// Service implements lending use cases.
type Service struct {
	repo  Repository
	cache *cache.Cache
	now   func() time.Time
}

// NewService wires the lending service.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) ListBorrowers(ctx context.Context) ([]Borrower, error) {
	return s.repo.ListBorrowers(ctx)
}

func (s *Service) GetBorrower(ctx context.Context, id string) (Borrower, error) {
	return s.repo.GetBorrower(ctx, id)
}

// CreateBorrower registers a new loan. Repaid starts at zero.
func (s *Service) CreateBorrower(ctx context.Context, in CreateBorrowerInput) (Borrower, error) {
	if err := in.Validate(); err != nil {
		return Borrower{}, err
	}
	b := Borrower{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Phone:          in.Phone,
		AmountBorrowed: in.AmountBorrowed,
		AmountRepaid:   decimal.Zero,
		CreatedAt:      s.now(),
	}
	created, err := s.repo.CreateBorrower(ctx, b)
	if err != nil {
		return Borrower{}, err
	}
	_ = s.cache.Bump(ctx)
	return created, nil
}

// RecordRepayment adds a partial or full repayment to the borrower's running
// total.
func (s *Service) RecordRepayment(ctx context.Context, id string, amount decimal.Decimal) (Borrower, error) {
	if !amount.IsPositive() {
		return Borrower{}, fmt.Errorf("%w: repayment must be positive", ErrInvalidInput)
	}
	b, err := s.repo.AddRepayment(ctx, id, amount)
	if err != nil {
		return Borrower{}, err
	}
	_ = s.cache.Bump(ctx)
	return b, nil
}

func (s *Service) ListDepositors(ctx context.Context) ([]Depositor, error) {
	return s.repo.ListDepositors(ctx)
}

func (s *Service) GetDepositor(ctx context.Context, id string) (Depositor, error) {
	return s.repo.GetDepositor(ctx, id)
}

// CreateDepositor registers a held deposit.
func (s *Service) CreateDepositor(ctx context.Context, in CreateDepositorInput) (Depositor, error) {
	if err := in.Validate(); err != nil {
		return Depositor{}, err
	}
	d := Depositor{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Amount:         in.Amount,
		Purpose:        in.Purpose,
		ReturnedAmount: decimal.Zero,
		Date:           s.now(),
	}
	created, err := s.repo.CreateDepositor(ctx, d)
	if err != nil {
		return Depositor{}, err
	}
	_ = s.cache.Bump(ctx)
	return created, nil
}

// ReturnDeposit marks the deposit returned with the amount actually paid
// back. Repeated calls overwrite the recorded amount.
func (s *Service) ReturnDeposit(ctx context.Context, id string, amount decimal.Decimal) (Depositor, error) {
	if amount.IsNegative() {
		return Depositor{}, fmt.Errorf("%w: returned amount cannot be negative", ErrInvalidInput)
	}
	d, err := s.repo.MarkReturned(ctx, id, amount)
	if err != nil {
		return Depositor{}, err
	}
	_ = s.cache.Bump(ctx)
	return d, nil
}

func (s *Service) DeleteDepositor(ctx context.Context, id string) error {
	if err := s.repo.DeleteDepositor(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Bump(ctx)
	return nil
}
