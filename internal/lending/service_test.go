package lending

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	borrowers  map[string]Borrower
	depositors map[string]Depositor
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		borrowers:  map[string]Borrower{},
		depositors: map[string]Depositor{},
	}
}

func (f *fakeRepository) ListBorrowers(context.Context) ([]Borrower, error) {
	out := make([]Borrower, 0, len(f.borrowers))
	for _, b := range f.borrowers {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeRepository) GetBorrower(_ context.Context, id string) (Borrower, error) {
	b, ok := f.borrowers[id]
	if !ok {
		return Borrower{}, ErrBorrowerNotFound
	}
	return b, nil
}

func (f *fakeRepository) CreateBorrower(_ context.Context, b Borrower) (Borrower, error) {
	f.borrowers[b.ID] = b
	return b, nil
}

func (f *fakeRepository) AddRepayment(_ context.Context, id string, amount decimal.Decimal) (Borrower, error) {
	b, ok := f.borrowers[id]
	if !ok {
		return Borrower{}, ErrBorrowerNotFound
	}
	b.AmountRepaid = b.AmountRepaid.Add(amount)
	f.borrowers[id] = b
	return b, nil
}

func (f *fakeRepository) ListDepositors(context.Context) ([]Depositor, error) {
	out := make([]Depositor, 0, len(f.depositors))
	for _, d := range f.depositors {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeRepository) GetDepositor(_ context.Context, id string) (Depositor, error) {
	d, ok := f.depositors[id]
	if !ok {
		return Depositor{}, ErrDepositorNotFound
	}
	return d, nil
}

func (f *fakeRepository) CreateDepositor(_ context.Context, d Depositor) (Depositor, error) {
	f.depositors[d.ID] = d
	return d, nil
}

func (f *fakeRepository) MarkReturned(_ context.Context, id string, amount decimal.Decimal) (Depositor, error) {
	d, ok := f.depositors[id]
	if !ok {
		return Depositor{}, ErrDepositorNotFound
	}
	d.Returned = true
	d.ReturnedAmount = amount
	f.depositors[id] = d
	return d, nil
}

func (f *fakeRepository) DeleteDepositor(_ context.Context, id string) error {
	if _, ok := f.depositors[id]; !ok {
		return ErrDepositorNotFound
	}
	delete(f.depositors, id)
	return nil
}

func TestRepaymentsAccumulate(t *testing.T) {
	svc := NewService(newFakeRepository(), nil)

	b, err := svc.CreateBorrower(context.Background(), CreateBorrowerInput{
		Name:           "Ramesh",
		AmountBorrowed: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	require.True(t, b.AmountRepaid.IsZero())

	b, err = svc.RecordRepayment(context.Background(), b.ID, decimal.NewFromInt(2000))
	require.NoError(t, err)
	require.Equal(t, "2000.00", b.AmountRepaid.StringFixed(2))

	b, err = svc.RecordRepayment(context.Background(), b.ID, decimal.NewFromInt(1500))
	require.NoError(t, err)
	require.Equal(t, "3500.00", b.AmountRepaid.StringFixed(2))
	require.Equal(t, "1500.00", b.Outstanding().StringFixed(2))
}

func TestRepaymentValidation(t *testing.T) {
	svc := NewService(newFakeRepository(), nil)

	_, err := svc.RecordRepayment(context.Background(), "any", decimal.Zero)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RecordRepayment(context.Background(), "ghost", decimal.NewFromInt(100))
	require.ErrorIs(t, err, ErrBorrowerNotFound)
}

func TestReturnDepositOverwrites(t *testing.T) {
	svc := NewService(newFakeRepository(), nil)

	d, err := svc.CreateDepositor(context.Background(), CreateDepositorInput{
		Name:   "Suresh",
		Amount: decimal.NewFromInt(2000),
	})
	require.NoError(t, err)
	require.False(t, d.Returned)

	d, err = svc.ReturnDeposit(context.Background(), d.ID, decimal.NewFromInt(1800))
	require.NoError(t, err)
	require.True(t, d.Returned)
	require.Equal(t, "1800.00", d.ReturnedAmount.StringFixed(2))

	// A second return replaces the recorded amount, it does not accumulate.
	d, err = svc.ReturnDeposit(context.Background(), d.ID, decimal.NewFromInt(2000))
	require.NoError(t, err)
	require.Equal(t, "2000.00", d.ReturnedAmount.StringFixed(2))
}

func TestCreateBorrowerValidation(t *testing.T) {
	svc := NewService(newFakeRepository(), nil)

	_, err := svc.CreateBorrower(context.Background(), CreateBorrowerInput{
		Name:           "",
		AmountBorrowed: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateBorrower(context.Background(), CreateBorrowerInput{
		Name:           "Mahesh",
		AmountBorrowed: decimal.Zero,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
