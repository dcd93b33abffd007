package payments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	payments []OnlinePayment
}

func (f *fakeRepository) List(context.Context) ([]OnlinePayment, error) {
	return f.payments, nil
}

func (f *fakeRepository) ListByRange(_ context.Context, from, to time.Time) ([]OnlinePayment, error) {
	var out []OnlinePayment
	for _, p := range f.payments {
		if !p.Date.Before(from) && p.Date.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepository) Create(_ context.Context, p OnlinePayment) (OnlinePayment, error) {
	f.payments = append(f.payments, p)
	return p, nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	for i, p := range f.payments {
		if p.ID == id {
			f.payments = append(f.payments[:i], f.payments[i+1:]...)
			return nil
		}
	}
	return ErrPaymentNotFound
}

func TestCreatePaymentMethods(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo, nil, time.UTC)

	for _, method := range []Method{MethodUPI, MethodCard, MethodNetbanking, MethodWallet} {
		p, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
			Amount: decimal.NewFromInt(500),
			Method: method,
		})
		require.NoError(t, err)
		require.Equal(t, method, p.Method)
	}

	_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		Amount: decimal.NewFromInt(500),
		Method: Method("cash"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(&fakeRepository{}, nil, time.UTC)

	_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		Amount: decimal.Zero,
		Method: MethodUPI,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListPaymentsByDay(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo, nil, time.UTC)

	_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		Amount: decimal.NewFromInt(1200),
		Method: MethodUPI,
		Date:   time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = svc.CreatePayment(context.Background(), CreatePaymentInput{
		Amount: decimal.NewFromInt(800),
		Method: MethodCard,
		Date:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	day, err := svc.ListPayments(context.Background(), "2025-03-14")
	require.NoError(t, err)
	require.Len(t, day, 1)
	require.Equal(t, MethodUPI, day[0].Method)
}
