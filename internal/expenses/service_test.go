package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	expenses []Expense
}

func (f *fakeRepository) List(context.Context) ([]Expense, error) {
	return f.expenses, nil
}

func (f *fakeRepository) ListByRange(_ context.Context, from, to time.Time) ([]Expense, error) {
	var out []Expense
	for _, exp := range f.expenses {
		if !exp.Date.Before(from) && exp.Date.Before(to) {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (f *fakeRepository) Create(_ context.Context, exp Expense) (Expense, error) {
	f.expenses = append(f.expenses, exp)
	return exp, nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	for i, exp := range f.expenses {
		if exp.ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return ErrExpenseNotFound
}

func TestCreateExpenseDefaults(t *testing.T) {
	repo := &fakeRepository{}
	fixed := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, nil, time.UTC).WithNow(func() time.Time { return fixed })

	exp, err := svc.CreateExpense(context.Background(), CreateExpenseInput{
		Description: "Gas cylinder refill",
		Amount:      decimal.RequireFromString("1150.00"),
	})
	require.NoError(t, err)
	require.Equal(t, DefaultCategory, exp.Category)
	require.True(t, exp.Date.Equal(fixed))
	require.NotEmpty(t, exp.ID)
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := NewService(&fakeRepository{}, nil, time.UTC)

	_, err := svc.CreateExpense(context.Background(), CreateExpenseInput{
		Description: " ",
		Amount:      decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateExpense(context.Background(), CreateExpenseInput{
		Description: "Soap",
		Amount:      decimal.Zero,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListExpensesByDay(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo, nil, time.UTC)

	_, err := svc.CreateExpense(context.Background(), CreateExpenseInput{
		Description: "Vegetables",
		Amount:      decimal.NewFromInt(500),
		Date:        time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = svc.CreateExpense(context.Background(), CreateExpenseInput{
		Description: "Milk",
		Amount:      decimal.NewFromInt(200),
		Date:        time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	day, err := svc.ListExpenses(context.Background(), "2025-03-14")
	require.NoError(t, err)
	require.Len(t, day, 1)
	require.Equal(t, "Vegetables", day[0].Description)

	_, err = svc.ListExpenses(context.Background(), "not-a-date")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteExpense(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo, nil, time.UTC)

	exp, err := svc.CreateExpense(context.Background(), CreateExpenseInput{
		Description: "Laundry",
		Amount:      decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExpense(context.Background(), exp.ID))
	require.ErrorIs(t, svc.DeleteExpense(context.Background(), exp.ID), ErrExpenseNotFound)
}
