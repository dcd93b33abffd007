package sales

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lodgebooks/lodgebooks/internal/catalog"
)

type fakeRepository struct {
	sales []SaleLine
	items map[string]catalog.Item
	stock map[string]int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		items: map[string]catalog.Item{},
		stock: map[string]int{},
	}
}

func (f *fakeRepository) addItem(id, name string, stock int) {
	f.items[id] = catalog.Item{ID: id, Name: name}
	f.stock[id] = stock
}

func (f *fakeRepository) List(context.Context) ([]SaleLine, error) {
	return f.sales, nil
}

func (f *fakeRepository) ListByRange(_ context.Context, from, to time.Time) ([]SaleLine, error) {
	var out []SaleLine
	for _, line := range f.sales {
		if !line.Date.Before(from) && line.Date.Before(to) {
			out = append(out, line)
		}
	}
	return out, nil
}

func (f *fakeRepository) Create(_ context.Context, sale Sale) (Sale, error) {
	item, ok := f.items[sale.ItemID]
	if !ok {
		return Sale{}, ErrItemNotFound
	}
	if remaining, ok := f.stock[sale.ItemID]; ok {
		remaining -= sale.Quantity
		if remaining < 0 {
			remaining = 0
		}
		f.stock[sale.ItemID] = remaining
	}
	f.sales = append(f.sales, SaleLine{Sale: sale, Item: item})
	return sale, nil
}

func TestCreateSaleComputesTotal(t *testing.T) {
	repo := newFakeRepository()
	repo.addItem("item-1", "Masala Dosa", 10)
	svc := NewService(repo, nil, time.UTC)

	sale, err := svc.CreateSale(context.Background(), CreateSaleInput{
		ItemID:    "item-1",
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("80.50"),
	})
	require.NoError(t, err)
	require.Equal(t, "241.50", sale.Total.StringFixed(2))
	require.Equal(t, 7, repo.stock["item-1"])
}

func TestCreateSaleClampsStockAtZero(t *testing.T) {
	repo := newFakeRepository()
	repo.addItem("item-1", "Idli", 2)
	svc := NewService(repo, nil, time.UTC)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		ItemID:    "item-1",
		Quantity:  5,
		UnitPrice: decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	require.Equal(t, 0, repo.stock["item-1"], "oversell clamps at zero instead of failing")
}

func TestCreateSaleValidation(t *testing.T) {
	svc := NewService(newFakeRepository(), nil, time.UTC)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{ItemID: "x", Quantity: 0, UnitPrice: decimal.NewFromInt(10)})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateSale(context.Background(), CreateSaleInput{ItemID: "", Quantity: 1, UnitPrice: decimal.NewFromInt(10)})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateSale(context.Background(), CreateSaleInput{ItemID: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateSaleUnknownItem(t *testing.T) {
	svc := NewService(newFakeRepository(), nil, time.UTC)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		ItemID:    "ghost",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestListSalesByDay(t *testing.T) {
	repo := newFakeRepository()
	repo.addItem("item-1", "Tea", 100)
	svc := NewService(repo, nil, time.UTC).WithNow(func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	})

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		ItemID: "item-1", Quantity: 1, UnitPrice: decimal.NewFromInt(15),
	})
	require.NoError(t, err)
	_, err = svc.CreateSale(context.Background(), CreateSaleInput{
		ItemID: "item-1", Quantity: 2, UnitPrice: decimal.NewFromInt(15),
		Date: time.Date(2025, 3, 13, 23, 59, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	today, err := svc.ListSales(context.Background(), "2025-03-14")
	require.NoError(t, err)
	require.Len(t, today, 1)

	yesterday, err := svc.ListSales(context.Background(), "2025-03-13")
	require.NoError(t, err)
	require.Len(t, yesterday, 1)

	all, err := svc.ListSales(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}
