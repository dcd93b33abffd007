package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	items     map[string]Item
	inventory map[string]InventoryRecord
	inUse     map[string]bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		items:     map[string]Item{},
		inventory: map[string]InventoryRecord{},
		inUse:     map[string]bool{},
	}
}

func (f *fakeRepository) ListItems(context.Context) ([]Item, error) {
	out := make([]Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeRepository) GetItem(_ context.Context, id string) (Item, error) {
	it, ok := f.items[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return it, nil
}

func (f *fakeRepository) CreateItem(_ context.Context, item Item, inv InventoryRecord) (Item, error) {
	f.items[item.ID] = item
	f.inventory[inv.ItemID] = inv
	return item, nil
}

func (f *fakeRepository) UpdateItem(_ context.Context, item Item) (Item, error) {
	if _, ok := f.items[item.ID]; !ok {
		return Item{}, ErrItemNotFound
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeRepository) DeleteItem(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return ErrItemNotFound
	}
	if f.inUse[id] {
		return ErrItemInUse
	}
	delete(f.items, id)
	delete(f.inventory, id)
	return nil
}

func (f *fakeRepository) ListInventory(context.Context) ([]InventoryLine, error) {
	out := make([]InventoryLine, 0, len(f.inventory))
	for itemID, rec := range f.inventory {
		out = append(out, InventoryLine{InventoryRecord: rec, Item: f.items[itemID]})
	}
	return out, nil
}

func (f *fakeRepository) GetInventoryByItem(_ context.Context, itemID string) (InventoryRecord, error) {
	rec, ok := f.inventory[itemID]
	if !ok {
		return InventoryRecord{}, ErrInventoryNotFound
	}
	return rec, nil
}

func (f *fakeRepository) SetStock(_ context.Context, itemID string, stock int) (InventoryRecord, error) {
	rec, ok := f.inventory[itemID]
	if !ok {
		return InventoryRecord{}, ErrInventoryNotFound
	}
	rec.CurrentStock = stock
	f.inventory[itemID] = rec
	return rec, nil
}

func TestCreateItemStartsWithZeroStock(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil).WithNow(func() time.Time {
		return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	})

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:         "Masala Dosa",
		PricePerUnit: decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)
	require.Equal(t, DefaultCategory, item.Category)

	rec, err := svc.GetInventoryByItem(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, 0, rec.CurrentStock)
	require.Equal(t, item.ID, rec.ItemID)
}

func TestCreateItemRejectsBadInput(t *testing.T) {
	svc := NewService(newFakeRepository(), nil)

	_, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "   "})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateItem(context.Background(), CreateItemInput{
		Name:         "Tea",
		PricePerUnit: decimal.NewFromInt(-5),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateItemPartial(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:         "Filter Coffee",
		PricePerUnit: decimal.NewFromInt(30),
		Category:     "beverages",
	})
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(35)
	updated, err := svc.UpdateItem(context.Background(), item.ID, UpdateItemInput{PricePerUnit: &newPrice})
	require.NoError(t, err)
	require.Equal(t, "Filter Coffee", updated.Name)
	require.Equal(t, "beverages", updated.Category)
	require.True(t, updated.PricePerUnit.Equal(newPrice))
}

func TestSetStockRejectsNegative(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:         "Idli",
		PricePerUnit: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	_, err = svc.SetStock(context.Background(), item.ID, -1)
	require.ErrorIs(t, err, ErrInvalidStock)

	rec, err := svc.SetStock(context.Background(), item.ID, 25)
	require.NoError(t, err)
	require.Equal(t, 25, rec.CurrentStock)
}

func TestDeleteItemRemovesInventory(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:         "Vada",
		PricePerUnit: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(context.Background(), item.ID))

	_, err = svc.GetItem(context.Background(), item.ID)
	require.ErrorIs(t, err, ErrItemNotFound)
	_, err = svc.GetInventoryByItem(context.Background(), item.ID)
	require.ErrorIs(t, err, ErrInventoryNotFound)
}
