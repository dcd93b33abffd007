package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lodgebooks/lodgebooks/internal/platform/cache"
)

// Service implements catalog use cases on top of the repository.
type Service struct {
	repo  Repository
	cache *cache.Cache
	now   func() time.Time
}

// NewService wires the catalog service.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) GetItem(ctx context.Context, id string) (Item, error) {
	return s.repo.GetItem(ctx, id)
}

// CreateItem stores a new item together with its zero-stock inventory record.
func (s *Service) CreateItem(ctx context.Context, in CreateItemInput) (Item, error) {
	if err := in.Validate(); err != nil {
		return Item{}, err
	}
	category := in.Category
	if category == "" {
		category = DefaultCategory
	}
	now := s.now()
	item := Item{
		ID:           uuid.NewString(),
		Name:         in.Name,
		PricePerUnit: in.PricePerUnit,
		Category:     category,
		CreatedAt:    now,
	}
	inv := InventoryRecord{
		ID:          uuid.NewString(),
		ItemID:      item.ID,
		LastUpdated: now,
	}
	created, err := s.repo.CreateItem(ctx, item, inv)
	if err != nil {
		return Item{}, fmt.Errorf("catalog: create item: %w", err)
	}
	s.invalidate(ctx)
	return created, nil
}

// UpdateItem applies a partial update to an existing item.
func (s *Service) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.PricePerUnit != nil {
		if in.PricePerUnit.IsNegative() {
			return Item{}, fmt.Errorf("%w: price per unit cannot be negative", ErrInvalidInput)
		}
		item.PricePerUnit = *in.PricePerUnit
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return Item{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteItem removes the item and its inventory record.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) ListInventory(ctx context.Context) ([]InventoryLine, error) {
	return s.repo.ListInventory(ctx)
}

func (s *Service) GetInventoryByItem(ctx context.Context, itemID string) (InventoryRecord, error) {
	return s.repo.GetInventoryByItem(ctx, itemID)
}

// SetStock overwrites the current stock for an item. Negative stock is
// rejected before touching storage.
func (s *Service) SetStock(ctx context.Context, itemID string, stock int) (InventoryRecord, error) {
	if stock < 0 {
		return InventoryRecord{}, ErrInvalidStock
	}
	rec, err := s.repo.SetStock(ctx, itemID, stock)
	if err != nil {
		return InventoryRecord{}, err
	}
	s.invalidate(ctx)
	return rec, nil
}

func (s *Service) invalidate(ctx context.Context) {
	_ = s.cache.Bump(ctx)
}
