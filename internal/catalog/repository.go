package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lodgebooks/lodgebooks/internal/audit"
	"github.com/lodgebooks/lodgebooks/internal/platform/db"
)

// Repository persists catalog data.
type Repository interface {
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id string) (Item, error)
	CreateItem(ctx context.Context, item Item, inv InventoryRecord) (Item, error)
	UpdateItem(ctx context.Context, item Item) (Item, error)
	DeleteItem(ctx context.Context, id string) error
	ListInventory(ctx context.Context) ([]InventoryLine, error)
	GetInventoryByItem(ctx context.Context, itemID string) (InventoryRecord, error)
	SetStock(ctx context.Context, itemID string, stock int) (InventoryRecord, error)
}

type repository struct {
	pool  *pgxpool.Pool
	audit *audit.Recorder
}

// NewRepository constructs a PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool, recorder *audit.Recorder) Repository {
	return &repository{pool: pool, audit: recorder}
}

const itemColumns = `id, name, price_per_unit, category, created_at`

func (r *repository) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.PricePerUnit, &it.Category, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) GetItem(ctx context.Context, id string) (Item, error) {
	var it Item
	err := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id).
		Scan(&it.ID, &it.Name, &it.PricePerUnit, &it.Category, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return it, err
}

// CreateItem inserts the item and its zero-stock inventory record in one
// transaction, so an item can never exist without an inventory row.
func (r *repository) CreateItem(ctx context.Context, item Item, inv InventoryRecord) (Item, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO items (id, name, price_per_unit, category, created_at) VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.Name, item.PricePerUnit, item.Category, item.CreatedAt); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO inventory (id, item_id, current_stock, last_updated) VALUES ($1, $2, $3, $4)`,
			inv.ID, inv.ItemID, inv.CurrentStock, inv.LastUpdated); err != nil {
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "item:create",
			Entity:   "item",
			EntityID: item.ID,
			Meta:     map[string]any{"name": item.Name, "price_per_unit": item.PricePerUnit.StringFixed(2)},
		})
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

func (r *repository) UpdateItem(ctx context.Context, item Item) (Item, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET name = $2, price_per_unit = $3, category = $4 WHERE id = $1`,
		item.ID, item.Name, item.PricePerUnit, item.Category)
	if err != nil {
		return Item{}, err
	}
	if tag.RowsAffected() == 0 {
		return Item{}, ErrItemNotFound
	}
	return item, nil
}

// DeleteItem removes the item and its inventory record. An item still
// referenced by sales or snapshot rows cannot be removed; the foreign key
// violation surfaces as ErrItemInUse.
func (r *repository) DeleteItem(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM inventory WHERE item_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrItemInUse
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrItemNotFound
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "item:delete",
			Entity:   "item",
			EntityID: id,
		})
	})
}

func (r *repository) ListInventory(ctx context.Context) ([]InventoryLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT inv.id, inv.item_id, inv.current_stock, inv.last_updated,
		       i.id, i.name, i.price_per_unit, i.category, i.created_at
		FROM inventory inv
		JOIN items i ON i.id = inv.item_id
		ORDER BY i.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []InventoryLine
	for rows.Next() {
		var line InventoryLine
		if err := rows.Scan(
			&line.ID, &line.ItemID, &line.CurrentStock, &line.LastUpdated,
			&line.Item.ID, &line.Item.Name, &line.Item.PricePerUnit, &line.Item.Category, &line.Item.CreatedAt,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *repository) GetInventoryByItem(ctx context.Context, itemID string) (InventoryRecord, error) {
	var rec InventoryRecord
	err := r.pool.QueryRow(ctx,
		`SELECT id, item_id, current_stock, last_updated FROM inventory WHERE item_id = $1`, itemID).
		Scan(&rec.ID, &rec.ItemID, &rec.CurrentStock, &rec.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return InventoryRecord{}, ErrInventoryNotFound
	}
	return rec, err
}

func (r *repository) SetStock(ctx context.Context, itemID string, stock int) (InventoryRecord, error) {
	var rec InventoryRecord
	err := r.pool.QueryRow(ctx,
		`UPDATE inventory SET current_stock = $2, last_updated = now() WHERE item_id = $1
		 RETURNING id, item_id, current_stock, last_updated`,
		itemID, stock).
		Scan(&rec.ID, &rec.ItemID, &rec.CurrentStock, &rec.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return InventoryRecord{}, ErrInventoryNotFound
	}
	return rec, err
}
