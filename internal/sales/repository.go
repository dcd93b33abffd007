package sales

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lodgebooks/lodgebooks/internal/audit"
	"github.com/lodgebooks/lodgebooks/internal/platform/db"
)

// Repository persists sales. Sales are append-only; the only sanctioned
// removal is the day reset, which runs in the dailybook repository.
type Repository interface {
	List(ctx context.Context) ([]SaleLine, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]SaleLine, error)
	Create(ctx context.Context, sale Sale) (Sale, error)
}

type repository struct {
	pool  *pgxpool.Pool
	audit *audit.Recorder
}

// NewRepository constructs a PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool, recorder *audit.Recorder) Repository {
	return &repository{pool: pool, audit: recorder}
}

const saleSelect = `
	SELECT s.id, s.item_id, s.quantity, s.unit_price, s.total, s.customer_name, s.date,
	       i.id, i.name, i.price_per_unit, i.category, i.created_at
	FROM sales s
	JOIN items i ON i.id = s.item_id`

func (r *repository) List(ctx context.Context) ([]SaleLine, error) {
	rows, err := r.pool.Query(ctx, saleSelect+` ORDER BY s.date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSaleLines(rows)
}

func (r *repository) ListByRange(ctx context.Context, from, to time.Time) ([]SaleLine, error) {
	rows, err := r.pool.Query(ctx, saleSelect+` WHERE s.date >= $1 AND s.date < $2 ORDER BY s.date DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSaleLines(rows)
}

// Create inserts the sale and decrements the matching inventory record inside
// one transaction. Stock is clamped at zero: a sale that would oversell still
// succeeds, the discrepancy surfaces in the day-close variance instead.
func (r *repository) Create(ctx context.Context, sale Sale) (Sale, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO sales (id, item_id, quantity, unit_price, total, customer_name, date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sale.ID, sale.ItemID, sale.Quantity, sale.UnitPrice, sale.Total, sale.CustomerName, sale.Date)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrItemNotFound
			}
			return err
		}

		var remaining int
		err = tx.QueryRow(ctx,
			`UPDATE inventory SET current_stock = GREATEST(0, current_stock - $2), last_updated = now()
			 WHERE item_id = $1 RETURNING current_stock`,
			sale.ItemID, sale.Quantity).Scan(&remaining)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "sale:create",
			Entity:   "sale",
			EntityID: sale.ID,
			Meta: map[string]any{
				"item_id":  sale.ItemID,
				"quantity": sale.Quantity,
				"total":    sale.Total.StringFixed(2),
			},
		})
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func scanSaleLines(rows pgx.Rows) ([]SaleLine, error) {
	var lines []SaleLine
	for rows.Next() {
		var line SaleLine
		if err := rows.Scan(
			&line.ID, &line.ItemID, &line.Quantity, &line.UnitPrice, &line.Total, &line.CustomerName, &line.Date,
			&line.Item.ID, &line.Item.Name, &line.Item.PricePerUnit, &line.Item.Category, &line.Item.CreatedAt,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
