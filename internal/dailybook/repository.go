package dailybook

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lodgebooks/lodgebooks/internal/audit"
	"github.com/lodgebooks/lodgebooks/internal/platform/db"
	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// Repository persists daily balances and snapshots. Day keys are stored as
// DATE columns, so rows are matched by calendar day rather than timestamp.
type Repository interface {
	GetBalance(ctx context.Context, day time.Time) (DailyBalance, error)
	UpsertOpeningBalance(ctx context.Context, bal DailyBalance) (DailyBalance, error)
	CloseBalance(ctx context.Context, day time.Time, closing decimal.Decimal) (DailyBalance, error)

	ListSnapshots(ctx context.Context, day time.Time) ([]InventorySnapshot, error)
	CreateSnapshot(ctx context.Context, snap InventorySnapshot) (InventorySnapshot, error)
	CloseSnapshot(ctx context.Context, day time.Time, itemID string, closing int) (InventorySnapshot, error)
	CarryForwardSnapshots(ctx context.Context, from, to time.Time) (int64, error)

	ResetDay(ctx context.Context, window shared.DayWindow) (ResetResult, error)
}

type repository struct {
	pool  *pgxpool.Pool
	audit *audit.Recorder
}

// NewRepository constructs a PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool, recorder *audit.Recorder) Repository {
	return &repository{pool: pool, audit: recorder}
}

const balanceColumns = `id, day, opening_balance, closing_balance, is_closed, created_at, updated_at`

func (r *repository) GetBalance(ctx context.Context, day time.Time) (DailyBalance, error) {
	var bal DailyBalance
	err := r.pool.QueryRow(ctx, `SELECT `+balanceColumns+` FROM daily_balances WHERE day = $1`, day).
		Scan(&bal.ID, &bal.Day, &bal.OpeningBalance, &bal.ClosingBalance, &bal.IsClosed, &bal.CreatedAt, &bal.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DailyBalance{}, ErrBalanceNotFound
	}
	return bal, err
}

// UpsertOpeningBalance sets or replaces the opening balance for the day. The
// is_closed guard in the conflict clause makes the upsert a no-op on a closed
// day, which surfaces as ErrDayClosed.
func (r *repository) UpsertOpeningBalance(ctx context.Context, bal DailyBalance) (DailyBalance, error) {
	var out DailyBalance
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO daily_balances (id, day, opening_balance, is_closed, created_at, updated_at)
			 VALUES ($1, $2, $3, FALSE, $4, $4)
			 ON CONFLICT (day) DO UPDATE SET opening_balance = EXCLUDED.opening_balance, updated_at = EXCLUDED.updated_at
			 WHERE daily_balances.is_closed = FALSE
			 RETURNING `+balanceColumns,
			bal.ID, bal.Day, bal.OpeningBalance, bal.UpdatedAt).
			Scan(&out.ID, &out.Day, &out.OpeningBalance, &out.ClosingBalance, &out.IsClosed, &out.CreatedAt, &out.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDayClosed
		}
		if err != nil {
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "balance:set-opening",
			Entity:   "daily_balance",
			EntityID: out.ID,
			Meta:     map[string]any{"day": out.Day.Format(shared.DayFormat), "opening": out.OpeningBalance.StringFixed(2)},
		})
	})
	if err != nil {
		return DailyBalance{}, err
	}
	return out, nil
}

// CloseBalance records the counted closing cash and locks the day. The
// is_closed=FALSE predicate makes a double close fail instead of silently
// overwriting the first count.
func (r *repository) CloseBalance(ctx context.Context, day time.Time, closing decimal.Decimal) (DailyBalance, error) {
	var out DailyBalance
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE daily_balances SET closing_balance = $2, is_closed = TRUE, updated_at = now()
			 WHERE day = $1 AND is_closed = FALSE
			 RETURNING `+balanceColumns,
			day, closing).
			Scan(&out.ID, &out.Day, &out.OpeningBalance, &out.ClosingBalance, &out.IsClosed, &out.CreatedAt, &out.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM daily_balances WHERE day = $1)`, day).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return ErrDayClosed
			}
			return ErrBalanceNotFound
		}
		if err != nil {
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "balance:close",
			Entity:   "daily_balance",
			EntityID: out.ID,
			Meta:     map[string]any{"day": out.Day.Format(shared.DayFormat), "closing": closing.StringFixed(2)},
		})
	})
	if err != nil {
		return DailyBalance{}, err
	}
	return out, nil
}

const snapshotColumns = `id, day, item_id, opening_stock, closing_stock, is_closed, created_at, updated_at`

func (r *repository) ListSnapshots(ctx context.Context, day time.Time) ([]InventorySnapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+` FROM daily_inventory_snapshots WHERE day = $1 ORDER BY item_id`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InventorySnapshot
	for rows.Next() {
		var snap InventorySnapshot
		if err := rows.Scan(&snap.ID, &snap.Day, &snap.ItemID, &snap.OpeningStock, &snap.ClosingStock,
			&snap.IsClosed, &snap.CreatedAt, &snap.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// CreateSnapshot inserts the day's opening snapshot for an item. At most one
// snapshot exists per (day, item); a second insert fails with
// ErrSnapshotExists.
func (r *repository) CreateSnapshot(ctx context.Context, snap InventorySnapshot) (InventorySnapshot, error) {
	var out InventorySnapshot
	err := r.pool.QueryRow(ctx,
		`INSERT INTO daily_inventory_snapshots (id, day, item_id, opening_stock, is_closed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, FALSE, $5, $5)
		 ON CONFLICT (day, item_id) DO NOTHING
		 RETURNING `+snapshotColumns,
		snap.ID, snap.Day, snap.ItemID, snap.OpeningStock, snap.UpdatedAt).
		Scan(&out.ID, &out.Day, &out.ItemID, &out.OpeningStock, &out.ClosingStock,
			&out.IsClosed, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return InventorySnapshot{}, ErrSnapshotExists
	}
	if err != nil {
		return InventorySnapshot{}, err
	}
	return out, nil
}

func (r *repository) CloseSnapshot(ctx context.Context, day time.Time, itemID string, closing int) (InventorySnapshot, error) {
	var out InventorySnapshot
	err := r.pool.QueryRow(ctx,
		`UPDATE daily_inventory_snapshots SET closing_stock = $3, is_closed = TRUE, updated_at = now()
		 WHERE day = $1 AND item_id = $2 AND is_closed = FALSE
		 RETURNING `+snapshotColumns,
		day, itemID, closing).
		Scan(&out.ID, &out.Day, &out.ItemID, &out.OpeningStock, &out.ClosingStock,
			&out.IsClosed, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM daily_inventory_snapshots WHERE day = $1 AND item_id = $2)`,
			day, itemID).Scan(&exists); err != nil {
			return InventorySnapshot{}, err
		}
		if exists {
			return InventorySnapshot{}, ErrSnapshotClosed
		}
		return InventorySnapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return InventorySnapshot{}, err
	}
	return out, nil
}

// CarryForwardSnapshots opens the target day's snapshots from the source
// day's closed ones, carrying closing stock over as the new opening stock.
// Items already snapshotted for the target day are left alone.
func (r *repository) CarryForwardSnapshots(ctx context.Context, from, to time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO daily_inventory_snapshots (id, day, item_id, opening_stock, is_closed, created_at, updated_at)
		 SELECT gen_random_uuid(), $2, item_id, closing_stock, FALSE, now(), now()
		 FROM daily_inventory_snapshots
		 WHERE day = $1 AND is_closed = TRUE AND closing_stock IS NOT NULL
		 ON CONFLICT (day, item_id) DO NOTHING`,
		from, to)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ResetDay wipes the day's transactions and reopens the balance in a single
// transaction, so a failure leaves everything untouched. Inventory stock is
// deliberately not restored; the physical count did not change because the
// books were corrected.
func (r *repository) ResetDay(ctx context.Context, window shared.DayWindow) (ResetResult, error) {
	result := ResetResult{Date: window.Day()}
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM sales WHERE date >= $1 AND date < $2`, window.From, window.To)
		if err != nil {
			return err
		}
		result.SalesDeleted = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM expenses WHERE date >= $1 AND date < $2`, window.From, window.To)
		if err != nil {
			return err
		}
		result.ExpensesDeleted = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM online_payments WHERE date >= $1 AND date < $2`, window.From, window.To)
		if err != nil {
			return err
		}
		result.PaymentsDeleted = tag.RowsAffected()

		tag, err = tx.Exec(ctx,
			`UPDATE daily_balances SET closing_balance = NULL, is_closed = FALSE, updated_at = now() WHERE day = $1`,
			window.From)
		if err != nil {
			return err
		}
		result.BalanceCleared = tag.RowsAffected() > 0

		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "day:reset",
			Entity:   "daily_balance",
			EntityID: window.Day(),
			Meta: map[string]any{
				"sales_deleted":    result.SalesDeleted,
				"expenses_deleted": result.ExpensesDeleted,
				"payments_deleted": result.PaymentsDeleted,
			},
		})
	})
	if err != nil {
		return ResetResult{}, err
	}
	return result, nil
}
