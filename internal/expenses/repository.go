package expenses

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lodgebooks/lodgebooks/internal/audit"
	"github.com/lodgebooks/lodgebooks/internal/platform/db"
)

// Repository persists expenses.
type Repository interface {
	List(ctx context.Context) ([]Expense, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]Expense, error)
	Create(ctx context.Context, exp Expense) (Expense, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool  *pgxpool.Pool
	audit *audit.Recorder
}

// NewRepository constructs a PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool, recorder *audit.Recorder) Repository {
	return &repository{pool: pool, audit: recorder}
}

const expenseColumns = `id, description, amount, category, date`

func (r *repository) List(ctx context.Context) ([]Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func (r *repository) ListByRange(ctx context.Context, from, to time.Time) ([]Expense, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE date >= $1 AND date < $2 ORDER BY date DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func (r *repository) Create(ctx context.Context, exp Expense) (Expense, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO expenses (id, description, amount, category, date) VALUES ($1, $2, $3, $4, $5)`,
			exp.ID, exp.Description, exp.Amount, exp.Category, exp.Date); err != nil {
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "expense:create",
			Entity:   "expense",
			EntityID: exp.ID,
			Meta:     map[string]any{"amount": exp.Amount.StringFixed(2), "category": exp.Category},
		})
	})
	if err != nil {
		return Expense{}, err
	}
	return exp, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrExpenseNotFound
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "expense:delete",
			Entity:   "expense",
			EntityID: id,
		})
	})
}

func scanExpenses(rows pgx.Rows) ([]Expense, error) {
	var out []Expense
	for rows.Next() {
		var exp Expense
		if err := rows.Scan(&exp.ID, &exp.Description, &exp.Amount, &exp.Category, &exp.Date); err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}
