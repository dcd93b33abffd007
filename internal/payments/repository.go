package payments

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lodgebooks/lodgebooks/internal/audit"
	"github.com/lodgebooks/lodgebooks/internal/platform/db"
)

// Repository persists online payments.
type Repository interface {
	List(ctx context.Context) ([]OnlinePayment, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]OnlinePayment, error)
	Create(ctx context.Context, p OnlinePayment) (OnlinePayment, error)
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

const paymentColumns = `id, amount, method, transaction_ref, date`

func (r *repository) List(ctx context.Context) ([]OnlinePayment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM online_payments ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *repository) ListByRange(ctx context.Context, from, to time.Time) ([]OnlinePayment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM online_payments WHERE date >= $1 AND date < $2 ORDER BY date DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *repository) Create(ctx context.Context, p OnlinePayment) (OnlinePayment, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO online_payments (id, amount, method, transaction_ref, date) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.Amount, string(p.Method), p.TransactionRef, p.Date); err != nil {
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "payment:create",
			Entity:   "online_payment",
			EntityID: p.ID,
			Meta:     map[string]any{"amount": p.Amount.StringFixed(2), "method": string(p.Method)},
		})
	})
	if err != nil {
		return OnlinePayment{}, err
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM online_payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func scanPayments(rows pgx.Rows) ([]OnlinePayment, error) {
	var out []OnlinePayment
	for rows.Next() {
		var p OnlinePayment
		var method string
		if err := rows.Scan(&p.ID, &p.Amount, &method, &p.TransactionRef, &p.Date); err != nil {
			return nil, err
		}
		p.Method = Method(method)
		out = append(out, p)
	}
	return out, rows.Err()
}
