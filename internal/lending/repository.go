package lending

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lodgebooks/lodgebooks/internal/audit"
	"github.com/lodgebooks/lodgebooks/internal/platform/db"
)

// Repository persists borrowers and depositors. Borrower records stay on the
// books once created; loans are settled through repayments, never erased.
type Repository interface {
	ListBorrowers(ctx context.Context) ([]Borrower, error)
	GetBorrower(ctx context.Context, id string) (Borrower, error)
	CreateBorrower(ctx context.Context, b Borrower) (Borrower, error)
	AddRepayment(ctx context.Context, id string, amount decimal.Decimal) (Borrower, error)

	ListDepositors(ctx context.Context) ([]Depositor, error)
	GetDepositor(ctx context.Context, id string) (Depositor, error)
	CreateDepositor(ctx context.Context, d Depositor) (Depositor, error)
	MarkReturned(ctx context.Context, id string, amount decimal.Decimal) (Depositor, error)
	DeleteDepositor(ctx context.Context, id string) error
}

type repository struct {
	pool  *pgxpool.Pool
	audit *audit.Recorder
}

// NewRepository constructs a PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool, recorder *audit.Recorder) Repository {
	return &repository{pool: pool, audit: recorder}
}

const borrowerColumns = `id, name, phone, amount_borrowed, amount_repaid, created_at`

func (r *repository) ListBorrowers(ctx context.Context) ([]Borrower, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+borrowerColumns+` FROM borrowers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Borrower
	for rows.Next() {
		var b Borrower
		if err := rows.Scan(&b.ID, &b.Name, &b.Phone, &b.AmountBorrowed, &b.AmountRepaid, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repository) GetBorrower(ctx context.Context, id string) (Borrower, error) {
	var b Borrower
	err := r.pool.QueryRow(ctx, `SELECT `+borrowerColumns+` FROM borrowers WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Phone, &b.AmountBorrowed, &b.AmountRepaid, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Borrower{}, ErrBorrowerNotFound
	}
	return b, err
}

func (r *repository) CreateBorrower(ctx context.Context, b Borrower) (Borrower, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO borrowers (id, name, phone, amount_borrowed, amount_repaid, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			b.ID, b.Name, b.Phone, b.AmountBorrowed, b.AmountRepaid, b.CreatedAt); err != nil {
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "borrower:create",
			Entity:   "borrower",
			EntityID: b.ID,
			Meta:     map[string]any{"amount_borrowed": b.AmountBorrowed.StringFixed(2)},
		})
	})
	if err != nil {
		return Borrower{}, err
	}
	return b, nil
}

// AddRepayment accumulates the repayment atomically in a single update.
func (r *repository) AddRepayment(ctx context.Context, id string, amount decimal.Decimal) (Borrower, error) {
	var b Borrower
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE borrowers SET amount_repaid = amount_repaid + $2 WHERE id = $1
			 RETURNING `+borrowerColumns,
			id, amount).
			Scan(&b.ID, &b.Name, &b.Phone, &b.AmountBorrowed, &b.AmountRepaid, &b.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBorrowerNotFound
		}
		if err != nil {
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "borrower:repay",
			Entity:   "borrower",
			EntityID: id,
			Meta:     map[string]any{"amount": amount.StringFixed(2)},
		})
	})
	if err != nil {
		return Borrower{}, err
	}
	return b, nil
}

const depositorColumns = `id, name, amount, purpose, returned, returned_amount, date`

func (r *repository) ListDepositors(ctx context.Context) ([]Depositor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+depositorColumns+` FROM depositors ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Depositor
	for rows.Next() {
		var d Depositor
		if err := rows.Scan(&d.ID, &d.Name, &d.Amount, &d.Purpose, &d.Returned, &d.ReturnedAmount, &d.Date); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repository) GetDepositor(ctx context.Context, id string) (Depositor, error) {
	var d Depositor
	err := r.pool.QueryRow(ctx, `SELECT `+depositorColumns+` FROM depositors WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.Amount, &d.Purpose, &d.Returned, &d.ReturnedAmount, &d.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return Depositor{}, ErrDepositorNotFound
	}
	return d, err
}

func (r *repository) CreateDepositor(ctx context.Context, d Depositor) (Depositor, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO depositors (id, name, amount, purpose, returned, returned_amount, date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			d.ID, d.Name, d.Amount, d.Purpose, d.Returned, d.ReturnedAmount, d.Date); err != nil {
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "depositor:create",
			Entity:   "depositor",
			EntityID: d.ID,
			Meta:     map[string]any{"amount": d.Amount.StringFixed(2)},
		})
	})
	if err != nil {
		return Depositor{}, err
	}
	return d, nil
}

// MarkReturned overwrites the returned amount. Calling it again replaces the
// previous value rather than accumulating.
func (r *repository) MarkReturned(ctx context.Context, id string, amount decimal.Decimal) (Depositor, error) {
	var d Depositor
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE depositors SET returned = TRUE, returned_amount = $2 WHERE id = $1
			 RETURNING `+depositorColumns,
			id, amount).
			Scan(&d.ID, &d.Name, &d.Amount, &d.Purpose, &d.Returned, &d.ReturnedAmount, &d.Date)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDepositorNotFound
		}
		if err != nil {
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "depositor:return",
			Entity:   "depositor",
			EntityID: id,
			Meta:     map[string]any{"returned_amount": amount.StringFixed(2)},
		})
	})
	if err != nil {
		return Depositor{}, err
	}
	return d, nil
}

func (r *repository) DeleteDepositor(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM depositors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDepositorNotFound
	}
	return nil
}
