// Package audit persists the append-only transaction log. Every mutating
// operation writes its entry inside the same database transaction as the
// mutation itself, so the trail can never disagree with the ledger.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// Entry represents a row in transaction_logs.
type Entry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entityId"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// DBTX is the subset of pgx execution methods the recorder needs. It is
// satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Recorder writes entries into transaction_logs. A nil Recorder is a no-op so
// tests can leave it out.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder returns a Recorder backed by the given pool.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record persists the entry using the recorder's own pool.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if r == nil || r.pool == nil {
		return nil
	}
	return r.RecordIn(ctx, r.pool, e)
}

// RecordIn persists the entry using the caller's transaction.
func (r *Recorder) RecordIn(ctx context.Context, db DBTX, e Entry) error {
	if r == nil {
		return nil
	}
	if e.Action == "" || e.Entity == "" {
		return errors.New("audit: entry requires action and entity")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	metaJSON, err := json.Marshal(e.Meta)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx,
		`INSERT INTO transaction_logs (id, action, entity, entity_id, meta, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Action, e.Entity, e.EntityID, metaJSON, e.OccurredAt)
	return err
}

// List returns entries newest first, optionally limited to one calendar day.
func (r *Recorder) List(ctx context.Context, window *shared.DayWindow, limit int) ([]Entry, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("audit: recorder not initialised")
	}
	if limit <= 0 {
		limit = 200
	}
	query := `SELECT id, action, entity, entity_id, meta, occurred_at FROM transaction_logs`
	args := []any{}
	if window != nil {
		query += ` WHERE occurred_at >= $1 AND occurred_at < $2`
		args = append(args, window.From, window.To)
	}
	query += ` ORDER BY occurred_at DESC LIMIT ` + strconv.Itoa(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var metaJSON []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.Entity, &e.EntityID, &metaJSON, &e.OccurredAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &e.Meta)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
