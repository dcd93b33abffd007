// Package company stores the single business profile used on receipts and
// reports.
package company

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Info is the business profile. Exactly one row exists; saving replaces it.
type Info struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	GSTNumber string
	Logo      string
	UpdatedAt time.Time
}

// UpsertInput carries the profile fields.
type UpsertInput struct {
	Name      string
	Address   string
	Phone     string
	Email     string
	GSTNumber string
	Logo      string
}

// ErrNotConfigured is returned before the profile has ever been saved.
var ErrNotConfigured = errors.New("company: profile not configured")

// ErrInvalidInput wraps field-level validation failures.
var ErrInvalidInput = errors.New("company: invalid input")

// Repository persists the profile.
type Repository interface {
	Get(ctx context.Context) (Info, error)
	Upsert(ctx context.Context, info Info) (Info, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const infoColumns = `id, name, address, phone, email, gst_number, logo, updated_at`

func (r *repository) Get(ctx context.Context) (Info, error) {
	var info Info
	err := r.pool.QueryRow(ctx, `SELECT `+infoColumns+` FROM company_info LIMIT 1`).
		Scan(&info.ID, &info.Name, &info.Address, &info.Phone, &info.Email, &info.GSTNumber, &info.Logo, &info.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Info{}, ErrNotConfigured
	}
	return info, err
}

// Upsert keeps the table at exactly one row. The singleton_guard column has a
// unique constraint so concurrent first saves collapse into one row.
func (r *repository) Upsert(ctx context.Context, info Info) (Info, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO company_info (id, singleton_guard, name, address, phone, email, gst_number, logo, updated_at)
		 VALUES ($1, TRUE, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (singleton_guard) DO UPDATE SET
		   name = EXCLUDED.name, address = EXCLUDED.address, phone = EXCLUDED.phone,
		   email = EXCLUDED.email, gst_number = EXCLUDED.gst_number, logo = EXCLUDED.logo,
		   updated_at = EXCLUDED.updated_at
		 RETURNING `+infoColumns,
		info.ID, info.Name, info.Address, info.Phone, info.Email, info.GSTNumber, info.Logo, info.UpdatedAt).
		Scan(&info.ID, &info.Name, &info.Address, &info.Phone, &info.Email, &info.GSTNumber, &info.Logo, &info.UpdatedAt)
	if err != nil {
		return Info{}, err
	}
	return info, nil
}

// Service implements the profile use cases.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires the company service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get returns the profile, or ErrNotConfigured before the first save.
func (s *Service) Get(ctx context.Context) (Info, error) {
	return s.repo.Get(ctx)
}

// Save creates or replaces the profile.
func (s *Service) Save(ctx context.Context, in UpsertInput) (Info, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Info{}, ErrInvalidInput
	}
	return s.repo.Upsert(ctx, Info{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		GSTNumber: in.GSTNumber,
		Logo:      in.Logo,
		UpdatedAt: s.now(),
	})
}
