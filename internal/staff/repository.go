package staff

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

// Repository persists staff data. Employees and their payout history are
// permanent ledger rows; there is no removal path.
type Repository interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	CreateEmployee(ctx context.Context, e Employee) (Employee, error)

	ListAttendance(ctx context.Context, day time.Time) ([]AttendanceLine, error)
	UpsertAttendance(ctx context.Context, att Attendance) (Attendance, error)

	ListSalaryPayments(ctx context.Context) ([]SalaryLine, error)
	ListSalaryPaymentsByRange(ctx context.Context, from, to time.Time) ([]SalaryLine, error)
	CreateSalaryPayment(ctx context.Context, p SalaryPayment) (SalaryPayment, error)
}

type repository struct {
	pool  *pgxpool.Pool
	audit *audit.Recorder
}

// NewRepository constructs a PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool, recorder *audit.Recorder) Repository {
	return &repository{pool: pool, audit: recorder}
}

const employeeColumns = `id, name, position, daily_pay, created_at`

func (r *repository) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Position, &e.DailyPay, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) GetEmployee(ctx context.Context, id string) (Employee, error) {
	var e Employee
	err := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.Position, &e.DailyPay, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (r *repository) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO employees (id, name, position, daily_pay, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Name, e.Position, e.DailyPay, e.CreatedAt)
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (r *repository) ListAttendance(ctx context.Context, day time.Time) ([]AttendanceLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.employee_id, a.att_date, a.present,
		       e.id, e.name, e.position, e.daily_pay, e.created_at
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.att_date = $1
		ORDER BY e.name`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendanceLine
	for rows.Next() {
		var line AttendanceLine
		if err := rows.Scan(
			&line.ID, &line.EmployeeID, &line.Day, &line.Present,
			&line.Employee.ID, &line.Employee.Name, &line.Employee.Position,
			&line.Employee.DailyPay, &line.Employee.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// UpsertAttendance keeps one row per employee per day; a second mark for the
// same day updates the existing row.
func (r *repository) UpsertAttendance(ctx context.Context, att Attendance) (Attendance, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attendance (id, employee_id, att_date, present)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (employee_id, att_date) DO UPDATE SET present = EXCLUDED.present
		 RETURNING id, employee_id, att_date, present`,
		att.ID, att.EmployeeID, att.Day, att.Present).
		Scan(&att.ID, &att.EmployeeID, &att.Day, &att.Present)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Attendance{}, ErrEmployeeNotFound
		}
		return Attendance{}, err
	}
	return att, nil
}

const salarySelect = `
	SELECT p.id, p.employee_id, p.amount, p.month, p.year, p.date,
	       e.id, e.name, e.position, e.daily_pay, e.created_at
	FROM salary_payments p
	JOIN employees e ON e.id = p.employee_id`

func (r *repository) ListSalaryPayments(ctx context.Context) ([]SalaryLine, error) {
	rows, err := r.pool.Query(ctx, salarySelect+` ORDER BY p.date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSalaryLines(rows)
}

func (r *repository) ListSalaryPaymentsByRange(ctx context.Context, from, to time.Time) ([]SalaryLine, error) {
	rows, err := r.pool.Query(ctx, salarySelect+` WHERE p.date >= $1 AND p.date < $2 ORDER BY p.date DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSalaryLines(rows)
}

func (r *repository) CreateSalaryPayment(ctx context.Context, p SalaryPayment) (SalaryPayment, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO salary_payments (id, employee_id, amount, month, year, date)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, p.EmployeeID, p.Amount, p.Month, p.Year, p.Date)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrEmployeeNotFound
			}
			return err
		}
		return r.audit.RecordIn(ctx, tx, audit.Entry{
			Action:   "salary:pay",
			Entity:   "salary_payment",
			EntityID: p.ID,
			Meta:     map[string]any{"employee_id": p.EmployeeID, "amount": p.Amount.StringFixed(2)},
		})
	})
	if err != nil {
		return SalaryPayment{}, err
	}
	return p, nil
}

func scanSalaryLines(rows pgx.Rows) ([]SalaryLine, error) {
	var out []SalaryLine
	for rows.Next() {
		var line SalaryLine
		if err := rows.Scan(
			&line.ID, &line.EmployeeID, &line.Amount, &line.Month, &line.Year, &line.Date,
			&line.Employee.ID, &line.Employee.Name, &line.Employee.Position,
			&line.Employee.DailyPay, &line.Employee.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
