package staff

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// Service implements staff use cases.
type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService wires the staff service. loc fixes the attendance day boundary.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return s.repo.GetEmployee(ctx, id)
}

// CreateEmployee adds a staff member to the payroll.
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (Employee, error) {
	if err := in.Validate(); err != nil {
		return Employee{}, err
	}
	return s.repo.CreateEmployee(ctx, Employee{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Position:  in.Position,
		DailyPay:  in.DailyPay,
		CreatedAt: s.now(),
	})
}

// ListAttendance returns the attendance sheet for a day. An empty day means
// today.
func (s *Service) ListAttendance(ctx context.Context, day string) ([]AttendanceLine, error) {
	d, err := s.resolveDay(day)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAttendance(ctx, d)
}

// MarkAttendance records presence for an employee on a day, replacing any
// earlier mark for the same day.
func (s *Service) MarkAttendance(ctx context.Context, employeeID, day string, present bool) (Attendance, error) {
	if employeeID == "" {
		return Attendance{}, ErrInvalidInput
	}
	d, err := s.resolveDay(day)
	if err != nil {
		return Attendance{}, err
	}
	return s.repo.UpsertAttendance(ctx, Attendance{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Day:        d,
		Present:    present,
	})
}

// ListSalaryPayments returns all payouts, or only the given calendar day's
// when day is non-empty.
func (s *Service) ListSalaryPayments(ctx context.Context, day string) ([]SalaryLine, error) {
	if day == "" {
		return s.repo.ListSalaryPayments(ctx)
	}
	window, err := shared.WindowForDay(day, s.loc)
	if err != nil {
		return nil, ErrInvalidInput
	}
	return s.repo.ListSalaryPaymentsByRange(ctx, window.From, window.To)
}

// PaySalary records a payout to an employee.
func (s *Service) PaySalary(ctx context.Context, in CreateSalaryPaymentInput) (SalaryPayment, error) {
	if err := in.Validate(); err != nil {
		return SalaryPayment{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now().In(s.loc)
	}
	return s.repo.CreateSalaryPayment(ctx, SalaryPayment{
		ID:         uuid.NewString(),
		EmployeeID: in.EmployeeID,
		Amount:     in.Amount,
		Month:      in.Month,
		Year:       in.Year,
		Date:       date,
	})
}

func (s *Service) resolveDay(day string) (time.Time, error) {
	if day == "" {
		now := s.now().In(s.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc), nil
	}
	parsed, err := shared.ParseDay(day, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidInput
	}
	return parsed, nil
}
