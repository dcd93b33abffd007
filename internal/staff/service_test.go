package staff

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type attendanceKey struct {
	employeeID string
	day        string
}

type fakeRepository struct {
	employees  map[string]Employee
	attendance map[attendanceKey]Attendance
	salaries   []SalaryLine
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		employees:  map[string]Employee{},
		attendance: map[attendanceKey]Attendance{},
	}
}

func (f *fakeRepository) ListEmployees(context.Context) ([]Employee, error) {
	out := make([]Employee, 0, len(f.employees))
	for _, e := range f.employees {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeRepository) GetEmployee(_ context.Context, id string) (Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeRepository) CreateEmployee(_ context.Context, e Employee) (Employee, error) {
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeRepository) ListAttendance(_ context.Context, day time.Time) ([]AttendanceLine, error) {
	var out []AttendanceLine
	for key, att := range f.attendance {
		if key.day == day.Format("2006-01-02") {
			out = append(out, AttendanceLine{Attendance: att, Employee: f.employees[att.EmployeeID]})
		}
	}
	return out, nil
}

func (f *fakeRepository) UpsertAttendance(_ context.Context, att Attendance) (Attendance, error) {
	if _, ok := f.employees[att.EmployeeID]; !ok {
		return Attendance{}, ErrEmployeeNotFound
	}
	key := attendanceKey{employeeID: att.EmployeeID, day: att.Day.Format("2006-01-02")}
	if existing, ok := f.attendance[key]; ok {
		existing.Present = att.Present
		f.attendance[key] = existing
		return existing, nil
	}
	f.attendance[key] = att
	return att, nil
}

func (f *fakeRepository) ListSalaryPayments(context.Context) ([]SalaryLine, error) {
	return f.salaries, nil
}

func (f *fakeRepository) ListSalaryPaymentsByRange(_ context.Context, from, to time.Time) ([]SalaryLine, error) {
	var out []SalaryLine
	for _, line := range f.salaries {
		if !line.Date.Before(from) && line.Date.Before(to) {
			out = append(out, line)
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateSalaryPayment(_ context.Context, p SalaryPayment) (SalaryPayment, error) {
	e, ok := f.employees[p.EmployeeID]
	if !ok {
		return SalaryPayment{}, ErrEmployeeNotFound
	}
	f.salaries = append(f.salaries, SalaryLine{SalaryPayment: p, Employee: e})
	return p, nil
}

func TestMarkAttendanceUpserts(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, time.UTC)

	e, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name:     "Lakshmi",
		Position: "cook",
		DailyPay: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	first, err := svc.MarkAttendance(context.Background(), e.ID, "2025-03-14", true)
	require.NoError(t, err)
	require.True(t, first.Present)

	// Re-marking the same day flips the existing record instead of adding one.
	second, err := svc.MarkAttendance(context.Background(), e.ID, "2025-03-14", false)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.False(t, second.Present)

	sheet, err := svc.ListAttendance(context.Background(), "2025-03-14")
	require.NoError(t, err)
	require.Len(t, sheet, 1)
}

func TestMarkAttendanceUnknownEmployee(t *testing.T) {
	svc := NewService(newFakeRepository(), time.UTC)

	_, err := svc.MarkAttendance(context.Background(), "ghost", "2025-03-14", true)
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestPaySalaryValidation(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, time.UTC)

	e, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name:     "Raju",
		DailyPay: decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	_, err = svc.PaySalary(context.Background(), CreateSalaryPaymentInput{
		EmployeeID: e.ID,
		Amount:     decimal.Zero,
		Month:      "March",
		Year:       2025,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.PaySalary(context.Background(), CreateSalaryPaymentInput{
		EmployeeID: e.ID,
		Amount:     decimal.NewFromInt(6000),
		Month:      "",
		Year:       2025,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	p, err := svc.PaySalary(context.Background(), CreateSalaryPaymentInput{
		EmployeeID: e.ID,
		Amount:     decimal.NewFromInt(6000),
		Month:      "March",
		Year:       2025,
	})
	require.NoError(t, err)
	require.Equal(t, "6000.00", p.Amount.StringFixed(2))
}

func TestListSalaryPaymentsByDay(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, time.UTC)

	e, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name:     "Geeta",
		DailyPay: decimal.NewFromInt(350),
	})
	require.NoError(t, err)

	_, err = svc.PaySalary(context.Background(), CreateSalaryPaymentInput{
		EmployeeID: e.ID,
		Amount:     decimal.NewFromInt(5000),
		Month:      "March",
		Year:       2025,
		Date:       time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = svc.PaySalary(context.Background(), CreateSalaryPaymentInput{
		EmployeeID: e.ID,
		Amount:     decimal.NewFromInt(5000),
		Month:      "April",
		Year:       2025,
		Date:       time.Date(2025, 4, 14, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	day, err := svc.ListSalaryPayments(context.Background(), "2025-03-14")
	require.NoError(t, err)
	require.Len(t, day, 1)
	require.Equal(t, "March", day[0].Month)
}
