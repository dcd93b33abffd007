package staff

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRecordsArePermanent(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, time.UTC)

	e, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name:     "Lakshmi",
		Position: "cook",
		DailyPay: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	_, err = svc.PaySalary(context.Background(), CreateSalaryPaymentInput{
		EmployeeID: e.ID,
		Amount:     decimal.NewFromInt(6000),
		Month:      "March",
		Year:       2025,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	NewHandler(svc, logger).MountRoutes(router)

	req := httptest.NewRequest(http.MethodDelete, "/employees/"+e.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code, "payroll history must survive; there is no employee removal")

	_, err = svc.GetEmployee(context.Background(), e.ID)
	require.NoError(t, err)
	payments, err := svc.ListSalaryPayments(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, payments, 1)
}
