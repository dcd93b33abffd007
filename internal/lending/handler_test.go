package lending

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	NewHandler(svc, logger).MountRoutes(router)
	return router
}

func TestBorrowersStayOnTheBooks(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)
	router := newTestRouter(svc)

	b, err := svc.CreateBorrower(context.Background(), CreateBorrowerInput{
		Name:           "Ramesh",
		AmountBorrowed: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/borrowers/"+b.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code, "loans are settled through repayments, never erased")

	remaining, err := svc.ListBorrowers(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}

func TestDepositorDeleteStillRouted(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)
	router := newTestRouter(svc)

	d, err := svc.CreateDepositor(context.Background(), CreateDepositorInput{
		Name:   "Suresh",
		Amount: decimal.NewFromInt(2000),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/depositors/"+d.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = svc.GetDepositor(context.Background(), d.ID)
	require.ErrorIs(t, err, ErrDepositorNotFound)
}
