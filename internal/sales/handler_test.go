package sales

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *fakeRepository) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(NewService(repo, nil, time.UTC), logger)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestSalesAreAppendOnly(t *testing.T) {
	repo := newFakeRepository()
	repo.addItem("item-1", "Masala Dosa", 10)
	svc := NewService(repo, nil, time.UTC)

	sale, err := svc.CreateSale(context.Background(), CreateSaleInput{
		ItemID: "item-1", Quantity: 1, UnitPrice: decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)

	router := newTestRouter(repo)
	for _, method := range []string{http.MethodDelete, http.MethodPut, http.MethodPatch} {
		req := httptest.NewRequest(method, "/sales/"+sale.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code, "%s must not be routed", method)
	}

	all, err := svc.ListSales(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 1, "the recorded sale stays on the books")
}

func TestCreateSaleAcceptsDayOnlyDate(t *testing.T) {
	repo := newFakeRepository()
	repo.addItem("item-1", "Filter Coffee", 100)
	router := newTestRouter(repo)

	body := `{"itemId":"item-1","quantity":2,"unitPrice":"25.00","date":"2025-03-14"}`
	req := httptest.NewRequest(http.MethodPost, "/sales/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, repo.sales, 1)
	require.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), repo.sales[0].Date)
}

func TestCreateSaleRejectsUnparseableDate(t *testing.T) {
	repo := newFakeRepository()
	repo.addItem("item-1", "Filter Coffee", 100)
	router := newTestRouter(repo)

	body := `{"itemId":"item-1","quantity":2,"unitPrice":"25.00","date":"14/03/2025"}`
	req := httptest.NewRequest(http.MethodPost, "/sales/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
