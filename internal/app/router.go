package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lodgebooks/lodgebooks/internal/audit"
	"github.com/lodgebooks/lodgebooks/internal/catalog"
	"github.com/lodgebooks/lodgebooks/internal/company"
	"github.com/lodgebooks/lodgebooks/internal/dailybook"
	"github.com/lodgebooks/lodgebooks/internal/expenses"
	"github.com/lodgebooks/lodgebooks/internal/lending"
	"github.com/lodgebooks/lodgebooks/internal/observability"
	"github.com/lodgebooks/lodgebooks/internal/payments"
	"github.com/lodgebooks/lodgebooks/internal/platform/httpx"
	"github.com/lodgebooks/lodgebooks/internal/sales"
	"github.com/lodgebooks/lodgebooks/internal/staff"
	"github.com/lodgebooks/lodgebooks/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	CatalogHandler   *catalog.Handler
	SalesHandler     *sales.Handler
	ExpensesHandler  *expenses.Handler
	PaymentsHandler  *payments.Handler
	LendingHandler   *lending.Handler
	StaffHandler     *staff.Handler
	CompanyHandler   *company.Handler
	DailybookHandler *dailybook.Handler
	AuditHandler     *audit.Handler
	JobsHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with the full API surface mounted under
// /api.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		params.CatalogHandler.MountRoutes(r)
		params.SalesHandler.MountRoutes(r)
		params.ExpensesHandler.MountRoutes(r)
		params.PaymentsHandler.MountRoutes(r)
		params.LendingHandler.MountRoutes(r)
		params.StaffHandler.MountRoutes(r)
		params.CompanyHandler.MountRoutes(r)
		params.DailybookHandler.MountRoutes(r)
		if params.AuditHandler != nil {
			params.AuditHandler.MountRoutes(r)
		}
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
