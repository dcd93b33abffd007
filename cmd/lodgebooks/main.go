package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lodgebooks/lodgebooks/internal/app"
	"github.com/lodgebooks/lodgebooks/internal/audit"
	"github.com/lodgebooks/lodgebooks/internal/catalog"
	"github.com/lodgebooks/lodgebooks/internal/company"
	"github.com/lodgebooks/lodgebooks/internal/dailybook"
	"github.com/lodgebooks/lodgebooks/internal/expenses"
	"github.com/lodgebooks/lodgebooks/internal/lending"
	"github.com/lodgebooks/lodgebooks/internal/observability"
	"github.com/lodgebooks/lodgebooks/internal/payments"
	"github.com/lodgebooks/lodgebooks/internal/platform/cache"
	"github.com/lodgebooks/lodgebooks/internal/platform/db"
	"github.com/lodgebooks/lodgebooks/internal/sales"
	"github.com/lodgebooks/lodgebooks/internal/staff"
	"github.com/lodgebooks/lodgebooks/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	loc := cfg.Location()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Redis is an accelerator, not a dependency; without it every summary
	// read just hits Postgres.
	var appCache *cache.Cache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
	} else {
		appCache = cache.NewCache(redisClient, cfg.SummaryCacheTTL)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	recorder := audit.NewRecorder(pool)

	catalogService := catalog.NewService(catalog.NewRepository(pool, recorder), appCache)
	salesService := sales.NewService(sales.NewRepository(pool, recorder), appCache, loc)
	expensesService := expenses.NewService(expenses.NewRepository(pool, recorder), appCache, loc)
	paymentsService := payments.NewService(payments.NewRepository(pool, recorder), appCache, loc)
	lendingService := lending.NewService(lending.NewRepository(pool, recorder), appCache)
	staffService := staff.NewService(staff.NewRepository(pool, recorder), loc)
	companyService := company.NewService(company.NewRepository(pool))

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	dailybookService := dailybook.NewService(
		dailybook.NewRepository(pool, recorder),
		salesService, expensesService, paymentsService,
		appCache, loc,
	).WithEnqueuer(jobsClient)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          metrics,
		CatalogHandler:   catalog.NewHandler(catalogService, logger),
		SalesHandler:     sales.NewHandler(salesService, logger),
		ExpensesHandler:  expenses.NewHandler(expensesService, logger),
		PaymentsHandler:  payments.NewHandler(paymentsService, logger),
		LendingHandler:   lending.NewHandler(lendingService, logger),
		StaffHandler:     staff.NewHandler(staffService, logger),
		CompanyHandler:   company.NewHandler(companyService, logger),
		DailybookHandler: dailybook.NewHandler(dailybookService, logger),
		AuditHandler:     audit.NewHandler(recorder, logger, loc),
		JobsHandler:      jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
