package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/lodgebooks/lodgebooks/internal/app"
	"github.com/lodgebooks/lodgebooks/internal/audit"
	"github.com/lodgebooks/lodgebooks/internal/dailybook"
	"github.com/lodgebooks/lodgebooks/internal/expenses"
	"github.com/lodgebooks/lodgebooks/internal/payments"
	"github.com/lodgebooks/lodgebooks/internal/platform/cache"
	"github.com/lodgebooks/lodgebooks/internal/platform/db"
	"github.com/lodgebooks/lodgebooks/internal/sales"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	appCache := cache.NewCache(redisClient, cfg.SummaryCacheTTL)

	recorder := audit.NewRecorder(pool)
	salesService := sales.NewService(sales.NewRepository(pool, recorder), appCache, loc)
	expensesService := expenses.NewService(expenses.NewRepository(pool, recorder), appCache, loc)
	paymentsService := payments.NewService(payments.NewRepository(pool, recorder), appCache, loc)

	dailybookService := dailybook.NewService(
		dailybook.NewRepository(pool, recorder),
		salesService, expensesService, paymentsService,
		appCache, loc,
	)

	rollover := jobs.NewRollover(dailybookService, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Location:  loc,
		Handlers:  rollover.TaskHandlers(),
		Cron: []jobs.CronRegistration{
			// Shortly after the business-day boundary so late writes land
			// before the carry-forward runs.
			{Spec: "5 0 * * *", Task: jobs.NewDailyRolloverTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
