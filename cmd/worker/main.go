package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/tajirhq/tajir/internal/alerts"
	"github.com/tajirhq/tajir/internal/app"
	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/expenses"
	"github.com/tajirhq/tajir/internal/finance"
	"github.com/tajirhq/tajir/internal/orders"
	"github.com/tajirhq/tajir/internal/platform/cache"
	"github.com/tajirhq/tajir/internal/platform/db"
	"github.com/tajirhq/tajir/internal/settings"
	"github.com/tajirhq/tajir/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

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

	productRepo := products.NewRepository(pool)
	orderRepo := orders.NewRepository(pool)
	expenseRepo := expenses.NewRepository(pool)
	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo, logger)

	alertRepo := alerts.NewRepository(pool)
	alertService := alerts.NewService(alertRepo, orderRepo, productRepo, settingsService, logger)
	scanJob := jobs.NewAlertScanJob(alertService, logger)

	financeService := finance.NewService(orderRepo, productRepo, expenseRepo, redisClient, cfg.FinanceCacheTTL, logger)
	warmupJob := jobs.NewFinanceWarmupJob(financeService, logger)

	warmupTask, err := jobs.NewFinanceWarmupTask(jobs.FinanceWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAlertScan, Handler: scanJob.Handle},
			{Type: jobs.TaskFinanceWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.AlertScanCron, Task: jobs.NewAlertScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 5 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
