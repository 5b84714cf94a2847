package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tajirhq/tajir/internal/alerts"
	"github.com/tajirhq/tajir/internal/app"
	"github.com/tajirhq/tajir/internal/auth"
	"github.com/tajirhq/tajir/internal/bulk"
	"github.com/tajirhq/tajir/internal/catalog"
	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/catalog/shippers"
	"github.com/tajirhq/tajir/internal/expenses"
	"github.com/tajirhq/tajir/internal/finance"
	"github.com/tajirhq/tajir/internal/observability"
	"github.com/tajirhq/tajir/internal/orders"
	"github.com/tajirhq/tajir/internal/platform/cache"
	"github.com/tajirhq/tajir/internal/platform/db"
	"github.com/tajirhq/tajir/internal/settings"
	"github.com/tajirhq/tajir/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	metrics := observability.NewMetrics()

	productRepo := products.NewRepository(pool)
	productService := products.NewService(productRepo)
	productHandler := products.NewHandler(logger, productService)

	shipperRepo := shippers.NewRepository(pool)
	shipperService := shippers.NewService(shipperRepo)
	shipperHandler := shippers.NewHandler(logger, shipperService)

	catalogStore := catalog.NewStore(productRepo, shipperRepo)

	orderRepo := orders.NewRepository(pool)
	orderService := orders.NewService(orderRepo, catalogStore,
		orders.ServiceConfig{AllowNegativeStock: cfg.AllowNegativeStock}, metrics, logger)
	orderHandler := orders.NewHandler(logger, orderService)

	expenseRepo := expenses.NewRepository(pool)
	expenseService := expenses.NewService(expenseRepo, logger)
	expenseHandler := expenses.NewHandler(logger, expenseService)

	financeService := finance.NewService(orderRepo, productRepo, expenseRepo, redisClient, cfg.FinanceCacheTTL, logger)
	financeHandler := finance.NewHandler(logger, financeService)

	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo, logger)
	settingsHandler := settings.NewHandler(logger, settingsService)

	alertRepo := alerts.NewRepository(pool)
	alertService := alerts.NewService(alertRepo, orderRepo, productRepo, settingsService, logger)
	alertHandler := alerts.NewHandler(logger, alertService)

	importer := bulk.NewImporter(productRepo, shipperRepo, orderService, logger)
	bulkHandler := bulk.NewHandler(logger, importer, orderService, productRepo)

	authRepo := auth.NewRepository(pool)
	tokenStore := auth.NewTokenStore(redisClient, cfg.AuthTokenTTL)
	authService := auth.NewService(authRepo, tokenStore, logger)
	authHandler := auth.NewHandler(logger, authService)
	if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Error("seed admin", slog.Any("error", err))
		os.Exit(1)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Config:          cfg,
		AuthService:     authService,
		AuthHandler:     authHandler,
		ProductHandler:  productHandler,
		ShipperHandler:  shipperHandler,
		OrderHandler:    orderHandler,
		ExpenseHandler:  expenseHandler,
		FinanceHandler:  financeHandler,
		SettingsHandler: settingsHandler,
		AlertHandler:    alertHandler,
		BulkHandler:     bulkHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
		Middleware: app.MiddlewareStack(app.MiddlewareConfig{
			Logger:  logger,
			Config:  cfg,
			Metrics: metrics,
		}),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
