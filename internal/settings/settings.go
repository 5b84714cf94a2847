// Package settings stores the single application settings record: alert
// toggles and the defaults applied to new products and orders.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

// Settings is the singleton settings record.
type Settings struct {
	StoreName             string    `json:"store_name"`
	DefaultDeliveryDays   int       `json:"default_delivery_days"`
	DefaultStockThreshold int       `json:"default_stock_threshold"`
	DelayedAlertsEnabled  bool      `json:"delayed_alerts_enabled"`
	LowStockAlertsEnabled bool      `json:"low_stock_alerts_enabled"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Defaults applied when no settings row exists yet.
func Defaults() Settings {
	return Settings{
		DefaultDeliveryDays:   3,
		DefaultStockThreshold: 5,
		DelayedAlertsEnabled:  true,
		LowStockAlertsEnabled: true,
	}
}

type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, settings Settings) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// The table holds at most one row, pinned by id = true.
func (r *repository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.db.QueryRow(ctx,
		`SELECT store_name, default_delivery_days, default_stock_threshold,
			delayed_alerts_enabled, low_stock_alerts_enabled, updated_at
		 FROM app_settings WHERE id = true`).
		Scan(&s.StoreName, &s.DefaultDeliveryDays, &s.DefaultStockThreshold,
			&s.DelayedAlertsEnabled, &s.LowStockAlertsEnabled, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(), nil
	}
	return s, err
}

func (r *repository) Save(ctx context.Context, s Settings) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO app_settings (id, store_name, default_delivery_days, default_stock_threshold,
			delayed_alerts_enabled, low_stock_alerts_enabled, updated_at)
		 VALUES (true, $1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			store_name = EXCLUDED.store_name,
			default_delivery_days = EXCLUDED.default_delivery_days,
			default_stock_threshold = EXCLUDED.default_stock_threshold,
			delayed_alerts_enabled = EXCLUDED.delayed_alerts_enabled,
			low_stock_alerts_enabled = EXCLUDED.low_stock_alerts_enabled,
			updated_at = EXCLUDED.updated_at`,
		s.StoreName, s.DefaultDeliveryDays, s.DefaultStockThreshold,
		s.DelayedAlertsEnabled, s.LowStockAlertsEnabled, time.Now())
	return err
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Save(ctx context.Context, settings Settings) (Settings, error) {
	if settings.DefaultDeliveryDays < 1 {
		return Settings{}, fmt.Errorf("default delivery days must be at least 1: %w", httpx.ErrValidation)
	}
	if settings.DefaultStockThreshold < 0 {
		return Settings{}, fmt.Errorf("default stock threshold must be non-negative: %w", httpx.ErrValidation)
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.logger.InfoContext(ctx, "settings saved")
	return s.repo.Get(ctx)
}
