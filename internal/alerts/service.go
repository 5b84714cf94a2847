package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/orders"
	"github.com/tajirhq/tajir/internal/settings"
)

// Snapshot sources consumed by the scanner.
type (
	OrderSource interface {
		ListByStatus(ctx context.Context, statuses ...orders.Status) ([]orders.Order, error)
	}
	ProductSource interface {
		ListAll(ctx context.Context) ([]products.Product, error)
	}
	SettingsSource interface {
		Get(ctx context.Context) (settings.Settings, error)
	}
)

type Service struct {
	repo     Repository
	orders   OrderSource
	products ProductSource
	settings SettingsSource
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, orderSrc OrderSource, productSrc ProductSource, settingsSrc SettingsSource, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		orders:   orderSrc,
		products: productSrc,
		settings: settingsSrc,
		logger:   logger,
		now:      time.Now,
	}
}

// RunScan takes fresh order and product snapshots, derives due notifications
// and persists the ones not yet recorded today. It returns how many new
// notifications were written.
func (s *Service) RunScan(ctx context.Context) (int, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	shipped, err := s.orders.ListByStatus(ctx, orders.StatusShipped)
	if err != nil {
		return 0, fmt.Errorf("load shipped orders: %w", err)
	}
	productRows, err := s.products.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load products: %w", err)
	}

	created := 0
	for _, n := range Scan(s.now(), cfg, shipped, productRows) {
		inserted, err := s.repo.Insert(ctx, n)
		if err != nil {
			return created, fmt.Errorf("insert notification: %w", err)
		}
		if inserted {
			created++
		}
	}
	s.logger.InfoContext(ctx, "alert scan finished",
		slog.Int("shipped_orders", len(shipped)),
		slog.Int("products", len(productRows)),
		slog.Int("new_notifications", created))
	return created, nil
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Notification, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}
