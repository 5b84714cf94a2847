package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/expenses"
	"github.com/tajirhq/tajir/internal/orders"
)

// Data sources the aggregator reads from. They are satisfied by the
// repositories of the owning packages.
type (
	OrderSource interface {
		ListBetween(ctx context.Context, from, to time.Time) ([]orders.Order, error)
	}
	ProductSource interface {
		ListAll(ctx context.Context) ([]products.Product, error)
	}
	ExpenseSource interface {
		ListBetween(ctx context.Context, from, to time.Time) ([]expenses.Expense, error)
	}
)

// Service computes period summaries and caches them in redis. The cache is
// TTL-invalidated only: a summary may lag writes by up to the TTL, which is
// acceptable for a read-side dashboard.
type Service struct {
	orders   OrderSource
	products ProductSource
	expenses ExpenseSource
	cache    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

func NewService(orderSrc OrderSource, productSrc ProductSource, expenseSrc ExpenseSource, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		orders:   orderSrc,
		products: productSrc,
		expenses: expenseSrc,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

func cacheKey(from, to time.Time) string {
	return fmt.Sprintf("finance:summary:%d:%d", from.Unix(), to.Unix())
}

// Summary returns the financial roll-up for [from, to), serving from cache
// when a fresh entry exists. Cache failures degrade to a direct computation.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	key := cacheKey(from, to)
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var cached Summary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			s.logger.WarnContext(ctx, "finance cache read failed", slog.String("error", err.Error()))
		}
	}

	summary, err := s.compute(ctx, from, to)
	if err != nil {
		return Summary{}, err
	}

	if s.cache != nil {
		raw, err := json.Marshal(summary)
		if err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				s.logger.WarnContext(ctx, "finance cache write failed", slog.String("error", err.Error()))
			}
		}
	}
	return summary, nil
}

func (s *Service) compute(ctx context.Context, from, to time.Time) (Summary, error) {
	orderRows, err := s.orders.ListBetween(ctx, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("load orders: %w", err)
	}
	productRows, err := s.products.ListAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load products: %w", err)
	}
	expenseRows, err := s.expenses.ListBetween(ctx, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("load expenses: %w", err)
	}
	return Compute(from, to, orderRows, productRows, expenseRows), nil
}
