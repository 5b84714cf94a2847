package finance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/expenses"
	"github.com/tajirhq/tajir/internal/orders"
)

type stubSources struct {
	orders   []orders.Order
	products []products.Product
	expenses []expenses.Expense
	loads    int
}

func (s *stubSources) ListBetween(_ context.Context, _, _ time.Time) ([]orders.Order, error) {
	s.loads++
	return s.orders, nil
}

func (s *stubSources) ListAll(_ context.Context) ([]products.Product, error) {
	return s.products, nil
}

type stubExpenses struct{ expenses []expenses.Expense }

func (s *stubExpenses) ListBetween(_ context.Context, _, _ time.Time) ([]expenses.Expense, error) {
	return s.expenses, nil
}

func TestSummaryServedFromCache(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sources := &stubSources{
		orders:   []orders.Order{{Status: orders.StatusDelivered, TotalPrice: 100}},
		products: testProducts(),
	}
	svc := NewService(sources, sources, &stubExpenses{}, client, time.Minute,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	first, err := svc.Summary(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, 1, sources.loads)

	// Second call hits the cache, not the sources.
	second, err := svc.Summary(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, 1, sources.loads)
	require.True(t, first.Revenue.Equal(second.Revenue))

	// Once the TTL lapses the sources are consulted again.
	srv.FastForward(2 * time.Minute)
	_, err = svc.Summary(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, 2, sources.loads)
}

func TestSummaryWithoutCache(t *testing.T) {
	sources := &stubSources{
		orders:   []orders.Order{{Status: orders.StatusDelivered, TotalPrice: 100}},
		products: testProducts(),
	}
	svc := NewService(sources, sources, &stubExpenses{}, nil, time.Minute,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	summary, err := svc.Summary(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	requireDecimal(t, 100, summary.Revenue, "revenue")
}
