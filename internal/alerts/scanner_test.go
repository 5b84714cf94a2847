package alerts

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/orders"
	"github.com/tajirhq/tajir/internal/settings"
)

func enabledSettings() settings.Settings {
	return settings.Settings{
		DefaultDeliveryDays:   3,
		DefaultStockThreshold: 5,
		DelayedAlertsEnabled:  true,
		LowStockAlertsEnabled: true,
	}
}

func kinds(ns []Notification) map[Kind]int {
	m := make(map[Kind]int)
	for _, n := range ns {
		m[n.Kind]++
	}
	return m
}

func TestScanDelayedShipments(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	shipFive := now.AddDate(0, 0, -5)
	shipTwo := now.AddDate(0, 0, -2)
	seven := 7

	shipped := []orders.Order{
		// 5 days in shipping, 3-day default window: delayed.
		{ID: uuid.New(), CustomerName: "Mona Hassan", Status: orders.StatusShipped, ShipDate: &shipFive},
		// 2 days in shipping: still within the window.
		{ID: uuid.New(), CustomerName: "Omar Said", Status: orders.StatusShipped, ShipDate: &shipTwo},
		// Own 7-day window overrides the default: not delayed.
		{ID: uuid.New(), CustomerName: "Nour Adel", Status: orders.StatusShipped, ShipDate: &shipFive, DeliveryDays: &seven},
		// No ship date recorded: the order date counts.
		{ID: uuid.New(), CustomerName: "Huda Samir", Status: orders.StatusShipped, Date: shipFive},
	}

	out := Scan(now, enabledSettings(), shipped, nil)
	require.Equal(t, 2, kinds(out)[KindDelayedShipment])
	for _, n := range out {
		require.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), n.Day)
		require.NotEmpty(t, n.Message)
	}
}

func TestScanLowStock(t *testing.T) {
	two := 2
	zero := 0
	productRows := []products.Product{
		// At the default threshold.
		{ID: uuid.New(), Name: "Leather Wallet", Stock: 5},
		// Above it.
		{ID: uuid.New(), Name: "Phone Case", Stock: 9},
		// Own threshold overrides the default.
		{ID: uuid.New(), Name: "Charger", Stock: 3, StockThreshold: &two},
		// Zero threshold disables the check.
		{ID: uuid.New(), Name: "Sticker Pack", Stock: 0, StockThreshold: &zero},
	}

	out := Scan(time.Now(), enabledSettings(), nil, productRows)
	require.Equal(t, 1, kinds(out)[KindLowStock])
	require.Equal(t, KindLowStock, out[0].Kind)
	require.Contains(t, out[0].Message, "Leather Wallet")
}

func TestScanRespectsToggles(t *testing.T) {
	now := time.Now()
	old := now.AddDate(0, 0, -10)
	shipped := []orders.Order{{ID: uuid.New(), Status: orders.StatusShipped, ShipDate: &old}}
	productRows := []products.Product{{ID: uuid.New(), Name: "Leather Wallet", Stock: 1}}

	cfg := enabledSettings()
	cfg.DelayedAlertsEnabled = false
	cfg.LowStockAlertsEnabled = false

	require.Empty(t, Scan(now, cfg, shipped, productRows))
}
