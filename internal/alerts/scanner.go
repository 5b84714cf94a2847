package alerts

import (
	"fmt"
	"time"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/orders"
	"github.com/tajirhq/tajir/internal/settings"
)

// Scan derives the notifications due right now from order and product
// snapshots. It is pure; the rules (toggles and defaults) come in explicitly
// through the settings value.
//
// A shipment is delayed when its delivery window, counted from the ship date
// (or the order date when the ship date was never recorded), has elapsed. A
// product is low on stock when its stock is at or below its threshold; a
// product without its own threshold uses the configured default, and a
// threshold of zero disables the check.
func Scan(now time.Time, cfg settings.Settings, shipped []orders.Order, productRows []products.Product) []Notification {
	var out []Notification
	day := truncateDay(now)

	if cfg.DelayedAlertsEnabled {
		for _, order := range shipped {
			if order.Status != orders.StatusShipped {
				continue
			}
			since := order.Date
			if order.ShipDate != nil {
				since = *order.ShipDate
			}
			days := cfg.DefaultDeliveryDays
			if order.DeliveryDays != nil {
				days = *order.DeliveryDays
			}
			if days <= 0 {
				continue
			}
			deadline := since.AddDate(0, 0, days)
			if now.After(deadline) {
				out = append(out, Notification{
					Kind:      KindDelayedShipment,
					SubjectID: order.ID,
					Message: fmt.Sprintf("order for %s has been in shipping for more than %d days",
						order.CustomerName, days),
					Day: day,
				})
			}
		}
	}

	if cfg.LowStockAlertsEnabled {
		for _, product := range productRows {
			threshold := cfg.DefaultStockThreshold
			if product.StockThreshold != nil {
				threshold = *product.StockThreshold
			}
			if threshold <= 0 {
				continue
			}
			if product.Stock <= threshold {
				out = append(out, Notification{
					Kind:      KindLowStock,
					SubjectID: product.ID,
					Message: fmt.Sprintf("%s is low on stock: %d left (threshold %d)",
						product.Name, product.Stock, threshold),
					Day: day,
				})
			}
		}
	}

	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
