// Package products manages the product catalog and authoritative stock counts.
package products

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog product. Stock is the authoritative inventory
// count and is mutated only through SetStock (order engine side effects or
// manual edits).
type Product struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	PurchasePrice  float64   `json:"purchase_price"`
	SellPrice      float64   `json:"sell_price"`
	Stock          int       `json:"stock"`
	StockThreshold *int      `json:"stock_threshold,omitempty"`
	Deleted        bool      `json:"deleted"`
	UpdatedAt      time.Time `json:"updated_at"`
}
