// Package shippers manages shipping companies and their governorate rate tables.
package shippers

import (
	"time"

	"github.com/google/uuid"
)

// Rate is one row of a shipper's rate table. Price is what the business pays
// the carrier; Discount is subtracted from what the customer is charged for
// shipping and may be funded by the business (promotional rates).
type Rate struct {
	Governorate string  `json:"governorate"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount,omitempty"`
}

// Shipper represents a shipping company.
type Shipper struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Rates     []Rate    `json:"rates"`
	Deleted   bool      `json:"deleted"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RateFor returns the rate row exactly matching the governorate, if any.
// Fuzzy matching is a bulk-import concern and never happens here.
func (s Shipper) RateFor(governorate string) (Rate, bool) {
	for _, r := range s.Rates {
		if r.Governorate == governorate {
			return r, true
		}
	}
	return Rate{}, false
}
