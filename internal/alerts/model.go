// Package alerts raises operational notifications: shipments that exceeded
// their delivery window and products running low on stock.
package alerts

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates notification types.
type Kind string

const (
	KindDelayedShipment Kind = "delayed_shipment"
	KindLowStock        Kind = "low_stock"
)

// Notification is one raised alert. At most one notification per kind,
// subject and calendar day is kept; rescans within the same day are no-ops.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	SubjectID uuid.UUID `json:"subject_id"`
	Message   string    `json:"message"`
	Day       time.Time `json:"day"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
