// Package orders owns the order entity, the status state machine and the
// stock-accounting side effects coupled to every transition.
package orders

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle of an order. The status selector in the
// client permits arbitrary transitions, so the engine handles every ordered
// pair of statuses.
type Status string

const (
	StatusUnderReview        Status = "UNDER_REVIEW"        // initial, stock untouched
	StatusShipped            Status = "SHIPPED"             // stock fully deducted
	StatusDelivered          Status = "DELIVERED"           // stock fully deducted
	StatusPartiallyDelivered Status = "PARTIALLY_DELIVERED" // delivered portion deducted
	StatusCanceled           Status = "CANCELED"            // stock refunded
	StatusRejected           Status = "REJECTED"            // stock refunded
)

// IsValid checks that the status belongs to the closed enumeration.
func (s Status) IsValid() bool {
	switch s {
	case StatusUnderReview, StatusShipped, StatusDelivered, StatusPartiallyDelivered, StatusCanceled, StatusRejected:
		return true
	default:
		return false
	}
}

// Deducted reports whether inventory is currently held against an order in
// this status (fully for SHIPPED/DELIVERED, partially for PARTIALLY_DELIVERED).
func (s Status) Deducted() bool {
	switch s {
	case StatusShipped, StatusDelivered, StatusPartiallyDelivered:
		return true
	default:
		return false
	}
}

// ReturnBearing reports whether entering this status records returned goods.
func (s Status) ReturnBearing() bool {
	switch s {
	case StatusCanceled, StatusRejected, StatusPartiallyDelivered:
		return true
	default:
		return false
	}
}

// AllStatuses lists every order status.
func AllStatuses() []Status {
	return []Status{
		StatusUnderReview,
		StatusShipped,
		StatusDelivered,
		StatusPartiallyDelivered,
		StatusCanceled,
		StatusRejected,
	}
}

// OrderItem is one product line of an order. ReturnedQuantity is populated
// only once the order enters a return-bearing status and always satisfies
// 0 <= ReturnedQuantity <= Quantity.
type OrderItem struct {
	ProductID        uuid.UUID `json:"product_id"`
	Quantity         int       `json:"quantity"`
	ReturnedQuantity int       `json:"returned_quantity,omitempty"`
}

// StatusChange records one applied transition for the audit trail.
type StatusChange struct {
	Status Status    `json:"status"`
	Date   time.Time `json:"date"`
}

// Order is the order entity. ShippingCost and TotalPrice are derived from the
// catalog whenever items, shipper, governorate or discount change.
type Order struct {
	ID                uuid.UUID      `json:"id"`
	CustomerName      string         `json:"customer_name"`
	Phone             string         `json:"phone"`
	AltPhone          string         `json:"alt_phone,omitempty"`
	Governorate       string         `json:"governorate"`
	Address           string         `json:"address"`
	Items             []OrderItem    `json:"items"`
	Discount          float64        `json:"discount"`
	ShipperID         uuid.UUID      `json:"shipper_id"`
	ShippingCost      float64        `json:"shipping_cost"`
	TotalPrice        float64        `json:"total_price"`
	Status            Status         `json:"status"`
	Date              time.Time      `json:"date"`
	ShipDate          *time.Time     `json:"ship_date,omitempty"`
	DeliveryDays      *int           `json:"delivery_days,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	StatusHistory     []StatusChange `json:"status_history,omitempty"`
	PrintCount        int            `json:"print_count"`
	ReturnCost        float64        `json:"return_cost,omitempty"`
	DeliveredQuantity *int           `json:"delivered_quantity,omitempty"`
	ReturnedQuantity  *int           `json:"returned_quantity,omitempty"`
	Deleted           bool           `json:"deleted"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// heldQuantity is the number of units of an item currently removed from stock
// for an order in the given status. Every stock side effect in the engine is
// the difference of this function taken before and after a transition.
func heldQuantity(status Status, item OrderItem) int {
	switch status {
	case StatusShipped, StatusDelivered:
		return item.Quantity
	case StatusPartiallyDelivered:
		return item.Quantity - item.ReturnedQuantity
	default:
		return 0
	}
}

// TotalQuantity sums the ordered quantity across items.
func (o Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
