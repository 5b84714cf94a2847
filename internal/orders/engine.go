package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReturnDetail is the operator-supplied input required when an order moves
// into a return-bearing status: the carrier's return fee plus the per-item
// returned-quantity breakdown (consulted only for partial deliveries; full
// cancellations always return every unit).
type ReturnDetail struct {
	ReturnCost float64
	Returned   map[uuid.UUID]int
}

// StockDelta describes one product stock adjustment required by a transition.
// A positive delta removes units from stock, a negative delta refunds them.
type StockDelta struct {
	ProductID uuid.UUID
	Delta     int
}

// TransitionResult carries the updated order copy plus the stock adjustments
// the caller must apply before persisting the order.
type TransitionResult struct {
	Order  Order
	Deltas []StockDelta
	NoOp   bool
}

// Transition computes the effect of moving an order to newStatus. It is pure:
// the receiver order is not modified and no storage is touched.
//
// Stock accounting is table-driven: for each item the engine compares the
// held quantity (units currently removed from stock) before and after the
// transition and emits the difference. That single rule covers every ordered
// pair of statuses, including paths the status selector rarely takes
// (UNDER_REVIEW directly to DELIVERED deducts; PARTIALLY_DELIVERED back to
// SHIPPED or DELIVERED re-deducts the returned portion; any deducted status
// back to UNDER_REVIEW refunds exactly what is still held).
func Transition(order Order, newStatus Status, detail *ReturnDetail, now time.Time) (TransitionResult, error) {
	if !newStatus.IsValid() {
		return TransitionResult{}, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}
	if newStatus == order.Status {
		return TransitionResult{Order: order, NoOp: true}, nil
	}

	// Return detail is required when entering CANCELED/REJECTED while stock
	// is held, and always when entering PARTIALLY_DELIVERED — the engine
	// cannot know the delivered portion without it. It must never be
	// defaulted silently.
	needsDetail := newStatus == StatusPartiallyDelivered ||
		((newStatus == StatusCanceled || newStatus == StatusRejected) && order.Status.Deducted())
	if needsDetail {
		if detail == nil {
			return TransitionResult{}, ErrReturnDetailRequired
		}
		if detail.ReturnCost < 0 {
			return TransitionResult{}, ErrReturnCostNegative
		}
	}

	updated := order
	updated.Items = make([]OrderItem, len(order.Items))
	copy(updated.Items, order.Items)

	if newStatus == StatusPartiallyDelivered {
		for i := range updated.Items {
			returned := detail.Returned[updated.Items[i].ProductID]
			if returned < 0 || returned > updated.Items[i].Quantity {
				return TransitionResult{}, fmt.Errorf("%w: product %s: %d of %d",
					ErrReturnQuantityRange, updated.Items[i].ProductID, returned, updated.Items[i].Quantity)
			}
		}
	}

	var deltas []StockDelta
	totalReturned := 0
	for i := range updated.Items {
		item := &updated.Items[i]
		before := heldQuantity(order.Status, order.Items[i])

		switch {
		case newStatus == StatusPartiallyDelivered:
			item.ReturnedQuantity = detail.Returned[item.ProductID]
		case (newStatus == StatusCanceled || newStatus == StatusRejected) && order.Status.Deducted():
			item.ReturnedQuantity = item.Quantity
		case newStatus == StatusCanceled || newStatus == StatusRejected:
			// Relabel between not-deducted statuses: nothing was held, keep
			// the items untouched.
		default:
			item.ReturnedQuantity = 0
		}

		after := heldQuantity(newStatus, *item)
		if d := after - before; d != 0 {
			deltas = append(deltas, StockDelta{ProductID: item.ProductID, Delta: d})
		}
		totalReturned += item.ReturnedQuantity
	}

	updated.Status = newStatus
	updated.StatusHistory = append(append([]StatusChange(nil), order.StatusHistory...), StatusChange{Status: newStatus, Date: now})
	updated.UpdatedAt = now

	switch {
	case newStatus == StatusPartiallyDelivered:
		delivered := order.TotalQuantity() - totalReturned
		updated.ReturnCost = detail.ReturnCost
		updated.DeliveredQuantity = &delivered
		updated.ReturnedQuantity = &totalReturned
	case (newStatus == StatusCanceled || newStatus == StatusRejected) && order.Status.Deducted():
		zero := 0
		updated.ReturnCost = detail.ReturnCost
		updated.DeliveredQuantity = &zero
		updated.ReturnedQuantity = &totalReturned
	case newStatus == StatusShipped || newStatus == StatusDelivered || newStatus == StatusUnderReview:
		// Re-entering a clean state clears the return bookkeeping.
		updated.ReturnCost = 0
		updated.DeliveredQuantity = nil
		updated.ReturnedQuantity = nil
	}

	if newStatus == StatusShipped && updated.ShipDate == nil {
		shipDate := now
		updated.ShipDate = &shipDate
	}

	return TransitionResult{Order: updated, Deltas: deltas}, nil
}

// ItemEditDeltas computes the stock adjustments for editing the item list of
// an order that already holds stock: the old set's held quantities are
// refunded and the new set's are deducted (refund-then-deduct), so stock is
// never double-counted or uncounted mid-edit.
func ItemEditDeltas(status Status, oldItems, newItems []OrderItem) []StockDelta {
	if !status.Deducted() {
		return nil
	}
	var deltas []StockDelta
	for _, item := range oldItems {
		if held := heldQuantity(status, item); held != 0 {
			deltas = append(deltas, StockDelta{ProductID: item.ProductID, Delta: -held})
		}
	}
	for _, item := range newItems {
		if held := heldQuantity(status, item); held != 0 {
			deltas = append(deltas, StockDelta{ProductID: item.ProductID, Delta: held})
		}
	}
	return deltas
}
