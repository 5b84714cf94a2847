package orders

import (
	"fmt"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

// Domain errors for the order engine. Each wraps a platform sentinel so the
// HTTP layer maps it to the right status code.
var (
	// ErrNotFound indicates the requested order does not exist.
	ErrNotFound = fmt.Errorf("order: %w", httpx.ErrNotFound)

	// ErrInvalidStatus indicates a status outside the closed enumeration.
	ErrInvalidStatus = fmt.Errorf("order: invalid status: %w", httpx.ErrValidation)

	// ErrReturnDetailRequired is returned when a transition into a
	// return-bearing status needs a per-item returned-quantity breakdown and
	// return cost that the caller has not supplied. The transition is not
	// applied; the caller re-invokes it once the detail is captured.
	ErrReturnDetailRequired = fmt.Errorf("order: return detail required: %w", httpx.ErrInputNeeded)

	// ErrReturnQuantityRange indicates a returned quantity outside [0, quantity].
	ErrReturnQuantityRange = fmt.Errorf("order: returned quantity out of range: %w", httpx.ErrValidation)

	// ErrReturnCostNegative indicates a negative return cost.
	ErrReturnCostNegative = fmt.Errorf("order: return cost must be non-negative: %w", httpx.ErrValidation)

	// ErrEmptyItems indicates an order without items.
	ErrEmptyItems = fmt.Errorf("order: at least one item is required: %w", httpx.ErrValidation)

	// ErrItemsLocked indicates an item edit on a partially delivered order,
	// which would make the per-item return bookkeeping ambiguous.
	ErrItemsLocked = fmt.Errorf("order: items of a partially delivered order cannot be edited: %w", httpx.ErrConflict)

	// ErrInsufficientStock indicates a deduction that would drive a product's
	// stock below zero while negative stock is disallowed.
	ErrInsufficientStock = fmt.Errorf("order: insufficient stock: %w", httpx.ErrConflict)
)
