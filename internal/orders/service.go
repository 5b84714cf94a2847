package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tajirhq/tajir/internal/observability"
	"github.com/tajirhq/tajir/internal/platform/httpx"
)

// CatalogProduct is the slice of the product record the order service needs.
type CatalogProduct struct {
	ID        uuid.UUID
	Name      string
	SellPrice float64
	Stock     int
}

// CatalogStore is the catalog surface consumed by the order service. Product
// returns httpx.ErrNotFound for unknown or deleted products; callers treat
// those as absent rather than failing the whole operation.
type CatalogStore interface {
	Product(ctx context.Context, id uuid.UUID) (CatalogProduct, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	Rate(ctx context.Context, shipperID uuid.UUID, governorate string) (price, discount float64, err error)
}

// ServiceConfig tunes order service behaviour.
type ServiceConfig struct {
	// AllowNegativeStock skips the insufficient-stock check on deductions.
	AllowNegativeStock bool
}

// Service implements order operations: CRUD, pricing derivation and the
// status transitions with their stock side effects.
type Service struct {
	repo    Repository
	catalog CatalogStore
	cfg     ServiceConfig
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, catalog CatalogStore, cfg ServiceConfig, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateInput carries the operator-supplied fields of a new order. Status is
// not among them: every order starts UNDER_REVIEW.
type CreateInput struct {
	CustomerName string
	Phone        string
	AltPhone     string
	Governorate  string
	Address      string
	Items        []OrderItem
	Discount     float64
	ShipperID    uuid.UUID
	Date         time.Time
	DeliveryDays *int
	Notes        string
}

// UpdateInput carries the editable fields of an existing order. Status and
// return bookkeeping are excluded; they only change through ChangeStatus.
type UpdateInput struct {
	CustomerName string
	Phone        string
	AltPhone     string
	Governorate  string
	Address      string
	Items        []OrderItem
	Discount     float64
	ShipperID    uuid.UUID
	Date         time.Time
	DeliveryDays *int
	Notes        string
}

func validateItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return fmt.Errorf("item product id is required: %w", httpx.ErrValidation)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item quantity must be positive: %w", httpx.ErrValidation)
		}
		if seen[item.ProductID] {
			return fmt.Errorf("duplicate product %s in items: %w", item.ProductID, httpx.ErrValidation)
		}
		seen[item.ProductID] = true
	}
	return nil
}

// pricing resolves current sell prices and the shipping rate for the order's
// shipper and governorate. Unknown products price at zero; a missing rate row
// prices shipping at zero. Both are tolerated so historical orders survive
// catalog churn.
func (s *Service) pricing(ctx context.Context, items []OrderItem, shipperID uuid.UUID, governorate string) (Pricing, error) {
	p := Pricing{SellPrices: make(map[string]float64, len(items))}
	for _, item := range items {
		product, err := s.catalog.Product(ctx, item.ProductID)
		if errors.Is(err, httpx.ErrNotFound) {
			continue
		}
		if err != nil {
			return Pricing{}, fmt.Errorf("load product %s: %w", item.ProductID, err)
		}
		p.SellPrices[item.ProductID.String()] = product.SellPrice
	}
	if shipperID != uuid.Nil {
		price, discount, err := s.catalog.Rate(ctx, shipperID, governorate)
		if err != nil && !errors.Is(err, httpx.ErrNotFound) {
			return Pricing{}, fmt.Errorf("load shipper rate: %w", err)
		}
		p.RatePrice, p.RateDiscount = price, discount
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Order, error) {
	if input.CustomerName == "" {
		return Order{}, fmt.Errorf("customer name is required: %w", httpx.ErrValidation)
	}
	if err := validateItems(input.Items); err != nil {
		return Order{}, err
	}
	if input.Discount < 0 {
		return Order{}, fmt.Errorf("discount must be non-negative: %w", httpx.ErrValidation)
	}

	now := s.now()
	pricing, err := s.pricing(ctx, input.Items, input.ShipperID, input.Governorate)
	if err != nil {
		return Order{}, err
	}
	totals := ComputeTotals(input.Items, input.Discount, pricing)

	date := input.Date
	if date.IsZero() {
		date = now
	}

	order := Order{
		ID:            uuid.New(),
		CustomerName:  input.CustomerName,
		Phone:         input.Phone,
		AltPhone:      input.AltPhone,
		Governorate:   input.Governorate,
		Address:       input.Address,
		Items:         input.Items,
		Discount:      input.Discount,
		ShipperID:     input.ShipperID,
		ShippingCost:  totals.ShippingCost,
		TotalPrice:    totals.TotalPrice,
		Status:        StatusUnderReview,
		Date:          date,
		DeliveryDays:  input.DeliveryDays,
		Notes:         input.Notes,
		StatusHistory: []StatusChange{{Status: StatusUnderReview, Date: now}},
		UpdatedAt:     now,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", created.ID.String()),
		slog.Float64("total_price", created.TotalPrice))
	return created, nil
}

// Update edits an order's customer, item and pricing fields. Editing items
// while stock is held refunds the old set and deducts the new one; item edits
// on partially delivered orders are rejected because the per-item return
// bookkeeping would turn ambiguous.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (Order, error) {
	if input.CustomerName == "" {
		return Order{}, fmt.Errorf("customer name is required: %w", httpx.ErrValidation)
	}
	if err := validateItems(input.Items); err != nil {
		return Order{}, err
	}
	if input.Discount < 0 {
		return Order{}, fmt.Errorf("discount must be non-negative: %w", httpx.ErrValidation)
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}

	itemsChanged := !sameItems(order.Items, input.Items)
	if itemsChanged && order.Status == StatusPartiallyDelivered {
		return Order{}, ErrItemsLocked
	}
	if itemsChanged {
		deltas := ItemEditDeltas(order.Status, order.Items, input.Items)
		if err := s.applyDeltas(ctx, deltas); err != nil {
			return Order{}, err
		}
	}

	pricing, err := s.pricing(ctx, input.Items, input.ShipperID, input.Governorate)
	if err != nil {
		return Order{}, err
	}
	totals := ComputeTotals(input.Items, input.Discount, pricing)

	order.CustomerName = input.CustomerName
	order.Phone = input.Phone
	order.AltPhone = input.AltPhone
	order.Governorate = input.Governorate
	order.Address = input.Address
	order.Items = input.Items
	order.Discount = input.Discount
	order.ShipperID = input.ShipperID
	order.ShippingCost = totals.ShippingCost
	order.TotalPrice = totals.TotalPrice
	if !input.Date.IsZero() {
		order.Date = input.Date
	}
	order.DeliveryDays = input.DeliveryDays
	order.Notes = input.Notes
	order.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, order); err != nil {
		return Order{}, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// ChangeStatus moves an order to newStatus, applying the stock side effects
// the transition implies. Deltas are applied before the order row is saved:
// if a stock write fails midway the order keeps its previous status and the
// error reports how far the adjustment got.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, newStatus Status, detail *ReturnDetail) (Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}

	result, err := Transition(order, newStatus, detail, s.now())
	if err != nil {
		return Order{}, err
	}
	if result.NoOp {
		return order, nil
	}

	if err := s.applyDeltas(ctx, result.Deltas); err != nil {
		return Order{}, err
	}

	if err := s.repo.Update(ctx, result.Order); err != nil {
		return Order{}, fmt.Errorf("save order after transition: %w", err)
	}

	s.metrics.ObserveTransition(string(order.Status), string(newStatus))
	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", id.String()),
		slog.String("from", string(order.Status)),
		slog.String("to", string(newStatus)),
		slog.Int("stock_adjustments", len(result.Deltas)))
	return result.Order, nil
}

// applyDeltas adjusts product stock in two phases: first every deduction is
// validated against a fresh read, then all writes go through. Deltas are
// netted per product first; an item edit emits a refund and a deduction for
// the same product, and applying them from the same read would lose one.
// Products that no longer exist are skipped; their units are unrecoverable
// either way.
func (s *Service) applyDeltas(ctx context.Context, deltas []StockDelta) error {
	ids := make([]uuid.UUID, 0, len(deltas))
	net := make(map[uuid.UUID]int, len(deltas))
	for _, d := range deltas {
		if _, seen := net[d.ProductID]; !seen {
			ids = append(ids, d.ProductID)
		}
		net[d.ProductID] += d.Delta
	}

	type pending struct {
		id       uuid.UUID
		newStock int
	}
	writes := make([]pending, 0, len(ids))
	for _, id := range ids {
		delta := net[id]
		if delta == 0 {
			continue
		}
		product, err := s.catalog.Product(ctx, id)
		if errors.Is(err, httpx.ErrNotFound) {
			s.logger.WarnContext(ctx, "stock adjustment skipped, product missing",
				slog.String("product_id", id.String()),
				slog.Int("delta", delta))
			continue
		}
		if err != nil {
			return fmt.Errorf("load product %s for stock adjustment: %w", id, err)
		}
		newStock := product.Stock - delta
		if newStock < 0 && delta > 0 && !s.cfg.AllowNegativeStock {
			return fmt.Errorf("%w: product %q has %d in stock, %d needed",
				ErrInsufficientStock, product.Name, product.Stock, delta)
		}
		writes = append(writes, pending{id: id, newStock: newStock})
	}
	for i, w := range writes {
		if err := s.catalog.SetStock(ctx, w.id, w.newStock); err != nil {
			return fmt.Errorf("stock adjustment failed after %d of %d writes: %w", i, len(writes), err)
		}
	}
	return nil
}

func sameItems(a, b []OrderItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductID != b[i].ProductID || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}

// RegisterPrint increments the order's print counter.
func (s *Service) RegisterPrint(ctx context.Context, id uuid.UUID) (Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	order.PrintCount++
	order.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, order); err != nil {
		return Order{}, fmt.Errorf("register print: %w", err)
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	return s.repo.List(ctx, filters)
}

// Delete soft-deletes an order. Stock is not refunded: a deleted shipped
// order still represents goods that left the shelf.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
