package orders

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

type memOrderRepo struct {
	orders map[uuid.UUID]Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]Order)}
}

func (r *memOrderRepo) List(_ context.Context, _ ListFilters) ([]Order, int, error) {
	var items []Order
	for _, o := range r.orders {
		if !o.Deleted {
			items = append(items, o)
		}
	}
	return items, len(items), nil
}

func (r *memOrderRepo) ListByStatus(_ context.Context, statuses ...Status) ([]Order, error) {
	var items []Order
	for _, o := range r.orders {
		if o.Deleted {
			continue
		}
		for _, s := range statuses {
			if o.Status == s {
				items = append(items, o)
				break
			}
		}
	}
	return items, nil
}

func (r *memOrderRepo) ListBetween(_ context.Context, from, to time.Time) ([]Order, error) {
	var items []Order
	for _, o := range r.orders {
		if !o.Deleted && !o.Date.Before(from) && o.Date.Before(to) {
			items = append(items, o)
		}
	}
	return items, nil
}

func (r *memOrderRepo) Get(_ context.Context, id uuid.UUID) (Order, error) {
	o, ok := r.orders[id]
	if !ok || o.Deleted {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) Create(_ context.Context, order Order) (Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return order, nil
}

func (r *memOrderRepo) Update(_ context.Context, order Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return ErrNotFound
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	o, ok := r.orders[id]
	if !ok || o.Deleted {
		return ErrNotFound
	}
	o.Deleted = true
	r.orders[id] = o
	return nil
}

type memCatalog struct {
	products     map[uuid.UUID]CatalogProduct
	ratePrice    float64
	rateDiscount float64
}

func newMemCatalog() *memCatalog {
	return &memCatalog{products: make(map[uuid.UUID]CatalogProduct)}
}

func (c *memCatalog) Product(_ context.Context, id uuid.UUID) (CatalogProduct, error) {
	p, ok := c.products[id]
	if !ok {
		return CatalogProduct{}, httpx.ErrNotFound
	}
	return p, nil
}

func (c *memCatalog) SetStock(_ context.Context, id uuid.UUID, stock int) error {
	p, ok := c.products[id]
	if !ok {
		return httpx.ErrNotFound
	}
	p.Stock = stock
	c.products[id] = p
	return nil
}

func (c *memCatalog) Rate(_ context.Context, _ uuid.UUID, _ string) (float64, float64, error) {
	return c.ratePrice, c.rateDiscount, nil
}

func newTestService(t *testing.T, cfg ServiceConfig) (*Service, *memOrderRepo, *memCatalog) {
	t.Helper()
	repo := newMemOrderRepo()
	cat := newMemCatalog()
	cat.products[productA] = CatalogProduct{ID: productA, Name: "Leather Wallet", SellPrice: 250, Stock: 10}
	cat.products[productB] = CatalogProduct{ID: productB, Name: "Phone Case", SellPrice: 100, Stock: 5}
	cat.ratePrice, cat.rateDiscount = 65, 15
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, cat, cfg, nil, logger), repo, cat
}

func createTestOrder(t *testing.T, svc *Service) Order {
	t.Helper()
	order, err := svc.Create(context.Background(), CreateInput{
		CustomerName: "Mona Hassan",
		Phone:        "01000000000",
		Governorate:  "Giza",
		Address:      "12 Haram St",
		ShipperID:    uuid.New(),
		Items: []OrderItem{
			{ProductID: productA, Quantity: 3},
			{ProductID: productB, Quantity: 2},
		},
		Discount: 50,
	})
	require.NoError(t, err)
	return order
}

func TestServiceCreateStartsUnderReview(t *testing.T) {
	svc, _, cat := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	require.Equal(t, StatusUnderReview, order.Status)
	// 3*250 + 2*100 + (65-15) - 50
	require.Equal(t, 950.0, order.TotalPrice)
	require.Equal(t, 65.0, order.ShippingCost)
	require.Len(t, order.StatusHistory, 1)

	// Creation never touches stock.
	require.Equal(t, 10, cat.products[productA].Stock)
	require.Equal(t, 5, cat.products[productB].Stock)
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t, ServiceConfig{})

	_, err := svc.Create(context.Background(), CreateInput{CustomerName: "Mona Hassan"})
	require.ErrorIs(t, err, ErrEmptyItems)

	_, err = svc.Create(context.Background(), CreateInput{
		CustomerName: "Mona Hassan",
		Items:        []OrderItem{{ProductID: productA, Quantity: 0}},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), CreateInput{
		CustomerName: "Mona Hassan",
		Items: []OrderItem{
			{ProductID: productA, Quantity: 1},
			{ProductID: productA, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestServiceChangeStatusAppliesStock(t *testing.T) {
	svc, _, cat := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	shipped, err := svc.ChangeStatus(context.Background(), order.ID, StatusShipped, nil)
	require.NoError(t, err)
	require.Equal(t, StatusShipped, shipped.Status)
	require.Equal(t, 7, cat.products[productA].Stock)
	require.Equal(t, 3, cat.products[productB].Stock)

	_, err = svc.ChangeStatus(context.Background(), order.ID, StatusCanceled,
		&ReturnDetail{ReturnCost: 30})
	require.NoError(t, err)
	require.Equal(t, 10, cat.products[productA].Stock)
	require.Equal(t, 5, cat.products[productB].Stock)
}

func TestServiceChangeStatusInsufficientStock(t *testing.T) {
	svc, repo, cat := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	p := cat.products[productA]
	p.Stock = 2
	cat.products[productA] = p

	_, err := svc.ChangeStatus(context.Background(), order.ID, StatusShipped, nil)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was written: the order keeps its status, both stocks are intact.
	stored, err := repo.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusUnderReview, stored.Status)
	require.Equal(t, 2, cat.products[productA].Stock)
	require.Equal(t, 5, cat.products[productB].Stock)
}

func TestServiceChangeStatusAllowNegativeStock(t *testing.T) {
	svc, _, cat := newTestService(t, ServiceConfig{AllowNegativeStock: true})
	order := createTestOrder(t, svc)

	p := cat.products[productA]
	p.Stock = 2
	cat.products[productA] = p

	_, err := svc.ChangeStatus(context.Background(), order.ID, StatusShipped, nil)
	require.NoError(t, err)
	require.Equal(t, -1, cat.products[productA].Stock)
}

func TestServiceChangeStatusMissingProductSkipped(t *testing.T) {
	svc, _, cat := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	delete(cat.products, productB)

	_, err := svc.ChangeStatus(context.Background(), order.ID, StatusShipped, nil)
	require.NoError(t, err)
	require.Equal(t, 7, cat.products[productA].Stock)
}

func TestServiceChangeStatusRequiresReturnDetail(t *testing.T) {
	svc, _, _ := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	_, err := svc.ChangeStatus(context.Background(), order.ID, StatusShipped, nil)
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), order.ID, StatusRejected, nil)
	require.ErrorIs(t, err, httpx.ErrInputNeeded)
}

func TestServiceUpdateItemsWhileShipped(t *testing.T) {
	svc, _, cat := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	_, err := svc.ChangeStatus(context.Background(), order.ID, StatusShipped, nil)
	require.NoError(t, err)
	require.Equal(t, 7, cat.products[productA].Stock)

	// Drop product B, bump product A to 5: B refunded, A net -2.
	updated, err := svc.Update(context.Background(), order.ID, UpdateInput{
		CustomerName: order.CustomerName,
		Phone:        order.Phone,
		Governorate:  order.Governorate,
		ShipperID:    order.ShipperID,
		Items:        []OrderItem{{ProductID: productA, Quantity: 5}},
	})
	require.NoError(t, err)
	require.Equal(t, 5, cat.products[productA].Stock)
	require.Equal(t, 5, cat.products[productB].Stock)
	// 5*250 + (65-15)
	require.Equal(t, 1300.0, updated.TotalPrice)
}

func TestServiceUpdateQuantityWhileShippedNetsSameProduct(t *testing.T) {
	svc, _, cat := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	_, err := svc.ChangeStatus(context.Background(), order.ID, StatusShipped, nil)
	require.NoError(t, err)
	require.Equal(t, 7, cat.products[productA].Stock)

	// Bumping A from 3 to 5 refunds 3 and deducts 5 on the same product;
	// only the net -2 may reach stock.
	_, err = svc.Update(context.Background(), order.ID, UpdateInput{
		CustomerName: order.CustomerName,
		Phone:        order.Phone,
		Governorate:  order.Governorate,
		ShipperID:    order.ShipperID,
		Items: []OrderItem{
			{ProductID: productA, Quantity: 5},
			{ProductID: productB, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 5, cat.products[productA].Stock)
	require.Equal(t, 3, cat.products[productB].Stock)
}

func TestServiceUpdateItemsLockedWhilePartiallyDelivered(t *testing.T) {
	svc, _, _ := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	_, err := svc.ChangeStatus(context.Background(), order.ID, StatusShipped, nil)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(context.Background(), order.ID, StatusPartiallyDelivered,
		&ReturnDetail{ReturnCost: 10, Returned: map[uuid.UUID]int{productA: 1}})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), order.ID, UpdateInput{
		CustomerName: order.CustomerName,
		Phone:        order.Phone,
		Governorate:  order.Governorate,
		ShipperID:    order.ShipperID,
		Items:        []OrderItem{{ProductID: productA, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrItemsLocked)
}

func TestServiceRegisterPrint(t *testing.T) {
	svc, _, _ := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	printed, err := svc.RegisterPrint(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 1, printed.PrintCount)

	printed, err = svc.RegisterPrint(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 2, printed.PrintCount)
}

func TestServiceDeleteKeepsStock(t *testing.T) {
	svc, _, cat := newTestService(t, ServiceConfig{})
	order := createTestOrder(t, svc)

	_, err := svc.ChangeStatus(context.Background(), order.ID, StatusShipped, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), order.ID))
	_, err = svc.Get(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleted shipped orders still represent goods that left the shelf.
	require.Equal(t, 7, cat.products[productA].Stock)
}
