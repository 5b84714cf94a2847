package orders

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilters narrows order listings. Zero values mean "no filter".
type ListFilters struct {
	Status      Status
	Governorate string
	ShipperID   uuid.UUID
	Search      string // matches customer name or phone
	From        time.Time
	To          time.Time
	Page        int
	Limit       int
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Order, int, error)
	ListByStatus(ctx context.Context, statuses ...Status) ([]Order, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Order, error)
	Get(ctx context.Context, id uuid.UUID) (Order, error)
	Create(ctx context.Context, order Order) (Order, error)
	Update(ctx context.Context, order Order) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// items and status_history are jsonb columns; pgx scans them straight into
// the Go slices.
const orderColumns = `id, customer_name, phone, alt_phone, governorate, address, items, discount,
	shipper_id, shipping_cost, total_price, status, date, ship_date, delivery_days, notes,
	status_history, print_count, return_cost, delivered_quantity, returned_quantity, deleted, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.AltPhone, &o.Governorate, &o.Address,
		&o.Items, &o.Discount, &o.ShipperID, &o.ShippingCost, &o.TotalPrice, &o.Status,
		&o.Date, &o.ShipDate, &o.DeliveryDays, &o.Notes, &o.StatusHistory, &o.PrintCount,
		&o.ReturnCost, &o.DeliveredQuantity, &o.ReturnedQuantity, &o.Deleted, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	where := ` FROM orders WHERE deleted = false`
	args := []interface{}{}
	argCount := 0

	arg := func(v interface{}) string {
		argCount++
		args = append(args, v)
		return "$" + strconv.Itoa(argCount)
	}

	if filters.Status != "" {
		where += ` AND status = ` + arg(filters.Status)
	}
	if filters.Governorate != "" {
		where += ` AND governorate = ` + arg(filters.Governorate)
	}
	if filters.ShipperID != uuid.Nil {
		where += ` AND shipper_id = ` + arg(filters.ShipperID)
	}
	if filters.Search != "" {
		p := arg("%" + filters.Search + "%")
		where += ` AND (customer_name ILIKE ` + p + ` OR phone ILIKE ` + p + `)`
	}
	if !filters.From.IsZero() {
		where += ` AND date >= ` + arg(filters.From)
	}
	if !filters.To.IsZero() {
		where += ` AND date < ` + arg(filters.To)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + where + ` ORDER BY date DESC`
	if filters.Limit > 0 {
		query += ` LIMIT ` + arg(filters.Limit)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		query += ` OFFSET ` + arg(offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, rows.Err()
}

func (r *repository) ListByStatus(ctx context.Context, statuses ...Status) ([]Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE deleted = false AND status = ANY($1) ORDER BY date DESC`,
		statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *repository) ListBetween(ctx context.Context, from, to time.Time) ([]Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE deleted = false AND date >= $1 AND date < $2 ORDER BY date DESC`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND deleted = false`, id)
	return scanOrder(row)
}

func (r *repository) Create(ctx context.Context, order Order) (Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.UpdatedAt = time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO orders (id, customer_name, phone, alt_phone, governorate, address, items, discount,
			shipper_id, shipping_cost, total_price, status, date, ship_date, delivery_days, notes,
			status_history, print_count, return_cost, delivered_quantity, returned_quantity, deleted, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, false, $22)`,
		order.ID, order.CustomerName, order.Phone, order.AltPhone, order.Governorate, order.Address,
		order.Items, order.Discount, order.ShipperID, order.ShippingCost, order.TotalPrice, order.Status,
		order.Date, order.ShipDate, order.DeliveryDays, order.Notes, order.StatusHistory, order.PrintCount,
		order.ReturnCost, order.DeliveredQuantity, order.ReturnedQuantity, order.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

func (r *repository) Update(ctx context.Context, order Order) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET customer_name = $1, phone = $2, alt_phone = $3, governorate = $4, address = $5,
			items = $6, discount = $7, shipper_id = $8, shipping_cost = $9, total_price = $10, status = $11,
			date = $12, ship_date = $13, delivery_days = $14, notes = $15, status_history = $16,
			print_count = $17, return_cost = $18, delivered_quantity = $19, returned_quantity = $20, updated_at = $21
		 WHERE id = $22 AND deleted = false`,
		order.CustomerName, order.Phone, order.AltPhone, order.Governorate, order.Address,
		order.Items, order.Discount, order.ShipperID, order.ShippingCost, order.TotalPrice, order.Status,
		order.Date, order.ShipDate, order.DeliveryDays, order.Notes, order.StatusHistory,
		order.PrintCount, order.ReturnCost, order.DeliveredQuantity, order.ReturnedQuantity, time.Now(), order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET deleted = true, updated_at = $1 WHERE id = $2 AND deleted = false`,
		time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
