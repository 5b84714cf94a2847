package products

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

// ListFilters narrows product listings.
type ListFilters struct {
	Search   string
	LowStock bool
	Page     int
	Limit    int
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	ListAll(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id uuid.UUID, product Product) error
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, purchase_price, sell_price, stock, stock_threshold, deleted, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.PurchasePrice, &p.SellPrice, &p.Stock, &p.StockThreshold, &p.Deleted, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted = false`
	countQuery := `SELECT COUNT(*) FROM products WHERE deleted = false`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND name ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.LowStock {
		clause := ` AND stock_threshold IS NOT NULL AND stock_threshold > 0 AND stock <= stock_threshold`
		query += clause
		countQuery += clause
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repository) ListAll(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE deleted = false`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND deleted = false`, id)
	return scanProduct(row)
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.UpdatedAt = time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, name, purchase_price, sell_price, stock, stock_threshold, deleted, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, false, $7)`,
		product.ID, product.Name, product.PurchasePrice, product.SellPrice, product.Stock, product.StockThreshold, product.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, product Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET name = $1, purchase_price = $2, sell_price = $3, stock = $4, stock_threshold = $5, updated_at = $6
		 WHERE id = $7 AND deleted = false`,
		product.Name, product.PurchasePrice, product.SellPrice, product.Stock, product.StockThreshold, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET stock = $1, updated_at = $2 WHERE id = $3 AND deleted = false`,
		stock, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET deleted = true, updated_at = $1 WHERE id = $2 AND deleted = false`,
		time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
