package shippers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

type Repository interface {
	ListAll(ctx context.Context) ([]Shipper, error)
	Get(ctx context.Context, id uuid.UUID) (Shipper, error)
	Create(ctx context.Context, shipper Shipper) (Shipper, error)
	Update(ctx context.Context, id uuid.UUID, shipper Shipper) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func scanShipper(row pgx.Row) (Shipper, error) {
	var s Shipper
	err := row.Scan(&s.ID, &s.Name, &s.Rates, &s.Deleted, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shipper{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) ListAll(ctx context.Context) ([]Shipper, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, rates, deleted, updated_at FROM shippers WHERE deleted = false ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Shipper
	for rows.Next() {
		s, err := scanShipper(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Shipper, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, rates, deleted, updated_at FROM shippers WHERE id = $1 AND deleted = false`, id)
	return scanShipper(row)
}

func (r *repository) Create(ctx context.Context, shipper Shipper) (Shipper, error) {
	if shipper.ID == uuid.Nil {
		shipper.ID = uuid.New()
	}
	shipper.UpdatedAt = time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO shippers (id, name, rates, deleted, updated_at) VALUES ($1, $2, $3, false, $4)`,
		shipper.ID, shipper.Name, shipper.Rates, shipper.UpdatedAt)
	if err != nil {
		return Shipper{}, err
	}
	return shipper, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, shipper Shipper) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE shippers SET name = $1, rates = $2, updated_at = $3 WHERE id = $4 AND deleted = false`,
		shipper.Name, shipper.Rates, time.Now(), id)
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
		`UPDATE shippers SET deleted = true, updated_at = $1 WHERE id = $2 AND deleted = false`,
		time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
