package expenses

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

// ListFilters narrows expense listings.
type ListFilters struct {
	Category string
	From     time.Time
	To       time.Time
	Page     int
	Limit    int
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Expense, int, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Expense, error)
	Get(ctx context.Context, id uuid.UUID) (Expense, error)
	Create(ctx context.Context, expense Expense) (Expense, error)
	Update(ctx context.Context, id uuid.UUID, expense Expense) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const expenseColumns = `id, category, amount, date, notes, deleted, updated_at`

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.Category, &e.Amount, &e.Date, &e.Notes, &e.Deleted, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, httpx.ErrNotFound
	}
	return e, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Expense, int, error) {
	where := ` FROM expenses WHERE deleted = false`
	args := []interface{}{}
	argCount := 0

	arg := func(v interface{}) string {
		argCount++
		args = append(args, v)
		return "$" + strconv.Itoa(argCount)
	}

	if filters.Category != "" {
		where += ` AND category = ` + arg(filters.Category)
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

	query := `SELECT ` + expenseColumns + where + ` ORDER BY date DESC`
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

	var items []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *repository) ListBetween(ctx context.Context, from, to time.Time) ([]Expense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE deleted = false AND date >= $1 AND date < $2 ORDER BY date DESC`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Expense, error) {
	row := r.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND deleted = false`, id)
	return scanExpense(row)
}

func (r *repository) Create(ctx context.Context, expense Expense) (Expense, error) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	expense.UpdatedAt = time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO expenses (id, category, amount, date, notes, deleted, updated_at)
		 VALUES ($1, $2, $3, $4, $5, false, $6)`,
		expense.ID, expense.Category, expense.Amount, expense.Date, expense.Notes, expense.UpdatedAt)
	if err != nil {
		return Expense{}, err
	}
	return expense, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, expense Expense) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE expenses SET category = $1, amount = $2, date = $3, notes = $4, updated_at = $5
		 WHERE id = $6 AND deleted = false`,
		expense.Category, expense.Amount, expense.Date, expense.Notes, time.Now(), id)
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
		`UPDATE expenses SET deleted = true, updated_at = $1 WHERE id = $2 AND deleted = false`,
		time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
