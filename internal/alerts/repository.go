package alerts

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

// ListFilters narrows notification listings.
type ListFilters struct {
	UnreadOnly bool
	Kind       Kind
	Page       int
	Limit      int
}

type Repository interface {
	// Insert stores the notification unless one with the same kind, subject
	// and day already exists. It reports whether a row was written.
	Insert(ctx context.Context, n Notification) (bool, error)
	List(ctx context.Context, filters ListFilters) ([]Notification, int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, n Notification) (bool, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	tag, err := r.db.Exec(ctx,
		`INSERT INTO notifications (id, kind, subject_id, message, day, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, false, $6)
		 ON CONFLICT (kind, subject_id, day) DO NOTHING`,
		n.ID, n.Kind, n.SubjectID, n.Message, n.Day, time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Notification, int, error) {
	where := ` FROM notifications WHERE true`
	args := []interface{}{}
	argCount := 0

	arg := func(v interface{}) string {
		argCount++
		args = append(args, v)
		return "$" + strconv.Itoa(argCount)
	}

	if filters.UnreadOnly {
		where += ` AND read = false`
	}
	if filters.Kind != "" {
		where += ` AND kind = ` + arg(filters.Kind)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, kind, subject_id, message, day, read, created_at` + where + ` ORDER BY created_at DESC`
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

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Kind, &n.SubjectID, &n.Message, &n.Day, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}

func (r *repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `UPDATE notifications SET read = true WHERE read = false`)
	return err
}
