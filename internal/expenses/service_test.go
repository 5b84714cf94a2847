package expenses

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

type memRepo struct {
	expenses map[uuid.UUID]Expense
}

func newMemRepo() *memRepo {
	return &memRepo{expenses: make(map[uuid.UUID]Expense)}
}

func (r *memRepo) List(_ context.Context, _ ListFilters) ([]Expense, int, error) {
	var items []Expense
	for _, e := range r.expenses {
		if !e.Deleted {
			items = append(items, e)
		}
	}
	return items, len(items), nil
}

func (r *memRepo) ListBetween(_ context.Context, from, to time.Time) ([]Expense, error) {
	var items []Expense
	for _, e := range r.expenses {
		if !e.Deleted && !e.Date.Before(from) && e.Date.Before(to) {
			items = append(items, e)
		}
	}
	return items, nil
}

func (r *memRepo) Get(_ context.Context, id uuid.UUID) (Expense, error) {
	e, ok := r.expenses[id]
	if !ok || e.Deleted {
		return Expense{}, httpx.ErrNotFound
	}
	return e, nil
}

func (r *memRepo) Create(_ context.Context, expense Expense) (Expense, error) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	r.expenses[expense.ID] = expense
	return expense, nil
}

func (r *memRepo) Update(_ context.Context, id uuid.UUID, expense Expense) error {
	if _, ok := r.expenses[id]; !ok {
		return httpx.ErrNotFound
	}
	expense.ID = id
	r.expenses[id] = expense
	return nil
}

func (r *memRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	e, ok := r.expenses[id]
	if !ok || e.Deleted {
		return httpx.ErrNotFound
	}
	e.Deleted = true
	r.expenses[id] = e
	return nil
}

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestServiceCreateDefaultsDate(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), Expense{Category: "ads", Amount: 500})
	require.NoError(t, err)
	require.False(t, created.Date.IsZero())
	require.NotEqual(t, uuid.Nil, created.ID)
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), Expense{Amount: 10})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), Expense{Category: "ads", Amount: 0})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestServiceUpdateKeepsDateWhenOmitted(t *testing.T) {
	svc, _ := newTestService()

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), Expense{Category: "ads", Amount: 500, Date: date})
	require.NoError(t, err)

	err = svc.Update(context.Background(), created.ID, Expense{Category: "packaging", Amount: 300})
	require.NoError(t, err)

	updated, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "packaging", updated.Category)
	require.Equal(t, date, updated.Date)
}
