package expenses

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func validate(expense Expense) error {
	if expense.Category == "" {
		return fmt.Errorf("expense category is required: %w", httpx.ErrValidation)
	}
	if expense.Amount <= 0 {
		return fmt.Errorf("expense amount must be positive: %w", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, expense Expense) (Expense, error) {
	if err := validate(expense); err != nil {
		return Expense{}, err
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}
	created, err := s.repo.Create(ctx, expense)
	if err != nil {
		return Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.logger.InfoContext(ctx, "expense recorded",
		slog.String("expense_id", created.ID.String()),
		slog.String("category", created.Category),
		slog.Float64("amount", created.Amount))
	return created, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, expense Expense) error {
	if err := validate(expense); err != nil {
		return err
	}
	if expense.Date.IsZero() {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		expense.Date = current.Date
	}
	return s.repo.Update(ctx, id, expense)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Expense, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Expense, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
