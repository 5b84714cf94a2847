package shippers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListAll(ctx context.Context) ([]Shipper, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Shipper, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, shipper Shipper) (Shipper, error) {
	if err := validate(shipper); err != nil {
		return Shipper{}, err
	}
	return s.repo.Create(ctx, shipper)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, shipper Shipper) error {
	if err := validate(shipper); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, shipper)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func validate(s Shipper) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: shipper name is required", httpx.ErrValidation)
	}
	if len(s.Rates) == 0 {
		return fmt.Errorf("%w: at least one rate row is required", httpx.ErrValidation)
	}
	for i, rate := range s.Rates {
		if strings.TrimSpace(rate.Governorate) == "" {
			return fmt.Errorf("%w: rate %d: governorate is required", httpx.ErrValidation, i+1)
		}
		if rate.Price < 0 || rate.Discount < 0 {
			return fmt.Errorf("%w: rate %d: price and discount must be non-negative", httpx.ErrValidation, i+1)
		}
	}
	return nil
}
