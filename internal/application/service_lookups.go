package application

import (
	"context"

	"github.com/wblproducoes/mvc08/internal/domain"
)

// Lookup accessors back the status/level/gender pickers on the admin screens.
// The tables are reference data; only list and get are exposed.

func (s *Service) ListStatuses(ctx context.Context) ([]domain.Lookup, error) {
	return s.statuses.List(ctx)
}

func (s *Service) GetStatus(ctx context.Context, id int64) (domain.Lookup, error) {
	return s.statuses.GetByID(ctx, id)
}

func (s *Service) ListLevels(ctx context.Context) ([]domain.Lookup, error) {
	return s.levels.List(ctx)
}

func (s *Service) GetLevel(ctx context.Context, id int64) (domain.Lookup, error) {
	return s.levels.GetByID(ctx, id)
}

func (s *Service) ListGenders(ctx context.Context) ([]domain.Lookup, error) {
	return s.genders.List(ctx)
}

func (s *Service) GetGender(ctx context.Context, id int64) (domain.Lookup, error) {
	return s.genders.GetByID(ctx, id)
}
