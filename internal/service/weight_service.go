package service

import (
	"context"

	"github.com/flori/fittrack/internal/domain"
)

// WeightService logs body-weight entries
type WeightService struct {
	weightRepo domain.WeightRepository
}

func NewWeightService(weightRepo domain.WeightRepository) *WeightService {
	return &WeightService{weightRepo: weightRepo}
}

func (s *WeightService) Create(ctx context.Context, userID, date string, weightKg float64) (*domain.WeightEntry, error) {
	entry := &domain.WeightEntry{
		UserID:   userID,
		Date:     date,
		WeightKg: weightKg,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.weightRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns every entry, oldest date first
func (s *WeightService) List(ctx context.Context, userID string) ([]*domain.WeightEntry, error) {
	return s.weightRepo.List(ctx, userID)
}

func (s *WeightService) Delete(ctx context.Context, userID, id string) error {
	return s.weightRepo.Delete(ctx, userID, id)
}
