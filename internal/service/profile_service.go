package service

import (
	"context"
	"errors"

	"github.com/flori/fittrack/internal/domain"
)

// ProfileService reads and updates the user's goals and sharing settings
type ProfileService struct {
	userRepo domain.UserRepository
}

func NewProfileService(userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *ProfileService) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return s.userRepo.UpdateProfile(ctx, userID, update)
}

// ResolvePublic finds the owner of a public dashboard. Users who have not opted in
// are reported as not found so their existence is not revealed.
func (s *ProfileService) ResolvePublic(ctx context.Context, username string) (*domain.User, error) {
	name, err := domain.NormalizeUsername(username)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.userRepo.GetByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if !user.PublicDashboard {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
