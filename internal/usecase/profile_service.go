package usecase

import (
	"context"
	"errors"

	"github.com/airecipes/backend/internal/domain"
)

// ProfileService manages the single user profile
type ProfileService struct {
	repo domain.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(repo domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile returns the profile or ErrProfileNotFound
func (s *ProfileService) GetProfile(ctx context.Context) (*domain.Profile, error) {
	return s.repo.Find(ctx)
}

// CreateProfile creates the profile. Only one profile may exist.
func (s *ProfileService) CreateProfile(ctx context.Context, input domain.ProfileInput) (*domain.Profile, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	_, err := s.repo.Find(ctx)
	switch {
	case err == nil:
		return nil, domain.ErrProfileExists
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, err
	}

	return s.repo.Create(ctx, input)
}

// UpdateProfile applies the provided fields to the existing profile
func (s *ProfileService) UpdateProfile(ctx context.Context, input domain.ProfileInput) (*domain.Profile, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.Find(ctx)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, existing.ID, input)
}

// DeleteProfile removes the profile
func (s *ProfileService) DeleteProfile(ctx context.Context) error {
	existing, err := s.repo.Find(ctx)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}
