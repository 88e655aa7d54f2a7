package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/airecipes/backend/internal/domain"
)

// ProfileStore implements domain.ProfileRepository. The application is single
// tenant: Find returns the first profile row.
type ProfileStore struct {
	db *gorm.DB
}

// NewProfileStore constructs a database-backed profile repository.
func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Find returns the profile or domain.ErrProfileNotFound.
func (s *ProfileStore) Find(ctx context.Context) (*domain.Profile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).Order("id").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return toProfile(row), nil
}

// Create inserts a new profile.
func (s *ProfileStore) Create(ctx context.Context, input domain.ProfileInput) (*domain.Profile, error) {
	var row profileRow
	applyProfileInput(&row, input)

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return toProfile(row), nil
}

// Update applies the non-nil fields of input to the profile with id.
func (s *ProfileStore) Update(ctx context.Context, id uint, input domain.ProfileInput) (*domain.Profile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&row, id).Error; err != nil {
			return err
		}
		applyProfileInput(&row, input)
		return tx.Save(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return toProfile(row), nil
}

// Delete removes the profile with id.
func (s *ProfileStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&profileRow{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func applyProfileInput(row *profileRow, input domain.ProfileInput) {
	if input.Diet != nil {
		row.Diet = input.Diet
	}
	if input.Allergies != nil {
		row.Allergies = *input.Allergies
	}
	if input.Restrictions != nil {
		row.Restrictions = *input.Restrictions
	}
	if input.Age != nil {
		row.Age = input.Age
	}
	if input.Weight != nil {
		row.Weight = input.Weight
	}
	if input.Goals != nil {
		row.Goals = input.Goals
	}
}

func toProfile(row profileRow) *domain.Profile {
	return &domain.Profile{
		ID:           row.ID,
		Diet:         row.Diet,
		Allergies:    nonNil(row.Allergies),
		Restrictions: nonNil(row.Restrictions),
		Age:          row.Age,
		Weight:       row.Weight,
		Goals:        row.Goals,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// nonNil keeps list fields rendering as [] rather than null
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
