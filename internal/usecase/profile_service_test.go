package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/airecipes/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProfileRepository is a mock implementation of domain.ProfileRepository
type MockProfileRepository struct {
	profile   *domain.Profile
	nextID    uint
	findError error
	creates   int
	updates   int
	deletes   int
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{nextID: 1}
}

func (m *MockProfileRepository) Find(ctx context.Context) (*domain.Profile, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	if m.profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	cp := *m.profile
	return &cp, nil
}

func (m *MockProfileRepository) Create(ctx context.Context, input domain.ProfileInput) (*domain.Profile, error) {
	m.creates++
	p := &domain.Profile{ID: m.nextID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.nextID++
	apply(p, input)
	m.profile = p
	cp := *p
	return &cp, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, id uint, input domain.ProfileInput) (*domain.Profile, error) {
	m.updates++
	if m.profile == nil || m.profile.ID != id {
		return nil, domain.ErrProfileNotFound
	}
	apply(m.profile, input)
	cp := *m.profile
	return &cp, nil
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uint) error {
	m.deletes++
	if m.profile == nil || m.profile.ID != id {
		return domain.ErrProfileNotFound
	}
	m.profile = nil
	return nil
}

func apply(p *domain.Profile, in domain.ProfileInput) {
	if in.Diet != nil {
		p.Diet = in.Diet
	}
	if in.Allergies != nil {
		p.Allergies = *in.Allergies
	}
	if in.Restrictions != nil {
		p.Restrictions = *in.Restrictions
	}
	if in.Age != nil {
		p.Age = in.Age
	}
	if in.Weight != nil {
		p.Weight = in.Weight
	}
	if in.Goals != nil {
		p.Goals = in.Goals
	}
}

func strPtr(s string) *string       { return &s }
func intPtr(i int) *int             { return &i }
func floatPtr(f float64) *float64   { return &f }
func listPtr(v ...string) *[]string { return &v }

func TestProfileService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMockProfileRepository()
	svc := NewProfileService(repo)

	_, err := svc.GetProfile(ctx)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	created, err := svc.CreateProfile(ctx, domain.ProfileInput{
		Diet:      strPtr("vegetarian"),
		Allergies: listPtr("peanuts"),
		Age:       intPtr(29),
	})
	require.NoError(t, err)
	assert.Equal(t, "vegetarian", *created.Diet)

	_, err = svc.CreateProfile(ctx, domain.ProfileInput{Diet: strPtr("vegan")})
	assert.ErrorIs(t, err, domain.ErrProfileExists)
	assert.Equal(t, 1, repo.creates)

	updated, err := svc.UpdateProfile(ctx, domain.ProfileInput{Weight: floatPtr(61.5)})
	require.NoError(t, err)
	assert.Equal(t, "vegetarian", *updated.Diet)
	assert.Equal(t, 61.5, *updated.Weight)
	assert.Equal(t, []string{"peanuts"}, updated.Allergies)

	require.NoError(t, svc.DeleteProfile(ctx))
	_, err = svc.GetProfile(ctx)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileService_MissingProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewMockProfileRepository()
	svc := NewProfileService(repo)

	_, err := svc.UpdateProfile(ctx, domain.ProfileInput{Diet: strPtr("keto")})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	err = svc.DeleteProfile(ctx)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	assert.Equal(t, 0, repo.updates)
	assert.Equal(t, 0, repo.deletes)
}

func TestProfileService_RepositoryFailure(t *testing.T) {
	repo := NewMockProfileRepository()
	repo.findError = errors.New("database is locked")
	svc := NewProfileService(repo)

	_, err := svc.CreateProfile(context.Background(), domain.ProfileInput{})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrProfileExists)
	assert.Equal(t, 0, repo.creates)
}

func TestProfileService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.ProfileInput
		wantErr bool
		message string
	}{
		{name: "empty input", input: domain.ProfileInput{}},
		{name: "full valid input", input: domain.ProfileInput{
			Diet:         strPtr("vegan"),
			Allergies:    listPtr("gluten", "soy"),
			Restrictions: listPtr("halal"),
			Age:          intPtr(0),
			Weight:       floatPtr(80),
			Goals:        strPtr("eat more fiber"),
		}},
		{name: "empty allergy list", input: domain.ProfileInput{Allergies: listPtr()}},
		{name: "age too high", input: domain.ProfileInput{Age: intPtr(151)}, wantErr: true, message: "age must be at most 150"},
		{name: "negative age", input: domain.ProfileInput{Age: intPtr(-1)}, wantErr: true, message: "age must be at least 0"},
		{name: "zero weight", input: domain.ProfileInput{Weight: floatPtr(0)}, wantErr: true, message: "weight must be greater than 0"},
		{name: "weight too high", input: domain.ProfileInput{Weight: floatPtr(1000.5)}, wantErr: true},
		{name: "diet too long", input: domain.ProfileInput{Diet: strPtr(strings.Repeat("a", 65))}, wantErr: true, message: "diet must be at most 64 characters"},
		{name: "goals too long", input: domain.ProfileInput{Goals: strPtr(strings.Repeat("g", 257))}, wantErr: true},
		{name: "blank allergy", input: domain.ProfileInput{Allergies: listPtr("nuts", "")}, wantErr: true, message: "allergies[1] must not be empty"},
		{name: "long restriction", input: domain.ProfileInput{Restrictions: listPtr(strings.Repeat("r", 65))}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProfileService(NewMockProfileRepository())

			_, err := svc.CreateProfile(context.Background(), tt.input)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}
