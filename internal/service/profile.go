package service

import (
	"context"

	"github.com/safebite/safebite/backend/internal/models"
	"github.com/safebite/safebite/backend/internal/store"
)

// ProfileService handles user profile operations
type ProfileService struct {
	store store.Store
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(s store.Store) *ProfileService {
	return &ProfileService{store: s}
}

// GetProfile returns the caller's profile or store.ErrNotFound.
func (s *ProfileService) GetProfile(ctx context.Context, uid string) (models.Document, error) {
	p, err := store.UserProfilePath(uid)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, p)
}

// CreateProfile writes the whole profile, replacing any existing one.
func (s *ProfileService) CreateProfile(ctx context.Context, uid string, profile models.Document) error {
	p, err := store.UserProfilePath(uid)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, p, profile)
}

// UpdateProfile merges changes into an existing profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, uid string, changes models.Document) error {
	p, err := store.UserProfilePath(uid)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, p, changes)
}
