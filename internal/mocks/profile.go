package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/safebite/safebite/backend/internal/models"
)

// MockProfileService is a mock implementation of service.IProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, uid string) (models.Document, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Document), args.Error(1)
}

func (m *MockProfileService) CreateProfile(ctx context.Context, uid string, profile models.Document) error {
	args := m.Called(ctx, uid, profile)
	return args.Error(0)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, uid string, changes models.Document) error {
	args := m.Called(ctx, uid, changes)
	return args.Error(0)
}
