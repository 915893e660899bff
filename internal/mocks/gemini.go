package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/safebite/safebite/backend/internal/models"
)

// MockGenerator is a mock implementation of service.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, schema *models.Schema) (any, error) {
	args := m.Called(ctx, prompt, schema)
	return args.Get(0), args.Error(1)
}
