package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockVerifier is a mock implementation of service.TokenVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
