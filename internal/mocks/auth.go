package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

// MockAuthService is a mock implementation of service.IAuthService
type MockAuthService struct {
	mock.Mock
}

var _ service.IAuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *types.LoginRequest) (*models.User, *types.TokenPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*types.TokenPair), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, p *types.Principal, refresh string) error {
	args := m.Called(ctx, p, refresh)
	return args.Error(0)
}

func (m *MockAuthService) Refresh(ctx context.Context, refresh string) (string, error) {
	args := m.Called(ctx, refresh)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, p *types.Principal, req *types.ChangePasswordRequest) error {
	args := m.Called(ctx, p, req)
	return args.Error(0)
}

// ValidateAccessToken mocks token validation for the auth middlewares
func (m *MockAuthService) ValidateAccessToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}
