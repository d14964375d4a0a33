// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
)

type MockAuthService struct {
	mock.Mock
}

// NewMockAuthService creates a MockAuthService that asserts its expectations on cleanup.
func NewMockAuthService(t *testing.T) *MockAuthService {
	m := &MockAuthService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*dto.TokenPair, *model.User, error) {
	args := m.Called(ctx, email, password)
	var pair *dto.TokenPair
	if v := args.Get(0); v != nil {
		pair = v.(*dto.TokenPair)
	}
	var user *model.User
	if v := args.Get(1); v != nil {
		user = v.(*model.User)
	}
	return pair, user, args.Error(2)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenPair), args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Claims), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	args := m.Called(ctx, email, password)
	return args.Bool(0), args.Error(1)
}
