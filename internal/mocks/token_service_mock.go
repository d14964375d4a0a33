// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
)

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateTokenPair(ctx context.Context, user *model.User) (*dto.TokenPair, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenPair), args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Claims), args.Error(1)
}

func (m *MockTokenService) ConsumeRefreshToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Claims), args.Error(1)
}

func (m *MockTokenService) InvalidateAccessToken(ctx context.Context, tokenString string) error {
	return m.Called(ctx, tokenString).Error(0)
}

func (m *MockTokenService) InvalidateUserTokens(ctx context.Context, userID primitive.ObjectID) error {
	return m.Called(ctx, userID).Error(0)
}
