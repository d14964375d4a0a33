// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/catering-service/internal/domain/model"
)

type MockTokenRepositoryInterface struct {
	mock.Mock
}

func (m *MockTokenRepositoryInterface) Save(ctx context.Context, token *model.StaffToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepositoryInterface) TakeRefresh(ctx context.Context, hash string) (*model.StaffToken, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StaffToken), args.Error(1)
}

func (m *MockTokenRepositoryInterface) DropRefresh(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTokenRepositoryInterface) IsRevoked(ctx context.Context, hash string) (bool, error) {
	args := m.Called(ctx, hash)
	return args.Bool(0), args.Error(1)
}
