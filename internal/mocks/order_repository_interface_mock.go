// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/catering-service/internal/domain/model"
)

type MockOrderRepositoryInterface struct {
	mock.Mock
}

func (m *MockOrderRepositoryInterface) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepositoryInterface) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepositoryInterface) List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepositoryInterface) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, from, to model.PaymentStatus) (*model.Order, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepositoryInterface) SetPaymentSession(ctx context.Context, id primitive.ObjectID, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}
