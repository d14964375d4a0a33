// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/service"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Submit(ctx context.Context, sessionID string, req service.SubmitRequest) (*service.SubmitResult, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) UpdatePaymentStatus(ctx context.Context, id string, to model.PaymentStatus) (*model.Order, error) {
	args := m.Called(ctx, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// ExportCSV writes the string in the first return value to w.
func (m *MockOrderService) ExportCSV(ctx context.Context, w io.Writer, filter model.OrderFilter) (int, error) {
	args := m.Called(ctx, w, filter)
	if body, ok := args.Get(0).(string); ok && body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Int(1), args.Error(2)
}
