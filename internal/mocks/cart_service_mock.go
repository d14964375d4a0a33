// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/catering-service/internal/service"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, sessionID string) (*service.CartView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) AddLine(ctx context.Context, sessionID string, req service.AddLineRequest) (*service.CartView, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) RemoveLine(ctx context.Context, sessionID, key string) (*service.CartView, error) {
	args := m.Called(ctx, sessionID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
