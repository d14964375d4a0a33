// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/catering-service/internal/domain/model"
)

type MockMenuRepositoryInterface struct {
	mock.Mock
}

func (m *MockMenuRepositoryInterface) List(ctx context.Context, activeOnly bool) ([]model.MenuItem, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuRepositoryInterface) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuRepositoryInterface) Upsert(ctx context.Context, item *model.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuRepositoryInterface) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	args := m.Called(ctx, id, active)
	return args.Bool(0), args.Error(1)
}

func (m *MockMenuRepositoryInterface) UpdatePrices(ctx context.Context, items []model.MenuItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}
