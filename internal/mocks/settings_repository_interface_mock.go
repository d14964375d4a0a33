// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/repository"
)

type MockSettingsRepositoryInterface struct {
	mock.Mock
}

func (m *MockSettingsRepositoryInterface) GetActive(ctx context.Context, kind model.SettingsKind) (*repository.SettingsDocument, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SettingsDocument), args.Error(1)
}

func (m *MockSettingsRepositoryInterface) Create(ctx context.Context, kind model.SettingsKind, payload any, createdBy string) (*repository.SettingsDocument, error) {
	args := m.Called(ctx, kind, payload, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SettingsDocument), args.Error(1)
}

func (m *MockSettingsRepositoryInterface) List(ctx context.Context, kind model.SettingsKind, limit int) ([]repository.SettingsDocument, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SettingsDocument), args.Error(1)
}
