// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/service"
)

type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) List(ctx context.Context, includeInactive bool) ([]model.MenuItem, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuService) Get(ctx context.Context, id string) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuService) Index(ctx context.Context) (map[string]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.MenuItem), args.Error(1)
}

func (m *MockMenuService) Upsert(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuService) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockMenuService) Reprice(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPackageService struct {
	mock.Mock
}

func (m *MockPackageService) Catalog(ctx context.Context) model.PackageSettings {
	args := m.Called(ctx)
	return args.Get(0).(model.PackageSettings)
}

func (m *MockPackageService) TogglePick(ctx context.Context, req service.PickRequest) (*service.SelectionView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SelectionView), args.Error(1)
}

func (m *MockPackageService) Quote(ctx context.Context, req service.PackageQuoteRequest) (*service.PackageQuote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PackageQuote), args.Error(1)
}

func (m *MockPackageService) AddToCart(ctx context.Context, sessionID string, req service.PackageQuoteRequest) (*service.CartView, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Packages(ctx context.Context) model.PackageSettings {
	args := m.Called(ctx)
	return args.Get(0).(model.PackageSettings)
}

func (m *MockSettingsService) Hours(ctx context.Context) model.HoursSettings {
	args := m.Called(ctx)
	return args.Get(0).(model.HoursSettings)
}

func (m *MockSettingsService) Pricing(ctx context.Context) model.PricingConfig {
	args := m.Called(ctx)
	return args.Get(0).(model.PricingConfig)
}

func (m *MockSettingsService) UpdatePackages(ctx context.Context, s model.PackageSettings, by string) (*service.SettingsVersion, error) {
	args := m.Called(ctx, s, by)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SettingsVersion), args.Error(1)
}

func (m *MockSettingsService) UpdateHours(ctx context.Context, h model.HoursSettings, by string) (*service.SettingsVersion, error) {
	args := m.Called(ctx, h, by)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SettingsVersion), args.Error(1)
}

func (m *MockSettingsService) UpdatePricing(ctx context.Context, p model.PricingConfig, by string) (*service.SettingsVersion, error) {
	args := m.Called(ctx, p, by)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SettingsVersion), args.Error(1)
}

func (m *MockSettingsService) History(ctx context.Context, kind model.SettingsKind, limit int) ([]service.SettingsVersion, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SettingsVersion), args.Error(1)
}
