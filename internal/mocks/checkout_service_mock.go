// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/service"
)

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Quote(ctx context.Context, sessionID string, req service.CheckoutRequest) (*service.CheckoutQuote, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutQuote), args.Error(1)
}

func (m *MockCheckoutService) Current(ctx context.Context, sessionID string) (*service.CheckoutQuote, *model.CheckoutState, error) {
	args := m.Called(ctx, sessionID)
	var quote *service.CheckoutQuote
	if v := args.Get(0); v != nil {
		quote = v.(*service.CheckoutQuote)
	}
	var state *model.CheckoutState
	if v := args.Get(1); v != nil {
		state = v.(*model.CheckoutState)
	}
	return quote, state, args.Error(2)
}

func (m *MockCheckoutService) Slots(ctx context.Context, q service.SlotsQuery) ([]model.Slot, model.HoursKind, error) {
	args := m.Called(ctx, q)
	var slots []model.Slot
	if v := args.Get(0); v != nil {
		slots = v.([]model.Slot)
	}
	return slots, args.Get(1).(model.HoursKind), args.Error(2)
}

type MockDeliveryService struct {
	mock.Mock
}

func (m *MockDeliveryService) Resolve(ctx context.Context, addr model.Address) (model.DeliveryQuote, error) {
	args := m.Called(ctx, addr)
	return args.Get(0).(model.DeliveryQuote), args.Error(1)
}

func (m *MockDeliveryService) ResolveManual(miles float64) (model.DeliveryQuote, error) {
	args := m.Called(miles)
	return args.Get(0).(model.DeliveryQuote), args.Error(1)
}
