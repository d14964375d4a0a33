// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockDistanceLookup struct {
	mock.Mock
}

func (m *MockDistanceLookup) DrivingDistance(ctx context.Context, origin, destination string) (float64, error) {
	args := m.Called(ctx, origin, destination)
	return args.Get(0).(float64), args.Error(1)
}
