//go:build !integration

package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/circuitbreaker"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/mocks"
)

func testServices(t *testing.T) *ServiceComponents {
	t.Helper()
	components, err := InitializeServices(config.Config{}, nil)
	require.NoError(t, err)
	return components
}

func TestInitializeRouter(t *testing.T) {
	tests := []struct {
		name         string
		dbComponents func(t *testing.T) *DatabaseComponents
		cfg          config.Config
		validate     func(*testing.T, *RouterComponents)
	}{
		{
			name: "creates router without database",
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:      100,
					RateWindow:     time.Minute,
					RequestTimeout: 10 * time.Second,
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components.Handlers)
				assert.NotNil(t, components.Handlers.Checkout)
				assert.NotNil(t, components.HealthHandler)
				assert.False(t, components.Config.EnableAuth)
				assert.True(t, components.Config.EnableIdempotency)
				assert.Equal(t, 100, components.Config.RateLimit)
				assert.Equal(t, 10*time.Second, components.Config.RequestTimeout)
				assert.Nil(t, components.Config.LoggingService)
				assert.Nil(t, components.Config.AuthService)
			},
		},
		{
			name: "carries API keys",
			cfg: config.Config{
				Auth: config.AuthConfig{
					Enabled: true,
					APIKeys: map[string]bool{"test-key": true},
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.True(t, components.Config.EnableAuth)
				assert.Equal(t, map[string]bool{"test-key": true}, components.Config.APIKeys)
			},
		},
		{
			name: "creates auth service and seeds admin with database",
			dbComponents: func(t *testing.T) *DatabaseComponents {
				users := new(mocks.MockUserRepositoryInterface)
				users.Test(t)
				users.On("CountByRole", mock.Anything, "admin").Return(int64(1), nil).Once()
				t.Cleanup(func() { users.AssertExpectations(t) })
				return &DatabaseComponents{
					LoggingService: mocks.NewMockLoggingService(t),
					UserRepo:       users,
					TokenRepo:      new(mocks.MockTokenRepositoryInterface),
					Breakers: map[string]*circuitbreaker.CircuitBreaker{
						"mongodb_orders": circuitbreaker.New(circuitbreaker.DefaultConfig()),
					},
				}
			},
			cfg: config.Config{
				Auth: config.AuthConfig{AdminEmail: "admin@example.com", AdminPassword: "s3cret-pass"},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components.Config.AuthService)
				assert.NotNil(t, components.Config.LoggingService)
			},
		},
		{
			name: "no auth service without user repository",
			dbComponents: func(t *testing.T) *DatabaseComponents {
				return &DatabaseComponents{LoggingService: mocks.NewMockLoggingService(t)}
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.Nil(t, components.Config.AuthService)
				assert.NotNil(t, components.Config.LoggingService)
				assert.NotNil(t, middleware.GetAsyncLogger())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var db *DatabaseComponents
			if tt.dbComponents != nil {
				db = tt.dbComponents(t)
			}
			t.Cleanup(middleware.StopAsyncLogger)
			components := InitializeRouter(testServices(t), db, tt.cfg)
			require.NotNil(t, components)
			tt.validate(t, components)
		})
	}
}
