//go:build contract

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/mocks"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/guttosm/catering-service/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const contractSession = "3f1c6a52-0c7e-4f43-9d1a-6f2b9f4b7e10"

// contractRouter wires the real cart, package and checkout services over an
// in-memory session store. Only the menu is mocked.
func contractRouter(t *testing.T) *gin.Engine {
	t.Helper()

	naan := &model.MenuItem{
		ID: "naan", Name: "Butter Naan", Category: "Bread", Course: model.CourseBread,
		Kind: model.KindPerPiece, Cost: 0.4, PiecePrice: 1, Active: true,
	}
	menu := new(mocks.MockMenuService)
	menu.On("Get", mock.Anything, "naan").Return(naan, nil).Maybe()
	menu.On("Get", mock.Anything, mock.Anything).Return(nil, apperrors.New(apperrors.CodeNotFound, "menu item not found")).Maybe()

	store := session.NewMemoryStore(time.Hour)
	settings := service.NewSettingsService(nil, nil)
	es := engine.DefaultSettings()
	delivery := service.NewDeliveryService(nil, "", es, time.Second)

	handlers := NewHandlers(Services{
		Menu:     menu,
		Packages: service.NewPackageService(settings, menu, store),
		Cart:     service.NewCartService(menu, store),
		Delivery: delivery,
		Checkout: service.NewCheckoutService(settings, delivery, store, es),
		Settings: settings,
	})

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(), middleware.ErrorHandler())
	NewHealthHandler().Register(router)
	NewStorefrontRoutes(handlers).RegisterPublicRoutes(router.Group("/api"))
	return router
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) dto.SuccessResponse {
	t.Helper()
	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	dataBytes, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(dataBytes, out))
	return resp
}

// TestAPI_ContractCompliance validates that API responses match the documented contract.
func TestAPI_ContractCompliance(t *testing.T) {
	router := contractRouter(t)

	tests := []struct {
		name             string
		method           string
		path             string
		body             string
		expectedStatus   int
		validateResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "GET /api/packages - Success 200",
			method:         http.MethodGet,
			path:           "/api/packages",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var catalog model.PackageSettings
				resp := decodeData(t, w, &catalog)
				assert.NotEmpty(t, resp.RequestID, "Response must include request_id")
				assert.NotZero(t, resp.Timestamp, "Response must include timestamp")
				assert.NotEmpty(t, catalog.Packages)
			},
		},
		{
			name:           "POST /api/cart/lines - Success 200",
			method:         http.MethodPost,
			path:           "/api/cart/lines",
			body:           `{"item_id": "naan", "size": "per-piece", "qty": 10}`,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var view service.CartView
				decodeData(t, w, &view)
				require.Len(t, view.Lines, 1)
				require.Len(t, view.Keys, 1)
				assert.Equal(t, "naan", view.Lines[0].ID)
				assert.GreaterOrEqual(t, view.Subtotal, 10.0)
				assert.Equal(t, contractSession, w.Header().Get(middleware.SessionIDHeader))
			},
		},
		{
			name:           "PUT /api/checkout - pickup without a date is blocked",
			method:         http.MethodPut,
			path:           "/api/checkout",
			body:           `{"method": "pickup"}`,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var quote service.CheckoutQuote
				decodeData(t, w, &quote)
				assert.Equal(t, service.BlockDateRequired, quote.BlockReason)
				assert.False(t, quote.Ready)
				assert.Equal(t, model.HoursPickup, quote.HoursKind)
				assert.Greater(t, quote.Totals.GrandTotal, quote.Totals.Subtotal)
				assert.NotEmpty(t, quote.MinDate)
				assert.NotEmpty(t, quote.MaxDate)
			},
		},
		{
			name:           "POST /api/cart/lines - Error 400 Invalid JSON",
			method:         http.MethodPost,
			path:           "/api/cart/lines",
			body:           `invalid json`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.NotEmpty(t, resp.Message)
				assert.NotEmpty(t, resp.RequestID)
				assert.NotZero(t, resp.Timestamp)
			},
		},
		{
			name:           "POST /api/packages/quote - Error 422 missing guests",
			method:         http.MethodPost,
			path:           "/api/packages/quote",
			body:           `{"package_id": "classic", "guests": 0}`,
			expectedStatus: http.StatusUnprocessableEntity,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Error)
				assert.NotEmpty(t, resp.RequestID)
			},
		},
		{
			name:           "GET /healthz - Success 200",
			method:         http.MethodGet,
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "ok", resp["status"])
			},
		},
		{
			name:           "GET /readyz - Success 200",
			method:         http.MethodGet,
			path:           "/readyz",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Contains(t, resp, "checks")
				assert.Equal(t, "ok", resp["status"])
			},
		},
	}

	// Subtests share the session, so they run in order: the checkout case
	// prices the cart built by the cart case.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewReader([]byte(tt.body)))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			req.Header.Set(middleware.SessionIDHeader, contractSession)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "Status code mismatch")
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"), "Response must include X-Request-ID header")

			if tt.validateResponse != nil {
				tt.validateResponse(t, w)
			}
		})
	}
}

// TestAPI_ErrorSchema validates that service errors use the documented error body.
func TestAPI_ErrorSchema(t *testing.T) {
	router := contractRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/lines", bytes.NewReader([]byte(`{"item_id": "ghost", "size": "per-piece", "qty": 1}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.RequestID)
	assert.NotZero(t, resp.Timestamp)
	assert.NotEmpty(t, w.Header().Get(middleware.SessionIDHeader), "A new session must be issued")
}
