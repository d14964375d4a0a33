package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/mocks"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func checkoutRouter(checkout *mocks.MockCheckoutService, delivery *mocks.MockDeliveryService) *gin.Engine {
	h := NewCheckoutHandler(checkout, delivery)
	router := sessionRouter()
	router.GET("/checkout", h.Current)
	router.PUT("/checkout", h.Quote)
	router.GET("/checkout/slots", h.Slots)
	router.POST("/delivery/quote", h.DeliveryQuote)
	return router
}

func TestCheckoutHandler_Quote(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockCheckoutService)
		wantStatus int
		wantBlock  service.BlockReason
	}{
		{
			name: "delivery without address is blocked",
			body: `{"method":"delivery","add_ons":{"warmers":true}}`,
			setup: func(m *mocks.MockCheckoutService) {
				m.On("Quote", mock.Anything, testSessionID, mock.MatchedBy(func(r service.CheckoutRequest) bool {
					return r.Method == model.MethodDelivery && r.AddOns.Warmers
				})).Return(&service.CheckoutQuote{
					Totals:      model.CheckoutTotals{CartTotal: 200, AddOnFee: 5, Subtotal: 205, Tax: 16.91, GrandTotal: 221.91},
					HoursKind:   model.HoursDelivery,
					BlockReason: service.BlockAddressRequired,
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBlock:  service.BlockAddressRequired,
		},
		{
			name:       "unknown method",
			body:       `{"method":"drone"}`,
			setup:      func(m *mocks.MockCheckoutService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "session store unavailable",
			body: `{"method":"pickup"}`,
			setup: func(m *mocks.MockCheckoutService) {
				m.On("Quote", mock.Anything, testSessionID, mock.Anything).
					Return(nil, apperrors.New(apperrors.CodeDependency, "session store unavailable"))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkout := new(mocks.MockCheckoutService)
			tt.setup(checkout)

			w := serve(checkoutRouter(checkout, new(mocks.MockDeliveryService)), http.MethodPut, "/checkout", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBlock != "" {
				var got service.CheckoutQuote
				decodeSuccess(t, w, &got)
				assert.Equal(t, tt.wantBlock, got.BlockReason)
				assert.False(t, got.Ready)
			}
			checkout.AssertExpectations(t)
		})
	}
}

func TestCheckoutHandler_Current(t *testing.T) {
	checkout := new(mocks.MockCheckoutService)
	state := &model.CheckoutState{Method: model.MethodPickup, Date: "2026-11-02", Time: "18:30"}
	checkout.On("Current", mock.Anything, testSessionID).Return(&service.CheckoutQuote{Ready: true}, state, nil)

	w := serve(checkoutRouter(checkout, new(mocks.MockDeliveryService)), http.MethodGet, "/checkout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got CurrentCheckout
	decodeSuccess(t, w, &got)
	assert.True(t, got.Quote.Ready)
	assert.Equal(t, "18:30", got.State.Time)
}

func TestCheckoutHandler_Slots(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setup      func(*mocks.MockCheckoutService)
		wantStatus int
		wantSlots  int
	}{
		{
			name:  "lists slots",
			query: "?method=delivery&date=2026-11-02&grand_total=450",
			setup: func(m *mocks.MockCheckoutService) {
				m.On("Slots", mock.Anything, service.SlotsQuery{Method: model.MethodDelivery, GrandTotal: 450, Date: "2026-11-02"}).
					Return([]model.Slot{
						{Time: "11:00", Label: "11:00 AM", At: time.Date(2026, 11, 2, 11, 0, 0, 0, time.UTC)},
						{Time: "11:30", Label: "11:30 AM", At: time.Date(2026, 11, 2, 11, 30, 0, 0, time.UTC)},
					}, model.HoursDelivery, nil)
			},
			wantStatus: http.StatusOK,
			wantSlots:  2,
		},
		{
			name:  "closed day returns empty list",
			query: "?method=pickup&date=2026-11-03",
			setup: func(m *mocks.MockCheckoutService) {
				m.On("Slots", mock.Anything, mock.Anything).Return(nil, model.HoursPickup, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "date required",
			query:      "?method=pickup",
			setup:      func(m *mocks.MockCheckoutService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "malformed date",
			query: "?method=pickup&date=11/02/2026",
			setup: func(m *mocks.MockCheckoutService) {
				m.On("Slots", mock.Anything, mock.Anything).
					Return(nil, model.HoursPickup, apperrors.New(apperrors.CodeValidation, "date must be YYYY-MM-DD"))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkout := new(mocks.MockCheckoutService)
			tt.setup(checkout)

			w := serve(checkoutRouter(checkout, new(mocks.MockDeliveryService)), http.MethodGet, "/checkout/slots"+tt.query, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var got struct {
					Slots []model.Slot `json:"slots"`
				}
				decodeSuccess(t, w, &got)
				assert.NotNil(t, got.Slots)
				assert.Len(t, got.Slots, tt.wantSlots)
			}
			checkout.AssertExpectations(t)
		})
	}
}

func TestCheckoutHandler_DeliveryQuote(t *testing.T) {
	addr := model.Address{Street: "100 Main St", City: "Irving", State: "TX", Zip: "75063"}

	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockDeliveryService)
		wantStatus int
		wantFee    float64
	}{
		{
			name: "resolves address",
			body: `{"address":{"street":"100 Main St","city":"Irving","state":"TX","zip":"75063"}}`,
			setup: func(m *mocks.MockDeliveryService) {
				m.On("Resolve", mock.Anything, addr).Return(model.DeliveryQuote{Miles: 12.4, Fee: 50, Source: "lookup"}, nil)
			},
			wantStatus: http.StatusOK,
			wantFee:    50,
		},
		{
			name: "manual miles",
			body: `{"miles":8}`,
			setup: func(m *mocks.MockDeliveryService) {
				m.On("ResolveManual", 8.0).Return(model.DeliveryQuote{Miles: 8, Fee: 30, Source: "manual"}, nil)
			},
			wantStatus: http.StatusOK,
			wantFee:    30,
		},
		{
			name:       "neither address nor miles",
			body:       `{}`,
			setup:      func(m *mocks.MockDeliveryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "manual miles out of bounds",
			body: `{"miles":500}`,
			setup: func(m *mocks.MockDeliveryService) {
				m.On("ResolveManual", 500.0).
					Return(model.DeliveryQuote{}, apperrors.New(apperrors.CodeValidation, "miles must be between 1 and 100"))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delivery := new(mocks.MockDeliveryService)
			tt.setup(delivery)

			w := serve(checkoutRouter(new(mocks.MockCheckoutService), delivery), http.MethodPost, "/delivery/quote", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var got model.DeliveryQuote
				decodeSuccess(t, w, &got)
				assert.Equal(t, tt.wantFee, got.Fee)
			}
			delivery.AssertExpectations(t)
		})
	}
}
