package service

import (
	"context"
	"strings"
	"time"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/metrics"
	"github.com/guttosm/catering-service/internal/session"
)

// BlockReason explains why checkout cannot continue.
type BlockReason string

// Block reasons, in the order they are checked.
const (
	BlockEmptyCart          BlockReason = "empty_cart"
	BlockAddressRequired    BlockReason = "address_required"
	BlockDistanceUnresolved BlockReason = "distance_unresolved"
	BlockOutOfRange         BlockReason = "out_of_range"
	BlockDateRequired       BlockReason = "date_required"
	BlockNoSlots            BlockReason = "no_slots"
	BlockTimeRequired       BlockReason = "time_required"
	BlockCustomerRequired   BlockReason = "customer_required"
)

// CheckoutRequest is the checkout form as last edited by the customer.
type CheckoutRequest struct {
	Method         model.FulfillmentMethod `json:"method" binding:"required,oneof=pickup delivery" example:"delivery"`
	Address        *model.Address          `json:"address,omitempty"`
	ManualMiles    float64                 `json:"manual_miles,omitempty" example:"0"`
	AddOns         model.AddOns            `json:"add_ons"`
	DiscountCode   string                  `json:"discount_code,omitempty" example:"online10"`
	ReferralCode   string                  `json:"referral_code,omitempty" example:"FRIEND-PRIYA"`
	Date           string                  `json:"date,omitempty" example:"2026-11-02"`
	Time           string                  `json:"time,omitempty" example:"18:30"`
	Customer       *model.Customer         `json:"customer,omitempty"`
	SpecialRequest string                  `json:"special_request,omitempty"`
}

// CheckoutQuote is the priced checkout with its schedule and readiness.
//
// @Description Checkout totals, delivery quote, slots and block reason
type CheckoutQuote struct {
	Totals       model.CheckoutTotals `json:"totals"`
	Delivery     *model.DeliveryQuote `json:"delivery,omitempty"`
	HoursKind    model.HoursKind      `json:"hours_kind" example:"delivery"`
	MinDate      string               `json:"min_date" example:"2026-10-16"`
	MaxDate      string               `json:"max_date" example:"2027-01-13"`
	Date         string               `json:"date,omitempty"`
	Slots        []model.Slot         `json:"slots"`
	SelectedTime string               `json:"selected_time,omitempty" example:"18:30"`
	BlockReason  BlockReason          `json:"block_reason,omitempty" example:"time_required"`
	Ready        bool                 `json:"ready"`
} // @name CheckoutQuote

// SlotsQuery asks for the slots offered on a date.
type SlotsQuery struct {
	Method     model.FulfillmentMethod
	GrandTotal float64
	Date       string
}

// CheckoutService prices checkouts and keeps the checkout draft.
type CheckoutService interface {
	// Quote prices the session cart with the submitted form, persists the
	// form as the session's checkout draft and reports what still blocks
	// submission.
	Quote(ctx context.Context, sessionID string, req CheckoutRequest) (*CheckoutQuote, error)
	// Current re-prices the persisted checkout draft.
	Current(ctx context.Context, sessionID string) (*CheckoutQuote, *model.CheckoutState, error)
	Slots(ctx context.Context, q SlotsQuery) ([]model.Slot, model.HoursKind, error)
}

// CheckoutServiceImpl implements CheckoutService.
type CheckoutServiceImpl struct {
	settings SettingsService
	delivery DeliveryService
	store    session.Store
	totals   *engine.TotalsCalculator
	calendar *engine.SlotCalendar
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(settings SettingsService, delivery DeliveryService, store session.Store, es engine.Settings) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		settings: settings,
		delivery: delivery,
		store:    store,
		totals:   engine.NewTotalsCalculator(es),
		calendar: engine.NewSlotCalendar(es),
	}
}

// Quote prices the form and saves it.
func (s *CheckoutServiceImpl) Quote(ctx context.Context, sessionID string, req CheckoutRequest) (*CheckoutQuote, error) {
	if req.Method != model.MethodPickup && req.Method != model.MethodDelivery {
		return nil, apperrors.Newf(apperrors.CodeValidation, "method must be %q or %q", model.MethodPickup, model.MethodDelivery)
	}
	cart, err := loadCart(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	var prev model.CheckoutState
	if _, err := s.store.Get(ctx, sessionID, session.KeyCheckout, &prev); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load checkout")
	}

	state := model.CheckoutState{
		Method:         req.Method,
		Address:        trimAddress(req.Address),
		ManualMiles:    req.ManualMiles,
		AddOns:         req.AddOns,
		DiscountCode:   strings.TrimSpace(req.DiscountCode),
		ReferralCode:   strings.TrimSpace(req.ReferralCode),
		Date:           strings.TrimSpace(req.Date),
		Time:           strings.TrimSpace(req.Time),
		Customer:       req.Customer,
		SpecialRequest: strings.TrimSpace(req.SpecialRequest),
	}
	if state.Method == model.MethodDelivery {
		q, err := s.resolveDelivery(ctx, state, prev)
		if err != nil {
			return nil, err
		}
		state.Delivery = q
	}

	quote, err := s.price(ctx, cart, &state)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, sessionID, session.KeyCheckout, state); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to save checkout")
	}
	metrics.RecordCheckoutQuote(string(state.Method), string(quote.BlockReason))
	return quote, nil
}

// Current re-prices the saved checkout draft without new lookups.
func (s *CheckoutServiceImpl) Current(ctx context.Context, sessionID string) (*CheckoutQuote, *model.CheckoutState, error) {
	cart, err := loadCart(ctx, s.store, sessionID)
	if err != nil {
		return nil, nil, err
	}
	var state model.CheckoutState
	found, err := s.store.Get(ctx, sessionID, session.KeyCheckout, &state)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load checkout")
	}
	if !found {
		state.Method = model.MethodPickup
	}
	quote, err := s.price(ctx, cart, &state)
	if err != nil {
		return nil, nil, err
	}
	return quote, &state, nil
}

// Slots lists the times offered on a date for a method and order size.
func (s *CheckoutServiceImpl) Slots(ctx context.Context, q SlotsQuery) ([]model.Slot, model.HoursKind, error) {
	day, err := s.calendar.ParseDate(q.Date)
	if err != nil {
		return nil, "", err
	}
	hours, kind := s.totals.SelectHours(q.Method, q.GrandTotal, s.settings.Hours(ctx))
	return s.calendar.Slots(hours, day), kind, nil
}

// price computes totals, hours, slots and the block reason for state. It
// clears a selected time that is no longer offered.
func (s *CheckoutServiceImpl) price(ctx context.Context, cart *model.Cart, state *model.CheckoutState) (*CheckoutQuote, error) {
	fee := 0.0
	if state.Method == model.MethodDelivery && state.Delivery != nil && !state.Delivery.OutOfRange {
		fee = state.Delivery.Fee
	}
	totals := s.totals.Compute(engine.TotalsInput{
		CartTotal:    engine.CartSubtotal(cart.Lines),
		Method:       state.Method,
		DeliveryFee:  fee,
		AddOns:       state.AddOns,
		DiscountCode: state.DiscountCode,
	})

	hours, kind := s.totals.SelectHours(state.Method, totals.GrandTotal, s.settings.Hours(ctx))
	first, last := s.calendar.DateBounds()
	quote := &CheckoutQuote{
		Totals:    totals,
		HoursKind: kind,
		MinDate:   first.Format(time.DateOnly),
		MaxDate:   last.Format(time.DateOnly),
		Slots:     []model.Slot{},
	}
	if state.Method == model.MethodDelivery {
		quote.Delivery = state.Delivery
	}

	if state.Date != "" {
		day, err := s.calendar.ParseDate(state.Date)
		if err != nil {
			return nil, err
		}
		quote.Date = day.Format(time.DateOnly)
		quote.Slots = s.calendar.Slots(hours, day)
	}
	state.Time = engine.RevalidateSelection(state.Time, quote.Slots)
	quote.SelectedTime = state.Time

	quote.BlockReason = blockReason(cart, state, quote)
	quote.Ready = quote.BlockReason == ""
	return quote, nil
}

func (s *CheckoutServiceImpl) resolveDelivery(ctx context.Context, state, prev model.CheckoutState) (*model.DeliveryQuote, error) {
	if state.ManualMiles > 0 {
		q, err := s.delivery.ResolveManual(state.ManualMiles)
		if err != nil {
			return nil, err
		}
		return &q, nil
	}
	if !routable(state.Address) {
		return nil, nil
	}
	if prev.Delivery != nil && prev.Delivery.Source == engine.SourceLookup && prev.Delivery.Resolved() &&
		prev.Address != nil && *prev.Address == *state.Address {
		q := *prev.Delivery
		return &q, nil
	}
	q, err := s.delivery.Resolve(ctx, *state.Address)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func blockReason(cart *model.Cart, state *model.CheckoutState, quote *CheckoutQuote) BlockReason {
	switch {
	case len(cart.Lines) == 0:
		return BlockEmptyCart
	case state.Method == model.MethodDelivery && state.ManualMiles <= 0 && !routable(state.Address):
		return BlockAddressRequired
	case state.Method == model.MethodDelivery && (state.Delivery == nil || !state.Delivery.Resolved()):
		return BlockDistanceUnresolved
	case state.Method == model.MethodDelivery && state.Delivery.OutOfRange:
		return BlockOutOfRange
	case state.Date == "":
		return BlockDateRequired
	case len(quote.Slots) == 0:
		return BlockNoSlots
	case state.Time == "":
		return BlockTimeRequired
	case !customerComplete(state.Customer):
		return BlockCustomerRequired
	}
	return ""
}

func routable(a *model.Address) bool {
	return a != nil && a.Routable()
}

func customerComplete(c *model.Customer) bool {
	return c != nil &&
		strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Email) != "" &&
		strings.TrimSpace(c.Phone) != ""
}

func trimAddress(a *model.Address) *model.Address {
	if a == nil {
		return nil
	}
	out := model.Address{
		Street: strings.TrimSpace(a.Street),
		City:   strings.TrimSpace(a.City),
		State:  strings.TrimSpace(a.State),
		Zip:    strings.TrimSpace(a.Zip),
	}
	if out.IsZero() {
		return nil
	}
	return &out
}
