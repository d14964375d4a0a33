package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/logger"
	"github.com/guttosm/catering-service/internal/metrics"
	"github.com/guttosm/catering-service/internal/payment"
	"github.com/guttosm/catering-service/internal/repository"
	"github.com/guttosm/catering-service/internal/session"
)

// ErrSubmissionInFlight is returned when a session submits twice concurrently.
var ErrSubmissionInFlight = apperrors.New(apperrors.CodeConflict, "an order submission is already in progress")

// SubmitRequest finalizes the session checkout.
type SubmitRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method" binding:"required,oneof=card cash" example:"cash"`
}

// SubmitResult is the outcome of a successful submission.
//
// @Description Submitted order reference and, for card payments, the hosted payment page
type SubmitResult struct {
	OrderID       string              `json:"order_id" example:"6730f1c2a9e4d1b2c3d4e5f6"`
	PlacedAt      time.Time           `json:"placed_at"`
	PaymentMethod model.PaymentMethod `json:"payment_method" example:"card"`
	PaymentStatus model.PaymentStatus `json:"payment_status" example:"pending"`
	PaymentURL    string              `json:"payment_url,omitempty"`
	Draft         model.OrderDraft    `json:"draft"`
} // @name SubmitResult

// OrderService submits customer orders and serves the admin order console.
type OrderService interface {
	Submit(ctx context.Context, sessionID string, req SubmitRequest) (*SubmitResult, error)
	List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, to model.PaymentStatus) (*model.Order, error)
	ExportCSV(ctx context.Context, w io.Writer, filter model.OrderFilter) (int, error)
}

// OrderServiceImpl implements OrderService.
type OrderServiceImpl struct {
	orders   repository.OrderRepositoryInterface
	checkout CheckoutService
	store    session.Store
	gateway  payment.Gateway
	currency string
	location *time.Location
	now      func() time.Time
	inFlight sync.Map
}

// OrderOption configures an OrderServiceImpl.
type OrderOption func(*OrderServiceImpl)

// WithPaymentGateway enables card payments.
func WithPaymentGateway(g payment.Gateway, currency string) OrderOption {
	return func(s *OrderServiceImpl) {
		s.gateway = g
		if currency != "" {
			s.currency = currency
		}
	}
}

// WithOrderClock overrides the placement clock.
func WithOrderClock(now func() time.Time) OrderOption {
	return func(s *OrderServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewOrderService creates an order service.
func NewOrderService(
	orders repository.OrderRepositoryInterface,
	checkout CheckoutService,
	store session.Store,
	loc *time.Location,
	opts ...OrderOption,
) *OrderServiceImpl {
	s := &OrderServiceImpl{
		orders:   orders,
		checkout: checkout,
		store:    store,
		currency: "usd",
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit assembles the order draft from the session and places it. Cash
// orders are stored as pending; card orders additionally get a hosted
// payment session. The session cart is cleared only after success.
func (s *OrderServiceImpl) Submit(ctx context.Context, sessionID string, req SubmitRequest) (*SubmitResult, error) {
	if sessionID == "" {
		return nil, apperrors.New(apperrors.CodeValidation, session.ErrSessionRequired.Error())
	}
	if _, busy := s.inFlight.LoadOrStore(sessionID, struct{}{}); busy {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Delete(sessionID)

	res, err := s.submit(ctx, sessionID, req)
	status, total := "success", 0.0
	if err != nil {
		status = strings.ToLower(string(apperrors.CodeOf(err)))
	} else {
		total = res.Draft.Totals.GrandTotal
	}
	metrics.RecordOrderSubmission(string(req.PaymentMethod), status, total)
	return res, err
}

func (s *OrderServiceImpl) submit(ctx context.Context, sessionID string, req SubmitRequest) (*SubmitResult, error) {
	switch req.PaymentMethod {
	case model.PaymentCash:
	case model.PaymentCard:
		if s.gateway == nil {
			return nil, apperrors.New(apperrors.CodeDependency, "card payments are not available")
		}
	default:
		return nil, apperrors.Newf(apperrors.CodeValidation, "payment method must be %q or %q", model.PaymentCard, model.PaymentCash)
	}
	if s.orders == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "order storage is not configured")
	}

	quote, state, err := s.checkout.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !quote.Ready {
		return nil, apperrors.New(apperrors.CodeNotReady, "checkout is incomplete").
			WithDetails(map[string]any{"block_reason": quote.BlockReason})
	}

	cart, err := loadCart(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	meta, err := loadPackageMeta(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if meta != nil && !cartHasPackage(cart, meta.PackageID) {
		meta = nil
	}

	draft, err := engine.AssembleDraft(engine.DraftInput{
		Customer:       *state.Customer,
		Checkout:       *state,
		Cart:           cart.Lines,
		Package:        meta,
		Totals:         quote.Totals,
		PaymentMethod:  req.PaymentMethod,
		SpecialRequest: state.SpecialRequest,
	}, s.location)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &model.Order{
		OrderDraft:    draft,
		SessionID:     sessionID,
		PaymentStatus: model.PaymentPending,
		PlacedAt:      now,
		UpdatedAt:     now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to place order")
	}

	result := &SubmitResult{
		OrderID:       order.ID.Hex(),
		PlacedAt:      order.PlacedAt,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		Draft:         draft,
	}

	if req.PaymentMethod == model.PaymentCard {
		url, err := s.startPayment(ctx, order)
		if err != nil {
			return nil, err
		}
		result.PaymentURL = url
	}

	l := logger.WithContext(map[string]any{"session_id": sessionID, "order_id": result.OrderID})
	if err := s.store.Clear(ctx, sessionID); err != nil {
		l.Warn().Err(err).Msg("failed to clear session after order")
	}
	l.Info().
		Str("payment_method", string(req.PaymentMethod)).
		Float64("grand_total", draft.Totals.GrandTotal).
		Msg("order placed")
	return result, nil
}

// startPayment opens a hosted payment session for a pending order. When the
// gateway fails the order is cancelled so it never lingers as payable.
func (s *OrderServiceImpl) startPayment(ctx context.Context, order *model.Order) (string, error) {
	ps, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutSessionRequest{
		Reference:     order.ID.Hex(),
		CustomerEmail: order.Customer.Email,
		Currency:      s.currency,
		Totals:        order.Totals,
		Draft:         order.OrderDraft,
	})
	if err != nil {
		if _, cerr := s.orders.UpdatePaymentStatus(context.WithoutCancel(ctx), order.ID, model.PaymentPending, model.PaymentCancelled); cerr != nil {
			log.Error().Err(cerr).Str("order_id", order.ID.Hex()).Msg("failed to cancel order after payment error")
		}
		if apperrors.As(err) != nil {
			return "", err
		}
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "could not start payment, please try again")
	}
	if err := s.orders.SetPaymentSession(ctx, order.ID, ps.ID); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.Hex()).Msg("failed to record payment session")
	}
	order.PaymentSessionID = ps.ID
	return ps.URL, nil
}

// List returns orders matching filter.
func (s *OrderServiceImpl) List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, error) {
	if s.orders == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "order storage is not configured")
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return nil, apperrors.Newf(apperrors.CodeValidation, "unknown payment status %q", filter.PaymentStatus)
	}
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to list orders")
	}
	return orders, nil
}

// Get returns one order.
func (s *OrderServiceImpl) Get(ctx context.Context, id string) (*model.Order, error) {
	oid, err := parseOrderID(id)
	if err != nil {
		return nil, err
	}
	if s.orders == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "order storage is not configured")
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load order")
	}
	if order == nil {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "order %s not found", id)
	}
	return order, nil
}

// UpdatePaymentStatus moves an order along the payment lifecycle.
func (s *OrderServiceImpl) UpdatePaymentStatus(ctx context.Context, id string, to model.PaymentStatus) (*model.Order, error) {
	if !to.Valid() {
		return nil, apperrors.Newf(apperrors.CodeValidation, "unknown payment status %q", to)
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.PaymentStatus.CanTransitionTo(to) {
		return nil, apperrors.Newf(apperrors.CodeStateConflict, "cannot move order from %s to %s", current.PaymentStatus, to).
			WithDetails(map[string]any{"from": current.PaymentStatus, "to": to})
	}

	updated, err := s.orders.UpdatePaymentStatus(ctx, current.ID, current.PaymentStatus, to)
	switch {
	case errors.Is(err, repository.ErrStatusMismatch):
		return nil, apperrors.New(apperrors.CodeStateConflict, "order payment status changed, reload and retry")
	case err != nil:
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to update order")
	case updated == nil:
		return nil, apperrors.Newf(apperrors.CodeNotFound, "order %s not found", id)
	}
	log.Info().Str("order_id", id).Str("from", string(current.PaymentStatus)).Str("to", string(to)).Msg("payment status updated")
	return updated, nil
}

var exportHeader = []string{
	"order_id", "placed_at", "scheduled_at", "method", "customer", "email", "phone",
	"address", "items", "spice", "add_ons", "discount_code", "referral_code", "subtotal", "tax",
	"grand_total", "payment_method", "payment_status", "special_request",
}

// ExportCSV writes matching orders as CSV and returns the number of rows.
func (s *OrderServiceImpl) ExportCSV(ctx context.Context, w io.Writer, filter model.OrderFilter) (int, error) {
	orders, err := s.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, o := range orders {
		if err := cw.Write(s.exportRow(o)); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(orders), nil
}

func (s *OrderServiceImpl) exportRow(o *model.Order) []string {
	loc := s.location
	if loc == nil {
		loc = time.UTC
	}
	items := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, l.Summary())
	}
	spice := make([]string, 0, len(o.SpiceSelections))
	for _, sp := range o.SpiceSelections {
		spice = append(spice, fmt.Sprintf("%s: %s", sp.Name, sp.Level))
	}
	address := ""
	if o.Address != nil {
		address = o.Address.String()
	}
	return []string{
		o.ID.Hex(),
		o.PlacedAt.In(loc).Format(time.RFC3339),
		o.ScheduledAt.In(loc).Format(time.RFC3339),
		string(o.Method),
		o.Customer.Name,
		o.Customer.Email,
		o.Customer.Phone,
		address,
		strings.Join(items, "; "),
		strings.Join(spice, "; "),
		addOnList(o.AddOns),
		o.DiscountCode,
		o.ReferralCode,
		formatMoney(o.Totals.Subtotal),
		formatMoney(o.Totals.Tax),
		formatMoney(o.Totals.GrandTotal),
		string(o.PaymentMethod),
		string(o.PaymentStatus),
		o.SpecialRequest,
	}
}

func addOnList(a model.AddOns) string {
	var out []string
	if a.Warmers {
		out = append(out, "warmers")
	}
	if a.Utensils {
		out = append(out, "utensils")
	}
	if a.Condiments {
		out = append(out, "condiments")
	}
	return strings.Join(out, ", ")
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func parseOrderID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, apperrors.Newf(apperrors.CodeValidation, "invalid order id %q", id)
	}
	return oid, nil
}

func cartHasPackage(cart *model.Cart, packageID string) bool {
	for _, l := range cart.Lines {
		if l.IsPackage() && l.ID == packageID {
			return true
		}
	}
	return false
}
