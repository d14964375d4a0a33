// Package payment creates hosted card checkout sessions.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/money"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

// CheckoutSessionRequest describes the order being paid for.
type CheckoutSessionRequest struct {
	Reference     string
	CustomerEmail string
	Currency      string
	Totals        model.CheckoutTotals
	Draft         model.OrderDraft
}

// CheckoutSession is the hosted payment page created for an order.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Gateway creates payment sessions.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
}

// SessionCreator is the subset of the Stripe API the gateway needs.
type SessionCreator interface {
	New(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeSessions struct{}

func (stripeSessions) New(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params != nil {
		params.Context = ctx
	}
	return session.New(params)
}

// Config holds Stripe credentials and redirect URLs.
type Config struct {
	APIKey      string
	Environment string
	SuccessURL  string
	CancelURL   string
	Currency    string
}

// StripeGateway creates Stripe Checkout sessions.
type StripeGateway struct {
	sessions    SessionCreator
	environment string
	successURL  string
	cancelURL   string
	currency    string
}

// Option configures the gateway.
type Option func(*StripeGateway)

// WithSessionCreator replaces the Stripe API, mainly for tests.
func WithSessionCreator(sc SessionCreator) Option {
	return func(g *StripeGateway) {
		if sc != nil {
			g.sessions = sc
		}
	}
}

// NewStripeGateway validates the configuration and sets the global Stripe key.
func NewStripeGateway(cfg Config, opts ...Option) (*StripeGateway, error) {
	env, err := normalizeEnv(cfg.Environment)
	if err != nil {
		return nil, err
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}
	stripe.Key = apiKey

	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "usd"
	}
	g := &StripeGateway{
		sessions:    stripeSessions{},
		environment: env,
		successURL:  cfg.SuccessURL,
		cancelURL:   cfg.CancelURL,
		currency:    currency,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Environment reports "test" or "live".
func (g *StripeGateway) Environment() string {
	return g.environment
}

// CreateCheckoutSession charges the grand total as a single line item.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	amount := money.Cents(req.Totals.GrandTotal)
	if amount <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "order total must be positive")
	}
	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(productName(req.Draft)),
						Description: stripe.String(truncate(req.Draft.TraySummary, 500)),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if req.Reference != "" {
		params.ClientReferenceID = stripe.String(req.Reference)
		params.AddMetadata("order_id", req.Reference)
	}
	params.AddMetadata("method", string(req.Draft.Method))
	params.AddMetadata("scheduled_date", req.Draft.ScheduledDate)
	params.AddMetadata("scheduled_time", req.Draft.ScheduledTime)
	if req.Draft.ReferralCode != "" {
		params.AddMetadata("referral_code", req.Draft.ReferralCode)
	}

	s, err := g.sessions.New(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "create payment session")
	}
	if s == nil || s.URL == "" {
		return nil, apperrors.New(apperrors.CodeDependency, "payment session has no url")
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func productName(d model.OrderDraft) string {
	name := "Catering order"
	if d.ScheduledDate != "" {
		name += " for " + d.ScheduledDate
	}
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
