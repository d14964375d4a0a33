package model

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FulfillmentMethod is how the customer receives the order.
type FulfillmentMethod string

const (
	MethodPickup   FulfillmentMethod = "pickup"
	MethodDelivery FulfillmentMethod = "delivery"
)

// PaymentMethod is how the order is paid.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// PaymentStatus tracks settlement of an order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentCancelled},
	PaymentPaid:    {PaymentRefunded},
}

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Address is a delivery address.
type Address struct {
	Street string `bson:"street" json:"street" example:"100 Main St"`
	City   string `bson:"city" json:"city" example:"Irving"`
	State  string `bson:"state" json:"state" example:"TX"`
	Zip    string `bson:"zip" json:"zip" example:"75063"`
}

// String formats the address for distance lookups.
func (a Address) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, strings.TrimSpace(a.State + " " + a.Zip)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// IsZero reports whether no address fields are set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Routable reports whether the address has the street and zip a distance
// lookup needs.
func (a Address) Routable() bool {
	return strings.TrimSpace(a.Street) != "" && strings.TrimSpace(a.Zip) != ""
}

// Customer holds contact details for an order.
type Customer struct {
	Name  string `bson:"name" json:"name" binding:"required" example:"Priya Shah"`
	Email string `bson:"email" json:"email" binding:"required,email" example:"priya@example.com"`
	Phone string `bson:"phone" json:"phone" binding:"required" example:"+1 214 555 0100"`
}

// AddOns are optional checkout extras.
type AddOns struct {
	Warmers    bool `bson:"warmers" json:"warmers"`
	Utensils   bool `bson:"utensils" json:"utensils"`
	Condiments bool `bson:"condiments" json:"condiments"`
}

// CheckoutTotals is the ordered breakdown of an order total.
//
// @Description Checkout totals
type CheckoutTotals struct {
	CartTotal   float64 `bson:"cart_total" json:"cart_total" example:"600"`
	DeliveryFee float64 `bson:"delivery_fee" json:"delivery_fee" example:"50"`
	AddOnFee    float64 `bson:"add_on_fee" json:"add_on_fee" example:"10"`
	Discount    float64 `bson:"discount" json:"discount" example:"60"`
	Subtotal    float64 `bson:"subtotal" json:"subtotal" example:"600"`
	Tax         float64 `bson:"tax" json:"tax" example:"49.5"`
	GrandTotal  float64 `bson:"grand_total" json:"grand_total" example:"649.5"`
} // @name CheckoutTotals

// DeliveryQuote is the resolved distance and fee for a delivery address.
type DeliveryQuote struct {
	Miles              float64 `bson:"miles" json:"miles" example:"12.4"`
	Fee                float64 `bson:"fee" json:"fee" example:"50"`
	OutOfRange         bool    `bson:"out_of_range" json:"out_of_range"`
	Source             string  `bson:"source" json:"source" example:"lookup"`
	LookupFailed       bool    `bson:"lookup_failed,omitempty" json:"lookup_failed,omitempty"`
	ManualEntryAllowed bool    `bson:"manual_entry_allowed,omitempty" json:"manual_entry_allowed,omitempty"`
}

// Resolved reports whether the quote came from a successful lookup or a
// manual entry. Zero miles is a valid distance.
func (q DeliveryQuote) Resolved() bool {
	return !q.LookupFailed && q.Source != ""
}

// DraftLine is a normalized kitchen/receipt line.
type DraftLine struct {
	Name       string     `bson:"name" json:"name"`
	Size       string     `bson:"size" json:"size"`
	Qty        int        `bson:"qty" json:"qty"`
	SpiceLevel SpiceLevel `bson:"spice_level,omitempty" json:"spice_level,omitempty"`
}

// Summary renders the line as "name - size x qty (Spice: X)".
func (l DraftLine) Summary() string {
	s := fmt.Sprintf("%s - %s x %d", l.Name, SizeLabel(l.Size), l.Qty)
	if l.SpiceLevel != "" {
		s += fmt.Sprintf(" (Spice: %s)", l.SpiceLevel)
	}
	return s
}

// OrderDraft is the submission-ready snapshot of a checkout.
//
// @Description Order draft assembled from cart, package metadata and checkout fields
type OrderDraft struct {
	Customer        Customer          `bson:"customer" json:"customer"`
	Method          FulfillmentMethod `bson:"method" json:"method"`
	Address         *Address          `bson:"address,omitempty" json:"address,omitempty"`
	DeliveryMiles   float64           `bson:"delivery_miles,omitempty" json:"delivery_miles,omitempty"`
	ScheduledDate   string            `bson:"scheduled_date" json:"scheduled_date" example:"2026-11-02"`
	ScheduledTime   string            `bson:"scheduled_time" json:"scheduled_time" example:"6:30 PM"`
	ScheduledAt     time.Time         `bson:"scheduled_at" json:"scheduled_at"`
	Lines           []DraftLine       `bson:"lines" json:"lines"`
	KitchenLines    []DraftLine       `bson:"kitchen_lines" json:"kitchen_lines"`
	TraySummary     string            `bson:"tray_summary" json:"tray_summary"`
	SpiceSelections []SpiceSelection  `bson:"spice_selections,omitempty" json:"spice_selections,omitempty"`
	Package         *PackageMeta      `bson:"package,omitempty" json:"package,omitempty"`
	AddOns          AddOns            `bson:"add_ons" json:"add_ons"`
	DiscountCode    string            `bson:"discount_code,omitempty" json:"discount_code,omitempty"`
	ReferralCode    string            `bson:"referral_code,omitempty" json:"referral_code,omitempty"`
	SpecialRequest  string            `bson:"special_request,omitempty" json:"special_request,omitempty"`
	PaymentMethod   PaymentMethod     `bson:"payment_method" json:"payment_method"`
	Totals          CheckoutTotals    `bson:"totals" json:"totals"`
} // @name OrderDraft

// Order is a submitted order.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderDraft       `bson:",inline"`
	SessionID        string        `bson:"session_id,omitempty" json:"-"`
	PaymentStatus    PaymentStatus `bson:"payment_status" json:"payment_status"`
	PaymentSessionID string        `bson:"payment_session_id,omitempty" json:"payment_session_id,omitempty"`
	PlacedAt         time.Time     `bson:"placed_at" json:"placed_at"`
	PaidAt           *time.Time    `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updated_at"`
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Method        FulfillmentMethod
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	From          time.Time
	To            time.Time
	SortBy        string
	Ascending     bool
	Limit         int64
}

// CheckoutState is the checkout form persisted in the session.
type CheckoutState struct {
	Method         FulfillmentMethod `json:"method"`
	Address        *Address          `json:"address,omitempty"`
	ManualMiles    float64           `json:"manual_miles,omitempty"`
	Delivery       *DeliveryQuote    `json:"delivery,omitempty"`
	AddOns         AddOns            `json:"add_ons"`
	DiscountCode   string            `json:"discount_code,omitempty"`
	ReferralCode   string            `json:"referral_code,omitempty"`
	Date           string            `json:"date,omitempty"`
	Time           string            `json:"time,omitempty"`
	Customer       *Customer         `json:"customer,omitempty"`
	SpecialRequest string            `json:"special_request,omitempty"`
}
