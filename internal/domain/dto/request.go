// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"strings"
	"time"

	"github.com/guttosm/catering-service/internal/domain/model"
)

const dateLayout = "2006-01-02"

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrAddressOrMiles is returned when a delivery quote names neither an address nor a mileage.
	ErrAddressOrMiles = &ValidationError{
		Field:   "address",
		Message: "either address or miles is required",
	}
)

// DeliveryQuoteRequest asks for a delivery fee. Miles takes precedence when set.
//
// @Description Delivery fee lookup by address or manually entered miles
type DeliveryQuoteRequest struct {
	Address *model.Address `json:"address,omitempty"`
	Miles   float64        `json:"miles,omitempty" example:"12.5"`
} // @name DeliveryQuoteRequest

// Validate performs custom validation on the request.
func (r *DeliveryQuoteRequest) Validate() error {
	if r.Miles == 0 && r.Address == nil {
		return ErrAddressOrMiles
	}
	return nil
}

// SlotsRequest is the query string of the slot listing endpoint.
type SlotsRequest struct {
	Method     model.FulfillmentMethod `form:"method" binding:"required,oneof=pickup delivery"`
	Date       string                  `form:"date" binding:"required"`
	GrandTotal float64                 `form:"grand_total" binding:"min=0"`
}

// MenuItemRequest creates or replaces a menu item.
//
// @Description Menu item as edited in the admin console
type MenuItemRequest struct {
	ID         string            `json:"id" binding:"required" example:"butter-chicken"`
	Name       string            `json:"name" binding:"required" example:"Butter Chicken"`
	Category   string            `json:"category" binding:"required" example:"Main Course"`
	Course     model.Course      `json:"course" binding:"required,oneof=appetizer main rice bread dessert" example:"main"`
	Tier       model.Tier        `json:"tier" binding:"omitempty,oneof=A B C D" example:"B"`
	Kind       model.PricingKind `json:"kind" binding:"required,oneof=tray per-piece" example:"tray"`
	Cost       float64           `json:"cost" binding:"gte=0" example:"0.35"`
	PiecePrice float64           `json:"piece_price,omitempty" binding:"gte=0" example:"2"`
	NonVeg     bool              `json:"non_veg"`
	Active     *bool             `json:"active,omitempty"`
} // @name MenuItemRequest

// ToModel converts the request into a menu item. Items are active unless stated otherwise.
func (r *MenuItemRequest) ToModel() model.MenuItem {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return model.MenuItem{
		ID:         strings.TrimSpace(r.ID),
		Name:       strings.TrimSpace(r.Name),
		Category:   strings.TrimSpace(r.Category),
		Course:     r.Course,
		Tier:       r.Tier,
		Kind:       r.Kind,
		Cost:       r.Cost,
		PiecePrice: r.PiecePrice,
		NonVeg:     r.NonVeg,
		Active:     active,
	}
}

// SetActiveRequest toggles whether a menu item is offered.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required" example:"false"`
} // @name SetActiveRequest

// UpdatePaymentStatusRequest moves an order to a new payment status.
type UpdatePaymentStatusRequest struct {
	Status model.PaymentStatus `json:"status" binding:"required,oneof=pending paid refunded cancelled" example:"paid"`
} // @name UpdatePaymentStatusRequest

// OrderListQuery is the query string of the admin order listing and export.
type OrderListQuery struct {
	Method        model.FulfillmentMethod `form:"method" binding:"omitempty,oneof=pickup delivery"`
	PaymentMethod model.PaymentMethod     `form:"payment_method" binding:"omitempty,oneof=card cash"`
	PaymentStatus model.PaymentStatus     `form:"payment_status" binding:"omitempty,oneof=pending paid refunded cancelled"`
	From          string                  `form:"from"`
	To            string                  `form:"to"`
	SortBy        string                  `form:"sort" binding:"omitempty,oneof=placed scheduled total"`
	Order         string                  `form:"order" binding:"omitempty,oneof=asc desc"`
	Limit         int64                   `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ToFilter converts the query into a repository filter. From and To are
// calendar dates; To is inclusive.
func (q *OrderListQuery) ToFilter(loc *time.Location) (model.OrderFilter, error) {
	f := model.OrderFilter{
		Method:        q.Method,
		PaymentMethod: q.PaymentMethod,
		PaymentStatus: q.PaymentStatus,
		SortBy:        q.SortBy,
		Ascending:     q.Order == "asc",
		Limit:         q.Limit,
	}
	from, to, err := dateRange(q.From, q.To, loc)
	if err != nil {
		return f, err
	}
	f.From, f.To = from, to
	return f, nil
}

// dateRange parses an inclusive pair of calendar dates into a half-open
// [from, to) interval in loc. Either bound may be empty.
func dateRange(fromDate, toDate string, loc *time.Location) (from, to time.Time, err error) {
	if fromDate != "" {
		if from, err = time.ParseInLocation(dateLayout, fromDate, loc); err != nil {
			return from, to, &ValidationError{Field: "from", Message: "must be a YYYY-MM-DD date"}
		}
	}
	if toDate != "" {
		if to, err = time.ParseInLocation(dateLayout, toDate, loc); err != nil {
			return from, to, &ValidationError{Field: "to", Message: "must be a YYYY-MM-DD date"}
		}
		to = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, &ValidationError{Field: "to", Message: "must not be before from"}
	}
	return from, to, nil
}

// AuditLogQuery is the query string of the admin audit trail listing.
type AuditLogQuery struct {
	Action    model.AuditAction `form:"action"`
	SessionID string            `form:"session_id" binding:"omitempty,uuid"`
	User      string            `form:"user" binding:"omitempty,email"`
	From      string            `form:"from"`
	To        string            `form:"to"`
	Limit     int               `form:"limit" binding:"omitempty,min=1,max=500"`
	Skip      int               `form:"skip" binding:"omitempty,min=0"`
}

// DefaultAuditLimit caps an audit page when no limit is given.
const DefaultAuditLimit = 50

// Validate rejects unknown action names.
func (q *AuditLogQuery) Validate() error {
	if q.Action != "" && !q.Action.Valid() {
		return &ValidationError{Field: "action", Message: "unknown audit action"}
	}
	return nil
}

// ToOptions converts the query into log query options restricted to audit entries.
func (q *AuditLogQuery) ToOptions(loc *time.Location) (model.LogQueryOptions, error) {
	opts := model.LogQueryOptions{
		ActionType: q.Action,
		SessionID:  q.SessionID,
		UserEmail:  q.User,
		AuditOnly:  true,
		Limit:      q.Limit,
		Skip:       q.Skip,
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultAuditLimit
	}
	from, to, err := dateRange(q.From, q.To, loc)
	if err != nil {
		return opts, err
	}
	if !from.IsZero() {
		opts.StartTime = &from
	}
	if !to.IsZero() {
		end := to.Add(-time.Nanosecond)
		opts.EndTime = &end
	}
	return opts, nil
}

// SettingsHistoryQuery selects the settings documents to list.
type SettingsHistoryQuery struct {
	Kind  model.SettingsKind `form:"kind" binding:"required,oneof=packages hours pricing"`
	Limit int                `form:"limit" binding:"omitempty,min=1,max=100"`
}
