// Package engine implements the order configuration and pricing rules:
// slot calendars, delivery fee tiers, tray allocation, package
// recommendations, tray pricing, checkout totals and order drafts.
//
// Everything here is pure and synchronous. Time enters only through
// Settings.Now so results are reproducible in tests.
package engine

import (
	"time"

	"github.com/guttosm/catering-service/internal/apperrors"
)

const (
	// PackageTotalStep is the dollar multiple package totals round up to.
	PackageTotalStep int64 = 20
	// TrayPriceStep is the dollar multiple in-band tray prices round up to.
	TrayPriceStep int64 = 10
)

var (
	// ErrNotReady is returned when a computation lacks required input.
	ErrNotReady = apperrors.New(apperrors.CodeNotReady, "selection is not ready")
	// ErrPickRejected is returned when a dish does not fit the package's tier slots.
	ErrPickRejected = apperrors.New(apperrors.CodeValidation, "dish does not fit the remaining slots")
	// ErrUnknownCourse is returned for a course outside the fixed course list.
	ErrUnknownCourse = apperrors.New(apperrors.CodeValidation, "unknown course")
)

// Settings carries every business constant the engine depends on.
type Settings struct {
	Location     *time.Location
	Now          func() time.Time
	LeadTime     time.Duration
	MaxDaysAhead int
	SlotMinutes  int

	TaxRate      float64
	DiscountCode string
	DiscountPct  float64
	WarmersFee   float64
	UtensilsFee  float64

	Fees                  FeeSchedule
	DeliveryHoursMinTotal float64
	ManualMinMiles        float64
	ManualMaxMiles        float64
}

// DefaultSettings returns the storefront defaults in America/Chicago.
func DefaultSettings() Settings {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		loc = time.UTC
	}
	return Settings{
		Location:              loc,
		Now:                   time.Now,
		LeadTime:              18 * time.Hour,
		MaxDaysAhead:          90,
		SlotMinutes:           30,
		TaxRate:               0.0825,
		DiscountCode:          "online10",
		DiscountPct:           10,
		WarmersFee:            10,
		UtensilsFee:           10,
		Fees:                  DefaultFeeSchedule(),
		DeliveryHoursMinTotal: 500,
		ManualMinMiles:        1,
		ManualMaxMiles:        200,
	}
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.location())
	}
	return s.Now().In(s.location())
}

func (s Settings) slotMinutes() int {
	if s.SlotMinutes <= 0 {
		return 30
	}
	return s.SlotMinutes
}
