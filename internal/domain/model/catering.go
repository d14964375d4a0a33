package model

import "time"

// Appetite adjusts the headcount used for portioning.
type Appetite string

const (
	AppetiteRegular Appetite = "regular"
	AppetiteHeavy   Appetite = "heavy"
)

// PackageDefinition describes a per-person package as tier slots per course.
//
// @Description Per-person package definition
type PackageDefinition struct {
	ID         string            `bson:"id" json:"id" validate:"required" example:"classic"`
	Name       string            `bson:"name" json:"name" validate:"required" example:"Classic"`
	PriceLabel string            `bson:"price_label" json:"price_label" example:"Starting $12/person"`
	Slots      map[Course][]Tier `bson:"slots" json:"slots" validate:"required,min=1"`
} // @name PackageDefinition

// SlotsFor returns the tier slots for a course, normalized.
func (p PackageDefinition) SlotsFor(course Course) []Tier {
	raw := p.Slots[course]
	out := make([]Tier, len(raw))
	for i, t := range raw {
		out[i] = t.Normalize()
	}
	return out
}

// TrayThresholds are the guest counts served by each tray size.
type TrayThresholds struct {
	Small      int `bson:"small" json:"small" validate:"gt=0" example:"15"`
	Medium     int `bson:"medium" json:"medium" validate:"gt=0" example:"25"`
	Large      int `bson:"large" json:"large" validate:"gt=0" example:"35"`
	ExtraLarge int `bson:"xl" json:"xl" validate:"gt=0" example:"50"`
}

// Valid reports whether thresholds are positive and strictly increasing.
func (t TrayThresholds) Valid() bool {
	return t.Small > 0 && t.Small < t.Medium && t.Medium < t.Large && t.Large < t.ExtraLarge
}

// PackageSettings is the admin-managed package catalog.
type PackageSettings struct {
	Packages   []PackageDefinition `bson:"packages" json:"packages" validate:"required,min=1,dive"`
	Thresholds TrayThresholds      `bson:"thresholds" json:"thresholds"`
	HeavyBump  int                 `bson:"heavy_bump" json:"heavy_bump" validate:"gte=0"`
}

// Find returns the package with the given id.
func (s PackageSettings) Find(id string) (PackageDefinition, bool) {
	for _, p := range s.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return PackageDefinition{}, false
}

// TraySpec is the capacity and price band for one tray size.
type TraySpec struct {
	Size       TraySize `bson:"size" json:"size" validate:"required"`
	CapacityOz float64  `bson:"capacity_oz" json:"capacity_oz" validate:"gt=0"`
	MinPrice   float64  `bson:"min_price" json:"min_price" validate:"gte=0"`
	MaxPrice   float64  `bson:"max_price" json:"max_price" validate:"gtefield=MinPrice"`
}

// PricingConfig holds the markup rules applied to dish costs.
type PricingConfig struct {
	MarginPct     float64    `bson:"margin_pct" json:"margin_pct" validate:"gte=0" example:"150"`
	MinPiecePrice float64    `bson:"min_piece_price" json:"min_piece_price" validate:"gte=0" example:"1"`
	Trays         []TraySpec `bson:"trays" json:"trays" validate:"required,min=1,dive"`
}

// DaySchedule holds up to two opening windows as "HH:MM" strings.
type DaySchedule struct {
	Closed bool   `bson:"closed" json:"closed"`
	Open1  string `bson:"open1,omitempty" json:"open1,omitempty" example:"11:00"`
	Close1 string `bson:"close1,omitempty" json:"close1,omitempty" example:"14:00"`
	Open2  string `bson:"open2,omitempty" json:"open2,omitempty" example:"17:30"`
	Close2 string `bson:"close2,omitempty" json:"close2,omitempty" example:"21:00"`
}

// WeeklyHours maps short weekday names ("Sun".."Sat") to schedules.
type WeeklyHours map[string]DaySchedule

var weekdayKeys = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayKey returns the WeeklyHours key for a weekday.
func WeekdayKey(d time.Weekday) string {
	return weekdayKeys[d]
}

// WeekdayKeys lists every key in week order.
func WeekdayKeys() []string {
	return weekdayKeys[:]
}

// For returns the schedule for a weekday.
func (w WeeklyHours) For(d time.Weekday) (DaySchedule, bool) {
	s, ok := w[WeekdayKey(d)]
	return s, ok
}

// HoursKind identifies which weekly schedule governs slots.
type HoursKind string

const (
	HoursPickup   HoursKind = "pickup"
	HoursDelivery HoursKind = "delivery"
)

// HoursSettings holds both weekly schedules.
type HoursSettings struct {
	Pickup   WeeklyHours `bson:"pickup" json:"pickup"`
	Delivery WeeklyHours `bson:"delivery" json:"delivery"`
}

// Slot is an orderable time on a given day.
type Slot struct {
	Time  string    `json:"time" example:"11:30"`
	Label string    `json:"label" example:"11:30 AM"`
	At    time.Time `json:"at"`
}

// SettingsKind names a versioned settings document.
type SettingsKind string

const (
	SettingsPackages SettingsKind = "packages"
	SettingsHours    SettingsKind = "hours"
	SettingsPricing  SettingsKind = "pricing"
)

// Valid reports whether k is a known kind.
func (k SettingsKind) Valid() bool {
	return k == SettingsPackages || k == SettingsHours || k == SettingsPricing
}
