// Package model defines the core domain entities for the catering service.
package model

import (
	"strings"
	"time"
)

// Course is one of the fixed menu courses a package is built from.
type Course string

const (
	CourseAppetizer Course = "appetizer"
	CourseMain      Course = "main"
	CourseRice      Course = "rice"
	CourseBread     Course = "bread"
	CourseDessert   Course = "dessert"
)

// CourseOrder is the order in which courses are presented and completed.
var CourseOrder = []Course{CourseAppetizer, CourseMain, CourseRice, CourseBread, CourseDessert}

// Valid reports whether c is a known course.
func (c Course) Valid() bool {
	for _, known := range CourseOrder {
		if c == known {
			return true
		}
	}
	return false
}

// Tier is a dish quality tier. Higher tiers may fill lower-tier slots.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Rank returns the ordinal of the tier, A=1 through D=4. Unknown tiers rank as A.
func (t Tier) Rank() int {
	switch Tier(strings.ToUpper(strings.TrimSpace(string(t)))) {
	case TierB:
		return 2
	case TierC:
		return 3
	case TierD:
		return 4
	default:
		return 1
	}
}

// Normalize maps blank or unknown tiers to A.
func (t Tier) Normalize() Tier {
	switch t.Rank() {
	case 2:
		return TierB
	case 3:
		return TierC
	case 4:
		return TierD
	default:
		return TierA
	}
}

// PricingKind tells whether a dish is sold in trays or by the piece.
type PricingKind string

const (
	KindTray     PricingKind = "tray"
	KindPerPiece PricingKind = "per-piece"
)

// TraySize identifies a tray size. Values double as cart size keys.
type TraySize string

const (
	TraySmall      TraySize = "SmallTray"
	TrayMedium     TraySize = "MediumTray"
	TrayLarge      TraySize = "LargeTray"
	TrayExtraLarge TraySize = "ExtraLargeTray"
)

// SizePerPiece and SizePackage are the non-tray cart size keys.
const (
	SizePerPiece = "per-piece"
	SizePackage  = "package"
)

// Label returns the human readable tray name.
func (s TraySize) Label() string {
	switch s {
	case TraySmall:
		return "Small Tray"
	case TrayMedium:
		return "Medium Tray"
	case TrayLarge:
		return "Large Tray"
	case TrayExtraLarge:
		return "Extra Large Tray"
	default:
		return string(s)
	}
}

// SizeLabel converts any cart size key into a display label.
func SizeLabel(size string) string {
	switch size {
	case SizePerPiece:
		return "Per Piece"
	case SizePackage:
		return "Package"
	default:
		return TraySize(size).Label()
	}
}

// SpiceLevel is the heat level requested for a main course dish.
type SpiceLevel string

const (
	SpiceMild   SpiceLevel = "Mild"
	SpiceMedium SpiceLevel = "Medium"
	SpiceSpicy  SpiceLevel = "Spicy"
)

// MenuItem is a dish offered on the catering menu.
//
// @Description Catering menu item with derived sale prices
type MenuItem struct {
	ID       string      `bson:"_id" json:"id" example:"butter-chicken"`
	Name     string      `bson:"name" json:"name" example:"Butter Chicken"`
	Category string      `bson:"category" json:"category" example:"Main Course"`
	Course   Course      `bson:"course" json:"course" example:"main"`
	Tier     Tier        `bson:"tier" json:"tier" example:"B"`
	Kind     PricingKind `bson:"kind" json:"kind" example:"tray"`
	// Cost is the cost per ounce for tray dishes, or per piece for per-piece dishes.
	Cost float64 `bson:"cost" json:"cost" example:"0.35"`
	// SalePrice is the marked-up price per ounce or per piece.
	SalePrice  float64              `bson:"sale_price" json:"sale_price" example:"0.875"`
	PiecePrice float64              `bson:"piece_price,omitempty" json:"piece_price,omitempty"`
	TrayPrices map[TraySize]float64 `bson:"tray_prices,omitempty" json:"tray_prices,omitempty"`
	NonVeg     bool                 `bson:"non_veg" json:"non_veg"`
	Active     bool                 `bson:"active" json:"active"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
} // @name MenuItem

// IsMainCourse reports whether spice selection applies to the item.
func (m MenuItem) IsMainCourse() bool {
	return m.Course == CourseMain || strings.EqualFold(strings.TrimSpace(m.Category), "main course")
}

// PriceFor returns the sale price for a tray size, or 0 when the item has none.
func (m MenuItem) PriceFor(size TraySize) float64 {
	if m.TrayPrices == nil {
		return 0
	}
	return m.TrayPrices[size]
}
