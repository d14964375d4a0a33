package model

import "strings"

// CartLine is one line in the customer's cart.
//
// @Description Cart line for a tray, per-piece or package item
type CartLine struct {
	ID       string     `json:"id" example:"butter-chicken"`
	Name     string     `json:"name" example:"Butter Chicken"`
	Size     string     `json:"size" example:"MediumTray"`
	Qty      int        `json:"qty" example:"2"`
	Unit     float64    `json:"unit" example:"60"`
	Spice    SpiceLevel `json:"spice,omitempty" example:"Medium"`
	Category string     `json:"category,omitempty"`
	Details  string     `json:"details,omitempty"`
} // @name CartLine

// Total returns qty times unit price.
func (l CartLine) Total() float64 {
	return float64(l.Qty) * l.Unit
}

// Key identifies lines that merge when added twice.
func (l CartLine) Key() string {
	return strings.Join([]string{l.ID, l.Size, string(l.Spice)}, "|")
}

// IsPackage reports whether the line is a per-person package.
func (l CartLine) IsPackage() bool {
	return l.Size == SizePackage
}

// Cart holds the lines of a session cart.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// TrayAllocation is a count of trays of one size.
type TrayAllocation struct {
	Size      TraySize `json:"size" example:"LargeTray"`
	Count     int      `json:"count" example:"1"`
	UnitPrice float64  `json:"unit_price,omitempty" example:"120"`
}

// DishAllocation is the portioning of one picked dish.
type DishAllocation struct {
	ItemID    string           `json:"item_id"`
	Name      string           `json:"name"`
	Course    Course           `json:"course"`
	Kind      PricingKind      `json:"kind"`
	Trays     []TrayAllocation `json:"trays,omitempty"`
	Pieces    int              `json:"pieces,omitempty"`
	UnitPrice float64          `json:"unit_price,omitempty"`
	LineTotal float64          `json:"line_total"`
}

// PackageRecommendation is the tray and price breakdown of a completed package.
//
// @Description Recommended trays and per-person price for a package
type PackageRecommendation struct {
	PackageID       string           `json:"package_id" example:"classic"`
	PackageName     string           `json:"package_name" example:"Classic"`
	Guests          int              `json:"guests" example:"40"`
	EffectiveGuests int              `json:"effective_guests" example:"45"`
	Appetite        Appetite         `json:"appetite" example:"heavy"`
	Dishes          []DishAllocation `json:"dishes"`
	TotalRaw        float64          `json:"total_raw" example:"541.5"`
	RoundedTotal    float64          `json:"rounded_total" example:"560"`
	PerPerson       float64          `json:"per_person" example:"14"`
	Spice           []SpiceSelection `json:"spice,omitempty"`
} // @name PackageRecommendation

// SpiceSelection records the spice level chosen for a dish.
type SpiceSelection struct {
	ItemID string     `bson:"item_id" json:"item_id"`
	Name   string     `bson:"name" json:"name"`
	Level  SpiceLevel `bson:"level" json:"level"`
}

// PackagePricing is the price summary kept with package metadata.
type PackagePricing struct {
	TotalRaw     float64 `bson:"total_raw" json:"total_raw"`
	RoundedTotal float64 `bson:"rounded_total" json:"rounded_total"`
	PerPerson    float64 `bson:"per_person" json:"per_person"`
}

// PackageMetaLine is one flattened kitchen line. It is informational and never totalled.
type PackageMetaLine struct {
	ID   string      `bson:"id" json:"id"`
	Name string      `bson:"name" json:"name"`
	Size string      `bson:"size" json:"size"`
	Qty  int         `bson:"qty" json:"qty"`
	Unit float64     `bson:"unit" json:"unit"`
	Kind PricingKind `bson:"kind" json:"kind"`
}

// PackageMetaConfig captures the allocator settings used for a recommendation.
type PackageMetaConfig struct {
	Thresholds TrayThresholds `bson:"thresholds" json:"thresholds"`
	HeavyBump  int            `bson:"heavy_bump" json:"heavy_bump"`
}

// PackageMeta travels alongside a package cart line for the kitchen.
type PackageMeta struct {
	PackageID   string            `bson:"package_id" json:"package_id"`
	PackageName string            `bson:"package_name" json:"package_name"`
	Guests      int               `bson:"guests" json:"guests"`
	Appetite    Appetite          `bson:"appetite" json:"appetite"`
	Pricing     PackagePricing    `bson:"pricing" json:"pricing"`
	Lines       []PackageMetaLine `bson:"lines" json:"lines"`
	Config      PackageMetaConfig `bson:"config" json:"config"`
	Spice       []SpiceSelection  `bson:"spice,omitempty" json:"spice,omitempty"`
}
