package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/money"
)

var hundred = decimal.NewFromInt(100)

func salePerOunce(cost, marginPct float64) decimal.Decimal {
	return money.D(cost).Mul(hundred.Add(money.D(marginPct))).Div(hundred)
}

// SalePerOunce applies the margin to a unit cost: cost * (1 + margin/100).
func SalePerOunce(cost, marginPct float64) float64 {
	return money.F(salePerOunce(cost, marginPct))
}

// PiecePrice is the marked-up per-piece price rounded up to whole dollars,
// never below the configured minimum.
func PiecePrice(cost float64, cfg model.PricingConfig) float64 {
	p := salePerOunce(cost, cfg.MarginPct).Ceil()
	minPrice := money.D(cfg.MinPiecePrice)
	if p.LessThan(minPrice) {
		return cfg.MinPiecePrice
	}
	return money.F(p)
}

// TrayPrice prices a tray from its capacity. Prices below the size's band are
// raised to the minimum, above it capped at the maximum, and otherwise
// rounded up to the next $10.
func TrayPrice(cost float64, spec model.TraySpec, marginPct float64) float64 {
	actual := salePerOunce(cost, marginPct).Mul(money.D(spec.CapacityOz))
	switch {
	case actual.LessThan(money.D(spec.MinPrice)):
		return spec.MinPrice
	case actual.GreaterThan(money.D(spec.MaxPrice)):
		return spec.MaxPrice
	default:
		return money.F(money.CeilToMultipleD(actual, TrayPriceStep))
	}
}

// DerivePrices fills the sale prices of item from its cost. Tray dishes get a
// price per configured tray size; per-piece dishes get a piece price.
func DerivePrices(item model.MenuItem, cfg model.PricingConfig, now time.Time) model.MenuItem {
	out := item
	out.Tier = item.Tier.Normalize()
	if out.Course == "" {
		out.Course = CourseFromCategory(item.Category)
	}
	if out.Kind == "" {
		out.Kind = model.KindTray
	}
	out.NonVeg = item.NonVeg || IsNonVeg(item.Name)
	out.SalePrice = SalePerOunce(item.Cost, cfg.MarginPct)
	out.UpdatedAt = now

	if out.Kind == model.KindPerPiece {
		out.PiecePrice = PiecePrice(item.Cost, cfg)
		out.TrayPrices = nil
		return out
	}

	out.PiecePrice = 0
	out.TrayPrices = make(map[model.TraySize]float64, len(cfg.Trays))
	for _, spec := range cfg.Trays {
		out.TrayPrices[spec.Size] = TrayPrice(item.Cost, spec, cfg.MarginPct)
	}
	return out
}

// TraySpecFor returns the capacity and price range of a tray size.
func TraySpecFor(cfg model.PricingConfig, size model.TraySize) (model.TraySpec, bool) {
	for _, s := range cfg.Trays {
		if s.Size == size {
			return s, true
		}
	}
	return model.TraySpec{}, false
}
