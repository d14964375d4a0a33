// Package money provides the rounding primitives used for prices and totals.
// All arithmetic goes through shopspring/decimal so that half-cent values
// round the same way regardless of float representation.
package money

import "github.com/shopspring/decimal"

// D converts a float amount into a decimal.
func D(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// F converts a decimal back into a float amount.
func F(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return F(D(v).Round(2))
}

// Round2D is Round2 for values already in decimal form.
func Round2D(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Ceil rounds up to the next whole unit.
func Ceil(v float64) float64 {
	return F(D(v).Ceil())
}

// CeilToMultiple rounds v up to the next multiple of step.
// A non-positive step returns v unchanged.
func CeilToMultiple(v float64, step int64) float64 {
	return F(CeilToMultipleD(D(v), step))
}

// CeilToMultipleD is CeilToMultiple for decimals.
func CeilToMultipleD(d decimal.Decimal, step int64) decimal.Decimal {
	if step <= 0 {
		return d
	}
	s := decimal.NewFromInt(step)
	return d.Div(s).Ceil().Mul(s)
}

// Percent returns pct percent of v, unrounded.
func Percent(v, pct float64) decimal.Decimal {
	return D(v).Mul(D(pct)).Div(decimal.NewFromInt(100))
}

// Cents converts a dollar amount to integer cents, rounding half away from zero.
func Cents(v float64) int64 {
	return D(v).Round(2).Shift(2).IntPart()
}
