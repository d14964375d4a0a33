package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/money"
)

// TotalsInput is the checkout state the totals pipeline consumes.
type TotalsInput struct {
	CartTotal    float64
	Method       model.FulfillmentMethod
	DeliveryFee  float64
	AddOns       model.AddOns
	DiscountCode string
}

// TotalsCalculator runs the checkout totals pipeline.
type TotalsCalculator struct {
	settings Settings
}

// NewTotalsCalculator creates a calculator bound to the given settings.
func NewTotalsCalculator(settings Settings) *TotalsCalculator {
	return &TotalsCalculator{settings: settings}
}

// CartSubtotal sums qty * unit across lines.
func CartSubtotal(lines []model.CartLine) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(money.D(l.Unit).Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return money.F(sum)
}

// DiscountApplies reports whether code matches the configured promotion,
// ignoring case and surrounding spaces.
func (c *TotalsCalculator) DiscountApplies(code string) bool {
	want := strings.TrimSpace(c.settings.DiscountCode)
	return want != "" && strings.EqualFold(strings.TrimSpace(code), want)
}

// AddOnFee returns the fee for the selected add-ons. Condiments are free.
func (c *TotalsCalculator) AddOnFee(a model.AddOns) float64 {
	fee := decimal.Zero
	if a.Warmers {
		fee = fee.Add(money.D(c.settings.WarmersFee))
	}
	if a.Utensils {
		fee = fee.Add(money.D(c.settings.UtensilsFee))
	}
	return money.F(fee)
}

// Compute applies, in order: cart rounding, discount, subtotal, tax and
// grand total. Every term is rounded half up to cents before it is summed.
func (c *TotalsCalculator) Compute(in TotalsInput) model.CheckoutTotals {
	cart := money.D(in.CartTotal).Round(2)

	delivery := decimal.Zero
	if in.Method == model.MethodDelivery {
		delivery = money.D(in.DeliveryFee).Round(2)
	}
	addOns := money.D(c.AddOnFee(in.AddOns)).Round(2)

	discount := decimal.Zero
	if c.DiscountApplies(in.DiscountCode) {
		discount = money.Percent(money.F(cart), c.settings.DiscountPct).Round(2)
	}

	subtotal := cart.Add(delivery).Add(addOns).Sub(discount).Round(2)
	tax := subtotal.Mul(money.D(c.settings.TaxRate)).Round(2)
	grand := subtotal.Add(tax).Round(2)

	return model.CheckoutTotals{
		CartTotal:   money.F(cart),
		DeliveryFee: money.F(delivery),
		AddOnFee:    money.F(addOns),
		Discount:    money.F(discount),
		Subtotal:    money.F(subtotal),
		Tax:         money.F(tax),
		GrandTotal:  money.F(grand),
	}
}

// SelectHours picks delivery hours for delivery orders at or above the
// threshold and pickup hours otherwise.
func (c *TotalsCalculator) SelectHours(method model.FulfillmentMethod, grandTotal float64, hours model.HoursSettings) (model.WeeklyHours, model.HoursKind) {
	if method == model.MethodDelivery &&
		money.D(grandTotal).GreaterThanOrEqual(money.D(c.settings.DeliveryHoursMinTotal)) {
		return hours.Delivery, model.HoursDelivery
	}
	return hours.Pickup, model.HoursPickup
}

// RevalidateSelection returns selected if it is still offered, matching by
// "HH:MM" or label, and "" otherwise.
func RevalidateSelection(selected string, slots []model.Slot) string {
	selected = strings.TrimSpace(selected)
	if selected == "" {
		return ""
	}
	want, ok := ParseSlotTime(selected)
	if !ok {
		return ""
	}
	for _, s := range slots {
		if m, _ := ParseClock(s.Time); m == want {
			return s.Time
		}
	}
	return ""
}
