package engine

import (
	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/money"
)

const metersPerMile = 1609.344

// Delivery quote sources.
const (
	SourceLookup = "lookup"
	SourceManual = "manual"
)

// FeeSchedule maps driving distance to a flat delivery fee.
type FeeSchedule struct {
	NearMiles float64
	NearFee   float64
	FarMiles  float64
	FarFee    float64
}

// DefaultFeeSchedule charges $50 up to 20 miles and $175 up to 100 miles.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{NearMiles: 20, NearFee: 50, FarMiles: 100, FarFee: 175}
}

// MetersToMiles converts meters to miles rounded to two decimals.
func MetersToMiles(meters float64) float64 {
	return money.F(money.D(meters).Div(money.D(metersPerMile)).Round(2))
}

// Classify returns the fee tier for a distance. Beyond the far tier the quote
// is out of range with no fee.
func (f FeeSchedule) Classify(miles float64) model.DeliveryQuote {
	q := model.DeliveryQuote{Miles: miles}
	switch {
	case miles <= f.NearMiles:
		q.Fee = f.NearFee
	case miles <= f.FarMiles:
		q.Fee = f.FarFee
	default:
		q.OutOfRange = true
	}
	return q
}

// ManualQuote classifies a customer-entered mileage after range checks.
func (s Settings) ManualQuote(miles float64) (model.DeliveryQuote, error) {
	if miles < s.ManualMinMiles || miles > s.ManualMaxMiles {
		return model.DeliveryQuote{}, apperrors.Newf(apperrors.CodeValidation,
			"miles must be between %g and %g", s.ManualMinMiles, s.ManualMaxMiles)
	}
	q := s.Fees.Classify(money.Round2(miles))
	q.Source = SourceManual
	return q, nil
}

// LookupFailedQuote is returned when automatic distance lookup fails.
func LookupFailedQuote() model.DeliveryQuote {
	return model.DeliveryQuote{Source: SourceLookup, LookupFailed: true, ManualEntryAllowed: true}
}
