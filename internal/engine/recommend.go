package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/money"
)

// RecommendationInput is everything needed to turn a completed package
// selection into trays and a per-person price.
type RecommendationInput struct {
	Selection  *Selection
	Guests     int
	Appetite   model.Appetite
	Thresholds model.TrayThresholds
	HeavyBump  int
	Spice      []model.SpiceSelection
}

// EffectiveGuests is the portioning headcount after the appetite adjustment.
func EffectiveGuests(guests int, appetite model.Appetite, heavyBump int) int {
	if appetite == model.AppetiteHeavy {
		return guests + heavyBump
	}
	return guests
}

// Recommend allocates trays or pieces for every picked dish and prices the
// package. The per-person price divides the rounded total by the requested
// headcount, not the appetite-adjusted one.
func Recommend(in RecommendationInput) (model.PackageRecommendation, error) {
	if in.Selection == nil || !in.Selection.Complete() || in.Guests <= 0 {
		return model.PackageRecommendation{}, ErrNotReady
	}
	if !in.Thresholds.Valid() {
		in.Thresholds = DefaultThresholds()
	}
	appetite := in.Appetite
	if appetite != model.AppetiteHeavy {
		appetite = model.AppetiteRegular
	}

	pkg := in.Selection.Package()
	effective := EffectiveGuests(in.Guests, appetite, in.HeavyBump)
	picks := in.Selection.Picks()

	total := decimal.Zero
	dishes := make([]model.DishAllocation, 0)
	for _, course := range model.CourseOrder {
		for _, item := range picks[course] {
			d := model.DishAllocation{ItemID: item.ID, Name: item.Name, Course: course, Kind: item.Kind}
			if item.Kind == model.KindPerPiece {
				d.Pieces = effective
				d.UnitPrice = piecePriceOf(item)
				d.LineTotal = money.F(money.D(d.UnitPrice).Mul(decimal.NewFromInt(int64(effective))))
			} else {
				d.Kind = model.KindTray
				line := decimal.Zero
				for _, a := range AllocateTrays(effective, in.Thresholds) {
					a.UnitPrice = item.PriceFor(a.Size)
					line = line.Add(money.D(a.UnitPrice).Mul(decimal.NewFromInt(int64(a.Count))))
					d.Trays = append(d.Trays, a)
				}
				d.LineTotal = money.F(line)
			}
			total = total.Add(money.D(d.LineTotal))
			dishes = append(dishes, d)
		}
	}

	rounded := money.CeilToMultipleD(total, PackageTotalStep)
	perPerson := rounded.Div(decimal.NewFromInt(int64(in.Guests))).Ceil()

	return model.PackageRecommendation{
		PackageID:       pkg.ID,
		PackageName:     pkg.Name,
		Guests:          in.Guests,
		EffectiveGuests: effective,
		Appetite:        appetite,
		Dishes:          dishes,
		TotalRaw:        money.F(total.Round(2)),
		RoundedTotal:    money.F(rounded),
		PerPerson:       money.F(perPerson),
		Spice:           spiceForMains(picks[model.CourseMain], in.Spice),
	}, nil
}

func piecePriceOf(item model.MenuItem) float64 {
	if item.PiecePrice > 0 {
		return item.PiecePrice
	}
	return item.SalePrice
}

// spiceForMains keeps one spice level per picked main dish, defaulting to Medium.
func spiceForMains(mains []model.MenuItem, chosen []model.SpiceSelection) []model.SpiceSelection {
	if len(mains) == 0 {
		return nil
	}
	byID := make(map[string]model.SpiceLevel, len(chosen))
	for _, c := range chosen {
		byID[c.ItemID] = NormalizeSpice(string(c.Level))
	}
	out := make([]model.SpiceSelection, 0, len(mains))
	for _, m := range mains {
		level, ok := byID[m.ID]
		if !ok {
			level = model.SpiceMedium
		}
		out = append(out, model.SpiceSelection{ItemID: m.ID, Name: m.Name, Level: level})
	}
	return out
}

// PackageMetaFor flattens a recommendation into kitchen lines.
func PackageMetaFor(rec model.PackageRecommendation, thresholds model.TrayThresholds, heavyBump int) model.PackageMeta {
	lines := make([]model.PackageMetaLine, 0, len(rec.Dishes))
	for _, d := range rec.Dishes {
		if d.Kind == model.KindPerPiece {
			lines = append(lines, model.PackageMetaLine{
				ID: d.ItemID, Name: d.Name, Size: model.SizePerPiece,
				Qty: d.Pieces, Unit: d.UnitPrice, Kind: model.KindPerPiece,
			})
			continue
		}
		for _, t := range d.Trays {
			lines = append(lines, model.PackageMetaLine{
				ID: d.ItemID, Name: d.Name, Size: string(t.Size),
				Qty: t.Count, Unit: t.UnitPrice, Kind: model.KindTray,
			})
		}
	}
	return model.PackageMeta{
		PackageID:   rec.PackageID,
		PackageName: rec.PackageName,
		Guests:      rec.Guests,
		Appetite:    rec.Appetite,
		Pricing: model.PackagePricing{
			TotalRaw:     rec.TotalRaw,
			RoundedTotal: rec.RoundedTotal,
			PerPerson:    rec.PerPerson,
		},
		Lines:  lines,
		Config: model.PackageMetaConfig{Thresholds: thresholds, HeavyBump: heavyBump},
		Spice:  rec.Spice,
	}
}

// PackageCartLine is the single cart line that represents a package.
func PackageCartLine(rec model.PackageRecommendation, meta model.PackageMeta) model.CartLine {
	return model.CartLine{
		ID:      rec.PackageID,
		Name:    fmt.Sprintf("%s (%d guests)", rec.PackageName, rec.Guests),
		Size:    model.SizePackage,
		Qty:     rec.Guests,
		Unit:    rec.PerPerson,
		Details: "Trays: " + PackageTraySummary(meta.Lines),
	}
}

// PackageTraySummary groups kitchen lines by name and size and joins them
// with ", ".
func PackageTraySummary(lines []model.PackageMetaLine) string {
	type key struct{ name, size string }
	order := make([]key, 0, len(lines))
	qty := make(map[key]int, len(lines))
	for _, l := range lines {
		k := key{l.Name, l.Size}
		if _, seen := qty[k]; !seen {
			order = append(order, k)
		}
		qty[k] += l.Qty
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, model.DraftLine{Name: k.name, Size: k.size, Qty: qty[k]}.Summary())
	}
	return strings.Join(parts, ", ")
}
