package engine

import "github.com/guttosm/catering-service/internal/domain/model"

// AllocateTrays chooses trays for a headcount: extra large trays while the
// remainder exceeds the XL threshold, then the smallest size that covers what
// is left. Same sizes are merged in first-appearance order. Invalid
// thresholds fall back to the defaults.
func AllocateTrays(guests int, t model.TrayThresholds) []model.TrayAllocation {
	out := []model.TrayAllocation{}
	if guests <= 0 {
		return out
	}
	if !t.Valid() {
		t = DefaultThresholds()
	}

	add := func(size model.TraySize) {
		for i := range out {
			if out[i].Size == size {
				out[i].Count++
				return
			}
		}
		out = append(out, model.TrayAllocation{Size: size, Count: 1})
	}

	rem := guests
	for rem > t.ExtraLarge {
		add(model.TrayExtraLarge)
		rem -= t.ExtraLarge
	}
	switch {
	case rem <= t.Small:
		add(model.TraySmall)
	case rem <= t.Medium:
		add(model.TrayMedium)
	case rem <= t.Large:
		add(model.TrayLarge)
	default:
		add(model.TrayExtraLarge)
	}
	return out
}

// TraysServe returns the guest capacity of an allocation.
func TraysServe(alloc []model.TrayAllocation, t model.TrayThresholds) int {
	if !t.Valid() {
		t = DefaultThresholds()
	}
	total := 0
	for _, a := range alloc {
		switch a.Size {
		case model.TraySmall:
			total += a.Count * t.Small
		case model.TrayMedium:
			total += a.Count * t.Medium
		case model.TrayLarge:
			total += a.Count * t.Large
		case model.TrayExtraLarge:
			total += a.Count * t.ExtraLarge
		}
	}
	return total
}
