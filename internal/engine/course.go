package engine

import (
	"strings"

	"github.com/guttosm/catering-service/internal/domain/model"
)

// Guest bounds for package quotes.
const (
	MinGuests  = 15
	MaxGuests  = 100
	GuestsStep = 5
)

var courseKeywords = []struct {
	course   model.Course
	keywords []string
}{
	{model.CourseAppetizer, []string{"appetizer", "chaat", "starter"}},
	{model.CourseRice, []string{"rice", "biryani", "pulao"}},
	{model.CourseBread, []string{"bread", "naan", "roti", "paratha"}},
	{model.CourseDessert, []string{"dessert", "sweet"}},
}

var nonVegKeywords = []string{"chicken", "goat", "lamb", "fish", "shrimp"}

// CourseFromCategory maps a free-form menu category onto a course.
// Anything unrecognized is a main course.
func CourseFromCategory(category string) model.Course {
	c := strings.ToLower(category)
	for _, ck := range courseKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(c, kw) {
				return ck.course
			}
		}
	}
	return model.CourseMain
}

// IsNonVeg reports whether a dish name mentions meat or seafood.
func IsNonVeg(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range nonVegKeywords {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// NormalizeGuests clamps a headcount to [MinGuests, MaxGuests] and rounds it
// to the nearest step. The flag reports requests above the maximum, which
// are handled as large orders.
func NormalizeGuests(n int) (int, bool) {
	overMax := n > MaxGuests
	if n < MinGuests {
		n = MinGuests
	}
	if n > MaxGuests {
		n = MaxGuests
	}
	n = (n + GuestsStep/2) / GuestsStep * GuestsStep
	return n, overMax
}

// NormalizeSpice maps free text onto a spice level, defaulting to Medium.
func NormalizeSpice(s string) model.SpiceLevel {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, "mild"):
		return model.SpiceMild
	case strings.HasPrefix(v, "spic"), v == "hot":
		return model.SpiceSpicy
	default:
		return model.SpiceMedium
	}
}
