package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
)

func TestCourseFromCategory(t *testing.T) {
	tests := []struct {
		category string
		want     model.Course
	}{
		{"Appetizers", model.CourseAppetizer},
		{"Chaat Corner", model.CourseAppetizer},
		{"Starters", model.CourseAppetizer},
		{"Biryani", model.CourseRice},
		{"Veg Pulao", model.CourseRice},
		{"Naan & Roti", model.CourseBread},
		{"Paratha", model.CourseBread},
		{"Sweets", model.CourseDessert},
		{"Dessert", model.CourseDessert},
		{"Main Course", model.CourseMain},
		{"Curries", model.CourseMain},
		{"", model.CourseMain},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.CourseFromCategory(tt.category))
		})
	}
}

func TestIsNonVeg(t *testing.T) {
	assert.True(t, engine.IsNonVeg("Chicken Tikka Masala"))
	assert.True(t, engine.IsNonVeg("Goat Curry"))
	assert.True(t, engine.IsNonVeg("Shrimp Fry"))
	assert.False(t, engine.IsNonVeg("Paneer Butter Masala"))
}

func TestNormalizeGuests(t *testing.T) {
	tests := []struct {
		in      int
		want    int
		overMax bool
	}{
		{in: 0, want: 15},
		{in: 7, want: 15},
		{in: 17, want: 15},
		{in: 18, want: 20},
		{in: 42, want: 40},
		{in: 43, want: 45},
		{in: 100, want: 100},
		{in: 130, want: 100, overMax: true},
	}
	for _, tt := range tests {
		got, over := engine.NormalizeGuests(tt.in)
		assert.Equal(t, tt.want, got, "in=%d", tt.in)
		assert.Equal(t, tt.overMax, over, "in=%d", tt.in)
	}
}

func TestNormalizeSpice(t *testing.T) {
	tests := map[string]model.SpiceLevel{
		"mild":        model.SpiceMild,
		" Mildly hot": model.SpiceMild,
		"Spicy":       model.SpiceSpicy,
		"spice it up": model.SpiceSpicy,
		"hot":         model.SpiceSpicy,
		"medium":      model.SpiceMedium,
		"":            model.SpiceMedium,
		"extra":       model.SpiceMedium,
	}
	for in, want := range tests {
		assert.Equal(t, want, engine.NormalizeSpice(in), "in=%q", in)
	}
}
