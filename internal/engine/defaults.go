package engine

import "github.com/guttosm/catering-service/internal/domain/model"

// DefaultThresholds are the guest counts each tray size serves.
func DefaultThresholds() model.TrayThresholds {
	return model.TrayThresholds{Small: 15, Medium: 25, Large: 35, ExtraLarge: 50}
}

// DefaultHeavyBump is added to the headcount for heavy appetites.
const DefaultHeavyBump = 5

func tiers(ts ...model.Tier) []model.Tier { return ts }

// DefaultPackageSettings returns the Basic, Classic and Premium packages.
func DefaultPackageSettings() model.PackageSettings {
	const a, b, c = model.TierA, model.TierB, model.TierC
	return model.PackageSettings{
		Packages: []model.PackageDefinition{
			{
				ID: "basic", Name: "Basic", PriceLabel: "Starting $8/person",
				Slots: map[model.Course][]model.Tier{
					model.CourseAppetizer: tiers(a),
					model.CourseMain:      tiers(a, a),
					model.CourseRice:      tiers(a),
					model.CourseBread:     tiers(a),
					model.CourseDessert:   tiers(a),
				},
			},
			{
				ID: "classic", Name: "Classic", PriceLabel: "Starting $12/person",
				Slots: map[model.Course][]model.Tier{
					model.CourseAppetizer: tiers(a),
					model.CourseMain:      tiers(a, a, b),
					model.CourseRice:      tiers(b),
					model.CourseBread:     tiers(a),
					model.CourseDessert:   tiers(a),
				},
			},
			{
				ID: "premium", Name: "Premium", PriceLabel: "Starting $15/person",
				Slots: map[model.Course][]model.Tier{
					model.CourseAppetizer: tiers(a, b),
					model.CourseMain:      tiers(a, b, c),
					model.CourseRice:      tiers(a, b),
					model.CourseBread:     tiers(a, b),
					model.CourseDessert:   tiers(a, b),
				},
			},
		},
		Thresholds: DefaultThresholds(),
		HeavyBump:  DefaultHeavyBump,
	}
}

// DefaultPricingConfig returns a 150% margin with the standard tray bands.
func DefaultPricingConfig() model.PricingConfig {
	return model.PricingConfig{
		MarginPct:     150,
		MinPiecePrice: 1,
		Trays: []model.TraySpec{
			{Size: model.TraySmall, CapacityOz: 80, MinPrice: 20, MaxPrice: 40},
			{Size: model.TrayMedium, CapacityOz: 120, MinPrice: 50, MaxPrice: 80},
			{Size: model.TrayLarge, CapacityOz: 220, MinPrice: 80, MaxPrice: 150},
			{Size: model.TrayExtraLarge, CapacityOz: 340, MinPrice: 125, MaxPrice: 250},
		},
	}
}

// DefaultHoursSettings returns the standard pickup and delivery weeks.
func DefaultHoursSettings() model.HoursSettings {
	weekendPickup := model.DaySchedule{Open1: "12:00", Close1: "15:00", Open2: "18:00", Close2: "21:30"}
	weekdayPickup := model.DaySchedule{Open1: "11:00", Close1: "14:00", Open2: "17:30", Close2: "21:00"}
	fridayPickup := model.DaySchedule{Open1: "11:00", Close1: "14:00", Open2: "18:00", Close2: "21:30"}

	lateDelivery := model.DaySchedule{Open1: "09:00", Close1: "16:00", Open2: "16:00", Close2: "21:30"}
	weekdayDelivery := model.DaySchedule{Open1: "09:00", Close1: "16:00", Open2: "16:00", Close2: "21:00"}

	return model.HoursSettings{
		Pickup: model.WeeklyHours{
			"Sun": weekendPickup, "Mon": weekdayPickup, "Tue": weekdayPickup, "Wed": weekdayPickup,
			"Thu": weekdayPickup, "Fri": fridayPickup, "Sat": weekendPickup,
		},
		Delivery: model.WeeklyHours{
			"Sun": lateDelivery, "Mon": weekdayDelivery, "Tue": weekdayDelivery, "Wed": weekdayDelivery,
			"Thu": weekdayDelivery, "Fri": lateDelivery, "Sat": lateDelivery,
		},
	}
}
