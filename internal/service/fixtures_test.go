package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/mocks"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/guttosm/catering-service/internal/session"
)

var chicago = mustLoad("America/Chicago")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// engineAt returns default engine settings with the clock frozen at a local time.
func engineAt(y int, m time.Month, d, hh, mm int) engine.Settings {
	s := engine.DefaultSettings()
	s.Location = chicago
	now := time.Date(y, m, d, hh, mm, 0, 0, chicago)
	s.Now = func() time.Time { return now }
	return s
}

// fixtureMenu holds enough dishes to fill the Basic package. Prices are
// derived from cost with the default 150% margin:
//
//	samosa        per-piece  $2
//	butter chicken XL tray   $170
//	chana masala   XL tray   $125 (band minimum)
//	jeera rice     XL tray   $125
//	naan          per-piece  $1
//	gulab jamun    XL tray   $125
func fixtureMenu() []model.MenuItem {
	return []model.MenuItem{
		{ID: "samosa", Name: "Veg Samosa", Category: "Appetizer", Course: model.CourseAppetizer, Tier: model.TierA, Kind: model.KindPerPiece, Cost: 0.8, Active: true},
		{ID: "butter-chicken", Name: "Butter Chicken", Category: "Main Course", Course: model.CourseMain, Tier: model.TierA, Kind: model.KindTray, Cost: 0.2, Active: true},
		{ID: "chana-masala", Name: "Chana Masala", Category: "Main Course", Course: model.CourseMain, Tier: model.TierA, Kind: model.KindTray, Cost: 0.12, Active: true},
		{ID: "paneer-tikka", Name: "Paneer Tikka Masala", Category: "Main Course", Course: model.CourseMain, Tier: model.TierC, Kind: model.KindTray, Cost: 0.3, Active: true},
		{ID: "jeera-rice", Name: "Jeera Rice", Category: "Rice", Course: model.CourseRice, Tier: model.TierA, Kind: model.KindTray, Cost: 0.08, Active: true},
		{ID: "naan", Name: "Butter Naan", Category: "Bread", Course: model.CourseBread, Tier: model.TierA, Kind: model.KindPerPiece, Cost: 0.3, Active: true},
		{ID: "gulab-jamun", Name: "Gulab Jamun", Category: "Dessert", Course: model.CourseDessert, Tier: model.TierA, Kind: model.KindTray, Cost: 0.1, Active: true},
	}
}

func basicPicks() map[model.Course][]string {
	return map[model.Course][]string{
		model.CourseAppetizer: {"samosa"},
		model.CourseMain:      {"butter-chicken", "chana-masala"},
		model.CourseRice:      {"jeera-rice"},
		model.CourseBread:     {"naan"},
		model.CourseDessert:   {"gulab-jamun"},
	}
}

// newFixtureMenu returns a menu service backed by fixtureMenu and default settings.
func newFixtureMenu(t *testing.T) (*service.MenuServiceImpl, *mocks.MockMenuRepositoryInterface) {
	t.Helper()
	repo := new(mocks.MockMenuRepositoryInterface)
	repo.On("List", mock.Anything, true).Return(fixtureMenu(), nil).Maybe()
	for _, it := range fixtureMenu() {
		it := it
		repo.On("FindByID", mock.Anything, it.ID).Return(&it, nil).Maybe()
	}
	return service.NewMenuService(repo, service.NewSettingsService(nil, nil)), repo
}

func newMemoryStore(t *testing.T) *session.MemoryStore {
	t.Helper()
	return session.NewMemoryStore(time.Hour)
}
