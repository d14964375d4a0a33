package engine_test

import (
	"time"

	"github.com/guttosm/catering-service/internal/engine"
)

var chicago = mustLoad("America/Chicago")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// settingsAt returns default settings with the clock frozen at the given local time.
func settingsAt(y int, m time.Month, d, hh, mm int) engine.Settings {
	s := engine.DefaultSettings()
	s.Location = chicago
	now := time.Date(y, m, d, hh, mm, 0, 0, chicago)
	s.Now = func() time.Time { return now }
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, chicago)
}
