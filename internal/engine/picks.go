package engine

import (
	"github.com/guttosm/catering-service/internal/domain/model"
)

// CanAddPick reports whether a dish of tier candidate fits a course whose
// slots require the given tiers and which already holds current picks.
// A higher-tier dish may fill a lower-tier slot but never the reverse, so for
// every tier T above A the picks at or above T may not outnumber the slots
// that accept T.
func CanAddPick(slots []model.Tier, current []model.Tier, candidate model.Tier) bool {
	if len(current) >= len(slots) {
		return false
	}
	picks := append(append(make([]model.Tier, 0, len(current)+1), current...), candidate)
	for _, t := range []model.Tier{model.TierB, model.TierC, model.TierD} {
		if countAtLeast(picks, t) > countAtLeast(slots, t) {
			return false
		}
	}
	return true
}

func countAtLeast(tiers []model.Tier, t model.Tier) int {
	n := 0
	for _, x := range tiers {
		if x.Rank() >= t.Rank() {
			n++
		}
	}
	return n
}

// Selection tracks the dishes picked for each course of a package and which
// course is currently open.
type Selection struct {
	pkg   model.PackageDefinition
	picks map[model.Course][]model.MenuItem
	open  model.Course
}

// NewSelection starts an empty selection on the first incomplete course.
func NewSelection(pkg model.PackageDefinition) *Selection {
	s := &Selection{pkg: pkg, picks: make(map[model.Course][]model.MenuItem)}
	s.open, _ = s.NextIncomplete()
	return s
}

// RestoreSelection replays picks course by course. The result does not depend
// on the order picks are listed in.
func RestoreSelection(pkg model.PackageDefinition, picks map[model.Course][]model.MenuItem) (*Selection, error) {
	for course := range picks {
		if !course.Valid() {
			return nil, ErrUnknownCourse
		}
	}
	s := NewSelection(pkg)
	for _, course := range model.CourseOrder {
		for _, item := range picks[course] {
			if s.Has(course, item.ID) {
				continue
			}
			if _, err := s.Toggle(course, item); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Package returns the package definition being configured.
func (s *Selection) Package() model.PackageDefinition {
	return s.pkg
}

// Has reports whether the dish is picked for the course.
func (s *Selection) Has(course model.Course, itemID string) bool {
	for _, it := range s.picks[course] {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// CanAdd reports whether toggling item into course would be accepted.
// Already-picked dishes always pass since toggling removes them.
func (s *Selection) CanAdd(course model.Course, item model.MenuItem) bool {
	if s.Has(course, item.ID) {
		return true
	}
	return CanAddPick(s.pkg.SlotsFor(course), tiersOf(s.picks[course]), item.Tier)
}

// Toggle removes an already-picked dish or adds a new one. It reports
// whether the dish ended up picked.
func (s *Selection) Toggle(course model.Course, item model.MenuItem) (bool, error) {
	if !course.Valid() {
		return false, ErrUnknownCourse
	}
	if s.Has(course, item.ID) {
		kept := s.picks[course][:0:0]
		for _, it := range s.picks[course] {
			if it.ID != item.ID {
				kept = append(kept, it)
			}
		}
		s.picks[course] = kept
		s.open = course
		return false, nil
	}
	if !s.CanAdd(course, item) {
		return false, ErrPickRejected
	}
	s.picks[course] = append(s.picks[course], item)
	if s.IsComplete(course) {
		s.open, _ = s.NextIncomplete()
	}
	return true, nil
}

// IsComplete reports whether every slot of the course is filled.
func (s *Selection) IsComplete(course model.Course) bool {
	return len(s.picks[course]) >= len(s.pkg.Slots[course])
}

// NextIncomplete returns the first course, in fixed order, with open slots.
func (s *Selection) NextIncomplete() (model.Course, bool) {
	for _, c := range model.CourseOrder {
		if !s.IsComplete(c) {
			return c, true
		}
	}
	return "", false
}

// Complete reports whether all courses are filled.
func (s *Selection) Complete() bool {
	_, open := s.NextIncomplete()
	return !open
}

// OpenCourse returns the course currently being filled, or "" when done.
func (s *Selection) OpenCourse() model.Course {
	return s.open
}

// Picks returns a copy of the picks per course.
func (s *Selection) Picks() map[model.Course][]model.MenuItem {
	out := make(map[model.Course][]model.MenuItem, len(s.picks))
	for c, items := range s.picks {
		out[c] = append([]model.MenuItem(nil), items...)
	}
	return out
}

// Remaining returns the number of unfilled slots per course.
func (s *Selection) Remaining() map[model.Course]int {
	out := make(map[model.Course]int, len(model.CourseOrder))
	for _, c := range model.CourseOrder {
		n := len(s.pkg.Slots[c]) - len(s.picks[c])
		if n < 0 {
			n = 0
		}
		out[c] = n
	}
	return out
}

func tiersOf(items []model.MenuItem) []model.Tier {
	out := make([]model.Tier, len(items))
	for i, it := range items {
		out[i] = it.Tier
	}
	return out
}
