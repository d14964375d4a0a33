package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
)

const dateLayout = "2006-01-02"

// SlotCalendar computes orderable times for a date from a weekly schedule.
type SlotCalendar struct {
	settings Settings
}

// NewSlotCalendar creates a calendar bound to the given settings.
func NewSlotCalendar(settings Settings) *SlotCalendar {
	return &SlotCalendar{settings: settings}
}

// Earliest returns the first instant an order may be scheduled for.
func (c *SlotCalendar) Earliest() time.Time {
	return c.settings.now().Add(c.settings.LeadTime)
}

// DateBounds returns the first and last selectable days at local midnight.
func (c *SlotCalendar) DateBounds() (time.Time, time.Time) {
	loc := c.settings.location()
	first := startOfDay(c.Earliest(), loc)
	last := startOfDay(c.settings.now(), loc).AddDate(0, 0, c.settings.MaxDaysAhead)
	return first, last
}

// InRange reports whether the day of date is selectable.
func (c *SlotCalendar) InRange(date time.Time) bool {
	day := startOfDay(date, c.settings.location())
	first, last := c.DateBounds()
	return !day.Before(first) && !day.After(last)
}

// ParseDate parses a "YYYY-MM-DD" day in the business location.
func (c *SlotCalendar) ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), c.settings.location())
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.CodeValidation, err, "date must be YYYY-MM-DD")
	}
	return d, nil
}

// Slots returns the ordered slots for the day of date. Closed days, missing
// schedules and out-of-range dates yield an empty list.
func (c *SlotCalendar) Slots(hours model.WeeklyHours, date time.Time) []model.Slot {
	slots := []model.Slot{}
	loc := c.settings.location()
	day := startOfDay(date, loc)
	if !c.InRange(day) {
		return slots
	}

	schedule, ok := hours.For(day.Weekday())
	if !ok || schedule.Closed {
		return slots
	}

	earliest := c.Earliest()
	step := c.settings.slotMinutes()
	for _, w := range windows(schedule) {
		start := ceilToStep(w.open, step)
		for m := start; m < w.close; m += step {
			at := time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc)
			if at.Before(earliest) {
				continue
			}
			slots = append(slots, model.Slot{
				Time:  fmt.Sprintf("%02d:%02d", m/60, m%60),
				Label: FormatSlotLabel(m),
				At:    at,
			})
		}
	}
	return slots
}

type window struct {
	open, close int
}

// windows returns the usable windows of a schedule in configured order.
func windows(s model.DaySchedule) []window {
	out := make([]window, 0, 2)
	for _, pair := range [][2]string{{s.Open1, s.Close1}, {s.Open2, s.Close2}} {
		open, ok1 := ParseClock(pair[0])
		closeAt, ok2 := ParseClock(pair[1])
		if ok1 && ok2 && closeAt > open {
			out = append(out, window{open: open, close: closeAt})
		}
	}
	return out
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// FormatSlotLabel renders minutes after midnight as "h:mm AM/PM".
func FormatSlotLabel(minutes int) string {
	h, m := minutes/60, minutes%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// ParseSlotTime accepts either a slot label ("6:30 PM") or "HH:MM" and
// returns minutes after midnight.
func ParseSlotTime(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if m, ok := ParseClock(s); ok {
		return m, true
	}
	t, err := time.Parse("3:04 PM", strings.ToUpper(s))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// ValidateDay checks that each window is blank or well formed, and that the
// second window does not start before the first closes.
func ValidateDay(s model.DaySchedule) error {
	if s.Closed {
		return nil
	}
	prevClose := -1
	for i, pair := range [][2]string{{s.Open1, s.Close1}, {s.Open2, s.Close2}} {
		if pair[0] == "" && pair[1] == "" {
			continue
		}
		open, ok1 := ParseClock(pair[0])
		closeAt, ok2 := ParseClock(pair[1])
		if !ok1 || !ok2 {
			return apperrors.Newf(apperrors.CodeValidation, "window %d must use HH:MM", i+1)
		}
		if closeAt <= open {
			return apperrors.Newf(apperrors.CodeValidation, "window %d must close after it opens", i+1)
		}
		if open < prevClose {
			return apperrors.New(apperrors.CodeValidation, "window 2 must start after window 1 closes")
		}
		prevClose = closeAt
	}
	return nil
}

// ValidateWeek validates every day present in hours.
func ValidateWeek(hours model.WeeklyHours) error {
	for _, key := range model.WeekdayKeys() {
		day, ok := hours[key]
		if !ok {
			continue
		}
		if err := ValidateDay(day); err != nil {
			return apperrors.Newf(apperrors.CodeValidation, "%s: %s", key, apperrors.As(err).Message())
		}
	}
	return nil
}

func ceilToStep(minutes, step int) int {
	if r := minutes % step; r != 0 {
		return minutes + step - r
	}
	return minutes
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
