package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Calendar resolves "today" in the journal's configured timezone. Dates it
// returns are calendar days stored as UTC midnight, which is how the date
// columns round-trip through the database.
type Calendar struct {
	Loc *time.Location
	Now func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Loc: loc, Now: time.Now}
}

func (c Calendar) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	return DayOf(now().In(loc))
}

func (c Calendar) Yesterday() time.Time {
	return c.Today().AddDate(0, 0, -1)
}

// DayOf truncates t to its calendar day in t's own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return t, nil
}

// ParseMonth parses YYYY-MM and returns the first and last day of that month.
func ParseMonth(s string) (first, last time.Time, err error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
	}
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last, nil
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}
