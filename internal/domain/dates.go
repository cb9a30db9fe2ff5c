package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrValidation, s)
	}
	return t, nil
}

// DateRange is a closed range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether both ranges share at least one day, boundaries
// included.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// Days is the number of whole days between Start and End.
func (r DateRange) Days() int {
	return int(Day(r.End).Sub(Day(r.Start)) / (24 * time.Hour))
}

// Normalize clamps the range the way booking requests are clamped: a start in
// the past moves to today and an end not after the start becomes start+1 day.
func (r DateRange) Normalize(today time.Time) (DateRange, error) {
	if r.Start.IsZero() || r.End.IsZero() {
		return DateRange{}, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	today = Day(today)
	start, end := Day(r.Start), Day(r.End)
	if start.Before(today) {
		start = today
	}
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return DateRange{Start: start, End: end}, nil
}
