// Package dataset loads pre-cleaned air-quality readings and restricts them
// to a calendar-day interval.
package dataset

import (
	"fmt"
	"time"
)

// DateLayout is the layout of user-facing date values (start/end inputs).
const DateLayout = "2006-01-02"

// Reading is one timestamped observation. A nil value was missing in the source.
type Reading struct {
	Time      time.Time
	PM25      *float64
	WindSpeed *float64
}

// DateRange is an inclusive interval of calendar days. Start and End are
// midnights in the location of the dataset.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes start and end to the midnight of their calendar day.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Day truncates t to midnight of its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Empty reports whether the range contains no day at all.
func (r DateRange) Empty() bool {
	return r.Start.After(r.End)
}

// Contains reports whether t falls on a day within the range. The end day
// is included whole, up to midnight of the following day.
func (r DateRange) Contains(t time.Time) bool {
	if r.Empty() {
		return false
	}
	return !t.Before(r.Start) && t.Before(r.End.AddDate(0, 0, 1))
}

// Clamp intersects r with bounds. The result may be empty.
func (r DateRange) Clamp(bounds DateRange) DateRange {
	out := r
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	return out
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	if r.Empty() {
		return 0
	}
	n := 0
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

// ParseDate parses a YYYY-MM-DD value as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// Bounds returns the calendar days of the earliest and latest reading.
// ok is false when readings is empty.
func Bounds(readings []Reading) (DateRange, bool) {
	if len(readings) == 0 {
		return DateRange{}, false
	}
	lo, hi := readings[0].Time, readings[0].Time
	for _, r := range readings[1:] {
		if r.Time.Before(lo) {
			lo = r.Time
		}
		if r.Time.After(hi) {
			hi = r.Time
		}
	}
	return NewDateRange(lo, hi), true
}
