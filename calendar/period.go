package calendar

import "time"

// =============================================================================
// PERIOD - Inclusive date range [Start, End]
// =============================================================================

// Period is an inclusive range of calendar dates. Leave requests and
// holiday spans are both expressed as Periods.
//
// Examples:
//   - A one-week request: Mon Jan 6 - Fri Jan 10
//   - Calendar year 2025: Jan 1 - Dec 31
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod builds a period without validating it. Call Validate before
// iterating when the bounds come from external input.
func NewPeriod(start, end TimePoint) Period {
	return Period{Start: start, End: end}
}

// SingleDay returns a period covering exactly one date.
func SingleDay(day TimePoint) Period {
	return Period{Start: day, End: day}
}

// Year returns the calendar-year period for the given year.
func Year(year int) Period {
	return Period{
		Start: NewTimePoint(year, time.January, 1),
		End:   NewTimePoint(year, time.December, 31),
	}
}

// Validate returns ErrInvalidPeriod when End is before Start.
// Every entry point that iterates a period goes through this check;
// the range is never silently clamped.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps returns true if the two inclusive ranges intersect:
// p.Start <= other.End AND p.End >= other.Start.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && p.End.AfterOrEqual(other.Start)
}

// Days returns every date in the period, in order.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// CalendarDays returns the inclusive day count, or 0 for malformed ranges.
func (p Period) CalendarDays() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
