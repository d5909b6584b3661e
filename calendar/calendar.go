/*
Package calendar provides date types and working-day arithmetic.

PURPOSE:
  Leave accounting is done in whole calendar days. This package defines
  the day-granularity TimePoint used throughout the engine, inclusive
  date Periods, holiday records, and the working-day counting rule:
  a day counts if it is not Saturday, not Sunday, and not covered by
  a holiday record.

KEY CONCEPTS IN THIS FILE (calendar.go):
  - TimePoint: A UTC calendar date with no time component
  - Comparison and arithmetic helpers used by balance calculation

DESIGN PRINCIPLES:
  1. Determinism: All dates are UTC; no ambient "current time" is read here
  2. Day granularity: hours and minutes are normalized away
  3. Explicit ranges: Periods are always inclusive [Start, End]

USAGE:
  d := calendar.NewTimePoint(2025, time.January, 6)
  if d.IsWeekend() { ... }

SEE ALSO:
  - period.go: Inclusive date ranges and intersection tests
  - holiday.go: Holiday records, calendar lookup, WorkingDays
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - A calendar date (UTC, day granularity)
// =============================================================================

type TimePoint struct {
	Time time.Time
}

// NewTimePoint builds a day-granularity date in UTC.
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates an arbitrary time.Time to its UTC calendar date.
func FromTime(t time.Time) TimePoint {
	u := t.UTC()
	return NewTimePoint(u.Year(), u.Month(), u.Day())
}

// Parse reads a date in 2006-01-02 form.
func Parse(s string) (TimePoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for tests and static configuration. Panics on error.
func MustParse(s string) TimePoint {
	tp, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint  { return TimePoint{Time: tp.normalize().AddDate(0, 0, n)} }
func (tp TimePoint) AddYears(n int) TimePoint { return TimePoint{Time: tp.normalize().AddDate(n, 0, 0)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (tp TimePoint) String() string {
	return tp.normalize().Format("2006-01-02")
}

// DaysBetween returns the signed number of calendar days from 'from' to 'to'.
func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
