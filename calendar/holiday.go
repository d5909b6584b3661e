/*
holiday.go - Holiday records, calendar lookup, and working-day counting

PURPOSE:
  Defines the HolidayCalendar collaborator contract the engine depends on,
  the Holiday record shape, and WorkingDays - the single counting rule the
  whole balance calculation is built on.

WORKING-DAY RULE:
  A day in an inclusive range counts as a working day when it is:
  1. Not Saturday or Sunday
  2. Not covered by any holiday record for the workspace

  WorkingDays is therefore always >= 0 and equals CalendarDays for ranges
  containing no weekend and no holiday.

COLLABORATOR CONTRACT:
  The engine never owns holiday storage. Implementations live in
  leave/store (memory) and store/sqlite. Lookup failures must surface as
  errors so callers can map them to a collaborator-unavailable outcome;
  the calendar package performs no retries.

SEE ALSO:
  - calendar.go: TimePoint
  - period.go: Period
  - leave/engine.go: Balance calculation built on WorkingDays
*/
package calendar

import (
	"context"
	"errors"
)

// ErrInvalidPeriod is returned when a period is malformed (end before start).
var ErrInvalidPeriod = errors.New("invalid period: end before start")

// =============================================================================
// HOLIDAY - A non-working date for a workspace
// =============================================================================

// Holiday marks a date as non-working. A multi-day holiday is stored as a
// span; single-day holidays have Span.Start == Span.End.
type Holiday struct {
	ID          string
	WorkspaceID string // empty = global holiday visible to every workspace
	Span        Period
	Name        string // e.g. "Christmas Day", "Eid al-Fitr"
	Recurring   bool   // true = same month/day every year
}

// Covers returns true if the holiday includes the given date.
func (h Holiday) Covers(date TimePoint) bool {
	return h.Span.Contains(date)
}

// =============================================================================
// HOLIDAY CALENDAR - Lookup contract
// =============================================================================

// HolidayCalendar answers "is this date a holiday for this workspace".
// Workspace-specific holidays and global holidays both apply.
type HolidayCalendar interface {
	// IsHoliday reports whether any holiday record covers the date.
	IsHoliday(ctx context.Context, workspaceID string, date TimePoint) (bool, error)

	// HolidaysInRange returns all holidays intersecting the period,
	// ordered by start date.
	HolidaysInRange(ctx context.Context, workspaceID string, span Period) ([]Holiday, error)
}

// NullCalendar is a no-op calendar for workspaces without holiday data.
type NullCalendar struct{}

func (NullCalendar) IsHoliday(context.Context, string, TimePoint) (bool, error) {
	return false, nil
}

func (NullCalendar) HolidaysInRange(context.Context, string, Period) ([]Holiday, error) {
	return nil, nil
}

// =============================================================================
// WORKING DAYS - The core counting rule
// =============================================================================

// WorkingDays counts the days in the inclusive period that are neither
// weekend days nor holidays. Deterministic given the calendar's state.
func WorkingDays(ctx context.Context, cal HolidayCalendar, workspaceID string, span Period) (int, error) {
	if err := span.Validate(); err != nil {
		return 0, err
	}
	if cal == nil {
		cal = NullCalendar{}
	}

	count := 0
	for current := span.Start; current.BeforeOrEqual(span.End); current = current.AddDays(1) {
		if current.IsWeekend() {
			continue
		}
		holiday, err := cal.IsHoliday(ctx, workspaceID, current)
		if err != nil {
			return 0, err
		}
		if !holiday {
			count++
		}
	}
	return count, nil
}
