package calendar_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/warp/leave-engine/calendar"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(y int, m time.Month, d int) calendar.TimePoint {
	return calendar.NewTimePoint(y, m, d)
}

func span(start, end calendar.TimePoint) calendar.Period {
	return calendar.Period{Start: start, End: end}
}

// staticCalendar marks a fixed set of dates as holidays for any workspace.
type staticCalendar struct {
	dates []calendar.TimePoint
}

func (c *staticCalendar) IsHoliday(_ context.Context, _ string, date calendar.TimePoint) (bool, error) {
	for _, d := range c.dates {
		if d.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (c *staticCalendar) HolidaysInRange(_ context.Context, _ string, p calendar.Period) ([]calendar.Holiday, error) {
	var out []calendar.Holiday
	for _, d := range c.dates {
		if p.Contains(d) {
			out = append(out, calendar.Holiday{Span: calendar.SingleDay(d)})
		}
	}
	return out, nil
}

// failingCalendar simulates a collaborator outage.
type failingCalendar struct{}

func (failingCalendar) IsHoliday(context.Context, string, calendar.TimePoint) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingCalendar) HolidaysInRange(context.Context, string, calendar.Period) ([]calendar.Holiday, error) {
	return nil, errors.New("connection refused")
}

// =============================================================================
// WORKING DAYS
// =============================================================================

func TestWorkingDays_NoWeekendNoHoliday_EqualsCalendarDays(t *testing.T) {
	// GIVEN: Mon Jan 6 - Fri Jan 10 2025, no holidays
	// WHEN: Counting working days
	// THEN: Count equals the inclusive calendar-day count (5)

	p := span(day(2025, time.January, 6), day(2025, time.January, 10))

	n, err := calendar.WorkingDays(context.Background(), calendar.NullCalendar{}, "acme", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != p.CalendarDays() {
		t.Errorf("expected %d working days, got %d", p.CalendarDays(), n)
	}
}

func TestWorkingDays_SpanWithOneWeekendDay_ExcludesExactlyThatDay(t *testing.T) {
	// GIVEN: Fri Jan 10 - Sat Jan 11 2025, no holidays
	// WHEN: Counting working days
	// THEN: The Saturday is excluded; count is 1

	p := span(day(2025, time.January, 10), day(2025, time.January, 11))

	n, err := calendar.WorkingDays(context.Background(), calendar.NullCalendar{}, "acme", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 working day, got %d", n)
	}
}

func TestWorkingDays_FullWeek_ExcludesBothWeekendDays(t *testing.T) {
	// GIVEN: Mon Jan 6 - Sun Jan 12 2025 (7 calendar days)
	// WHEN: Counting working days
	// THEN: Saturday and Sunday are excluded; count is 5

	p := span(day(2025, time.January, 6), day(2025, time.January, 12))

	n, err := calendar.WorkingDays(context.Background(), calendar.NullCalendar{}, "acme", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 working days, got %d", n)
	}
}

func TestWorkingDays_HolidayMidweek_Excluded(t *testing.T) {
	// GIVEN: Mon Dec 30 2024 - Thu Jan 2 2025, Jan 1 is a holiday
	// WHEN: Counting working days
	// THEN: Mon 12/30, Tue 12/31 and Thu 1/2 count; Wed 1/1 does not

	cal := &staticCalendar{dates: []calendar.TimePoint{day(2025, time.January, 1)}}
	p := span(day(2024, time.December, 30), day(2025, time.January, 2))

	n, err := calendar.WorkingDays(context.Background(), cal, "acme", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 working days, got %d", n)
	}
}

func TestWorkingDays_SingleHolidayDay_Zero(t *testing.T) {
	cal := &staticCalendar{dates: []calendar.TimePoint{day(2025, time.May, 1)}}
	p := calendar.SingleDay(day(2025, time.May, 1))

	n, err := calendar.WorkingDays(context.Background(), cal, "acme", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 working days, got %d", n)
	}
}

func TestWorkingDays_EndBeforeStart_InvalidPeriod(t *testing.T) {
	p := span(day(2025, time.March, 10), day(2025, time.March, 5))

	_, err := calendar.WorkingDays(context.Background(), calendar.NullCalendar{}, "acme", p)
	if !errors.Is(err, calendar.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestWorkingDays_CalendarFailure_Propagates(t *testing.T) {
	p := span(day(2025, time.March, 3), day(2025, time.March, 4))

	_, err := calendar.WorkingDays(context.Background(), failingCalendar{}, "acme", p)
	if err == nil {
		t.Fatal("expected error from failing calendar")
	}
}

// =============================================================================
// PERIOD
// =============================================================================

func TestPeriod_Overlaps(t *testing.T) {
	base := span(day(2025, time.March, 1), day(2025, time.March, 5))

	cases := []struct {
		name  string
		other calendar.Period
		want  bool
	}{
		{"partial overlap", span(day(2025, time.March, 4), day(2025, time.March, 8)), true},
		{"contained", span(day(2025, time.March, 2), day(2025, time.March, 3)), true},
		{"touching end", span(day(2025, time.March, 5), day(2025, time.March, 9)), true},
		{"adjacent after", span(day(2025, time.March, 6), day(2025, time.March, 9)), false},
		{"before", span(day(2025, time.February, 20), day(2025, time.February, 28)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tc.other, got, tc.want)
			}
		})
	}
}

func TestPeriod_Days_InclusiveBounds(t *testing.T) {
	p := span(day(2025, time.January, 1), day(2025, time.January, 3))
	days := p.Days()

	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if !days[0].Equal(p.Start) || !days[2].Equal(p.End) {
		t.Errorf("days do not cover inclusive bounds: %v", days)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	tp, err := calendar.Parse("2025-01-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.String() != "2025-01-06" {
		t.Errorf("round trip mismatch: %s", tp)
	}
	if tp.Weekday() != time.Monday {
		t.Errorf("expected Monday, got %v", tp.Weekday())
	}
}

func TestHoliday_Covers_Span(t *testing.T) {
	// GIVEN: A two-day holiday span (Eid)
	h := calendar.Holiday{
		Span: span(day(2025, time.March, 31), day(2025, time.April, 1)),
		Name: "Eid al-Fitr",
	}

	if !h.Covers(day(2025, time.April, 1)) {
		t.Error("expected span end to be covered")
	}
	if h.Covers(day(2025, time.April, 2)) {
		t.Error("expected day after span to not be covered")
	}
}
