/*
Package jobs provides scheduled background work for the leave engine.

PURPOSE:
  Recurring holidays (e.g. "Christmas Day, every year") are stored once;
  balance calculation only sees concrete dated records. The
  HolidayGenerator materializes recurring records into concrete holidays
  for a target year, and the Scheduler runs it on a cron expression so
  next year's calendar always exists before requests for it arrive.

DESIGN:
  - Generation is idempotent: the store ignores duplicate
    (workspace, date, name) rows, so re-runs are safe
  - The generator is pure plumbing over the store; no balance logic
  - Generation failures are logged and retried on the next tick

USAGE:
  gen := &jobs.HolidayGenerator{Store: store}
  sched, err := jobs.NewScheduler(gen, "0 0 2 * * *") // 02:00 UTC daily
  sched.Start()
  // ... later
  sched.Stop()

SEE ALSO:
  - store/sqlite/sqlite.go: ListRecurringHolidays / SaveHoliday
  - calendar/holiday.go: Holiday record shape
*/
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/warp/leave-engine/calendar"
)

// HolidayStore is the slice of the storage layer the generator needs.
type HolidayStore interface {
	ListRecurringHolidays(ctx context.Context) ([]calendar.Holiday, error)
	SaveHoliday(ctx context.Context, h calendar.Holiday) error
}

// =============================================================================
// HOLIDAY GENERATOR
// =============================================================================

// HolidayGenerator materializes recurring holidays into concrete records.
type HolidayGenerator struct {
	Store HolidayStore
}

// GenerateYear creates one concrete holiday per recurring record for the
// given year, preserving the record's month/day and span length. Returns
// the number of records written (duplicates are skipped by the store).
func (g *HolidayGenerator) GenerateYear(ctx context.Context, year int) (int, error) {
	recurring, err := g.Store.ListRecurringHolidays(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list recurring holidays: %w", err)
	}

	written := 0
	for _, h := range recurring {
		materialized, ok := Materialize(h, year)
		if !ok {
			continue
		}
		if err := g.Store.SaveHoliday(ctx, materialized); err != nil {
			return written, fmt.Errorf("failed to save %q for %d: %w", h.Name, year, err)
		}
		written++
	}
	return written, nil
}

// Materialize shifts a recurring holiday's span into the target year.
// Feb 29 anchors roll to Feb 28 in non-leap years. Returns ok=false for
// non-recurring records.
func Materialize(h calendar.Holiday, year int) (calendar.Holiday, bool) {
	if !h.Recurring {
		return calendar.Holiday{}, false
	}

	month, day := h.Span.Start.Month(), h.Span.Start.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}

	length := h.Span.CalendarDays()
	start := calendar.NewTimePoint(year, month, day)
	return calendar.Holiday{
		WorkspaceID: h.WorkspaceID,
		Span:        calendar.Period{Start: start, End: start.AddDays(length - 1)},
		Name:        h.Name,
		Recurring:   false,
	}, true
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// =============================================================================
// SCHEDULER - Cron-driven generation
// =============================================================================

// Scheduler runs holiday generation for the current and next year on a
// cron expression (seconds-precision, UTC).
type Scheduler struct {
	cron      *cron.Cron
	generator *HolidayGenerator
}

// NewScheduler registers the generation job. The spec uses the
// seconds-first cron format, e.g. "0 0 2 * * *" for 02:00 UTC daily.
func NewScheduler(generator *HolidayGenerator, spec string) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{cron: c, generator: generator}
	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("failed to register holiday generation job: %w", err)
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	ctx := context.Background()
	thisYear := time.Now().UTC().Year()

	for _, year := range []int{thisYear, thisYear + 1} {
		n, err := s.generator.GenerateYear(ctx, year)
		if err != nil {
			log.Printf("[HolidayJob] Generation for %d failed: %v", year, err)
			continue
		}
		if n > 0 {
			log.Printf("[HolidayJob] Generated %d holiday(s) for %d", n, year)
		}
	}
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[HolidayJob] Scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[HolidayJob] Scheduler stopped")
}

// RunNow triggers an immediate generation pass (for admin/CLI use).
func (s *Scheduler) RunNow() {
	s.runOnce()
}
