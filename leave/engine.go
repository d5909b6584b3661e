/*
engine.go - Balance calculation (working days, used, remaining)

PURPOSE:
  The central calculation that answers "how many days does this user have
  left?" for a leave type. Everything reduces to one counting rule:

    working days in [start, end] = days that are not Sat/Sun
                                   and not covered by a holiday

  used days       = sum of working days over approved requests of the
                    type whose start date falls in the year
  remaining days  = max(0, annual allowance - used days)

KEY INVARIANTS:
  - Working-day counts are always >= 0
  - Remaining days are NEVER reported negative, even when used days
    exceed the allowance; AllowNegativeBalance only affects whether a
    NEW request may exceed the remaining balance
  - Identical inputs and unchanged records give identical results

CHECK-THEN-ACT:
  HasSufficientBalance is a read; the caller persists the request in a
  separate, later step. The engine provides NO atomicity across that gap.
  Two simultaneous submissions can both pass the check - preventing the
  double-booking requires a transactional guard (row lock or overlap
  constraint) in the persistence layer, outside this component.

SEE ALSO:
  - calendar/holiday.go: WorkingDays counting rule
  - eligibility.go: Overlap, gender, frequency, and notice gates
*/
package leave

import (
	"context"

	"github.com/warp/leave-engine/calendar"
)

// =============================================================================
// NEGATIVE BALANCE MODE - How AllowNegativeBalance meets the balance check
// =============================================================================

// NegativeBalanceMode controls how HasSufficientBalance treats a leave
// type's AllowNegativeBalance flag. The flag is stored on the type but the
// original balance check never consulted it; both interpretations are
// supported behind this switch.
type NegativeBalanceMode int

const (
	// NegativeBalanceIgnored: the flag is never consulted; the check is a
	// plain remaining >= requested comparison. This is the default.
	NegativeBalanceIgnored NegativeBalanceMode = iota

	// NegativeBalanceBypass: types with the flag set always pass the
	// balance check, regardless of remaining days.
	NegativeBalanceBypass

	// NegativeBalanceOverdraw: types with the flag set may dip below zero
	// with this request, but are still blocked once the balance is
	// already exhausted (remaining == 0).
	NegativeBalanceOverdraw
)

// =============================================================================
// ENGINE - Stateless balance and eligibility computation
// =============================================================================

// Engine computes balances and eligibility from the four collaborator
// contracts. It holds no mutable state; concurrent use is safe as long as
// the collaborators are.
type Engine struct {
	Types    TypeCatalog
	Users    Directory
	Records  RecordStore
	Holidays calendar.HolidayCalendar

	// BalanceMode selects the AllowNegativeBalance interpretation.
	// Zero value is NegativeBalanceIgnored.
	BalanceMode NegativeBalanceMode

	// OverlapStatuses are the request statuses counted by
	// HasOverlappingLeave. Empty means the default: pending and approved.
	// Rejected and cancelled requests never block a date range under the
	// default.
	OverlapStatuses []RequestStatus
}

// NewEngine wires an engine with the default policy knobs.
func NewEngine(types TypeCatalog, users Directory, records RecordStore, holidays calendar.HolidayCalendar) *Engine {
	return &Engine{Types: types, Users: users, Records: records, Holidays: holidays}
}

// =============================================================================
// WORKING DAYS
// =============================================================================

// WorkingDays counts working days in the inclusive span for a workspace.
// Fails with ErrInvalidPeriod when End < Start.
func (e *Engine) WorkingDays(ctx context.Context, workspaceID string, span calendar.Period) (int, error) {
	n, err := calendar.WorkingDays(ctx, e.Holidays, workspaceID, span)
	if err != nil {
		return 0, collaboratorErr("holiday_calendar", err)
	}
	return n, nil
}

// =============================================================================
// USED / REMAINING DAYS
// =============================================================================

// UsedDays sums working days over all approved requests of the type whose
// start date falls in the given year. Read-only and idempotent.
func (e *Engine) UsedDays(ctx context.Context, workspaceID string, userID UserID, typeID LeaveTypeID, year int) (int, error) {
	intervals, err := e.Records.ApprovedIntervals(ctx, workspaceID, userID, typeID, year)
	if err != nil {
		return 0, collaboratorErr("record_store", err)
	}

	total := 0
	for _, span := range intervals {
		n, err := e.WorkingDays(ctx, workspaceID, span)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// RemainingDays returns max(0, allowance - used) for the year containing
// 'now'. Never negative, regardless of AllowNegativeBalance.
func (e *Engine) RemainingDays(ctx context.Context, workspaceID string, userID UserID, typeID LeaveTypeID, now calendar.TimePoint) (int, error) {
	lt, err := e.leaveType(ctx, workspaceID, typeID)
	if err != nil {
		return 0, err
	}

	used, err := e.UsedDays(ctx, workspaceID, userID, typeID, now.Year())
	if err != nil {
		return 0, err
	}

	remaining := lt.MaxDaysPerYear - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// HasSufficientBalance reports whether a request of daysRequested working
// days fits the remaining balance, subject to the engine's BalanceMode.
// A zero-day request is always sufficient.
func (e *Engine) HasSufficientBalance(ctx context.Context, workspaceID string, userID UserID, typeID LeaveTypeID, daysRequested int, now calendar.TimePoint) (bool, error) {
	lt, err := e.leaveType(ctx, workspaceID, typeID)
	if err != nil {
		return false, err
	}

	if e.BalanceMode == NegativeBalanceBypass && lt.AllowNegativeBalance {
		return true, nil
	}

	remaining, err := e.RemainingDays(ctx, workspaceID, userID, typeID, now)
	if err != nil {
		return false, err
	}

	if e.BalanceMode == NegativeBalanceOverdraw && lt.AllowNegativeBalance {
		return remaining > 0 || daysRequested == 0, nil
	}
	return remaining >= daysRequested, nil
}

// leaveType resolves the type, mapping a bare sentinel from the catalog
// into a structured NotFoundError.
func (e *Engine) leaveType(ctx context.Context, workspaceID string, typeID LeaveTypeID) (LeaveType, error) {
	lt, err := e.Types.LeaveType(ctx, workspaceID, typeID)
	if err != nil {
		if IsNotFound(err) {
			return LeaveType{}, &NotFoundError{Kind: "leave_type", ID: string(typeID)}
		}
		return LeaveType{}, collaboratorErr("type_catalog", err)
	}
	return lt, nil
}

func (e *Engine) user(ctx context.Context, workspaceID string, userID UserID) (User, error) {
	u, err := e.Users.User(ctx, workspaceID, userID)
	if err != nil {
		if IsNotFound(err) {
			return User{}, &NotFoundError{Kind: "user", ID: string(userID)}
		}
		return User{}, collaboratorErr("directory", err)
	}
	return u, nil
}
