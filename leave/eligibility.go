/*
eligibility.go - Overlap, request-gate, leave-type filtering, minimum notice

PURPOSE:
  The non-balance gates a submission handler runs before persisting a
  request. All of these produce RESULTS, not errors: a blocked request is
  a normal outcome the caller turns into a user-facing message.

GATES:
  HasOverlappingLeave:   does the requested span intersect an existing
                         request? (pending + approved by default)
  CanRequestNewLeave:    workspace policy gate - is the user free of
                         blocking active requests right now?
  EligibleLeaveTypes:    which types can this user request at all?
                         (gender restriction, frequency window, balance)
  MinimumNoticeSatisfied: was the request submitted far enough ahead?

FREQUENCY WINDOW:
  A type with FrequencyYears = N (N > 1) is unavailable while any
  approved request of that type has a creation time within the last N
  years. The window is rolling, anchored on 'now' - NOT calendar-year
  based. FrequencyYears = 1 means no cooldown.

SEE ALSO:
  - engine.go: Balance operations these gates build on
  - types.go: LeaveRequest.IsActive
*/
package leave

import (
	"context"
	"fmt"

	"github.com/warp/leave-engine/calendar"
)

// defaultOverlapStatuses: rejected and cancelled requests do not block a
// date range; rescheduled requests are superseded by their replacement.
var defaultOverlapStatuses = []RequestStatus{StatusPending, StatusApproved}

// =============================================================================
// OVERLAP
// =============================================================================

// HasOverlappingLeave reports whether any counted request for the user has
// an interval intersecting the inclusive span. Counted statuses come from
// Engine.OverlapStatuses (default: pending and approved).
func (e *Engine) HasOverlappingLeave(ctx context.Context, workspaceID string, userID UserID, span calendar.Period) (bool, error) {
	if err := span.Validate(); err != nil {
		return false, err
	}

	requests, err := e.Records.RequestsByUser(ctx, workspaceID, userID)
	if err != nil {
		return false, collaboratorErr("record_store", err)
	}

	counted := e.OverlapStatuses
	if len(counted) == 0 {
		counted = defaultOverlapStatuses
	}

	for _, r := range requests {
		if !statusIn(r.Status, counted) {
			continue
		}
		if r.Span.Overlaps(span) {
			return true, nil
		}
	}
	return false, nil
}

func statusIn(s RequestStatus, list []RequestStatus) bool {
	for _, candidate := range list {
		if s == candidate {
			return true
		}
	}
	return false
}

// =============================================================================
// REQUEST GATE
// =============================================================================

// RequestGate is the result of CanRequestNewLeave. When blocked, Reason is
// non-empty and ActiveRequests lists the blocking records for display.
type RequestGate struct {
	CanRequest     bool
	Reason         string
	ActiveRequests []LeaveRequest
}

// CanRequestNewLeave checks whether the user has any blocking state
// preventing a new submission: a pending request, or an approved request
// that has not yet ended as of 'now'. Independent of leave type.
func (e *Engine) CanRequestNewLeave(ctx context.Context, workspaceID string, userID UserID, now calendar.TimePoint) (*RequestGate, error) {
	requests, err := e.Records.RequestsByUser(ctx, workspaceID, userID)
	if err != nil {
		return nil, collaboratorErr("record_store", err)
	}

	var active []LeaveRequest
	for _, r := range requests {
		if r.IsActive(now) {
			active = append(active, r)
		}
	}

	if len(active) == 0 {
		return &RequestGate{CanRequest: true}, nil
	}

	reason := fmt.Sprintf("you have %d active leave request(s); wait until they are resolved or completed", len(active))
	return &RequestGate{CanRequest: false, Reason: reason, ActiveRequests: active}, nil
}

// =============================================================================
// ELIGIBLE LEAVE TYPES
// =============================================================================

// EligibleLeaveTypes filters the workspace's catalog to the types the user
// may request as of 'now':
//  1. the gender restriction admits the user,
//  2. no approved request of the type falls inside the rolling
//     FrequencyYears window (only checked when FrequencyYears > 1),
//  3. remaining balance > 0, unless the type allows negative balance.
//
// Catalog order is preserved.
func (e *Engine) EligibleLeaveTypes(ctx context.Context, workspaceID string, userID UserID, now calendar.TimePoint) ([]LeaveType, error) {
	u, err := e.user(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	types, err := e.Types.LeaveTypes(ctx, workspaceID)
	if err != nil {
		return nil, collaboratorErr("type_catalog", err)
	}

	var eligible []LeaveType
	for _, lt := range types {
		if !lt.AppliesTo(u) {
			continue
		}

		if lt.FrequencyYears > 1 {
			windowStart := now.AddYears(-lt.FrequencyYears)
			taken, err := e.Records.HasApprovedSince(ctx, workspaceID, userID, lt.ID, windowStart)
			if err != nil {
				return nil, collaboratorErr("record_store", err)
			}
			if taken {
				continue
			}
		}

		if !lt.AllowNegativeBalance {
			remaining, err := e.RemainingDays(ctx, workspaceID, userID, lt.ID, now)
			if err != nil {
				return nil, err
			}
			if remaining <= 0 {
				continue
			}
		}

		eligible = append(eligible, lt)
	}
	return eligible, nil
}

// =============================================================================
// MINIMUM NOTICE
// =============================================================================

// MinimumNoticeSatisfied reports whether a request starting on
// requestedStart gives the type's required advance notice relative to
// 'now'. A zero-notice type is always satisfied. Pure date arithmetic;
// no collaborator reads.
func MinimumNoticeSatisfied(lt LeaveType, requestedStart, now calendar.TimePoint) bool {
	if lt.MinimumNoticeDays == 0 {
		return true
	}
	earliest := now.AddDays(lt.MinimumNoticeDays)
	return requestedStart.AfterOrEqual(earliest)
}
