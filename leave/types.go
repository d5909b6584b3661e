/*
Package leave provides the leave-balance and eligibility engine.

PURPOSE:
  Computes working-day counts, used/remaining balances, and eligibility
  gates for leave requests in a multi-tenant HR system. The engine is a
  library: it owns no storage and no HTTP surface. All reads go through
  four collaborator contracts (leave-type catalog, user directory,
  leave-record store, holiday calendar) supplied at construction.

KEY CONCEPTS IN THIS FILE (types.go):
  - LeaveType: A category of absence with its annual allowance and rules
  - User: The subject of balance queries (gender filters leave types)
  - LeaveRequest: A dated absence interval with an approval status
  - Collaborator interfaces the engine reads through

DESIGN PRINCIPLES:
  1. Explicit context: every operation takes ctx, workspace ID, and "now"
     as parameters - no ambient tenant or clock state
  2. Outcomes over errors: a denied request is a result, not an error
  3. Read-only: the engine never mutates request status or balances

SEE ALSO:
  - engine.go: Balance operations (working days, used, remaining)
  - eligibility.go: Gender, frequency, notice, and overlap gates
  - errors.go: NotFound / collaborator failure semantics
  - factory/catalog.go: Validated construction of LeaveType values
*/
package leave

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/calendar"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type LeaveTypeID string
type UserID string
type RequestID string

// =============================================================================
// GENDER
// =============================================================================

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	// GenderAny is only valid on a LeaveType restriction, never on a User.
	GenderAny Gender = "any"
)

// =============================================================================
// LEAVE TYPE - A category of absence and its rules
// =============================================================================

// LeaveType is a validated configuration record. Construct through
// factory.NewLeaveType (or set fields and call Validate) so that defaults
// and bounds are enforced once, not at every use-site.
type LeaveType struct {
	ID          LeaveTypeID
	WorkspaceID string
	Name        string

	// Annual allowance in working days. Zero is legal (e.g. unpaid types
	// tracked only for overlap purposes).
	MaxDaysPerYear int

	// Whether requests of this type need supporting documents attached.
	// The engine carries the flag; enforcement belongs to the caller.
	RequiresDocumentation bool

	// Gender restriction. When GenderSpecific is false, Gender is GenderAny.
	GenderSpecific bool
	Gender         Gender

	// Minimum gap in years between approved requests of this type.
	// 1 = no cooldown beyond the annual allowance. The window is rolling,
	// anchored on request creation time, not calendar years.
	FrequencyYears int

	// Pay rate for days of this type, 0-100.
	PayPercentage decimal.Decimal

	// Days of advance notice a request must give. 0 = none required.
	MinimumNoticeDays int

	// Whether a new request may exceed the remaining balance. Reported
	// remaining days are floored at zero regardless.
	AllowNegativeBalance bool
}

// Validate checks bounds and applies defaults (FrequencyYears 1,
// Gender "any" for unrestricted types).
func (lt *LeaveType) Validate() error {
	if lt.ID == "" {
		return fmt.Errorf("leave type: missing id")
	}
	if lt.MaxDaysPerYear < 0 {
		return fmt.Errorf("leave type %s: max_days_per_year must be >= 0", lt.ID)
	}
	if lt.MinimumNoticeDays < 0 {
		return fmt.Errorf("leave type %s: minimum_notice_days must be >= 0", lt.ID)
	}
	if lt.FrequencyYears == 0 {
		lt.FrequencyYears = 1
	}
	if lt.FrequencyYears < 1 {
		return fmt.Errorf("leave type %s: frequency_years must be >= 1", lt.ID)
	}
	if lt.PayPercentage.IsNegative() || lt.PayPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("leave type %s: pay_percentage must be within 0-100", lt.ID)
	}
	if !lt.GenderSpecific {
		lt.Gender = GenderAny
	}
	switch lt.Gender {
	case GenderMale, GenderFemale, GenderAny:
	case "":
		lt.Gender = GenderAny
	default:
		return fmt.Errorf("leave type %s: unknown gender %q", lt.ID, lt.Gender)
	}
	return nil
}

// AppliesTo returns true if the type's gender restriction admits the user.
func (lt LeaveType) AppliesTo(u User) bool {
	if !lt.GenderSpecific || lt.Gender == GenderAny {
		return true
	}
	return lt.Gender == u.Gender
}

// =============================================================================
// USER
// =============================================================================

type User struct {
	ID          UserID
	WorkspaceID string
	Name        string
	Gender      Gender
}

// =============================================================================
// LEAVE REQUEST - A dated absence interval
// =============================================================================

type RequestStatus string

const (
	StatusPending     RequestStatus = "pending"
	StatusApproved    RequestStatus = "approved"
	StatusRejected    RequestStatus = "rejected"
	StatusCancelled   RequestStatus = "cancelled"
	StatusRescheduled RequestStatus = "rescheduled"
)

// LeaveRequest is the record shape the engine reads. Both Start and End are
// inclusive; End >= Start. Only approved requests count toward used days.
type LeaveRequest struct {
	ID          RequestID
	WorkspaceID string
	UserID      UserID
	LeaveTypeID LeaveTypeID
	Span        calendar.Period
	Status      RequestStatus
	Reason      string
	CreatedAt   calendar.TimePoint
}

// IsActive reports whether the request should block new submissions:
// pending, or approved and not yet ended as of 'today'.
func (r LeaveRequest) IsActive(today calendar.TimePoint) bool {
	switch r.Status {
	case StatusPending:
		return true
	case StatusApproved:
		return r.Span.End.AfterOrEqual(today)
	default:
		return false
	}
}

// =============================================================================
// COLLABORATOR CONTRACTS - All engine reads go through these
// =============================================================================

// TypeCatalog resolves leave-type configuration for a workspace.
type TypeCatalog interface {
	// LeaveType returns the type or ErrLeaveTypeNotFound.
	LeaveType(ctx context.Context, workspaceID string, id LeaveTypeID) (LeaveType, error)

	// LeaveTypes lists the workspace's types in stable (insertion) order.
	LeaveTypes(ctx context.Context, workspaceID string) ([]LeaveType, error)
}

// Directory resolves users within a workspace.
type Directory interface {
	// User returns the user or ErrUserNotFound.
	User(ctx context.Context, workspaceID string, id UserID) (User, error)
}

// RecordStore supplies past and pending leave requests for accounting.
type RecordStore interface {
	// ApprovedIntervals returns the spans of approved requests for
	// (user, type) whose start date falls in the given year.
	ApprovedIntervals(ctx context.Context, workspaceID string, userID UserID, typeID LeaveTypeID, year int) ([]calendar.Period, error)

	// RequestsByUser returns every request for the user, any status,
	// ordered by start date.
	RequestsByUser(ctx context.Context, workspaceID string, userID UserID) ([]LeaveRequest, error)

	// HasApprovedSince reports whether an approved request of the type
	// exists with creation time on or after 'since'. Used for rolling
	// frequency windows.
	HasApprovedSince(ctx context.Context, workspaceID string, userID UserID, typeID LeaveTypeID, since calendar.TimePoint) (bool, error)
}
