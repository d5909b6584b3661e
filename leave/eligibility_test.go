package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/warp/leave-engine/calendar"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// OVERLAP
// =============================================================================

func TestHasOverlappingLeave_IntersectingRanges(t *testing.T) {
	// GIVEN: An approved request Mar 1 - Mar 5
	// WHEN: Checking Mar 4 - Mar 8
	// THEN: Overlap is detected

	engine, mem := newFixture(annualType(15))
	mem.AddRequest(approved("req-1", "annual",
		day(2025, time.March, 1), day(2025, time.March, 5), day(2025, time.February, 1)))

	overlaps, err := engine.HasOverlappingLeave(context.Background(), ws, "emp-1",
		span(day(2025, time.March, 4), day(2025, time.March, 8)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !overlaps {
		t.Error("expected overlap to be detected")
	}
}

func TestHasOverlappingLeave_RejectedAndCancelled_NotCounted(t *testing.T) {
	// GIVEN: A rejected and a cancelled request covering the span
	// WHEN: Checking the same span with default statuses
	// THEN: No overlap - only pending and approved block a range

	engine, mem := newFixture(annualType(15))

	rejected := approved("req-1", "annual",
		day(2025, time.March, 1), day(2025, time.March, 5), day(2025, time.February, 1))
	rejected.Status = leave.StatusRejected
	mem.AddRequest(rejected)

	cancelled := approved("req-2", "annual",
		day(2025, time.March, 3), day(2025, time.March, 6), day(2025, time.February, 1))
	cancelled.Status = leave.StatusCancelled
	mem.AddRequest(cancelled)

	overlaps, err := engine.HasOverlappingLeave(context.Background(), ws, "emp-1",
		span(day(2025, time.March, 2), day(2025, time.March, 4)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overlaps {
		t.Error("rejected/cancelled requests should not block the range")
	}
}

func TestHasOverlappingLeave_ConfigurableStatuses(t *testing.T) {
	// GIVEN: OverlapStatuses widened to count cancelled requests too
	engine, mem := newFixture(annualType(15))
	engine.OverlapStatuses = []leave.RequestStatus{
		leave.StatusPending, leave.StatusApproved, leave.StatusCancelled,
	}

	cancelled := approved("req-1", "annual",
		day(2025, time.March, 3), day(2025, time.March, 6), day(2025, time.February, 1))
	cancelled.Status = leave.StatusCancelled
	mem.AddRequest(cancelled)

	overlaps, err := engine.HasOverlappingLeave(context.Background(), ws, "emp-1",
		span(day(2025, time.March, 2), day(2025, time.March, 4)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !overlaps {
		t.Error("expected widened statuses to count the cancelled request")
	}
}

func TestHasOverlappingLeave_InvalidRange(t *testing.T) {
	engine, _ := newFixture(annualType(15))

	_, err := engine.HasOverlappingLeave(context.Background(), ws, "emp-1",
		span(day(2025, time.March, 8), day(2025, time.March, 4)))
	if !errors.Is(err, leave.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

// =============================================================================
// REQUEST GATE
// =============================================================================

func TestCanRequestNewLeave_NoActiveRequests_Allowed(t *testing.T) {
	engine, mem := newFixture(annualType(15))

	// A completed approved request and a rejected one - neither blocks.
	past := approved("req-1", "annual",
		day(2025, time.February, 3), day(2025, time.February, 7), day(2025, time.January, 15))
	mem.AddRequest(past)
	rejected := approved("req-2", "annual",
		day(2025, time.May, 5), day(2025, time.May, 9), day(2025, time.April, 1))
	rejected.Status = leave.StatusRejected
	mem.AddRequest(rejected)

	gate, err := engine.CanRequestNewLeave(context.Background(), ws, "emp-1", day(2025, time.June, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gate.CanRequest {
		t.Errorf("expected request to be allowed, got reason %q", gate.Reason)
	}
	if len(gate.ActiveRequests) != 0 {
		t.Errorf("expected no active requests, got %d", len(gate.ActiveRequests))
	}
}

func TestCanRequestNewLeave_PendingRequest_Blocked(t *testing.T) {
	// GIVEN: A pending request for next month
	// WHEN: Gating a new submission
	// THEN: Blocked with a non-empty reason and the request listed

	engine, mem := newFixture(annualType(15))
	pending := approved("req-1", "annual",
		day(2025, time.July, 7), day(2025, time.July, 11), day(2025, time.June, 1))
	pending.Status = leave.StatusPending
	mem.AddRequest(pending)

	gate, err := engine.CanRequestNewLeave(context.Background(), ws, "emp-1", day(2025, time.June, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gate.CanRequest {
		t.Error("expected pending request to block new submissions")
	}
	if gate.Reason == "" {
		t.Error("expected a non-empty reason when blocked")
	}
	if len(gate.ActiveRequests) != 1 {
		t.Errorf("expected 1 active request, got %d", len(gate.ActiveRequests))
	}
}

func TestCanRequestNewLeave_OngoingApprovedRequest_Blocked(t *testing.T) {
	// GIVEN: An approved request still in progress as of 'now'
	engine, mem := newFixture(annualType(15))
	mem.AddRequest(approved("req-1", "annual",
		day(2025, time.June, 9), day(2025, time.June, 20), day(2025, time.May, 1)))

	gate, err := engine.CanRequestNewLeave(context.Background(), ws, "emp-1", day(2025, time.June, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gate.CanRequest {
		t.Error("expected ongoing approved request to block new submissions")
	}
}

// =============================================================================
// ELIGIBLE LEAVE TYPES
// =============================================================================

func maternityType() leave.LeaveType {
	lt := annualType(90)
	lt.ID = "maternity"
	lt.Name = "Maternity Leave"
	lt.GenderSpecific = true
	lt.Gender = leave.GenderFemale
	lt.FrequencyYears = 2
	return lt
}

func TestEligibleLeaveTypes_GenderRestriction(t *testing.T) {
	// GIVEN: A female-only type and a male user
	// WHEN: Listing eligible types
	// THEN: The gender-specific type is excluded

	engine, _ := newFixture(annualType(15), maternityType())

	types, err := engine.EligibleLeaveTypes(context.Background(), ws, "emp-1", day(2025, time.June, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(types) != 1 || types[0].ID != "annual" {
		t.Errorf("expected only annual to be eligible, got %v", typeIDs(types))
	}
}

func TestEligibleLeaveTypes_FrequencyWindow(t *testing.T) {
	// GIVEN: frequency_years=3; an approved request created 2 years ago
	// WHEN: Listing eligible types as of 2025-06-15
	// THEN: The type is excluded (rolling window); with the request dated
	//       4 years ago instead, it is included

	hajj := annualType(20)
	hajj.ID = "pilgrimage"
	hajj.Name = "Pilgrimage Leave"
	hajj.FrequencyYears = 3

	now := day(2025, time.June, 15)
	ctx := context.Background()

	engine, mem := newFixture(annualType(15), hajj)
	mem.AddRequest(approved("req-1", "pilgrimage",
		day(2023, time.July, 3), day(2023, time.July, 21), day(2023, time.June, 15)))

	types, err := engine.EligibleLeaveTypes(ctx, ws, "emp-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if containsType(types, "pilgrimage") {
		t.Error("expected pilgrimage to be excluded inside the frequency window")
	}

	engine2, mem2 := newFixture(annualType(15), hajj)
	mem2.AddRequest(approved("req-1", "pilgrimage",
		day(2021, time.July, 5), day(2021, time.July, 23), day(2021, time.June, 15)))

	types, err = engine2.EligibleLeaveTypes(ctx, ws, "emp-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsType(types, "pilgrimage") {
		t.Error("expected pilgrimage to be eligible outside the frequency window")
	}
}

func TestEligibleLeaveTypes_ExhaustedBalance_Excluded(t *testing.T) {
	// GIVEN: Allowance fully consumed, no negative balance allowed
	engine, mem := newFixture(annualType(5))
	mem.AddRequest(approved("req-1", "annual",
		day(2025, time.June, 2), day(2025, time.June, 6), day(2025, time.May, 1)))

	types, err := engine.EligibleLeaveTypes(context.Background(), ws, "emp-1", day(2025, time.July, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if containsType(types, "annual") {
		t.Error("expected exhausted type to be excluded")
	}
}

func TestEligibleLeaveTypes_ExhaustedButNegativeAllowed_Included(t *testing.T) {
	lt := annualType(5)
	lt.AllowNegativeBalance = true
	engine, mem := newFixture(lt)
	mem.AddRequest(approved("req-1", "annual",
		day(2025, time.June, 2), day(2025, time.June, 6), day(2025, time.May, 1)))

	types, err := engine.EligibleLeaveTypes(context.Background(), ws, "emp-1", day(2025, time.July, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsType(types, "annual") {
		t.Error("expected negative-balance type to stay eligible when exhausted")
	}
}

func TestEligibleLeaveTypes_PreservesCatalogOrder(t *testing.T) {
	sick := annualType(10)
	sick.ID = "sick"
	sick.Name = "Sick Leave"

	bereavement := annualType(5)
	bereavement.ID = "bereavement"
	bereavement.Name = "Bereavement Leave"

	engine, _ := newFixture(annualType(15), sick, bereavement)

	types, err := engine.EligibleLeaveTypes(context.Background(), ws, "emp-1", day(2025, time.June, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := typeIDs(types)
	want := []leave.LeaveTypeID{"annual", "sick", "bereavement"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("expected catalog order %v, got %v", want, got)
		}
	}
}

func TestEligibleLeaveTypes_UnknownUser_NotFound(t *testing.T) {
	engine, _ := newFixture(annualType(15))

	_, err := engine.EligibleLeaveTypes(context.Background(), ws, "ghost", day(2025, time.June, 1))
	if !errors.Is(err, leave.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func typeIDs(types []leave.LeaveType) []leave.LeaveTypeID {
	ids := make([]leave.LeaveTypeID, len(types))
	for i, lt := range types {
		ids[i] = lt.ID
	}
	return ids
}

func containsType(types []leave.LeaveType, id leave.LeaveTypeID) bool {
	for _, lt := range types {
		if lt.ID == id {
			return true
		}
	}
	return false
}

// =============================================================================
// MINIMUM NOTICE
// =============================================================================

func TestMinimumNoticeSatisfied(t *testing.T) {
	now := day(2025, time.June, 1)

	cases := []struct {
		name       string
		noticeDays int
		start      calendar.TimePoint
		want       bool
	}{
		{"zero notice always satisfied", 0, now, true},
		{"exactly at boundary", 14, day(2025, time.June, 15), true},
		{"one day short", 14, day(2025, time.June, 14), false},
		{"well ahead", 14, day(2025, time.July, 10), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lt := annualType(15)
			lt.MinimumNoticeDays = tc.noticeDays
			if got := leave.MinimumNoticeSatisfied(lt, tc.start, now); got != tc.want {
				t.Errorf("MinimumNoticeSatisfied(%d, %s) = %v, want %v",
					tc.noticeDays, tc.start, got, tc.want)
			}
		})
	}
}
