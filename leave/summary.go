/*
summary.go - Per-type balance summary for dashboards and reports

PURPOSE:
  Dashboard and report rendering needs used/remaining per leave type in
  one read. BalanceSummary walks the catalog and reuses the same
  UsedDays/RemainingDays arithmetic as the submission path, so the two
  views can never disagree.

PAID-DAY EQUIVALENT:
  Each type carries a pay percentage (0-100). The summary reports
  remaining x percentage / 100 as a decimal so partial-pay types
  (e.g. 50% sick leave extensions) display without float drift.
*/
package leave

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/calendar"
)

// TypeBalance is one row of a user's balance summary.
type TypeBalance struct {
	Type      LeaveType
	Allowance int
	Used      int
	Remaining int

	// Remaining working days weighted by the type's pay percentage.
	PaidDayEquivalent decimal.Decimal

	// Whether the type is currently requestable by this user (same rules
	// as EligibleLeaveTypes).
	Eligible bool
}

// BalanceSummary computes one TypeBalance per catalog entry, in catalog
// order. Types the user cannot request (gender, frequency) still appear
// with Eligible=false so dashboards can render the full picture.
func (e *Engine) BalanceSummary(ctx context.Context, workspaceID string, userID UserID, now calendar.TimePoint) ([]TypeBalance, error) {
	types, err := e.Types.LeaveTypes(ctx, workspaceID)
	if err != nil {
		return nil, collaboratorErr("type_catalog", err)
	}

	eligible, err := e.EligibleLeaveTypes(ctx, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	eligibleIDs := make(map[LeaveTypeID]bool, len(eligible))
	for _, lt := range eligible {
		eligibleIDs[lt.ID] = true
	}

	hundred := decimal.NewFromInt(100)

	var rows []TypeBalance
	for _, lt := range types {
		used, err := e.UsedDays(ctx, workspaceID, userID, lt.ID, now.Year())
		if err != nil {
			return nil, err
		}

		remaining := lt.MaxDaysPerYear - used
		if remaining < 0 {
			remaining = 0
		}

		paid := decimal.NewFromInt(int64(remaining)).Mul(lt.PayPercentage).Div(hundred)

		rows = append(rows, TypeBalance{
			Type:              lt,
			Allowance:         lt.MaxDaysPerYear,
			Used:              used,
			Remaining:         remaining,
			PaidDayEquivalent: paid,
			Eligible:          eligibleIDs[lt.ID],
		})
	}
	return rows, nil
}
