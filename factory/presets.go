/*
presets.go - Ready-made leave-type catalogs

PURPOSE:
  Convenience constructors for common HR setups, in the spirit of the
  declarative specs in catalog.go. These are starting points; real
  workspaces usually tune allowances and notice periods.

AVAILABLE PRESETS:
  StandardCatalog: Annual, Sick, Maternity, Paternity, Bereavement, Unpaid

SEE ALSO:
  - catalog.go: FromFile / NewLeaveType
*/
package factory

import "github.com/warp/leave-engine/leave"

// StandardCatalog returns a typical small-company leave catalog for the
// workspace. Maternity and paternity are gender-specific with a two-year
// frequency window; sick leave allows dipping below zero.
func StandardCatalog(workspaceID string) (*Catalog, error) {
	two := 2
	unpaid := 0.0

	return FromFile(CatalogFile{
		Workspace: workspaceID,
		LeaveTypes: []LeaveTypeSpec{
			{
				ID:             "annual",
				Name:           "Annual Leave",
				MaxDaysPerYear: 15,
			},
			{
				ID:                   "sick",
				Name:                 "Sick Leave",
				MaxDaysPerYear:       10,
				AllowNegativeBalance: true,
			},
			{
				ID:                    "maternity",
				Name:                  "Maternity Leave",
				MaxDaysPerYear:        90,
				Gender:                string(leave.GenderFemale),
				FrequencyYears:        &two,
				MinimumNoticeDays:     30,
				RequiresDocumentation: true,
			},
			{
				ID:                "paternity",
				Name:              "Paternity Leave",
				MaxDaysPerYear:    10,
				Gender:            string(leave.GenderMale),
				FrequencyYears:    &two,
				MinimumNoticeDays: 14,
			},
			{
				ID:             "bereavement",
				Name:           "Bereavement Leave",
				MaxDaysPerYear: 5,
			},
			{
				ID:             "unpaid",
				Name:           "Unpaid Leave",
				MaxDaysPerYear: 30,
				PayPercentage:  &unpaid,
			},
		},
	})
}
