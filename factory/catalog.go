/*
Package factory provides JSON/YAML to Go leave-type conversion.

PURPOSE:
  Converts declarative leave-type definitions into validated
  leave.LeaveType values. This enables catalog configuration without code
  changes - HR can define leave types in a YAML file, and the factory
  applies defaults and validates at construction, never at use-site.

WHY CONFIG FILES?
  - Non-developers can modify the catalog
  - Easy integration with admin tooling
  - Version control for leave-type definitions
  - Database seeding from one source of truth

YAML SCHEMA:
  workspace: acme
  leave_types:
    - id: annual
      name: Annual Leave
      max_days_per_year: 15
      pay_percentage: 100
    - id: maternity
      name: Maternity Leave
      max_days_per_year: 90
      gender: female
      frequency_years: 2
      minimum_notice_days: 30

DEFAULTS:
  frequency_years: 1, minimum_notice_days: 0, pay_percentage: 100,
  gender: any (setting gender to male/female implies gender_specific).

USAGE:
  catalog, err := factory.ParseCatalogYAML(data)
  for i, lt := range catalog.Types {
      store.SaveLeaveType(ctx, lt, i)
  }

SEE ALSO:
  - leave/types.go: LeaveType.Validate
  - presets.go: Ready-made catalogs for common HR setups
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/leave"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// CatalogFile is the top-level document: one workspace, its leave types.
type CatalogFile struct {
	Workspace  string          `json:"workspace" yaml:"workspace"`
	LeaveTypes []LeaveTypeSpec `json:"leave_types" yaml:"leave_types"`
}

// LeaveTypeSpec is the declarative form of a leave type. Pointer fields
// distinguish "absent" from zero so defaults can be applied.
type LeaveTypeSpec struct {
	ID                    string   `json:"id" yaml:"id"`
	Name                  string   `json:"name" yaml:"name"`
	MaxDaysPerYear        int      `json:"max_days_per_year" yaml:"max_days_per_year"`
	RequiresDocumentation bool     `json:"requires_documentation,omitempty" yaml:"requires_documentation,omitempty"`
	Gender                string   `json:"gender,omitempty" yaml:"gender,omitempty"`
	FrequencyYears        *int     `json:"frequency_years,omitempty" yaml:"frequency_years,omitempty"`
	PayPercentage         *float64 `json:"pay_percentage,omitempty" yaml:"pay_percentage,omitempty"`
	MinimumNoticeDays     int      `json:"minimum_notice_days,omitempty" yaml:"minimum_notice_days,omitempty"`
	AllowNegativeBalance  bool     `json:"allow_negative_balance,omitempty" yaml:"allow_negative_balance,omitempty"`
}

// Catalog is the validated result of a parse.
type Catalog struct {
	Workspace string
	Types     []leave.LeaveType
}

// =============================================================================
// PARSING
// =============================================================================

// ParseCatalogYAML parses and validates a YAML catalog document.
func ParseCatalogYAML(data []byte) (*Catalog, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return FromFile(file)
}

// ParseCatalogJSON parses and validates a JSON catalog document.
func ParseCatalogJSON(data []byte) (*Catalog, error) {
	var file CatalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	return FromFile(file)
}

// FromFile converts a CatalogFile to validated leave types, preserving
// document order. Fails on the first invalid entry, naming it.
func FromFile(file CatalogFile) (*Catalog, error) {
	if file.Workspace == "" {
		return nil, fmt.Errorf("catalog: missing workspace")
	}

	seen := make(map[string]bool, len(file.LeaveTypes))
	types := make([]leave.LeaveType, 0, len(file.LeaveTypes))
	for _, spec := range file.LeaveTypes {
		if seen[spec.ID] {
			return nil, fmt.Errorf("catalog: duplicate leave type id %q", spec.ID)
		}
		seen[spec.ID] = true

		lt, err := NewLeaveType(file.Workspace, spec)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}

	return &Catalog{Workspace: file.Workspace, Types: types}, nil
}

// NewLeaveType builds one validated leave type from its spec.
func NewLeaveType(workspaceID string, spec LeaveTypeSpec) (leave.LeaveType, error) {
	lt := leave.LeaveType{
		ID:                    leave.LeaveTypeID(spec.ID),
		WorkspaceID:           workspaceID,
		Name:                  spec.Name,
		MaxDaysPerYear:        spec.MaxDaysPerYear,
		RequiresDocumentation: spec.RequiresDocumentation,
		MinimumNoticeDays:     spec.MinimumNoticeDays,
		AllowNegativeBalance:  spec.AllowNegativeBalance,
	}

	// A concrete gender in the spec implies a gender-specific type.
	switch spec.Gender {
	case "", string(leave.GenderAny):
		lt.Gender = leave.GenderAny
	case string(leave.GenderMale), string(leave.GenderFemale):
		lt.GenderSpecific = true
		lt.Gender = leave.Gender(spec.Gender)
	default:
		return leave.LeaveType{}, fmt.Errorf("leave type %s: unknown gender %q", spec.ID, spec.Gender)
	}

	lt.FrequencyYears = 1
	if spec.FrequencyYears != nil {
		lt.FrequencyYears = *spec.FrequencyYears
	}

	lt.PayPercentage = decimal.NewFromInt(100)
	if spec.PayPercentage != nil {
		lt.PayPercentage = decimal.NewFromFloat(*spec.PayPercentage)
	}

	if err := lt.Validate(); err != nil {
		return leave.LeaveType{}, err
	}
	return lt, nil
}
