// Package model defines the core domain models used throughout the application.
package model

import "strings"

// FilingStatus is the federal filing category of a return.
type FilingStatus string

// Filing status constants.
const (
	Single                  FilingStatus = "single"
	MarriedFilingJointly    FilingStatus = "married_joint"
	MarriedFilingSeparately FilingStatus = "married_separate"
	HeadOfHousehold         FilingStatus = "head_of_household"
)

// FilingStatuses lists every filing status in display order.
func FilingStatuses() []FilingStatus {
	return []FilingStatus{Single, MarriedFilingJointly, MarriedFilingSeparately, HeadOfHousehold}
}

// IsValid reports whether s is one of the known filing statuses.
func (s FilingStatus) IsValid() bool {
	switch s {
	case Single, MarriedFilingJointly, MarriedFilingSeparately, HeadOfHousehold:
		return true
	}
	return false
}

// Label returns a human readable name.
func (s FilingStatus) Label() string {
	switch s {
	case Single:
		return "Single"
	case MarriedFilingJointly:
		return "Married filing jointly"
	case MarriedFilingSeparately:
		return "Married filing separately"
	case HeadOfHousehold:
		return "Head of household"
	default:
		return string(s)
	}
}

// ParseFilingStatus accepts the canonical names plus the common short forms
// (mfj, mfs, hoh) and dashed spellings.
func ParseFilingStatus(raw string) (FilingStatus, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	switch key {
	case "single", "s":
		return Single, true
	case "married_joint", "married_jointly", "mfj", "joint":
		return MarriedFilingJointly, true
	case "married_separate", "married_separately", "mfs", "separate":
		return MarriedFilingSeparately, true
	case "head_of_household", "hoh", "head":
		return HeadOfHousehold, true
	}
	return FilingStatus(raw), false
}

// PayFrequency is how often an employee is paid.
type PayFrequency string

// Pay frequency constants.
const (
	Weekly      PayFrequency = "weekly"
	Biweekly    PayFrequency = "biweekly"
	Semimonthly PayFrequency = "semimonthly"
	Monthly     PayFrequency = "monthly"
)

// PayFrequencies lists every supported pay frequency.
func PayFrequencies() []PayFrequency {
	return []PayFrequency{Weekly, Biweekly, Semimonthly, Monthly}
}

// Periods returns the number of paychecks per year, or 0 for an unknown frequency.
func (f PayFrequency) Periods() int {
	switch f {
	case Weekly:
		return 52
	case Biweekly:
		return 26
	case Semimonthly:
		return 24
	case Monthly:
		return 12
	}
	return 0
}

// IsValid reports whether f is a supported pay frequency.
func (f PayFrequency) IsValid() bool {
	return f.Periods() > 0
}
