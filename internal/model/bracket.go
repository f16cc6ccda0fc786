package model

import (
	"fmt"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/shopspring/decimal"
)

// Bracket is one marginal-rate band. Floor is inclusive, Ceiling exclusive.
// An invalid Ceiling marks the open-ended top bracket.
type Bracket struct {
	Floor   decimal.Decimal     `json:"floor"`
	Ceiling decimal.NullDecimal `json:"ceiling"`
	Rate    decimal.Decimal     `json:"rate"`
}

// Unbounded reports whether the bracket has no upper limit.
func (b Bracket) Unbounded() bool {
	return !b.Ceiling.Valid
}

// Contains reports whether amount falls inside the bracket.
func (b Bracket) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(b.Floor) {
		return false
	}
	return b.Unbounded() || amount.LessThan(b.Ceiling.Decimal)
}

// BracketStep is the compact form of a bracket: the floor and the rate that
// applies from it up to the next step's floor.
type BracketStep struct {
	Floor decimal.Decimal
	Rate  decimal.Decimal
}

// BracketTable is an ordered marginal-rate schedule.
type BracketTable []Bracket

// NewBracketTable builds a contiguous table from ascending steps. The last
// step becomes the unbounded top bracket.
func NewBracketTable(steps ...BracketStep) BracketTable {
	table := make(BracketTable, len(steps))
	for i, step := range steps {
		table[i] = Bracket{Floor: step.Floor, Rate: step.Rate}
		if i+1 < len(steps) {
			table[i].Ceiling = decimal.NewNullDecimal(steps[i+1].Floor)
		}
	}
	return table
}

// Validate checks the structural invariants of a bracket table.
func (t BracketTable) Validate() error {
	if len(t) == 0 {
		return common.InvalidTablef("no brackets")
	}
	if !t[0].Floor.IsZero() {
		return common.InvalidTablef("first bracket starts at %s, not 0", t[0].Floor)
	}

	one := decimal.NewFromInt(1)
	for i, b := range t {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return common.InvalidTablef("bracket %d rate %s outside [0, 1]", i, b.Rate)
		}

		last := i == len(t)-1
		if last {
			if !b.Unbounded() {
				return common.InvalidTablef("top bracket is capped at %s", b.Ceiling.Decimal)
			}
			continue
		}

		if b.Unbounded() {
			return common.InvalidTablef("bracket %d is unbounded but not last", i)
		}
		if !b.Ceiling.Decimal.GreaterThan(b.Floor) {
			return common.InvalidTablef("bracket %d ceiling %s not above floor %s", i, b.Ceiling.Decimal, b.Floor)
		}

		next := t[i+1]
		if !next.Floor.GreaterThan(b.Floor) {
			return common.InvalidTablef("bracket thresholds not strictly increasing at %d", i+1)
		}
		if !next.Floor.Equal(b.Ceiling.Decimal) {
			return common.InvalidTablef("gap between %s and %s", b.Ceiling.Decimal, next.Floor)
		}
		if next.Rate.LessThan(b.Rate) {
			return common.InvalidTablef("rate decreases at bracket %d", i+1)
		}
	}

	return nil
}

// YearTable holds every statutory figure needed for one tax year.
type YearTable struct {
	Brackets                    map[FilingStatus]BracketTable
	StandardDeduction           map[FilingStatus]decimal.Decimal
	AdditionalMedicareThreshold map[FilingStatus]decimal.Decimal
	SocialSecurityWageBase      decimal.Decimal
	Year                        int
}

// Validate checks that the year is complete for every filing status.
func (y *YearTable) Validate() error {
	if y == nil {
		return common.InvalidTablef("nil year table")
	}
	if y.Year <= 0 {
		return common.InvalidTablef("missing tax year")
	}
	if !y.SocialSecurityWageBase.IsPositive() {
		return common.InvalidTablef("%d: social security wage base must be positive", y.Year)
	}

	for _, status := range FilingStatuses() {
		table, ok := y.Brackets[status]
		if !ok {
			return common.InvalidTablef("%d: no brackets for %s", y.Year, status)
		}
		if err := table.Validate(); err != nil {
			return fmt.Errorf("%d %s: %w", y.Year, status, err)
		}

		deduction, ok := y.StandardDeduction[status]
		if !ok || deduction.IsNegative() {
			return common.InvalidTablef("%d: missing standard deduction for %s", y.Year, status)
		}

		threshold, ok := y.AdditionalMedicareThreshold[status]
		if !ok || !threshold.IsPositive() {
			return common.InvalidTablef("%d: missing additional medicare threshold for %s", y.Year, status)
		}
	}

	return nil
}

// BracketsFor returns the bracket table for a filing status.
func (y *YearTable) BracketsFor(status FilingStatus) (BracketTable, error) {
	table, ok := y.Brackets[status]
	if !ok {
		return nil, common.InvalidInputf("unknown filing status %q", status)
	}
	return table, nil
}
