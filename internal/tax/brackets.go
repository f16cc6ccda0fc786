// Package tax implements the federal estimators: the progressive bracket
// engine and the refund, self-employment and withholding calculators built on
// it. Everything here is pure and safe for concurrent use.
package tax

import (
	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/shopspring/decimal"
)

// ApplyBrackets returns the tax owed on taxable income under table and the
// marginal rate of the bracket holding the last dollar. Income sitting exactly
// on a threshold belongs to the higher bracket. The result is not rounded.
func ApplyBrackets(taxable decimal.Decimal, table model.BracketTable) (decimal.Decimal, decimal.Decimal, error) {
	if err := table.Validate(); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if taxable.IsNegative() {
		return decimal.Zero, decimal.Zero, common.InvalidInputf("taxable income %s is negative", taxable)
	}

	total := decimal.Zero
	for _, b := range table {
		if b.Contains(taxable) {
			total = total.Add(taxable.Sub(b.Floor).Mul(b.Rate))
			return total, b.Rate, nil
		}
		total = total.Add(b.Ceiling.Decimal.Sub(b.Floor).Mul(b.Rate))
	}

	// Unreachable for a validated table: the top bracket is unbounded.
	return total, table[len(table)-1].Rate, nil
}
