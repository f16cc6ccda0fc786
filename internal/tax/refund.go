package tax

import (
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/shopspring/decimal"
)

// EstimateRefund computes income tax for in and compares it with the amount
// already withheld. The greater of the declared deductions and the standard
// deduction is always applied.
func (c *Calculator) EstimateRefund(in model.TaxInput) (model.TaxResult, error) {
	if err := ValidateTaxInput(in); err != nil {
		return model.TaxResult{}, err
	}
	year, err := c.yearFor(in.TaxYear)
	if err != nil {
		return model.TaxResult{}, err
	}
	return estimate(year, in)
}

// StandardDeduction returns the standard deduction for a status and year.
func (c *Calculator) StandardDeduction(taxYear int, status model.FilingStatus) (decimal.Decimal, error) {
	if err := ValidateTaxInput(model.TaxInput{FilingStatus: status}); err != nil {
		return decimal.Zero, err
	}
	year, err := c.yearFor(taxYear)
	if err != nil {
		return decimal.Zero, err
	}
	return year.StandardDeduction[status], nil
}

// estimate assumes in has been validated.
func estimate(year *model.YearTable, in model.TaxInput) (model.TaxResult, error) {
	table, err := year.BracketsFor(in.FilingStatus)
	if err != nil {
		return model.TaxResult{}, err
	}

	deduction := decimal.Max(in.Deductions, year.StandardDeduction[in.FilingStatus])
	// Deductions larger than income clamp taxable income to zero.
	taxable := decimal.Max(decimal.Zero, in.Income.Sub(deduction))

	gross, marginal, err := ApplyBrackets(taxable, table)
	if err != nil {
		return model.TaxResult{}, err
	}
	gross = cents(gross)

	total := decimal.Max(decimal.Zero, gross.Sub(in.Credits))

	return model.TaxResult{
		TaxYear:          year.Year,
		TaxableIncome:    cents(taxable),
		DeductionApplied: deduction,
		GrossTax:         gross,
		TotalTax:         total,
		EffectiveRate:    ratio(total, in.Income),
		MarginalRate:     marginal,
		RefundOrOwed:     cents(in.Withheld.Sub(total)),
	}, nil
}
