package tax

import (
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/shopspring/decimal"
)

// Withholding works out how much to withhold from each paycheck to cover the
// year's income tax, then projects the year-end refund or balance due at that
// rate. The Withheld field of the input is ignored; it is what this computes.
func (c *Calculator) Withholding(in model.WithholdingInput) (model.WithholdingResult, error) {
	if err := ValidateWithholdingInput(in); err != nil {
		return model.WithholdingResult{}, err
	}
	year, err := c.yearFor(in.TaxYear)
	if err != nil {
		return model.WithholdingResult{}, err
	}

	annual := in.TaxInput
	annual.Withheld = decimal.Zero
	liability, err := estimate(year, annual)
	if err != nil {
		return model.WithholdingResult{}, err
	}

	periods := decimal.NewFromInt(int64(in.PayFrequency.Periods()))
	basePerPaycheck := cents(liability.TotalTax.Div(periods))
	perPaycheck := basePerPaycheck.Add(cents(in.AdditionalPerPaycheck))
	annualWithholding := perPaycheck.Mul(periods)

	annual.Withheld = annualWithholding
	projected, err := estimate(year, annual)
	if err != nil {
		return model.WithholdingResult{}, err
	}

	return model.WithholdingResult{
		BasePerPaycheck:   basePerPaycheck,
		PerPaycheck:       perPaycheck,
		AnnualWithholding: annualWithholding,
		AnnualTax:         liability.TotalTax,
		Projected:         projected,
		Periods:           in.PayFrequency.Periods(),
	}, nil
}
