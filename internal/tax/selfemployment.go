package tax

import (
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/shopspring/decimal"
)

// Statutory self-employment rates.
var (
	NetEarningsFactor      = decimal.RequireFromString("0.9235")
	SocialSecurityRate     = decimal.RequireFromString("0.124")
	MedicareRate           = decimal.RequireFromString("0.029")
	AdditionalMedicareRate = decimal.RequireFromString("0.009")
)

// SelfEmployment computes Social Security and Medicare tax on net business
// profit, folds half of it back as an above-the-line deduction, runs the
// refund estimator for income tax and splits the combined liability into four
// estimated payments. The Income field is treated as W-2 wages when testing
// the additional Medicare threshold.
func (c *Calculator) SelfEmployment(in model.SelfEmploymentInput) (model.SelfEmploymentResult, error) {
	if err := ValidateSelfEmploymentInput(in); err != nil {
		return model.SelfEmploymentResult{}, err
	}
	year, err := c.yearFor(in.TaxYear)
	if err != nil {
		return model.SelfEmploymentResult{}, err
	}

	netEarnings := in.NetProfit.Mul(NetEarningsFactor)
	socialSecurity := decimal.Min(netEarnings, year.SocialSecurityWageBase).Mul(SocialSecurityRate)
	medicare := netEarnings.Mul(MedicareRate)

	threshold := year.AdditionalMedicareThreshold[in.FilingStatus]
	excess := decimal.Max(decimal.Zero, in.Income.Add(netEarnings).Sub(threshold))
	surtax := decimal.Min(excess, netEarnings).Mul(AdditionalMedicareRate)

	seTax := cents(socialSecurity.Add(medicare).Add(surtax))
	agiDeduction := cents(seTax.Div(two))

	ordinary := in.TaxInput
	ordinary.Income = in.Income.Add(in.NetProfit).Sub(agiDeduction)
	incomeTax, err := estimate(year, ordinary)
	if err != nil {
		return model.SelfEmploymentResult{}, err
	}

	total := seTax.Add(incomeTax.TotalTax)
	parts := splitEvenly(total, 4)

	return model.SelfEmploymentResult{
		NetEarnings:        cents(netEarnings),
		SocialSecurity:     cents(socialSecurity),
		Medicare:           cents(medicare),
		AdditionalMedicare: cents(surtax),
		SelfEmploymentTax:  seTax,
		AGIDeduction:       agiDeduction,
		IncomeTax:          incomeTax,
		TotalLiability:     total,
		EffectiveRate:      ratio(total, in.Income.Add(in.NetProfit)),
		Quarterly:          [4]decimal.Decimal{parts[0], parts[1], parts[2], parts[3]},
	}, nil
}
