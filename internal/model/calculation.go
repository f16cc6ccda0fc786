package model

import "github.com/shopspring/decimal"

// TaxInput holds the figures for one refund estimate. All amounts are annual.
type TaxInput struct {
	Income       decimal.Decimal `json:"income"`
	Deductions   decimal.Decimal `json:"deductions"`
	Credits      decimal.Decimal `json:"credits"`
	Withheld     decimal.Decimal `json:"withheld"`
	FilingStatus FilingStatus    `json:"filing_status"`
	TaxYear      int             `json:"tax_year"`
}

// TaxResult is the outcome of a refund estimate. A positive RefundOrOwed is a
// refund, a negative one is a balance due.
type TaxResult struct {
	TaxableIncome    decimal.Decimal `json:"taxable_income"`
	DeductionApplied decimal.Decimal `json:"deduction_applied"`
	GrossTax         decimal.Decimal `json:"gross_tax"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	EffectiveRate    decimal.Decimal `json:"effective_rate"`
	MarginalRate     decimal.Decimal `json:"marginal_rate"`
	RefundOrOwed     decimal.Decimal `json:"refund_or_owed"`
	TaxYear          int             `json:"tax_year"`
}

// IsRefund reports whether the estimate ends in a refund.
func (r TaxResult) IsRefund() bool {
	return r.RefundOrOwed.IsPositive()
}

// SelfEmploymentInput extends TaxInput with net business profit. Income is
// treated as W-2 wages for the additional Medicare threshold.
type SelfEmploymentInput struct {
	NetProfit decimal.Decimal `json:"net_profit"`
	TaxInput
}

// SelfEmploymentResult breaks down self-employment and income tax.
type SelfEmploymentResult struct {
	NetEarnings        decimal.Decimal    `json:"net_earnings"`
	SocialSecurity     decimal.Decimal    `json:"social_security"`
	Medicare           decimal.Decimal    `json:"medicare"`
	AdditionalMedicare decimal.Decimal    `json:"additional_medicare"`
	SelfEmploymentTax  decimal.Decimal    `json:"self_employment_tax"`
	AGIDeduction       decimal.Decimal    `json:"agi_deduction"`
	TotalLiability     decimal.Decimal    `json:"total_liability"`
	EffectiveRate      decimal.Decimal    `json:"effective_rate"`
	IncomeTax          TaxResult          `json:"income_tax"`
	Quarterly          [4]decimal.Decimal `json:"quarterly"`
}

// WithholdingInput describes a paycheck withholding question.
type WithholdingInput struct {
	AdditionalPerPaycheck decimal.Decimal `json:"additional_per_paycheck"`
	PayFrequency          PayFrequency    `json:"pay_frequency"`
	TaxInput
}

// WithholdingResult reports the withholding needed per paycheck and the
// projected year-end position at that rate.
type WithholdingResult struct {
	BasePerPaycheck   decimal.Decimal `json:"base_per_paycheck"`
	PerPaycheck       decimal.Decimal `json:"per_paycheck"`
	AnnualWithholding decimal.Decimal `json:"annual_withholding"`
	AnnualTax         decimal.Decimal `json:"annual_tax"`
	Projected         TaxResult       `json:"projected"`
	Periods           int             `json:"periods"`
}
