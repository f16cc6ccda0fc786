package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EstimateKind identifies which calculator produced an estimate.
type EstimateKind string

// Estimate kind constants.
const (
	KindRefund         EstimateKind = "refund"
	KindSelfEmployment EstimateKind = "self_employment"
	KindWithholding    EstimateKind = "withholding"
)

// IsValid reports whether k is a known estimate kind.
func (k EstimateKind) IsValid() bool {
	switch k {
	case KindRefund, KindSelfEmployment, KindWithholding:
		return true
	}
	return false
}

// Estimate is a saved calculation. Input and Result hold the JSON encoding of
// the calculator's input and result types.
type Estimate struct {
	CreatedAt    time.Time       `json:"created_at"`
	ID           string          `json:"id"`
	Label        string          `json:"label,omitempty"`
	Kind         EstimateKind    `json:"kind"`
	FilingStatus FilingStatus    `json:"filing_status"`
	Input        json.RawMessage `json:"input"`
	Result       json.RawMessage `json:"result"`
	TotalTax     decimal.Decimal `json:"total_tax"`
	RefundOrOwed decimal.Decimal `json:"refund_or_owed"`
	TaxYear      int             `json:"tax_year"`
}

// RefundEstimate records a refund calculation.
func RefundEstimate(label string, in TaxInput, result TaxResult) (*Estimate, error) {
	return newEstimate(KindRefund, label, in.FilingStatus, result.TaxYear, in, result, result.TotalTax, result.RefundOrOwed)
}

// SelfEmploymentEstimate records a self-employment calculation. RefundOrOwed
// is the income-tax position only; SE tax is paid through the quarterlies.
func SelfEmploymentEstimate(label string, in SelfEmploymentInput, result SelfEmploymentResult) (*Estimate, error) {
	return newEstimate(KindSelfEmployment, label, in.FilingStatus, result.IncomeTax.TaxYear, in, result, result.TotalLiability, result.IncomeTax.RefundOrOwed)
}

// WithholdingEstimate records a withholding calculation.
func WithholdingEstimate(label string, in WithholdingInput, result WithholdingResult) (*Estimate, error) {
	return newEstimate(KindWithholding, label, in.FilingStatus, result.Projected.TaxYear, in, result, result.AnnualTax, result.Projected.RefundOrOwed)
}

func newEstimate(kind EstimateKind, label string, status FilingStatus, year int, input, result any, totalTax, refundOrOwed decimal.Decimal) (*Estimate, error) {
	rawInput, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s input: %w", kind, err)
	}
	rawResult, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", kind, err)
	}

	return &Estimate{
		Kind:         kind,
		Label:        label,
		FilingStatus: status,
		TaxYear:      year,
		Input:        rawInput,
		Result:       rawResult,
		TotalTax:     totalTax,
		RefundOrOwed: refundOrOwed,
	}, nil
}
