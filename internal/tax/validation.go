package tax

import (
	"regexp"
	"strings"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/shopspring/decimal"
)

// ValidateTaxInput checks the fields shared by every calculator. All entry
// points (library, CLI flags, batch rows, the interactive form) go through it.
func ValidateTaxInput(in model.TaxInput) error {
	if !in.FilingStatus.IsValid() {
		return common.InvalidInputf("unknown filing status %q", in.FilingStatus)
	}
	return nonNegative(
		named{"income", in.Income},
		named{"deductions", in.Deductions},
		named{"credits", in.Credits},
		named{"withheld", in.Withheld},
	)
}

// ValidateSelfEmploymentInput checks a self-employment request.
func ValidateSelfEmploymentInput(in model.SelfEmploymentInput) error {
	if err := nonNegative(named{"net profit", in.NetProfit}); err != nil {
		return err
	}
	return ValidateTaxInput(in.TaxInput)
}

// ValidateWithholdingInput checks a withholding request.
func ValidateWithholdingInput(in model.WithholdingInput) error {
	if !in.PayFrequency.IsValid() {
		return common.InvalidInputf("unknown pay frequency %q", in.PayFrequency)
	}
	if err := nonNegative(named{"additional withholding", in.AdditionalPerPaycheck}); err != nil {
		return err
	}
	return ValidateTaxInput(in.TaxInput)
}

// MaxAmount is the largest accepted input amount. Larger values, and values
// with more than maxScale decimal places, are rejected before any arithmetic
// so a huge exponent cannot force a huge rescale.
var MaxAmount = decimal.New(1, 12)

const (
	maxDigits = 13
	maxScale  = 8
)

var amountPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

type named struct {
	name  string
	value decimal.Decimal
}

func nonNegative(fields ...named) error {
	for _, f := range fields {
		if err := inRange(f.name, f.value); err != nil {
			return err
		}
		if f.value.IsNegative() {
			return common.InvalidInputf("%s must not be negative (got %s)", f.name, f.value)
		}
	}
	return nil
}

// inRange checks scale and magnitude using only the exponent and digit count
// first, so no rescaling happens for out-of-range values.
func inRange(name string, value decimal.Decimal) error {
	exp := int(value.Exponent())
	if exp < -maxScale {
		return common.InvalidInputf("%s has more than %d decimal places", name, maxScale)
	}
	if value.NumDigits()+exp > maxDigits || value.Abs().GreaterThan(MaxAmount) {
		return common.InvalidInputf("%s exceeds %s", name, MaxAmount)
	}
	return nil
}

// ParseAmount accepts plain or formatted dollar amounts ("$1,250.50") and
// rounds them to cents. Empty input is zero. Exponent notation is rejected.
// Sign is preserved; negativity is checked by the Validate functions.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, nil
	}
	if !amountPattern.MatchString(cleaned) {
		return decimal.Zero, common.InvalidInputf("%q is not an amount", raw)
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, common.InvalidInputf("%q is not an amount", raw)
	}
	if amount.Abs().GreaterThan(MaxAmount) {
		return decimal.Zero, common.InvalidInputf("%q exceeds %s", raw, MaxAmount)
	}
	return amount.Round(2), nil
}
