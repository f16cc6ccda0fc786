package tax

import (
	"testing"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithholding(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name          string
		frequency     model.PayFrequency
		additional    string
		wantBase      string
		wantPer       string
		wantAnnual    string
		wantProjected string
		wantPeriods   int
	}{
		{
			name:          "biweekly",
			frequency:     model.Biweekly,
			additional:    "0",
			wantBase:      "154.46",
			wantPer:       "154.46",
			wantAnnual:    "4015.96",
			wantProjected: "-0.04",
			wantPeriods:   26,
		},
		{
			name:          "biweekly with extra",
			frequency:     model.Biweekly,
			additional:    "20",
			wantBase:      "154.46",
			wantPer:       "174.46",
			wantAnnual:    "4535.96",
			wantProjected: "519.96",
			wantPeriods:   26,
		},
		{
			name:          "sub-cent extra rounds to cents",
			frequency:     model.Biweekly,
			additional:    "20.005",
			wantBase:      "154.46",
			wantPer:       "174.47",
			wantAnnual:    "4536.22",
			wantProjected: "520.22",
			wantPeriods:   26,
		},
		{
			name:          "monthly",
			frequency:     model.Monthly,
			additional:    "0",
			wantBase:      "334.67",
			wantPer:       "334.67",
			wantAnnual:    "4016.04",
			wantProjected: "0.04",
			wantPeriods:   12,
		},
		{
			name:          "semimonthly",
			frequency:     model.Semimonthly,
			additional:    "0",
			wantBase:      "167.33",
			wantPer:       "167.33",
			wantAnnual:    "4015.92",
			wantProjected: "-0.08",
			wantPeriods:   24,
		},
		{
			name:          "weekly",
			frequency:     model.Weekly,
			additional:    "0",
			wantBase:      "77.23",
			wantPer:       "77.23",
			wantAnnual:    "4015.96",
			wantProjected: "-0.04",
			wantPeriods:   52,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Withholding(model.WithholdingInput{
				PayFrequency:          tt.frequency,
				AdditionalPerPaycheck: d(tt.additional),
				TaxInput: model.TaxInput{
					Income:       d("50000"),
					FilingStatus: model.Single,
					TaxYear:      2024,
				},
			})
			require.NoError(t, err)

			assertMoney(t, "4016", result.AnnualTax, "annual tax")
			assertMoney(t, tt.wantBase, result.BasePerPaycheck, "base per paycheck")
			assertMoney(t, tt.wantPer, result.PerPaycheck, "per paycheck")
			assertMoney(t, tt.wantAnnual, result.AnnualWithholding, "annual withholding")
			assertMoney(t, tt.wantProjected, result.Projected.RefundOrOwed, "projected")
			assert.Equal(t, tt.wantPeriods, result.Periods)
		})
	}
}

func TestWithholding_CreditsCoverTax(t *testing.T) {
	calc := newTestCalculator(t)

	result, err := calc.Withholding(model.WithholdingInput{
		PayFrequency: model.Monthly,
		TaxInput: model.TaxInput{
			Income:       d("30000"),
			Credits:      d("4000"),
			FilingStatus: model.Single,
			TaxYear:      2024,
		},
	})
	require.NoError(t, err)
	assert.True(t, result.PerPaycheck.IsZero())
	assert.True(t, result.Projected.RefundOrOwed.IsZero())
}

func TestWithholding_Errors(t *testing.T) {
	calc := newTestCalculator(t)

	_, err := calc.Withholding(model.WithholdingInput{
		PayFrequency: "daily",
		TaxInput:     model.TaxInput{Income: d("50000"), FilingStatus: model.Single, TaxYear: 2024},
	})
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = calc.Withholding(model.WithholdingInput{
		PayFrequency:          model.Weekly,
		AdditionalPerPaycheck: d("-1"),
		TaxInput:              model.TaxInput{Income: d("50000"), FilingStatus: model.Single, TaxYear: 2024},
	})
	require.ErrorIs(t, err, common.ErrInvalidInput)
}
