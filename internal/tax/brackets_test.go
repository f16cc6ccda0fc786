package tax

import (
	"testing"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func single2024() model.BracketTable {
	return model.NewBracketTable(
		model.BracketStep{Floor: d("0"), Rate: d("0.10")},
		model.BracketStep{Floor: d("11600"), Rate: d("0.12")},
		model.BracketStep{Floor: d("47150"), Rate: d("0.22")},
		model.BracketStep{Floor: d("100525"), Rate: d("0.24")},
		model.BracketStep{Floor: d("191950"), Rate: d("0.32")},
		model.BracketStep{Floor: d("243725"), Rate: d("0.35")},
		model.BracketStep{Floor: d("609350"), Rate: d("0.37")},
	)
}

func TestApplyBrackets(t *testing.T) {
	tests := []struct {
		name         string
		taxable      string
		wantTax      string
		wantMarginal string
	}{
		{name: "zero income uses first rate", taxable: "0", wantTax: "0", wantMarginal: "0.10"},
		{name: "inside first bracket", taxable: "10000", wantTax: "1000", wantMarginal: "0.10"},
		{name: "threshold belongs to higher bracket", taxable: "11600", wantTax: "1160", wantMarginal: "0.12"},
		{name: "second bracket", taxable: "35400", wantTax: "4016", wantMarginal: "0.12"},
		{name: "third bracket", taxable: "60000", wantTax: "8253", wantMarginal: "0.22"},
		{name: "top bracket", taxable: "700000", wantTax: "217187.75", wantMarginal: "0.37"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTax, gotMarginal, err := ApplyBrackets(d(tt.taxable), single2024())
			require.NoError(t, err)
			assert.True(t, d(tt.wantTax).Equal(gotTax), "tax: want %s, got %s", tt.wantTax, gotTax)
			assert.True(t, d(tt.wantMarginal).Equal(gotMarginal), "marginal: want %s, got %s", tt.wantMarginal, gotMarginal)
		})
	}
}

func TestApplyBrackets_NegativeIncome(t *testing.T) {
	_, _, err := ApplyBrackets(d("-1"), single2024())
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestApplyBrackets_InvalidTables(t *testing.T) {
	bounded := single2024()
	bounded[len(bounded)-1].Ceiling = decimal.NewNullDecimal(d("1000000"))

	gap := single2024()
	gap[1].Floor = d("12000")

	tests := []struct {
		name  string
		table model.BracketTable
	}{
		{name: "empty", table: nil},
		{name: "does not start at zero", table: model.NewBracketTable(
			model.BracketStep{Floor: d("100"), Rate: d("0.10")},
		)},
		{name: "thresholds not increasing", table: model.NewBracketTable(
			model.BracketStep{Floor: d("0"), Rate: d("0.10")},
			model.BracketStep{Floor: d("500"), Rate: d("0.12")},
			model.BracketStep{Floor: d("500"), Rate: d("0.22")},
		)},
		{name: "rate decreases", table: model.NewBracketTable(
			model.BracketStep{Floor: d("0"), Rate: d("0.20")},
			model.BracketStep{Floor: d("500"), Rate: d("0.10")},
		)},
		{name: "rate above one", table: model.NewBracketTable(
			model.BracketStep{Floor: d("0"), Rate: d("1.5")},
		)},
		{name: "capped top bracket", table: bounded},
		{name: "gap between brackets", table: gap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ApplyBrackets(d("1000"), tt.table)
			require.ErrorIs(t, err, common.ErrInvalidBracketTable)
		})
	}
}

func TestApplyBrackets_EqualRatesAllowed(t *testing.T) {
	table := model.NewBracketTable(
		model.BracketStep{Floor: d("0"), Rate: d("0.10")},
		model.BracketStep{Floor: d("1000"), Rate: d("0.10")},
	)
	tax, _, err := ApplyBrackets(d("2000"), table)
	require.NoError(t, err)
	assert.True(t, d("200").Equal(tax))
}

func TestApplyBrackets_ContinuousAtThresholds(t *testing.T) {
	table := single2024()
	penny := d("0.01")

	for i := 1; i < len(table); i++ {
		floor := table[i].Floor
		below, _, err := ApplyBrackets(floor.Sub(penny), table)
		require.NoError(t, err)
		at, marginal, err := ApplyBrackets(floor, table)
		require.NoError(t, err)

		// The last penny below the threshold is taxed at the lower rate.
		jump := at.Sub(below)
		assert.True(t, penny.Mul(table[i-1].Rate).Equal(jump),
			"discontinuity at %s: jump %s", floor, jump)
		assert.True(t, table[i].Rate.Equal(marginal))
	}
}

func TestApplyBrackets_Monotonic(t *testing.T) {
	table := single2024()
	prev := decimal.Zero
	for income := int64(0); income <= 800000; income += 7919 {
		tax, _, err := ApplyBrackets(decimal.NewFromInt(income), table)
		require.NoError(t, err)
		assert.False(t, tax.LessThan(prev), "tax fell from %s to %s at %d", prev, tax, income)
		prev = tax
	}
}
