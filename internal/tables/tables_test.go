package tables

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customYear = `
year: 2099
social_security_wage_base: "200000"
standard_deduction:
  single: "20000"
  married_joint: "40000"
  married_separate: "20000"
  head_of_household: "30000"
additional_medicare_threshold:
  single: "200000"
  married_joint: "250000"
  married_separate: "125000"
  head_of_household: "200000"
brackets:
  single: [{floor: "0", rate: "0.10"}, {floor: "50000", rate: "0.20"}]
  married_joint: [{floor: "0", rate: "0.10"}, {floor: "100000", rate: "0.20"}]
  married_separate: [{floor: "0", rate: "0.10"}, {floor: "50000", rate: "0.20"}]
  head_of_household: [{floor: "0", rate: "0.10"}, {floor: "75000", rate: "0.20"}]
`

func TestDefault_EmbeddedYears(t *testing.T) {
	registry, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []int{2024, 2025, 2026}, registry.Years())
	assert.Equal(t, 2026, registry.Latest())

	year, err := registry.Year(2024)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(14600).Equal(year.StandardDeduction[model.Single]))
	assert.True(t, decimal.NewFromInt(168600).Equal(year.SocialSecurityWageBase))

	single, err := year.BracketsFor(model.Single)
	require.NoError(t, err)
	require.Len(t, single, 7)
	assert.True(t, single[len(single)-1].Unbounded())
	assert.True(t, decimal.NewFromInt(11600).Equal(single[0].Ceiling.Decimal))
}

func TestDefault_UnknownYear(t *testing.T) {
	registry, err := Default()
	require.NoError(t, err)

	_, err = registry.Year(2019)
	require.ErrorIs(t, err, common.ErrInvalidBracketTable)
}

func TestParse(t *testing.T) {
	table, err := Parse([]byte(customYear))
	require.NoError(t, err)
	assert.Equal(t, 2099, table.Year)
	assert.Len(t, table.Brackets[model.HeadOfHousehold], 2)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr error
	}{
		{
			name:    "missing filing status",
			mutate:  func(s string) string { return strings.Replace(s, `  head_of_household: [{floor: "0", rate: "0.10"}, {floor: "75000", rate: "0.20"}]`, "", 1) },
			wantErr: common.ErrInvalidBracketTable,
		},
		{
			name:    "unknown filing status",
			mutate:  func(s string) string { return strings.Replace(s, "  single: \"20000\"", "  widowed: \"20000\"", 1) },
			wantErr: common.ErrInvalidBracketTable,
		},
		{
			name:    "decreasing rate",
			mutate:  func(s string) string { return strings.Replace(s, `{floor: "50000", rate: "0.20"}]`, `{floor: "50000", rate: "0.05"}]`, 1) },
			wantErr: common.ErrInvalidBracketTable,
		},
		{
			name:    "not a number",
			mutate:  func(s string) string { return strings.Replace(s, `"200000"`, `"lots"`, 1) },
			wantErr: common.ErrInvalidBracketTable,
		},
		{
			name:    "malformed yaml",
			mutate:  func(s string) string { return s + "\n  : [" },
			wantErr: common.ErrInvalidBracketTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(customYear)))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_OverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2099.yaml"), []byte(customYear), 0600))

	registry, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025, 2026, 2099}, registry.Years())
	assert.Equal(t, 2099, registry.Latest())
}

func TestLoad_ReplacesEmbeddedYear(t *testing.T) {
	dir := t.TempDir()
	replaced := strings.Replace(customYear, "year: 2099", "year: 2024", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024.yaml"), []byte(replaced), 0600))

	registry, err := Load(dir)
	require.NoError(t, err)

	year, err := registry.Year(2024)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20000).Equal(year.StandardDeduction[model.Single]))
}

func TestLoad_InvalidOverrideFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("year: 2030\n"), 0600))

	_, err := Load(dir)
	require.ErrorIs(t, err, common.ErrInvalidBracketTable)
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	a, err := Parse([]byte(customYear))
	require.NoError(t, err)
	b, err := Parse([]byte(customYear))
	require.NoError(t, err)

	_, err = NewRegistry(a, b)
	require.ErrorIs(t, err, common.ErrInvalidBracketTable)

	_, err = NewRegistry()
	require.ErrorIs(t, err, common.ErrInvalidBracketTable)
}
