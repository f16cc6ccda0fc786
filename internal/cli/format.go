package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/taxflow/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money formats an amount as dollars with thousands separators.
func Money(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", f)
}

// Percent formats a rate such as 0.22 as "22.00%".
func Percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// Position describes a refund-or-owed amount in words and colour.
func Position(amount decimal.Decimal) string {
	switch {
	case amount.IsPositive():
		return RefundStyle.Render("Refund " + Money(amount))
	case amount.IsNegative():
		return OwedStyle.Render("Owed " + Money(amount.Neg()))
	default:
		return SubtleStyle.Render("Even")
	}
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), ValueStyle.Render(value))
}

func rows(pairs ...string) string {
	lines := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		lines = append(lines, row(pairs[i], pairs[i+1]))
	}
	return strings.Join(lines, "\n")
}

// RenderRefund renders a refund estimate.
func RenderRefund(in model.TaxInput, result model.TaxResult) string {
	body := rows(
		"Filing status", in.FilingStatus.Label(),
		"Income", Money(in.Income),
		"Deduction applied", Money(result.DeductionApplied),
		"Taxable income", Money(result.TaxableIncome),
		"Tax before credits", Money(result.GrossTax),
		"Credits", Money(in.Credits),
		"Total tax", Money(result.TotalTax),
		"Withheld", Money(in.Withheld),
		"Marginal rate", Percent(result.MarginalRate),
		"Effective rate", Percent(result.EffectiveRate),
	)
	body += "\n\n" + Position(result.RefundOrOwed)
	return RenderBox(fmt.Sprintf("%s %d refund estimate", LedgerIcon, result.TaxYear), body)
}

// RenderSelfEmployment renders a self-employment estimate.
func RenderSelfEmployment(in model.SelfEmploymentInput, result model.SelfEmploymentResult) string {
	body := rows(
		"Net profit", Money(in.NetProfit),
		"Net SE earnings", Money(result.NetEarnings),
		"Social Security", Money(result.SocialSecurity),
		"Medicare", Money(result.Medicare),
		"Additional Medicare", Money(result.AdditionalMedicare),
		"Self-employment tax", Money(result.SelfEmploymentTax),
		"Half SE tax deduction", Money(result.AGIDeduction),
		"Taxable income", Money(result.IncomeTax.TaxableIncome),
		"Income tax", Money(result.IncomeTax.TotalTax),
		"Total liability", Money(result.TotalLiability),
		"Effective rate", Percent(result.EffectiveRate),
	)

	quarters := make([]string, 0, 8)
	for i, q := range result.Quarterly {
		quarters = append(quarters, fmt.Sprintf("Q%d estimated payment", i+1), Money(q))
	}
	body += "\n\n" + rows(quarters...)

	return RenderBox(fmt.Sprintf("%s %d self-employment estimate", LedgerIcon, result.IncomeTax.TaxYear), body)
}

// RenderWithholding renders a withholding estimate.
func RenderWithholding(in model.WithholdingInput, result model.WithholdingResult) string {
	body := rows(
		"Annual income", Money(in.Income),
		"Pay frequency", fmt.Sprintf("%s (%d)", in.PayFrequency, result.Periods),
		"Annual tax", Money(result.AnnualTax),
		"Base per paycheck", Money(result.BasePerPaycheck),
		"Additional per paycheck", Money(in.AdditionalPerPaycheck),
		"Withhold per paycheck", Money(result.PerPaycheck),
		"Withheld for the year", Money(result.AnnualWithholding),
	)
	body += "\n\nProjected: " + Position(result.Projected.RefundOrOwed)
	return RenderBox(fmt.Sprintf("%s %d withholding", LedgerIcon, result.Projected.TaxYear), body)
}

// RenderBrackets renders one bracket table with its standard deduction.
func RenderBrackets(year int, status model.FilingStatus, table model.BracketTable, standard decimal.Decimal) string {
	var b strings.Builder
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		TableCellStyle.Width(16).Render("From"),
		TableCellStyle.Width(16).Render("To"),
		TableCellStyle.Render("Rate"),
	)
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, bracket := range table {
		upper := "and up"
		if !bracket.Unbounded() {
			upper = Money(bracket.Ceiling.Decimal)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Width(16).Render(Money(bracket.Floor)),
			TableCellStyle.Width(16).Render(upper),
			TableCellStyle.Render(Percent(bracket.Rate)),
		))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render("Standard deduction " + Money(standard)))

	return RenderBox(fmt.Sprintf("%d %s", year, status.Label()), b.String())
}

// RenderHistory renders saved estimates as a table.
func RenderHistory(estimates []model.Estimate) string {
	if len(estimates) == 0 {
		return FormatInfo("No saved estimates")
	}

	var b strings.Builder
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		TableCellStyle.Width(38).Render("ID"),
		TableCellStyle.Width(17).Render("Saved"),
		TableCellStyle.Width(16).Render("Kind"),
		TableCellStyle.Width(14).Render("Label"),
		TableCellStyle.Width(6).Render("Year"),
		TableCellStyle.Width(14).Render("Tax"),
		TableCellStyle.Render("Position"),
	)
	b.WriteString(TableHeaderStyle.Render(header))

	for _, e := range estimates {
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Width(38).Render(e.ID),
			TableCellStyle.Width(17).Render(e.CreatedAt.Local().Format("2006-01-02 15:04")),
			TableCellStyle.Width(16).Render(string(e.Kind)),
			TableCellStyle.Width(14).Render(e.Label),
			TableCellStyle.Width(6).Render(fmt.Sprint(e.TaxYear)),
			TableCellStyle.Width(14).Render(Money(e.TotalTax)),
			Position(e.RefundOrOwed),
		))
	}

	return b.String()
}
