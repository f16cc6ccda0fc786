package main

import (
	"fmt"

	"github.com/Veraticus/taxflow/internal/cli"
	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type bracketView struct {
	Brackets          model.BracketTable `json:"brackets"`
	StandardDeduction decimal.Decimal    `json:"standard_deduction"`
	FilingStatus      model.FilingStatus `json:"filing_status"`
	TaxYear           int                `json:"tax_year"`
}

func bracketsCmd() *cobra.Command {
	var (
		status  string
		year    int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "brackets",
		Short: "Show bracket tables and standard deductions",
		Long: `Print the marginal rate brackets and standard deduction for a tax year.
Without --status every filing status is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, registry, err := loadCalculator()
			if err != nil {
				return err
			}

			if year == 0 {
				year = settings.TaxYear
			}
			if year == 0 {
				year = registry.Latest()
			}
			table, err := registry.Year(year)
			if err != nil {
				return err
			}

			statuses := model.FilingStatuses()
			if status != "" {
				parsed, ok := model.ParseFilingStatus(status)
				if !ok {
					return common.InvalidInputf("unknown filing status %q", status)
				}
				statuses = []model.FilingStatus{parsed}
			}

			views := make([]bracketView, 0, len(statuses))
			for _, s := range statuses {
				brackets, err := table.BracketsFor(s)
				if err != nil {
					return err
				}
				views = append(views, bracketView{
					TaxYear:           year,
					FilingStatus:      s,
					Brackets:          brackets,
					StandardDeduction: table.StandardDeduction[s],
				})
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, views)
			}
			for _, v := range views {
				fmt.Fprintln(out, cli.RenderBrackets(v.TaxYear, v.FilingStatus, v.Brackets, v.StandardDeduction))
			}
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Social Security wage base %s", cli.Money(table.SocialSecurityWageBase))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filing status (single, mfj, mfs, hoh)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "tax year (default: latest table)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the tables as JSON")

	return cmd
}
