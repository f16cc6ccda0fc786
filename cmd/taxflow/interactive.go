package main

import (
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/Veraticus/taxflow/internal/tui"
	"github.com/spf13/cobra"
)

func interactiveCmd() *cobra.Command {
	var (
		year  int
		save  bool
		label string
	)

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Fill in a refund estimate interactively",
		Long: `Open a form for filing status, income, deductions, credits and amount
withheld. Press enter to recompute. With --save the last estimate shown is
saved when you quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc, registry, err := loadCalculator()
			if err != nil {
				return err
			}
			if year == 0 {
				year = settings.TaxYear
			}
			if year == 0 {
				year = registry.Latest()
			}
			if _, err := registry.Year(year); err != nil {
				return err
			}

			final, err := tui.Run(cmd.Context(), calc, year)
			if err != nil {
				return err
			}

			in, result := final.Result()
			if !save || result == nil {
				return nil
			}
			estimate, err := model.RefundEstimate(label, in, *result)
			if err != nil {
				return err
			}
			return saveEstimate(cmd, estimate)
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "tax year (default: latest table)")
	cmd.Flags().BoolVar(&save, "save", false, "save the last estimate on exit")
	cmd.Flags().StringVarP(&label, "label", "l", "", "label to store with a saved estimate")

	return cmd
}
