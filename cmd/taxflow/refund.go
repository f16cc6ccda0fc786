package main

import (
	"github.com/Veraticus/taxflow/internal/cli"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/spf13/cobra"
)

func refundCmd() *cobra.Command {
	var opts estimateOptions

	cmd := &cobra.Command{
		Use:   "refund",
		Short: "Estimate a refund or balance due",
		Long: `Estimate federal income tax from annual income and compare it with the
amount already withheld. The larger of your deductions and the standard
deduction is applied.`,
		Example: `  taxflow refund --income 50000 --withheld 6000
  taxflow refund -s mfj --income '$120,000' --deductions 31000 --credits 2000 --save -l household`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := opts.taxInput(cmd)
			if err != nil {
				return err
			}

			calc, _, err := loadCalculator()
			if err != nil {
				return err
			}
			result, err := calc.EstimateRefund(in)
			if err != nil {
				return err
			}

			if opts.save {
				estimate, err := model.RefundEstimate(opts.label, in, result)
				if err != nil {
					return err
				}
				if err := saveEstimate(cmd, estimate); err != nil {
					return err
				}
			}

			return emit(cmd.OutOrStdout(), opts.jsonOut, result, cli.RenderRefund(in, result))
		},
	}

	addEstimateFlags(cmd, &opts)
	addAmountFlag(cmd, "income", "annual gross income")
	addAmountFlag(cmd, "deductions", "itemized deductions")
	addAmountFlag(cmd, "credits", "tax credits")
	addAmountFlag(cmd, "withheld", "tax already withheld")

	return cmd
}
