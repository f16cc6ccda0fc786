package main

import (
	"github.com/Veraticus/taxflow/internal/cli"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/spf13/cobra"
)

func selfEmploymentCmd() *cobra.Command {
	var opts estimateOptions

	cmd := &cobra.Command{
		Use:     "self-employment",
		Aliases: []string{"se"},
		Short:   "Estimate self-employment tax and quarterly payments",
		Long: `Estimate Social Security and Medicare tax on net self-employment profit,
income tax after the half-SE-tax deduction, and the four estimated quarterly
payments. --income is any other income such as W-2 wages.`,
		Example: `  taxflow self-employment --net-profit 60000
  taxflow se --net-profit 150000 --income 120000 -s mfj`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := opts.taxInput(cmd)
			if err != nil {
				return err
			}
			profit, err := amountFlag(cmd, "net-profit")
			if err != nil {
				return err
			}
			in := model.SelfEmploymentInput{TaxInput: base, NetProfit: profit}

			calc, _, err := loadCalculator()
			if err != nil {
				return err
			}
			result, err := calc.SelfEmployment(in)
			if err != nil {
				return err
			}

			if opts.save {
				estimate, err := model.SelfEmploymentEstimate(opts.label, in, result)
				if err != nil {
					return err
				}
				if err := saveEstimate(cmd, estimate); err != nil {
					return err
				}
			}

			return emit(cmd.OutOrStdout(), opts.jsonOut, result, cli.RenderSelfEmployment(in, result))
		},
	}

	addEstimateFlags(cmd, &opts)
	addAmountFlag(cmd, "net-profit", "net self-employment profit")
	addAmountFlag(cmd, "income", "other income, e.g. W-2 wages")
	addAmountFlag(cmd, "deductions", "itemized deductions")
	addAmountFlag(cmd, "credits", "tax credits")
	addAmountFlag(cmd, "withheld", "tax already withheld from other income")

	return cmd
}
