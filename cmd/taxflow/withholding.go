package main

import (
	"strings"

	"github.com/Veraticus/taxflow/internal/cli"
	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/spf13/cobra"
)

func withholdingCmd() *cobra.Command {
	var (
		opts      estimateOptions
		frequency string
	)

	cmd := &cobra.Command{
		Use:   "withholding",
		Short: "Compute per-paycheck withholding",
		Long: `Spread the estimated annual tax across paychecks and project the
refund or balance due if that amount is withheld all year.`,
		Example: `  taxflow withholding --income 50000 --frequency biweekly
  taxflow withholding --income 85000 --frequency monthly --additional 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := opts.taxInput(cmd)
			if err != nil {
				return err
			}
			freq := model.PayFrequency(strings.ToLower(strings.TrimSpace(frequency)))
			if !freq.IsValid() {
				return common.InvalidInputf("unknown pay frequency %q (use one of %v)", frequency, model.PayFrequencies())
			}
			additional, err := amountFlag(cmd, "additional")
			if err != nil {
				return err
			}
			in := model.WithholdingInput{TaxInput: base, PayFrequency: freq, AdditionalPerPaycheck: additional}

			calc, _, err := loadCalculator()
			if err != nil {
				return err
			}
			result, err := calc.Withholding(in)
			if err != nil {
				return err
			}

			if opts.save {
				estimate, err := model.WithholdingEstimate(opts.label, in, result)
				if err != nil {
					return err
				}
				if err := saveEstimate(cmd, estimate); err != nil {
					return err
				}
			}

			return emit(cmd.OutOrStdout(), opts.jsonOut, result, cli.RenderWithholding(in, result))
		},
	}

	addEstimateFlags(cmd, &opts)
	cmd.Flags().StringVarP(&frequency, "frequency", "f", string(model.Biweekly), "pay frequency (weekly, biweekly, semimonthly, monthly)")
	addAmountFlag(cmd, "income", "annual gross income")
	addAmountFlag(cmd, "deductions", "itemized deductions")
	addAmountFlag(cmd, "credits", "tax credits or allowances")
	addAmountFlag(cmd, "additional", "extra amount to withhold per paycheck")

	return cmd
}
