package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/taxflow/internal/cli"
	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/Veraticus/taxflow/internal/service"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Review saved estimates",
		Long:  `List, show and delete estimates saved with --save.`,
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyDeleteCmd())

	return cmd
}

// withStore runs fn against an opened estimate history.
func withStore(cmd *cobra.Command, fn func(store service.EstimateStore) error) error {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close storage", "error", closeErr)
		}
	}()
	return fn(store)
}

func historyListCmd() *cobra.Command {
	var (
		filter  service.EstimateFilter
		kind    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved estimates, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if kind != "" {
				filter.Kind = model.EstimateKind(kind)
				if !filter.Kind.IsValid() {
					return common.InvalidInputf("unknown estimate kind %q (use refund, self_employment or withholding)", kind)
				}
			}

			return withStore(cmd, func(store service.EstimateStore) error {
				estimates, err := store.ListEstimates(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return emit(cmd.OutOrStdout(), jsonOut, estimates, cli.RenderHistory(estimates))
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only this kind (refund, self_employment, withholding)")
	cmd.Flags().StringVarP(&filter.Label, "label", "l", "", "only estimates with this label")
	cmd.Flags().IntVarP(&filter.TaxYear, "year", "y", 0, "only this tax year")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 20, "maximum estimates to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print estimates as JSON")

	return cmd
}

func historyShowCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store service.EstimateStore) error {
				estimate, err := store.GetEstimate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), estimate)
				}

				rendered, err := renderEstimate(estimate)
				if err != nil {
					return err
				}
				header := fmt.Sprintf("%s  %s  %s", estimate.ID, estimate.CreatedAt.Local().Format("2006-01-02 15:04"), estimate.Label)
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render(header))
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the estimate as JSON")

	return cmd
}

// renderEstimate decodes a stored estimate back into its calculator types.
func renderEstimate(e *model.Estimate) (string, error) {
	switch e.Kind {
	case model.KindRefund:
		var (
			in     model.TaxInput
			result model.TaxResult
		)
		if err := decodeEstimate(e, &in, &result); err != nil {
			return "", err
		}
		return cli.RenderRefund(in, result), nil
	case model.KindSelfEmployment:
		var (
			in     model.SelfEmploymentInput
			result model.SelfEmploymentResult
		)
		if err := decodeEstimate(e, &in, &result); err != nil {
			return "", err
		}
		return cli.RenderSelfEmployment(in, result), nil
	case model.KindWithholding:
		var (
			in     model.WithholdingInput
			result model.WithholdingResult
		)
		if err := decodeEstimate(e, &in, &result); err != nil {
			return "", err
		}
		return cli.RenderWithholding(in, result), nil
	default:
		return "", fmt.Errorf("%w: unknown estimate kind %q", common.ErrDatabaseCorrupted, e.Kind)
	}
}

func decodeEstimate(e *model.Estimate, in, result any) error {
	if err := json.Unmarshal(e.Input, in); err != nil {
		return fmt.Errorf("%w: estimate %s input: %v", common.ErrDatabaseCorrupted, e.ID, err)
	}
	if err := json.Unmarshal(e.Result, result); err != nil {
		return fmt.Errorf("%w: estimate %s result: %v", common.ErrDatabaseCorrupted, e.ID, err)
	}
	return nil
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store service.EstimateStore) error {
				if err := store.DeleteEstimate(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted estimate "+args[0]))
				return nil
			})
		},
	}
}
