package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/taxflow/internal/batch"
	"github.com/Veraticus/taxflow/internal/cli"
	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/spf13/cobra"
)

func batchCmd() *cobra.Command {
	var (
		output  string
		year    int
		workers int
		save    bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "batch <input.csv>",
		Short: "Estimate refunds for many filers from a CSV file",
		Long: `Read a CSV with a header row and estimate every line concurrently.

Required columns: filing_status, income.
Optional columns: label, deductions, credits, withheld, tax_year.

Results are written as CSV in input order. Lines that fail validation are
reported in the error column and do not stop the run.`,
		Example: `  taxflow batch clients.csv -o estimates.csv
  taxflow batch clients.csv --year 2025 --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer func() { _ = file.Close() }()

			if year == 0 {
				year = settings.TaxYear
			}
			rows, err := batch.ReadRows(file, year)
			if err != nil {
				return err
			}
			if workers == 0 {
				workers = settings.BatchWorkers
			}

			calc, _, err := loadCalculator()
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "No results were written.")
			ctx, stop := handler.HandleInterrupts(cmd.Context())
			defer stop()

			opts := batch.Options{Workers: workers}
			if !quiet {
				opts.Progress = cmd.ErrOrStderr()
			}

			slog.Info("Starting batch estimate", "file", args[0], "rows", len(rows), "workers", workers)
			start := time.Now()
			outcomes, err := batch.NewRunner(calc, opts).Run(ctx, rows)
			if err != nil {
				return batchRunError(err, handler.WasInterrupted())
			}
			summary := batch.Summarize(outcomes, time.Since(start))

			if err := writeBatchOutput(cmd, output, outcomes); err != nil {
				return err
			}
			if save {
				if err := saveOutcomes(cmd, outcomes); err != nil {
					return err
				}
			}

			slog.Info("Batch estimate complete",
				"rows", summary.Rows,
				"succeeded", summary.Succeeded,
				"failed", summary.Failed,
				"elapsed", summary.Elapsed)
			if !quiet {
				fmt.Fprintln(cmd.ErrOrStderr(), renderSummary(summary))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write results to this file instead of stdout")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "tax year for rows without a tax_year column")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers (default: batch.workers from config)")
	cmd.Flags().BoolVar(&save, "save", false, "save every successful row to history")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and summary output")

	return cmd
}

// batchRunError reports a stopped run. An interrupt always surfaces as
// context.Canceled so the process exits non-zero.
func batchRunError(err error, interrupted bool) error {
	if interrupted {
		return common.NewUserError("Batch interrupted; no results were written", fmt.Errorf("%w: %w", context.Canceled, err))
	}
	return fmt.Errorf("batch run failed: %w", err)
}

func writeBatchOutput(cmd *cobra.Command, path string, outcomes []batch.Outcome) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				slog.Warn("Failed to close output file", "path", path, "error", closeErr)
			}
		}()
		w = file
	}

	if err := batch.WriteResults(w, outcomes); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func saveOutcomes(cmd *cobra.Command, outcomes []batch.Outcome) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved := 0
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		label := o.Row.Label
		if label == "" {
			label = fmt.Sprintf("line %d", o.Row.Line)
		}
		estimate, err := model.RefundEstimate(label, o.Row.Input, o.Result)
		if err != nil {
			return err
		}
		if err := store.SaveEstimate(ctx, estimate); err != nil {
			return fmt.Errorf("failed to save line %d: %w", o.Row.Line, err)
		}
		saved++
	}

	slog.Info("Saved batch estimates", "count", saved)
	return nil
}

func renderSummary(s batch.Summary) string {
	body := fmt.Sprintf("%d rows   %s ok   %s failed   in %s\n",
		s.Rows,
		cli.RefundStyle.Render(fmt.Sprint(s.Succeeded)),
		cli.OwedStyle.Render(fmt.Sprint(s.Failed)),
		s.Elapsed.Round(time.Millisecond))
	body += fmt.Sprintf("Total tax %s   refunds %s   owed %s",
		cli.Money(s.TotalTax), cli.Money(s.TotalRefunds), cli.Money(s.TotalOwed))
	return cli.RenderBox(cli.LedgerIcon+" Batch summary", body)
}
