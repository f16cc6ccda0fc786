package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/taxflow/internal/cli"
	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/Veraticus/taxflow/internal/service"
	"github.com/Veraticus/taxflow/internal/storage"
	"github.com/Veraticus/taxflow/internal/tables"
	"github.com/Veraticus/taxflow/internal/tax"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// initStorage opens the estimate history and brings its schema up to date.
func initStorage(ctx context.Context) (service.EstimateStore, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadCalculator builds a calculator over the built-in tables plus any
// overrides from tables.dir.
func loadCalculator() (*tax.Calculator, *tables.Registry, error) {
	registry, err := tables.Load(settings.TablesDir)
	if err != nil {
		return nil, nil, err
	}
	return tax.NewCalculator(registry), registry, nil
}

// estimateOptions are the flags shared by the calculation commands.
type estimateOptions struct {
	status  string
	label   string
	year    int
	save    bool
	jsonOut bool
}

func addEstimateFlags(cmd *cobra.Command, opts *estimateOptions) {
	cmd.Flags().StringVarP(&opts.status, "status", "s", string(model.Single), "filing status (single, mfj, mfs, hoh)")
	cmd.Flags().IntVarP(&opts.year, "year", "y", 0, "tax year (default: tax.year from config, else latest table)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the estimate to history")
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "label to store with a saved estimate")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
}

func (o estimateOptions) filingStatus() (model.FilingStatus, error) {
	status, ok := model.ParseFilingStatus(o.status)
	if !ok {
		return "", common.InvalidInputf("unknown filing status %q", o.status)
	}
	return status, nil
}

func (o estimateOptions) taxYear() int {
	if o.year != 0 {
		return o.year
	}
	return settings.TaxYear
}

// taxInput assembles the common input fields from flags.
func (o estimateOptions) taxInput(cmd *cobra.Command) (model.TaxInput, error) {
	status, err := o.filingStatus()
	if err != nil {
		return model.TaxInput{}, err
	}

	in := model.TaxInput{FilingStatus: status, TaxYear: o.taxYear()}
	amounts := []struct {
		target *decimal.Decimal
		flag   string
	}{
		{&in.Income, "income"},
		{&in.Deductions, "deductions"},
		{&in.Credits, "credits"},
		{&in.Withheld, "withheld"},
	}
	for _, a := range amounts {
		if cmd.Flags().Lookup(a.flag) == nil {
			continue
		}
		if *a.target, err = amountFlag(cmd, a.flag); err != nil {
			return model.TaxInput{}, err
		}
	}
	return in, nil
}

func addAmountFlag(cmd *cobra.Command, name, usage string) {
	cmd.Flags().String(name, "0", usage)
}

// amountFlag parses a dollar amount flag such as "$85,000.50".
func amountFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := tax.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
	}
	return amount, nil
}

// emit prints either JSON or the rendered view.
func emit(w io.Writer, jsonOut bool, value any, rendered string) error {
	if jsonOut {
		return writeJSON(w, value)
	}
	_, err := fmt.Fprintln(w, rendered)
	return err
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// saveEstimate stores estimate and tells the user where it went.
func saveEstimate(cmd *cobra.Command, estimate *model.Estimate) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close storage", "error", closeErr)
		}
	}()

	if err := store.SaveEstimate(ctx, estimate); err != nil {
		return fmt.Errorf("failed to save estimate: %w", err)
	}

	slog.Debug("Estimate saved", "id", estimate.ID, "kind", estimate.Kind, "label", estimate.Label)
	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Saved estimate "+estimate.ID))
	return nil
}
