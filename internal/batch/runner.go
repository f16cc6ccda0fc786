package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/taxflow/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Estimator computes a refund estimate. *tax.Calculator satisfies it.
type Estimator interface {
	EstimateRefund(in model.TaxInput) (model.TaxResult, error)
}

// Options configures a batch run.
type Options struct {
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
	Workers  int
}

// Outcome pairs an input row with its result or error.
type Outcome struct {
	Err    error
	Row    Row
	Result model.TaxResult
}

// Summary aggregates a finished run.
type Summary struct {
	TotalTax     decimal.Decimal
	TotalRefunds decimal.Decimal
	TotalOwed    decimal.Decimal
	Elapsed      time.Duration
	Rows         int
	Succeeded    int
	Failed       int
}

// Runner evaluates rows concurrently.
type Runner struct {
	estimator Estimator
	opts      Options
}

// NewRunner creates a runner. Workers below one are treated as one.
func NewRunner(estimator Estimator, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{estimator: estimator, opts: opts}
}

// Run estimates every row and returns outcomes in input order. Row failures
// are recorded on the outcome; only context cancellation stops the run.
func (r *Runner) Run(ctx context.Context, rows []Row) ([]Outcome, error) {
	outcomes := make([]Outcome, len(rows))
	bar := r.newProgressBar(len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			row := rows[i]
			outcome := Outcome{Row: row, Err: row.Err}
			if row.Err == nil {
				result, err := r.estimator.EstimateRefund(row.Input)
				if err != nil {
					outcome.Err = fmt.Errorf("line %d: %w", row.Line, err)
				} else {
					outcome.Result = result
				}
			}
			outcomes[i] = outcome

			if bar != nil {
				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

func (r *Runner) newProgressBar(total int) *progressbar.ProgressBar {
	if r.opts.Progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.opts.Progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Estimating...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(r.opts.Progress); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// Summarize totals a set of outcomes.
func Summarize(outcomes []Outcome, elapsed time.Duration) Summary {
	s := Summary{Rows: len(outcomes), Elapsed: elapsed}
	for _, o := range outcomes {
		if o.Err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.TotalTax = s.TotalTax.Add(o.Result.TotalTax)
		switch {
		case o.Result.RefundOrOwed.IsPositive():
			s.TotalRefunds = s.TotalRefunds.Add(o.Result.RefundOrOwed)
		case o.Result.RefundOrOwed.IsNegative():
			s.TotalOwed = s.TotalOwed.Add(o.Result.RefundOrOwed.Neg())
		}
	}
	return s
}
