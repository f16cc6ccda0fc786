// Package batch runs refund estimates for many clients at once from CSV.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/Veraticus/taxflow/internal/tax"
	"github.com/shopspring/decimal"
)

// Column names recognised in the input header.
const (
	ColLabel        = "label"
	ColFilingStatus = "filing_status"
	ColIncome       = "income"
	ColDeductions   = "deductions"
	ColCredits      = "credits"
	ColWithheld     = "withheld"
	ColTaxYear      = "tax_year"
)

var requiredColumns = []string{ColFilingStatus, ColIncome}

// Row is one parsed input line. Err is set when the line could not be turned
// into a valid TaxInput; such rows are reported, not computed.
type Row struct {
	Err   error
	Label string
	Input model.TaxInput
	Line  int
}

// ReadRows parses CSV input with a header row. taxYear applies to rows that do
// not carry their own tax_year column value. Only header problems are fatal.
func ReadRows(r io.Reader, taxYear int) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, common.NewUserError("input is empty; expected a header row", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, common.NewUserError(fmt.Sprintf("missing required column %q", col), common.ErrInvalidInput)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read input: %w", err)
			}
			rows = append(rows, Row{Line: parseErr.Line, Err: common.InvalidInputf("line %d: %v", parseErr.Line, parseErr.Err)})
			continue
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, parseRow(line, record, index, taxYear))
	}

	return rows, nil
}

func parseRow(line int, record []string, index map[string]int, taxYear int) Row {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := Row{Line: line, Label: field(ColLabel)}
	fail := func(err error) Row {
		row.Err = fmt.Errorf("line %d: %w", line, err)
		return row
	}

	status, ok := model.ParseFilingStatus(field(ColFilingStatus))
	if !ok {
		return fail(common.InvalidInputf("unknown filing status %q", field(ColFilingStatus)))
	}

	in := model.TaxInput{FilingStatus: status, TaxYear: taxYear}
	amounts := []struct {
		into *decimal.Decimal
		name string
	}{
		{&in.Income, ColIncome},
		{&in.Deductions, ColDeductions},
		{&in.Credits, ColCredits},
		{&in.Withheld, ColWithheld},
	}
	for _, a := range amounts {
		amount, err := tax.ParseAmount(field(a.name))
		if err != nil {
			return fail(fmt.Errorf("%s: %w", a.name, err))
		}
		*a.into = amount
	}

	if raw := field(ColTaxYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return fail(common.InvalidInputf("tax_year %q is not a year", raw))
		}
		in.TaxYear = year
	}

	if err := tax.ValidateTaxInput(in); err != nil {
		return fail(err)
	}

	row.Input = in
	return row
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

var outputHeader = []string{
	ColLabel, ColFilingStatus, ColTaxYear, ColIncome,
	"taxable_income", "total_tax", "effective_rate", "marginal_rate", "refund_or_owed", "error",
}

// WriteResults writes one CSV line per outcome, in input order.
func WriteResults(w io.Writer, outcomes []Outcome) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(outputHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, o := range outcomes {
		record := []string{o.Row.Label, string(o.Row.Input.FilingStatus), "", "", "", "", "", "", "", ""}
		if o.Err != nil {
			record[len(record)-1] = o.Err.Error()
		} else {
			record[2] = strconv.Itoa(o.Result.TaxYear)
			record[3] = o.Row.Input.Income.StringFixed(2)
			record[4] = o.Result.TaxableIncome.StringFixed(2)
			record[5] = o.Result.TotalTax.StringFixed(2)
			record[6] = o.Result.EffectiveRate.StringFixed(4)
			record[7] = o.Result.MarginalRate.StringFixed(4)
			record[8] = o.Result.RefundOrOwed.StringFixed(2)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write line %d: %w", o.Row.Line, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
