package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/Veraticus/taxflow/internal/service"
	"github.com/google/uuid"
)

const estimateColumns = `id, kind, label, tax_year, filing_status, input, result, total_tax, refund_or_owed, created_at`

// SaveEstimate stores an estimate, assigning an ID and timestamp when unset.
func (s *SQLiteStorage) SaveEstimate(ctx context.Context, estimate *model.Estimate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEstimate(estimate); err != nil {
		return err
	}

	if estimate.ID == "" {
		estimate.ID = uuid.NewString()
	}
	if estimate.CreatedAt.IsZero() {
		estimate.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO estimates (`+estimateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		estimate.ID,
		string(estimate.Kind),
		estimate.Label,
		estimate.TaxYear,
		string(estimate.FilingStatus),
		string(estimate.Input),
		string(estimate.Result),
		estimate.TotalTax,
		estimate.RefundOrOwed,
		estimate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save estimate: %w", err)
	}

	return nil
}

// GetEstimate retrieves an estimate by ID.
func (s *SQLiteStorage) GetEstimate(ctx context.Context, id string) (*model.Estimate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+estimateColumns+` FROM estimates WHERE id = ?`, id)
	estimate, err := scanEstimate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("estimate %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}

	return estimate, nil
}

// ListEstimates returns matching estimates, newest first.
func (s *SQLiteStorage) ListEstimates(ctx context.Context, filter service.EstimateFilter) ([]model.Estimate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Label != "" {
		where = append(where, "label = ?")
		args = append(args, filter.Label)
	}
	if filter.TaxYear != 0 {
		where = append(where, "tax_year = ?")
		args = append(args, filter.TaxYear)
	}

	query := `SELECT ` + estimateColumns + ` FROM estimates`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query estimates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	estimates := make([]model.Estimate, 0)
	for rows.Next() {
		estimate, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan estimate: %w", err)
		}
		estimates = append(estimates, *estimate)
	}

	return estimates, rows.Err()
}

// DeleteEstimate removes an estimate by ID.
func (s *SQLiteStorage) DeleteEstimate(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM estimates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete estimate: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("estimate %s: %w", id, common.ErrNotFound)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEstimate(row scanner) (*model.Estimate, error) {
	var (
		estimate      model.Estimate
		kind, status  string
		input, result string
	)

	err := row.Scan(
		&estimate.ID,
		&kind,
		&estimate.Label,
		&estimate.TaxYear,
		&status,
		&input,
		&result,
		&estimate.TotalTax,
		&estimate.RefundOrOwed,
		&estimate.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	estimate.Kind = model.EstimateKind(kind)
	estimate.FilingStatus = model.FilingStatus(status)
	estimate.Input = []byte(input)
	estimate.Result = []byte(result)

	return &estimate, nil
}
