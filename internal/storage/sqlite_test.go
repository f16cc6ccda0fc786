package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/Veraticus/taxflow/internal/service"
	"github.com/shopspring/decimal"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func makeEstimate(t *testing.T, label string, income int64, createdAt time.Time) *model.Estimate {
	t.Helper()
	in := model.TaxInput{
		Income:       decimal.NewFromInt(income),
		FilingStatus: model.Single,
		TaxYear:      2024,
	}
	result := model.TaxResult{
		TaxYear:      2024,
		TotalTax:     decimal.NewFromInt(income / 10),
		RefundOrOwed: decimal.NewFromInt(-income / 10),
	}
	estimate, err := model.RefundEstimate(label, in, result)
	if err != nil {
		t.Fatalf("Failed to build estimate: %v", err)
	}
	estimate.CreatedAt = createdAt
	return estimate
}

func TestSQLiteStorage_SaveAndGetEstimate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	estimate := makeEstimate(t, "Jordan", 50000, time.Time{})
	if err := store.SaveEstimate(ctx, estimate); err != nil {
		t.Fatalf("Failed to save estimate: %v", err)
	}
	if estimate.ID == "" {
		t.Fatal("SaveEstimate did not assign an ID")
	}
	if estimate.CreatedAt.IsZero() {
		t.Fatal("SaveEstimate did not set CreatedAt")
	}

	got, err := store.GetEstimate(ctx, estimate.ID)
	if err != nil {
		t.Fatalf("Failed to get estimate: %v", err)
	}

	if got.Kind != model.KindRefund {
		t.Errorf("Kind = %q, want %q", got.Kind, model.KindRefund)
	}
	if got.Label != "Jordan" {
		t.Errorf("Label = %q, want Jordan", got.Label)
	}
	if got.FilingStatus != model.Single || got.TaxYear != 2024 {
		t.Errorf("unexpected status/year: %s/%d", got.FilingStatus, got.TaxYear)
	}
	if !got.TotalTax.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("TotalTax = %s, want 5000", got.TotalTax)
	}
	if !got.RefundOrOwed.Equal(decimal.NewFromInt(-5000)) {
		t.Errorf("RefundOrOwed = %s, want -5000", got.RefundOrOwed)
	}
	if string(got.Input) != string(estimate.Input) {
		t.Errorf("Input mismatch: %s vs %s", got.Input, estimate.Input)
	}
}

func TestSQLiteStorage_GetEstimateNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetEstimate(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_ListEstimates(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, label := range []string{"Avery", "Blake", "Avery"} {
		if err := store.SaveEstimate(ctx, makeEstimate(t, label, int64(10000*(i+1)), base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Failed to save estimate %d: %v", i, err)
		}
	}

	all, err := store.ListEstimates(ctx, service.EstimateFilter{})
	if err != nil {
		t.Fatalf("Failed to list estimates: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d estimates, want 3", len(all))
	}
	if !all[0].TotalTax.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("newest estimate first: got total %s", all[0].TotalTax)
	}

	avery, err := store.ListEstimates(ctx, service.EstimateFilter{Label: "Avery"})
	if err != nil {
		t.Fatalf("Failed to list by label: %v", err)
	}
	if len(avery) != 2 {
		t.Errorf("got %d estimates for Avery, want 2", len(avery))
	}

	limited, err := store.ListEstimates(ctx, service.EstimateFilter{Limit: 1, Kind: model.KindRefund, TaxYear: 2024})
	if err != nil {
		t.Fatalf("Failed to list with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d estimates with limit 1", len(limited))
	}

	none, err := store.ListEstimates(ctx, service.EstimateFilter{Kind: model.KindWithholding})
	if err != nil {
		t.Fatalf("Failed to list by kind: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("got %v withholding estimates, want an empty list", none)
	}
}

func TestSQLiteStorage_DeleteEstimate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	estimate := makeEstimate(t, "", 20000, time.Time{})
	if err := store.SaveEstimate(ctx, estimate); err != nil {
		t.Fatalf("Failed to save estimate: %v", err)
	}

	if err := store.DeleteEstimate(ctx, estimate.ID); err != nil {
		t.Fatalf("Failed to delete estimate: %v", err)
	}
	if err := store.DeleteEstimate(ctx, estimate.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		estimate *model.Estimate
		wantErr  error
		name     string
	}{
		{name: "nil estimate", estimate: nil, wantErr: ErrNilParameter},
		{name: "unknown kind", estimate: &model.Estimate{Kind: "payroll", FilingStatus: model.Single, TaxYear: 2024, Input: []byte("{}"), Result: []byte("{}")}, wantErr: ErrInvalidEstimate},
		{name: "unknown status", estimate: &model.Estimate{Kind: model.KindRefund, FilingStatus: "widowed", TaxYear: 2024, Input: []byte("{}"), Result: []byte("{}")}, wantErr: ErrInvalidEstimate},
		{name: "missing year", estimate: &model.Estimate{Kind: model.KindRefund, FilingStatus: model.Single, Input: []byte("{}"), Result: []byte("{}")}, wantErr: ErrInvalidEstimate},
		{name: "missing payload", estimate: &model.Estimate{Kind: model.KindRefund, FilingStatus: model.Single, TaxYear: 2024}, wantErr: ErrInvalidEstimate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SaveEstimate(ctx, tt.estimate); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := store.GetEstimate(ctx, "  "); !errors.Is(err, ErrEmptyString) {
		t.Errorf("expected ErrEmptyString, got %v", err)
	}
	//nolint:staticcheck // exercising nil context guard
	if err := store.Migrate(nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("expected ErrNilContext, got %v", err)
	}
}

func TestSQLiteStorage_MigrateIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	var indexCount int
	err := store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_estimates_label'
	`).Scan(&indexCount)
	if err != nil {
		t.Fatalf("Failed to check index: %v", err)
	}
	if indexCount != 1 {
		t.Error("label index was not created")
	}
}

func TestNewSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate in-memory storage: %v", err)
	}
}
