// Package testutil provides shared fixtures for taxflow tests: the built-in
// tax tables, decimal helpers and a seeded in-memory estimate history.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/taxflow/internal/model"
	"github.com/Veraticus/taxflow/internal/service"
	"github.com/Veraticus/taxflow/internal/storage"
)

// TestDB represents a test database with the estimates it was seeded with.
type TestDB struct {
	Storage   service.EstimateStore
	t         *testing.T
	Estimates []*model.Estimate
}

// SetupTestDB creates a new in-memory estimate history and saves seed into
// it in order. Migrations and cleanup are handled automatically.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.MustRefundEstimate(t, "avery", in, result),
//	)
func SetupTestDB(t *testing.T, seed ...*model.Estimate) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, e := range seed {
		if err := store.SaveEstimate(ctx, e); err != nil {
			t.Fatalf("failed to seed estimate %q: %v", e.Label, err)
		}
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return &TestDB{
		Storage:   store,
		Estimates: seed,
		t:         t,
	}
}

// MustGet returns the stored estimate with id or fails the test.
func (db *TestDB) MustGet(id string) *model.Estimate {
	db.t.Helper()
	e, err := db.Storage.GetEstimate(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to load estimate %s: %v", id, err)
	}
	return e
}

// MustRefundEstimate builds a refund estimate or fails the test.
func MustRefundEstimate(t *testing.T, label string, in model.TaxInput, result model.TaxResult) *model.Estimate {
	t.Helper()
	e, err := model.RefundEstimate(label, in, result)
	if err != nil {
		t.Fatalf("failed to build estimate: %v", err)
	}
	return e
}
