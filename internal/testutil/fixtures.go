package testutil

import (
	"testing"

	"github.com/Veraticus/taxflow/internal/tables"
	"github.com/shopspring/decimal"
)

// Tables returns the built-in tax table registry or fails the test.
func Tables(t *testing.T) *tables.Registry {
	t.Helper()
	registry, err := tables.Default()
	if err != nil {
		t.Fatalf("failed to load built-in tax tables: %v", err)
	}
	return registry
}

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// EqualMoney fails the test when got differs from want.
func EqualMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	if !Dec(want).Equal(got) {
		t.Errorf("%s = %s, want %s", field, got.String(), want)
	}
}
