// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/taxflow/internal/model"
)

// EstimateFilter narrows an estimate history query. Zero values match all.
type EstimateFilter struct {
	Kind    model.EstimateKind
	Label   string
	TaxYear int
	Limit   int
}

// EstimateStore defines the contract for the estimate history.
type EstimateStore interface {
	SaveEstimate(ctx context.Context, estimate *model.Estimate) error
	GetEstimate(ctx context.Context, id string) (*model.Estimate, error)
	ListEstimates(ctx context.Context, filter EstimateFilter) ([]model.Estimate, error)
	DeleteEstimate(ctx context.Context, id string) error
	Migrate(ctx context.Context) error
	Close() error
}
