package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/taxflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidEstimate = errors.New("invalid estimate")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateEstimate checks an estimate before it is written.
func validateEstimate(estimate *model.Estimate) error {
	if estimate == nil {
		return fmt.Errorf("%w: estimate", ErrNilParameter)
	}
	if !estimate.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEstimate, estimate.Kind)
	}
	if !estimate.FilingStatus.IsValid() {
		return fmt.Errorf("%w: unknown filing status %q", ErrInvalidEstimate, estimate.FilingStatus)
	}
	if estimate.TaxYear <= 0 {
		return fmt.Errorf("%w: missing tax year", ErrInvalidEstimate)
	}
	if len(estimate.Input) == 0 || len(estimate.Result) == 0 {
		return fmt.Errorf("%w: missing input or result", ErrInvalidEstimate)
	}
	return nil
}
