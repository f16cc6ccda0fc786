package tax

import (
	"github.com/Veraticus/taxflow/internal/model"
)

// TableSource supplies the statutory figures for a tax year.
type TableSource interface {
	Year(year int) (*model.YearTable, error)
	Latest() int
}

// Calculator runs the estimators against a set of year tables. It holds no
// mutable state and may be shared between goroutines.
type Calculator struct {
	tables TableSource
}

// NewCalculator creates a calculator backed by tables.
func NewCalculator(tables TableSource) *Calculator {
	return &Calculator{tables: tables}
}

// yearFor resolves the table for an input, using the latest year when the
// input leaves it unset.
func (c *Calculator) yearFor(year int) (*model.YearTable, error) {
	if year == 0 {
		year = c.tables.Latest()
	}
	return c.tables.Year(year)
}
