// Package tables loads the per-year federal tax figures: bracket schedules,
// standard deductions, the Social Security wage base and the additional
// Medicare thresholds. Tables are parsed once and never mutated afterwards.
package tables

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/model"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

type yearFile struct {
	StandardDeduction           map[string]string     `yaml:"standard_deduction"`
	AdditionalMedicareThreshold map[string]string     `yaml:"additional_medicare_threshold"`
	Brackets                    map[string][]stepFile `yaml:"brackets"`
	SocialSecurityWageBase      string                `yaml:"social_security_wage_base"`
	Year                        int                   `yaml:"year"`
}

type stepFile struct {
	Floor string `yaml:"floor"`
	Rate  string `yaml:"rate"`
}

// Parse decodes and validates a single year's YAML document.
func Parse(data []byte) (*model.YearTable, error) {
	var raw yearFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, common.InvalidTablef("decode: %v", err)
	}

	wageBase, err := parseAmount(raw.SocialSecurityWageBase, "social_security_wage_base")
	if err != nil {
		return nil, err
	}

	table := &model.YearTable{
		Year:                        raw.Year,
		SocialSecurityWageBase:      wageBase,
		Brackets:                    make(map[model.FilingStatus]model.BracketTable, len(raw.Brackets)),
		StandardDeduction:           make(map[model.FilingStatus]decimal.Decimal, len(raw.StandardDeduction)),
		AdditionalMedicareThreshold: make(map[model.FilingStatus]decimal.Decimal, len(raw.AdditionalMedicareThreshold)),
	}

	for key, steps := range raw.Brackets {
		status, err := statusKey(key)
		if err != nil {
			return nil, err
		}
		parsed := make([]model.BracketStep, 0, len(steps))
		for i, step := range steps {
			floor, err := parseAmount(step.Floor, fmt.Sprintf("brackets.%s[%d].floor", key, i))
			if err != nil {
				return nil, err
			}
			rate, err := parseAmount(step.Rate, fmt.Sprintf("brackets.%s[%d].rate", key, i))
			if err != nil {
				return nil, err
			}
			parsed = append(parsed, model.BracketStep{Floor: floor, Rate: rate})
		}
		table.Brackets[status] = model.NewBracketTable(parsed...)
	}

	if err := parseStatusAmounts(raw.StandardDeduction, "standard_deduction", table.StandardDeduction); err != nil {
		return nil, err
	}
	if err := parseStatusAmounts(raw.AdditionalMedicareThreshold, "additional_medicare_threshold", table.AdditionalMedicareThreshold); err != nil {
		return nil, err
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}

	return table, nil
}

func parseStatusAmounts(raw map[string]string, field string, into map[model.FilingStatus]decimal.Decimal) error {
	for key, value := range raw {
		status, err := statusKey(key)
		if err != nil {
			return err
		}
		amount, err := parseAmount(value, field+"."+key)
		if err != nil {
			return err
		}
		into[status] = amount
	}
	return nil
}

func statusKey(key string) (model.FilingStatus, error) {
	status := model.FilingStatus(key)
	if !status.IsValid() {
		return "", common.InvalidTablef("unknown filing status %q", key)
	}
	return status, nil
}

func parseAmount(value, field string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, common.InvalidTablef("%s is missing", field)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, common.InvalidTablef("%s: %v", field, err)
	}
	return amount, nil
}

// Registry is an immutable set of year tables keyed by tax year. It is safe
// for concurrent use. Callers must treat returned tables as read-only.
type Registry struct {
	years  map[int]*model.YearTable
	latest int
}

// NewRegistry validates the given tables and indexes them by year.
func NewRegistry(tables ...*model.YearTable) (*Registry, error) {
	if len(tables) == 0 {
		return nil, common.InvalidTablef("no tax years loaded")
	}

	r := &Registry{years: make(map[int]*model.YearTable, len(tables))}
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.years[t.Year]; dup {
			return nil, common.InvalidTablef("tax year %d defined twice", t.Year)
		}
		r.years[t.Year] = t
		if t.Year > r.latest {
			r.latest = t.Year
		}
	}

	return r, nil
}

// Year returns the tables for a tax year. Unknown years are an error, never a
// silent fallback to another year.
func (r *Registry) Year(year int) (*model.YearTable, error) {
	t, ok := r.years[year]
	if !ok {
		return nil, common.InvalidTablef("no tables for tax year %d (have %v)", year, r.Years())
	}
	return t, nil
}

// Years lists the loaded tax years in ascending order.
func (r *Registry) Years() []int {
	years := make([]int, 0, len(r.years))
	for y := range r.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Latest returns the most recent loaded tax year.
func (r *Registry) Latest() int {
	return r.latest
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	errDefault      error
)

// Default returns the registry built from the tables compiled into the binary.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		tables, err := readDir(embedded, "data")
		if err != nil {
			errDefault = err
			return
		}
		defaultRegistry, errDefault = NewRegistry(tables...)
	})
	return defaultRegistry, errDefault
}

// Load builds a registry from the embedded tables plus any YAML files in dir.
// A file in dir replaces the embedded table for the same year. An empty dir
// returns the embedded registry.
func Load(dir string) (*Registry, error) {
	if dir == "" {
		return Default()
	}

	base, err := readDir(embedded, "data")
	if err != nil {
		return nil, err
	}
	overrides, err := readDir(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("tables directory %s: %w", dir, err)
	}

	byYear := make(map[int]*model.YearTable, len(base)+len(overrides))
	for _, t := range base {
		byYear[t.Year] = t
	}
	for _, t := range overrides {
		if _, ok := byYear[t.Year]; ok {
			common.LogInfo("Overriding embedded tax tables", common.Fields{"year": t.Year, "dir": dir})
		}
		byYear[t.Year] = t
	}

	merged := make([]*model.YearTable, 0, len(byYear))
	for _, t := range byYear {
		merged = append(merged, t)
	}
	return NewRegistry(merged...)
}

func readDir(fsys fs.FS, dir string) ([]*model.YearTable, error) {
	paths, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "*.yaml")))
	if err != nil {
		return nil, err
	}

	tables := make([]*model.YearTable, 0, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		common.LogDebug("Loaded tax tables", common.Fields{"year": t.Year, "source": path})
		tables = append(tables, t)
	}
	return tables, nil
}
