package config

import (
	"fmt"
	"runtime"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyLogLevel     = "logging.level"
	KeyLogFormat    = "logging.format"
	KeyTaxYear      = "tax.year"
	KeyTablesDir    = "tables.dir"
	KeyDatabasePath = "database.path"
	KeyBatchWorkers = "batch.workers"
)

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/taxflow/taxflow.db"

// Settings is the resolved application configuration.
type Settings struct {
	LogLevel     string
	LogFormat    string
	TablesDir    string
	DatabasePath string
	TaxYear      int
	BatchWorkers int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyBatchWorkers, runtime.NumCPU())
}

// FromViper reads and validates Settings. A zero TaxYear means the latest
// year in the loaded tables.
func FromViper(v *viper.Viper) (Settings, error) {
	s := Settings{
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		TablesDir:    ExpandPath(v.GetString(KeyTablesDir)),
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		TaxYear:      v.GetInt(KeyTaxYear),
		BatchWorkers: v.GetInt(KeyBatchWorkers),
	}

	if s.DatabasePath == "" {
		s.DatabasePath = ExpandPath(DefaultDatabasePath)
	}
	if s.BatchWorkers < 1 {
		return s, fmt.Errorf("%w: %s must be at least 1, got %d", common.ErrInvalidConfig, KeyBatchWorkers, s.BatchWorkers)
	}
	if s.TaxYear < 0 {
		return s, fmt.Errorf("%w: %s must be a year, got %d", common.ErrInvalidConfig, KeyTaxYear, s.TaxYear)
	}
	if _, err := common.ParseLevel(s.LogLevel); err != nil {
		return s, err
	}
	switch s.LogFormat {
	case "console", "json":
	default:
		return s, fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, s.LogFormat)
	}

	return s, nil
}
