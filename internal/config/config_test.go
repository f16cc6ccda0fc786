package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/taxflow/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TAXFLOW_TEST_DIR", "/srv/taxes")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "data", "t.db"), ExpandPath("~/data/t.db"))
	assert.Equal(t, "/srv/taxes/t.db", ExpandPath("$TAXFLOW_TEST_DIR/t.db"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
}

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.Equal(t, 0, s.TaxYear)
	assert.Empty(t, s.TablesDir)
	assert.NotContains(t, s.DatabasePath, "$HOME")
	assert.GreaterOrEqual(t, s.BatchWorkers, 1)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyTaxYear, 2025)
	v.Set(KeyBatchWorkers, 8)
	v.Set(KeyDatabasePath, "/tmp/history.db")
	v.Set(KeyLogFormat, "json")

	s, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 2025, s.TaxYear)
	assert.Equal(t, 8, s.BatchWorkers)
	assert.Equal(t, "/tmp/history.db", s.DatabasePath)
	assert.Equal(t, "json", s.LogFormat)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{key: KeyBatchWorkers, value: 0},
		{key: KeyTaxYear, value: -1},
		{key: KeyLogLevel, value: "loud"},
		{key: KeyLogFormat, value: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := FromViper(v)
			require.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}
