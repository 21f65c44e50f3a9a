package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/column-config-validator/internal/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "./reports", cfg.OutputDir)
	assert.Equal(t, ReportFormatText, cfg.ReportFormat)
	assert.Equal(t, "validation_{timestamp}_{uuid}", cfg.ReportFileFormat)
	assert.Equal(t, 0, cfg.ColumnLimit)
	assert.Equal(t, types.DefaultBalanceTypes, cfg.Catalog.BalanceTypes)
	assert.Equal(t, []string{"not-used", "account-grouping", "tax-information"}, cfg.Catalog.ClearOnTypes)
	assert.Equal(t, []string{"debit", "credit", "combined"}, cfg.Catalog.DebitCredit)
}

func TestLoadMainConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
log_level: debug
log_format: json
report_format: xlsx
column_limit: 12
catalog:
  balance_types: ["Unadjusted Balance", "Adjusted Balance"]
  other_types: ["Not Used"]
  clear_on_types: []
  periods: ["Current Period", "Prior Period 1"]
  engagements: ["E1", "E2"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ReportFormatXLSX, cfg.ReportFormat)
	assert.Equal(t, 12, cfg.ColumnLimit)
	assert.Equal(t, []string{"E1", "E2"}, cfg.Catalog.Engagements)
	// an explicit empty list disables clearing
	assert.Empty(t, cfg.Catalog.ClearOnTypes)
	assert.False(t, cfg.Catalog.ClearsColumn("Not Used"))
	// unset lists still get defaults
	assert.Equal(t, []string{"debit", "credit", "combined"}, cfg.Catalog.DebitCredit)

	set := cfg.Catalog.BalanceTypeSet()
	assert.True(t, set.Contains("unadjusted-balance"))
	assert.False(t, set.Contains("report-balance"))
}

func TestLoadMainConfig_MissingFile(t *testing.T) {
	_, err := LoadMainConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"bad yaml", "log_level: [", "failed to parse"},
		{"bad report format", "report_format: pdf", "report_format"},
		{"bad log format", "log_format: xml", "log_format"},
		{"bad log level", "log_level: loud", `log_level "loud"`},
		{"negative limit", "column_limit: -1", "column_limit"},
		{
			"overlapping catalog",
			"catalog:\n  balance_types: [report-balance]\n  other_types: [Report Balance]\n",
			"both balance_types and other_types",
		},
		{
			"clearing a participating type",
			"catalog:\n  clear_on_types: [adjusted-balance]\n",
			"clear_on_types",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalog_ClearsColumn(t *testing.T) {
	c := Default().Catalog

	assert.True(t, c.ClearsColumn("not-used"))
	assert.True(t, c.ClearsColumn("Not Used"))
	assert.True(t, c.ClearsColumn("Account Grouping"))
	assert.False(t, c.ClearsColumn("memo"))
	assert.False(t, c.ClearsColumn(""))
}

func TestCatalog_Options(t *testing.T) {
	c := Default().Catalog

	opts, err := c.Options(types.FieldBalanceType)
	require.NoError(t, err)
	assert.Equal(t, "unadjusted-balance", opts[0])
	assert.Contains(t, opts, "account-grouping")
	assert.Len(t, opts, len(c.BalanceTypes)+len(c.OtherTypes))

	opts, err = c.Options(types.FieldPeriod)
	require.NoError(t, err)
	assert.Equal(t, []string{"current-period", "prior-period-1", "prior-period-2"}, opts)

	// returned slices are copies
	opts[0] = "mutated"
	assert.Equal(t, "current-period", c.Periods[0])

	_, err = c.Options("colour")
	assert.Error(t, err)
}

func TestParse_Aliases(t *testing.T) {
	cfg, err := Parse([]byte("catalog:\n  normalize_values: true\n  aliases:\n    period:\n      CY: current-period\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Catalog.NormalizeValues)
	assert.Equal(t, "current-period", cfg.Catalog.Aliases[types.FieldPeriod]["CY"])

	_, err = Parse([]byte("catalog:\n  aliases:\n    colour:\n      r: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `aliases for unknown field "colour"`)
}

func TestParse_ClearOnTypesFollowOtherTypes(t *testing.T) {
	cfg, err := Parse([]byte("catalog:\n  other_types: [\"Not Used\", memo]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Not Used", "memo"}, cfg.Catalog.ClearOnTypes)
	assert.True(t, cfg.Catalog.ClearsColumn("memo"))
}
