// =============================================================================
// Column Configuration Validator - Configuration Module
// =============================================================================
//
// This module loads the application configuration from YAML. The file holds
// two kinds of settings:
//
//   1. Application settings: logging, report output, column limits
//   2. Catalog: the option lists offered for each column field, including
//      the closed set of balance types that take part in validation
//
// A missing configuration file is not an error when the user did not ask
// for one explicitly; Default() supplies the same values the defaults below
// would.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/column-config-validator/internal/types"
)

// Supported report formats.
const (
	ReportFormatText = "text"
	ReportFormatJSON = "json"
	ReportFormatXML  = "xml"
	ReportFormatXLSX = "xlsx"
)

// ReportFormats lists every supported report format.
var ReportFormats = []string{ReportFormatText, ReportFormatJSON, ReportFormatXML, ReportFormatXLSX}

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log line format.
	// Valid values: "text", "json", "logfmt"
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// OutputDir is where report files are written.
	// Default: "./reports"
	OutputDir string `yaml:"output_dir"`

	// ReportFormat is the default report format.
	// Valid values: "text", "json", "xml", "xlsx"
	// Default: "text"
	ReportFormat string `yaml:"report_format"`

	// ReportFileFormat names report files. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {session}   - The session ID
	// The extension of the report format is appended.
	// Default: "validation_{timestamp}_{uuid}"
	ReportFileFormat string `yaml:"report_file_format"`

	// =========================================================================
	// COLUMN SETTINGS
	// =========================================================================

	// ColumnLimit is the number of columns in the import sheet. Column
	// indices at or above it are rejected. Zero disables the check.
	// Default: 0
	ColumnLimit int `yaml:"column_limit"`

	// Catalog holds the options offered for each field.
	Catalog Catalog `yaml:"catalog"`
}

// =============================================================================
// CATALOG STRUCTURE
// =============================================================================

// Catalog lists the options a user can pick for each column field.
type Catalog struct {
	// BalanceTypes is the closed set of balance types that participate in
	// duplicate and business rule checks.
	BalanceTypes []string `yaml:"balance_types"`

	// OtherTypes are balance-type options that are tracked but never
	// validated, such as "not-used" or "account-grouping".
	OtherTypes []string `yaml:"other_types"`

	// ClearOnTypes are balance-type options that clear the column entirely
	// when selected. An explicit empty list keeps such records, which
	// reports then show as ignored.
	// Default: every entry of OtherTypes
	ClearOnTypes []string `yaml:"clear_on_types"`

	// Periods lists the period options.
	Periods []string `yaml:"periods"`

	// DebitCredit lists the debit/credit options.
	DebitCredit []string `yaml:"debit_credit"`

	// Engagements lists the engagement options. It may be empty when
	// engagements are typed in freely.
	Engagements []string `yaml:"engagements"`

	// Aliases maps a field to alternative spellings of its options, e.g.
	// balance_type: {"Unadj": "unadjusted-balance"}. Alias keys are
	// compared in canonical form.
	Aliases map[string]map[string]string `yaml:"aliases"`

	// NormalizeValues rewrites selected values to the catalog's spelling
	// when they match an option in canonical form ("Current Period" becomes
	// "current-period").
	// Default: false
	NormalizeValues bool `yaml:"normalize_values"`
}

// BalanceTypeSet returns the closed participating set.
func (c Catalog) BalanceTypeSet() types.BalanceTypeSet {
	return types.NewBalanceTypeSet(c.BalanceTypes...)
}

// ClearsColumn reports whether selecting balanceType clears the column.
func (c Catalog) ClearsColumn(balanceType string) bool {
	key := types.CanonicalName(balanceType)
	if key == "" {
		return false
	}
	for _, name := range c.ClearOnTypes {
		if types.CanonicalName(name) == key {
			return true
		}
	}
	return false
}

// Options returns the options for a field, in catalog order. For the
// balance type field the participating types come first.
func (c Catalog) Options(field string) ([]string, error) {
	switch field {
	case types.FieldEngagement:
		return append([]string(nil), c.Engagements...), nil
	case types.FieldBalanceType:
		out := append([]string(nil), c.BalanceTypes...)
		return append(out, c.OtherTypes...), nil
	case types.FieldPeriod:
		return append([]string(nil), c.Periods...), nil
	case types.FieldDebitCredit:
		return append([]string(nil), c.DebitCredit...), nil
	default:
		return nil, fmt.Errorf("unknown field %q (expected one of %s)", field, strings.Join(types.Fields, ", "))
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is given.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return config, nil
}

// Parse parses, defaults and validates YAML configuration data.
func Parse(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./reports"
	}
	if config.ReportFormat == "" {
		config.ReportFormat = ReportFormatText
	}
	if config.ReportFileFormat == "" {
		config.ReportFileFormat = "validation_{timestamp}_{uuid}"
	}

	// Catalog defaults.
	catalog := &config.Catalog
	if len(catalog.BalanceTypes) == 0 {
		catalog.BalanceTypes = append([]string(nil), types.DefaultBalanceTypes...)
	}
	if len(catalog.OtherTypes) == 0 {
		catalog.OtherTypes = []string{"not-used", "account-grouping", "tax-information"}
	}
	if catalog.ClearOnTypes == nil {
		catalog.ClearOnTypes = append([]string(nil), catalog.OtherTypes...)
	}
	if len(catalog.Periods) == 0 {
		catalog.Periods = []string{"current-period", "prior-period-1", "prior-period-2"}
	}
	if len(catalog.DebitCredit) == 0 {
		catalog.DebitCredit = []string{"debit", "credit", "combined"}
	}
}

// validateMainConfig validates the configuration.
func validateMainConfig(config *MainConfig) error {
	if !contains(ReportFormats, config.ReportFormat) {
		return fmt.Errorf("report_format %q is not one of %s", config.ReportFormat, strings.Join(ReportFormats, ", "))
	}

	if _, err := log.ParseLevel(strings.ToLower(config.LogLevel)); err != nil {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", config.LogLevel)
	}

	switch strings.ToLower(config.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format %q is not one of text, json, logfmt", config.LogFormat)
	}

	if config.ColumnLimit < 0 {
		return fmt.Errorf("column_limit must not be negative, got %d", config.ColumnLimit)
	}

	// A type cannot be both validated and ignored.
	participating := config.Catalog.BalanceTypeSet()
	for _, name := range config.Catalog.OtherTypes {
		if participating.Contains(name) {
			return fmt.Errorf("catalog: %q is listed in both balance_types and other_types", name)
		}
	}
	for _, name := range config.Catalog.ClearOnTypes {
		if participating.Contains(name) {
			return fmt.Errorf("catalog: clear_on_types entry %q is a participating balance type", name)
		}
	}
	for field := range config.Catalog.Aliases {
		if !contains(types.Fields, field) {
			return fmt.Errorf("catalog: aliases for unknown field %q", field)
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
