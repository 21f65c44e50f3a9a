// =============================================================================
// Column Configuration Validator - CSV Selection Parser
// =============================================================================
//
// This module reads selection events from CSV. Each data row is one change a
// user made to one column, replayed in file order by the session:
//
//   column,field,value
//   0,engagement,A
//   0,balance_type,Unadjusted Balance
//   1,clear,
//
// FEATURES:
//   - Configurable delimiter and header row count
//   - Header names are matched case-insensitively and may appear in any order
//   - Empty rows are skipped
//   - Errors carry the 1-based row number
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ginjaninja78/column-config-validator/internal/types"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls how selection files are read.
type Settings struct {
	// Delimiter separates fields. "tab", "pipe" and "semicolon" are accepted
	// by name.
	// Default: ","
	Delimiter string

	// HeaderRows is the number of rows before the data. The last header row
	// names the columns.
	// Default: 1
	HeaderRows int
}

// DefaultSettings returns comma-separated, single-header settings.
func DefaultSettings() Settings {
	return Settings{Delimiter: ",", HeaderRows: 1}
}

// Required header names.
const (
	HeaderColumn = "column"
	HeaderField  = "field"
	HeaderValue  = "value"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads selection events from a CSV file.
func ParseFile(filePath string, settings Settings) ([]types.Selection, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(bufio.NewReader(file), filepath.Base(filePath), settings)
}

// Parse reads selection events from r. source names the input in event
// Source fields and error messages.
//
// PARSING PROCESS:
//  1. Configure the CSV reader from settings
//  2. Skip leading header rows and index the last one
//  3. Convert each non-empty data row into a Selection, numbered by its
//     line in the file
func Parse(r io.Reader, source string, settings Settings) ([]types.Selection, error) {
	if settings.HeaderRows <= 0 {
		return nil, fmt.Errorf("header rows must be at least 1")
	}

	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	var header []string
	for i := 0; i < settings.HeaderRows; i++ {
		row, err := csvReader.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("%s: file has fewer rows than the %d header row(s)", source, settings.HeaderRows)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		header = row
	}

	index, err := indexHeaders(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	var selections []types.Selection
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if isRowEmpty(row) {
			continue
		}

		// encoding/csv skips blank lines, so take the number from the reader.
		lineNumber, _ := csvReader.FieldPos(0)
		sel, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", source, lineNumber, err)
		}
		sel.Source = fmt.Sprintf("%s:%d", source, lineNumber)
		selections = append(selections, sel)
	}

	return selections, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Value cells may be left off entirely for "clear" rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// headerIndex maps a required header to its position.
type headerIndex map[string]int

// indexHeaders locates the required headers in a header row.
func indexHeaders(header []string) (headerIndex, error) {
	index := make(headerIndex)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate header %q", h)
		}
		index[name] = i
	}

	var missing []string
	for _, required := range []string{HeaderColumn, HeaderField, HeaderValue} {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing header(s): %s", strings.Join(missing, ", "))
	}
	return index, nil
}

// parseRow converts a data row into a Selection.
func parseRow(row []string, index headerIndex) (types.Selection, error) {
	cell := func(name string) string {
		pos := index[name]
		if pos < len(row) {
			return strings.TrimSpace(row[pos])
		}
		return ""
	}

	rawColumn := cell(HeaderColumn)
	column, err := strconv.Atoi(rawColumn)
	if err != nil {
		return types.Selection{}, fmt.Errorf("column %q is not an integer", rawColumn)
	}
	if column < 0 {
		return types.Selection{}, fmt.Errorf("column %d is negative", column)
	}

	field, err := NormalizeField(cell(HeaderField))
	if err != nil {
		return types.Selection{}, err
	}

	return types.Selection{
		Column: column,
		Field:  field,
		Value:  cell(HeaderValue),
	}, nil
}

// NormalizeField maps the spellings found in hand-written files
// ("Balance Type", "debitCredit", "dr/cr") to a types.Field* constant.
func NormalizeField(raw string) (string, error) {
	key := strings.NewReplacer(" ", "", "_", "", "-", "", "/", "").Replace(strings.ToLower(strings.TrimSpace(raw)))

	switch key {
	case "engagement":
		return types.FieldEngagement, nil
	case "balancetype", "balance":
		return types.FieldBalanceType, nil
	case "period":
		return types.FieldPeriod, nil
	case "debitcredit", "drcr":
		return types.FieldDebitCredit, nil
	case "clear", "reset":
		return types.FieldClear, nil
	default:
		return "", fmt.Errorf("unknown field %q", raw)
	}
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
