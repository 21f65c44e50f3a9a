// =============================================================================
// Column Configuration Validator - XLSX Mapping Parser
// =============================================================================
//
// This module reads column configurations from an XLSX mapping workbook and
// turns them into selection events. It also reads the header labels of an
// import sheet so reports can name columns the way users see them.
//
// MAPPING STRUCTURE (Expected Columns):
//   Column positions are configurable via the MappingColumns struct.
//
//   | Column A | Column B   | Column C           | Column D       | Column E     |
//   |----------|------------|--------------------|----------------|--------------|
//   | Column   | Engagement | Balance Type       | Period         | Debit/Credit |
//   | 0        | E1         | Unadjusted Balance | Current Period | debit        |
//   | 1        | E1         | Adjusted Balance   | Prior Period 1 | credit       |
//   | C        | E2         | not-used           |                |              |
//
// The Column cell holds a 0-based index or a spreadsheet column letter
// ("C" is index 2). A blank cell means nothing was selected for that field.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/column-config-validator/internal/types"
)

// MappingSheet is the sheet read when it exists. Otherwise the first sheet
// is used.
const MappingSheet = "Mapping"

// =============================================================================
// MAPPING COLUMN CONFIGURATION
// =============================================================================

// MappingColumns defines which workbook columns contain which data.
// Column indices are 0-based (A=0, B=1, C=2, etc.). A negative index means
// the workbook has no such column.
type MappingColumns struct {
	// ColumnIndexColumn holds the import column the row configures.
	// Default: 0 (Column A)
	ColumnIndexColumn int

	// EngagementColumn holds the engagement.
	// Default: 1 (Column B)
	EngagementColumn int

	// BalanceTypeColumn holds the balance type.
	// Default: 2 (Column C)
	BalanceTypeColumn int

	// PeriodColumn holds the period.
	// Default: 3 (Column D)
	PeriodColumn int

	// DebitCreditColumn holds the debit/credit selection.
	// Default: 4 (Column E)
	DebitCreditColumn int

	// DataStartRow is the row number where data begins (0-based).
	// Default: 1 (Row 2)
	DataStartRow int
}

// DefaultMappingColumns returns the default column configuration.
func DefaultMappingColumns() MappingColumns {
	return MappingColumns{
		ColumnIndexColumn: 0, // Column A
		EngagementColumn:  1, // Column B
		BalanceTypeColumn: 2, // Column C
		PeriodColumn:      3, // Column D
		DebitCreditColumn: 4, // Column E
		DataStartRow:      1, // Row 2
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseMapping reads a mapping workbook with the default layout.
//
// PARAMETERS:
//   - path: The path to the XLSX mapping workbook.
//
// RETURNS:
//   - The selection events, row by row, in field order within a row.
//   - An error if the file cannot be read or a row is malformed.
func ParseMapping(path string) ([]types.Selection, error) {
	return ParseMappingWithConfig(path, DefaultMappingColumns())
}

// ParseMappingWithConfig reads a mapping workbook using a custom layout.
func ParseMappingWithConfig(path string, columns MappingColumns) ([]types.Selection, error) {
	if columns.ColumnIndexColumn < 0 {
		return nil, fmt.Errorf("mapping layout has no column index column")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := mappingSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var selections []types.Selection
	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}

		rowSelections, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheetName, i+1, err)
		}

		source := fmt.Sprintf("%s!%d", sheetName, i+1)
		for j := range rowSelections {
			rowSelections[j].Source = source
		}
		selections = append(selections, rowSelections...)
	}

	return selections, nil
}

// mappingSheet picks the "Mapping" sheet, or the first sheet when there is
// none.
func mappingSheet(f *excelize.File) (string, error) {
	if idx, err := f.GetSheetIndex(MappingSheet); err == nil && idx >= 0 {
		return MappingSheet, nil
	}
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return "", fmt.Errorf("mapping workbook has no sheets")
	}
	return sheetName, nil
}

// parseRow turns one mapping row into selection events.
func parseRow(row []string, columns MappingColumns) ([]types.Selection, error) {
	getCell := func(col int) string {
		if col >= 0 && col < len(row) {
			return strings.TrimSpace(row[col])
		}
		return ""
	}

	column, err := ParseColumnRef(getCell(columns.ColumnIndexColumn))
	if err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		col  int
	}{
		{types.FieldEngagement, columns.EngagementColumn},
		{types.FieldBalanceType, columns.BalanceTypeColumn},
		{types.FieldPeriod, columns.PeriodColumn},
		{types.FieldDebitCredit, columns.DebitCreditColumn},
	}

	var selections []types.Selection
	for _, field := range fields {
		value := getCell(field.col)
		if value == "" {
			continue
		}
		selections = append(selections, types.Selection{
			Column: column,
			Field:  field.name,
			Value:  value,
		})
	}
	return selections, nil
}

// ParseColumnRef parses a column reference: a 0-based index ("2") or a
// spreadsheet column letter ("C").
func ParseColumnRef(ref string) (int, error) {
	if ref == "" {
		return 0, fmt.Errorf("column reference is empty")
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("column %d is negative", n)
		}
		return n, nil
	}

	n, err := excelize.ColumnNameToNumber(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid column reference %q: %w", ref, err)
	}
	return n - 1, nil
}

// ReadHeaders returns the first row of a sheet, the import sheet's column
// labels. An empty sheet name selects the first sheet.
func ReadHeaders(path, sheet string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return []string{}, rows.Error()
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	labels := make([]string, len(header))
	for i, h := range header {
		labels[i] = strings.TrimSpace(h)
	}
	return labels, nil
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
