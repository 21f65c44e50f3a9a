package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook report.
const (
	SheetSummary  = "Summary"
	SheetColumns  = "Columns"
	SheetProblems = "Problems"
)

// writeXLSX writes the report as a workbook.
//
// WORKBOOK LAYOUT:
//   - Summary:  session ID, status, pass and problem counts
//   - Columns:  one row per stored column, problem rows highlighted
//   - Problems: one row per violation or conflict
func writeXLSX(w io.Writer, doc Document, labels Labels) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	for _, name := range []string{SheetColumns, SheetProblems} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	problemStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create highlight style: %w", err)
	}

	sw := sheetWriter{f: f, headerStyle: headerStyle}

	// Summary
	status := "VALID"
	if !doc.Valid {
		status = "INVALID"
	}
	summary := [][]any{
		{"Session", doc.SessionID},
		{"Status", status},
		{"Passes", doc.Passes},
		{"Business rule violations", len(doc.BusinessRuleViolations)},
		{"Conflicts", len(doc.Conflicts)},
	}
	for i, row := range summary {
		sw.row(SheetSummary, i+1, row)
	}
	sw.style(SheetSummary, "A1", fmt.Sprintf("A%d", len(summary)))
	sw.width(SheetSummary, "A", "A", 26)
	sw.width(SheetSummary, "B", "B", 40)

	// Columns
	sw.header(SheetColumns, []any{"Column", "Label", "Engagement", "Balance Type", "Period", "Debit/Credit", "Status"})
	for i, c := range doc.Columns {
		rowNum := i + 2
		sw.row(SheetColumns, rowNum, []any{c.Index, c.Label, c.Engagement, c.BalanceType, c.Period, c.DebitCredit, c.Status})
		if c.Status == StatusConflict || c.Status == StatusViolation {
			sw.cellStyle(SheetColumns, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("G%d", rowNum), problemStyle)
		}
	}
	sw.width(SheetColumns, "B", "F", 22)

	// Problems
	sw.header(SheetProblems, []any{"Kind", "Columns", "Message"})
	rowNum := 2
	for _, cv := range doc.BusinessRuleViolations {
		sw.row(SheetProblems, rowNum, []any{"business_rule", labels.Name(cv.ColumnIndex), strings.Join(cv.Violations, " ")})
		rowNum++
	}
	for _, c := range doc.Conflicts {
		names := make([]string, len(c.Columns))
		for i, idx := range c.Columns {
			names[i] = labels.Name(idx)
		}
		sw.row(SheetProblems, rowNum, []any{c.Type, strings.Join(names, ", "), c.Message})
		rowNum++
	}
	sw.width(SheetProblems, "A", "B", 24)
	sw.width(SheetProblems, "C", "C", 100)

	if sw.err != nil {
		return sw.err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error of a sequence of excelize calls.
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (s *sheetWriter) row(sheet string, rowNum int, values []any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err == nil {
		err = s.f.SetSheetRow(sheet, cell, &values)
	}
	if err != nil {
		s.err = fmt.Errorf("failed to write %s row %d: %w", sheet, rowNum, err)
	}
}

func (s *sheetWriter) header(sheet string, values []any) {
	s.row(sheet, 1, values)
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		s.err = err
		return
	}
	s.cellStyle(sheet, "A1", last, s.headerStyle)
}

func (s *sheetWriter) style(sheet, from, to string) {
	s.cellStyle(sheet, from, to, s.headerStyle)
}

func (s *sheetWriter) cellStyle(sheet, from, to string, style int) {
	if s.err != nil {
		return
	}
	if err := s.f.SetCellStyle(sheet, from, to, style); err != nil {
		s.err = fmt.Errorf("failed to style %s!%s:%s: %w", sheet, from, to, err)
	}
}

func (s *sheetWriter) width(sheet, startCol, endCol string, width float64) {
	if s.err != nil {
		return
	}
	if err := s.f.SetColWidth(sheet, startCol, endCol, width); err != nil {
		s.err = fmt.Errorf("failed to size %s columns: %w", sheet, err)
	}
}
