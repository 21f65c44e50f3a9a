// =============================================================================
// Column Configuration Validator - Report Writer Module
// =============================================================================
//
// This module renders the outcome of a session for people and for other
// tools. Four formats are supported:
//
//   text - a plain listing of columns and problems
//   json - the report document as JSON
//   xml  - the report document as XML
//   xlsx - a workbook with Summary, Columns and Problems sheets
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <validationReport sessionId="..." valid="false" passes="8">
//     <columns>
//       <column index="0" label="FY24 Adj">
//         <engagement>E1</engagement>
//         ...
//       </column>
//     </columns>
//     <violations>...</violations>
//     <conflicts>...</conflicts>
//   </validationReport>
//
// =============================================================================

package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ginjaninja78/column-config-validator/internal/config"
	"github.com/ginjaninja78/column-config-validator/internal/session"
	"github.com/ginjaninja78/column-config-validator/internal/types"
	"github.com/ginjaninja78/column-config-validator/internal/validation"
)

// =============================================================================
// COLUMN LABELS
// =============================================================================

// Labels holds the import sheet's header labels, indexed by column.
type Labels []string

// Label returns the header label of a column, or "" when unknown.
func (l Labels) Label(columnIndex int) string {
	if columnIndex < 0 || columnIndex >= len(l) {
		return ""
	}
	return l[columnIndex]
}

// Name renders a column for messages: "Column 2" or "Column 2 (FY24 Adj)".
func (l Labels) Name(columnIndex int) string {
	if label := l.Label(columnIndex); label != "" {
		return fmt.Sprintf("Column %d (%s)", columnIndex, label)
	}
	return fmt.Sprintf("Column %d", columnIndex)
}

// =============================================================================
// REPORT DOCUMENT
// =============================================================================

// Document is the serialized form of a session result.
type Document struct {
	XMLName xml.Name `json:"-" xml:"validationReport"`

	SessionID string `json:"sessionId" xml:"sessionId,attr"`
	Valid     bool   `json:"valid" xml:"valid,attr"`
	Passes    int    `json:"passes" xml:"passes,attr"`

	Columns                []ColumnEntry                 `json:"columns" xml:"columns>column"`
	BusinessRuleViolations []validation.ColumnViolations `json:"businessRuleViolations" xml:"violations>column"`
	Conflicts              []validation.Conflict         `json:"conflicts" xml:"conflicts>conflict"`
}

// ColumnEntry is one stored column configuration.
type ColumnEntry struct {
	Index int    `json:"index" xml:"index,attr"`
	Label string `json:"label,omitempty" xml:"label,attr,omitempty"`

	// Status is "ok", "incomplete", "ignored", "conflict" or "violation".
	Status string `json:"status" xml:"status,attr"`

	types.ColumnConfiguration
}

// Column statuses.
const (
	StatusOK         = "ok"
	StatusIncomplete = "incomplete"
	StatusIgnored    = "ignored"
	StatusConflict   = "conflict"
	StatusViolation  = "violation"
)

// NewDocument builds the report document for a session result.
func NewDocument(result *session.Result, balanceTypes types.BalanceTypeSet, labels Labels) Document {
	final := result.Final

	conflicting := make(map[int]bool)
	for _, idx := range final.ConflictingColumns() {
		conflicting[idx] = true
	}
	violating := make(map[int]bool)
	for _, cv := range final.BusinessRuleViolations {
		violating[cv.ColumnIndex] = true
	}

	indices := make([]int, 0, len(result.Columns))
	for idx := range result.Columns {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	columns := make([]ColumnEntry, 0, len(indices))
	for _, idx := range indices {
		cfg := result.Columns[idx]

		status := StatusOK
		switch {
		case violating[idx]:
			status = StatusViolation
		case conflicting[idx]:
			status = StatusConflict
		case !balanceTypes.Contains(cfg.BalanceType):
			status = StatusIgnored
		case !cfg.IsComplete():
			status = StatusIncomplete
		}

		columns = append(columns, ColumnEntry{
			Index:               idx,
			Label:               labels.Label(idx),
			Status:              status,
			ColumnConfiguration: cfg,
		})
	}

	return Document{
		SessionID:              result.SessionID,
		Valid:                  final.Valid,
		Passes:                 result.Passes,
		Columns:                columns,
		BusinessRuleViolations: nonNil(final.BusinessRuleViolations),
		Conflicts:              nonNil(final.Conflicts),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// =============================================================================
// WRITERS
// =============================================================================

// Extension returns the file extension for a report format.
func Extension(format string) string {
	switch format {
	case config.ReportFormatText:
		return ".txt"
	default:
		return "." + format
	}
}

// Write renders doc to w in the given format.
//
// PARAMETERS:
//   - w: The destination.
//   - doc: The report document.
//   - format: One of the config.ReportFormat* values.
//   - labels: Header labels used in text messages.
//
// RETURNS:
//   - An error if the format is unknown or writing fails.
func Write(w io.Writer, doc Document, format string, labels Labels) error {
	switch format {
	case config.ReportFormatText:
		return writeText(w, doc, labels)
	case config.ReportFormatJSON:
		return writeJSON(w, doc)
	case config.ReportFormatXML:
		return writeXML(w, doc)
	case config.ReportFormatXLSX:
		return writeXLSX(w, doc, labels)
	default:
		return fmt.Errorf("unknown report format %q (expected one of %s)", format, strings.Join(config.ReportFormats, ", "))
	}
}

// writeJSON writes the document as indented JSON.
func writeJSON(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// writeXML writes the document as indented XML with a declaration.
func writeXML(w io.Writer, doc Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode XML report: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
