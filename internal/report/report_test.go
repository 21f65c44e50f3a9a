package report

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/column-config-validator/internal/config"
	"github.com/ginjaninja78/column-config-validator/internal/session"
	"github.com/ginjaninja78/column-config-validator/internal/types"
)

var testLabels = Labels{"Account", "FY24 Unadj", "FY24 Adj", "FY23 Adj"}

func column(idx int, values ...string) []types.Selection {
	fields := []string{types.FieldEngagement, types.FieldBalanceType, types.FieldPeriod, types.FieldDebitCredit}
	var out []types.Selection
	for i, v := range values {
		out = append(out, types.Selection{Column: idx, Field: fields[i], Value: v})
	}
	return out
}

// scenarioDocument replays a setup with one conflict, one business rule
// violation, an ignored column and an incomplete column.
func scenarioDocument(t *testing.T) Document {
	t.Helper()

	var selections []types.Selection
	for _, group := range [][]types.Selection{
		column(1, "E1", "unadjusted-balance", "current-period", "debit"),
		column(2, "E1", "adjusted-balance", "prior-period-1", "debit"),
		column(3, "E1", "adjusted-balance", "prior-period-1", "debit"),
		column(4, "E2", "adjusted-balance", "current-period", "credit"),
		column(5, "E1", "account-grouping"),
		column(6, "E2", "budget-balance"),
	} {
		selections = append(selections, group...)
	}

	// keep non-participating records so the report lists them
	cfg := config.Default()
	cfg.Catalog.ClearOnTypes = []string{"not-used"}

	s := session.New(cfg, session.WithID("test-session"))
	result, err := s.Run(selections)
	require.NoError(t, err)

	return NewDocument(result, types.DefaultBalanceTypeSet(), testLabels)
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestNewDocument(t *testing.T) {
	doc := scenarioDocument(t)

	assert.Equal(t, "test-session", doc.SessionID)
	assert.False(t, doc.Valid)
	assert.Equal(t, 20, doc.Passes)

	statuses := make(map[int]string)
	for _, c := range doc.Columns {
		statuses[c.Index] = c.Status
	}
	assert.Equal(t, map[int]string{
		1: StatusOK,
		2: StatusConflict,
		3: StatusConflict,
		4: StatusViolation,
		5: StatusIgnored,
		6: StatusIncomplete,
	}, statuses)
	assert.Equal(t, "FY24 Unadj", doc.Columns[0].Label)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, scenarioDocument(t), config.ReportFormatText, testLabels))

	newGoldie(t).Assert(t, "report_text", buf.Bytes())
}

func TestWrite_TextValid(t *testing.T) {
	s := session.New(nil, session.WithID("valid-session"))
	result, err := s.Run(column(0, "E1", "unadjusted-balance", "current-period", "debit"))
	require.NoError(t, err)

	var buf bytes.Buffer
	doc := NewDocument(result, types.DefaultBalanceTypeSet(), nil)
	require.NoError(t, Write(&buf, doc, config.ReportFormatText, nil))

	newGoldie(t).Assert(t, "report_text_valid", buf.Bytes())
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, scenarioDocument(t), config.ReportFormatJSON, testLabels))

	newGoldie(t).Assert(t, "report_json", buf.Bytes())
}

func TestWrite_XML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, scenarioDocument(t), config.ReportFormatXML, testLabels))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(xml.Header)))

	var decoded Document
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "test-session", decoded.SessionID)
	assert.False(t, decoded.Valid)
	require.Len(t, decoded.Columns, 6)
	assert.Equal(t, "FY24 Adj", decoded.Columns[1].Label)
	assert.Equal(t, "adjusted-balance", decoded.Columns[1].BalanceType)
	require.Len(t, decoded.Conflicts, 1)
	assert.Equal(t, []int{2, 3}, decoded.Conflicts[0].Columns)
	require.Len(t, decoded.BusinessRuleViolations, 1)
	assert.Equal(t, 4, decoded.BusinessRuleViolations[0].ColumnIndex)
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, scenarioDocument(t), config.ReportFormatXLSX, testLabels))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetColumns, SheetProblems}, f.GetSheetList())

	status, err := f.GetCellValue(SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "INVALID", status)

	rows, err := f.GetRows(SheetColumns)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"2", "FY24 Adj", "E1", "adjusted-balance", "prior-period-1", "debit", StatusConflict}, rows[2])

	problems, err := f.GetRows(SheetProblems)
	require.NoError(t, err)
	require.Len(t, problems, 3)
	assert.Equal(t, "business_rule", problems[1][0])
	assert.Equal(t, "Column 4", problems[1][1])
	assert.Equal(t, "Column 2 (FY24 Adj), Column 3 (FY23 Adj)", problems[2][1])
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Document{}, "pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf")
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".txt", Extension(config.ReportFormatText))
	assert.Equal(t, ".json", Extension(config.ReportFormatJSON))
	assert.Equal(t, ".xlsx", Extension(config.ReportFormatXLSX))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Column 1 (FY24 Unadj)", testLabels.Name(1))
	assert.Equal(t, "Column 9", testLabels.Name(9))
	assert.Equal(t, "Column 0", Labels{""}.Name(0))
	assert.Equal(t, "", Labels(nil).Label(-1))
}
