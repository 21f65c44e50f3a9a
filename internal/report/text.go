package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// writeText writes the plain-text report.
func writeText(w io.Writer, doc Document, labels Labels) error {
	bw := bufio.NewWriter(w)

	status := "VALID"
	if !doc.Valid {
		status = "INVALID"
	}
	fmt.Fprintf(bw, "Session: %s\n", doc.SessionID)
	fmt.Fprintf(bw, "Passes:  %d\n", doc.Passes)
	fmt.Fprintf(bw, "Status:  %s\n", status)

	writeHeading(bw, "Columns")
	if len(doc.Columns) == 0 {
		fmt.Fprintln(bw, "(none configured)")
	}
	for _, c := range doc.Columns {
		fmt.Fprintf(bw, "%-*s %s [%s]\n", columnNameWidth(doc, labels), labels.Name(c.Index)+":", describe(c), c.Status)
	}

	writeHeading(bw, "Problems")
	if doc.Valid {
		fmt.Fprintln(bw, "No validation errors.")
		return bw.Flush()
	}

	n := 1
	for _, cv := range doc.BusinessRuleViolations {
		fmt.Fprintf(bw, "%d. %s: %s\n", n, labels.Name(cv.ColumnIndex), strings.Join(cv.Violations, " "))
		n++
	}
	for _, c := range doc.Conflicts {
		fmt.Fprintf(bw, "%d. [%s] %s\n", n, c.Type, c.Message)
		n++
	}

	return bw.Flush()
}

func writeHeading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

// describe joins the four fields, marking unselected ones with "-".
func describe(c ColumnEntry) string {
	fields := []string{c.Engagement, c.BalanceType, c.Period, c.DebitCredit}
	for i, f := range fields {
		if f == "" {
			fields[i] = "-"
		}
	}
	return strings.Join(fields, " | ")
}

// columnNameWidth is the width of the longest "Column N (label):" prefix.
func columnNameWidth(doc Document, labels Labels) int {
	width := 0
	for _, c := range doc.Columns {
		if n := len(labels.Name(c.Index)) + 1; n > width {
			width = n
		}
	}
	return width
}
