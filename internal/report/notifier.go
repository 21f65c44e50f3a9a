package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/ginjaninja78/column-config-validator/internal/validation"
)

// Notifier is a validation.Reporter that prints one short line whenever the
// set of problems changes, the way the setup screen pops a toast. Repeated
// passes with the same outcome print nothing.
type Notifier struct {
	mu     sync.Mutex
	w      io.Writer
	labels Labels
	last   string
}

// NewNotifier returns a Notifier writing to w. The first pass is compared
// against a valid, empty configuration.
func NewNotifier(w io.Writer, labels Labels) *Notifier {
	return &Notifier{w: w, labels: labels, last: validation.FormatResult(validation.ValidationResult{Valid: true})}
}

// Report implements validation.Reporter.
func (n *Notifier) Report(result validation.ValidationResult) {
	n.mu.Lock()
	defer n.mu.Unlock()

	state := validation.FormatResult(result)
	if state == n.last {
		return
	}
	n.last = state

	fmt.Fprintln(n.w, n.toast(result))
}

// toast renders the one-line message for a result.
func (n *Notifier) toast(result validation.ValidationResult) string {
	if result.Valid {
		return "[ok] All column configurations are valid."
	}

	problems := len(result.BusinessRuleViolations) + len(result.Conflicts)

	var first string
	if len(result.BusinessRuleViolations) > 0 {
		cv := result.BusinessRuleViolations[0]
		first = fmt.Sprintf("%s: %s", n.labels.Name(cv.ColumnIndex), cv.Violations[0])
	} else {
		first = result.Conflicts[0].Message
	}

	if problems == 1 {
		return "[error] " + first
	}
	return fmt.Sprintf("[error] %s (+%d more)", first, problems-1)
}
