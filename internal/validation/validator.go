// =============================================================================
// Column Configuration Validator - Validation Orchestrator
// =============================================================================
//
// The Validator is the single entry point called after every configuration
// change. Each call recomputes the result from the store's current contents:
//   1. Collect the participating columns
//   2. Run the business rules per column
//   3. Run duplicate detection across all participating columns
//   4. Forward the result to the registered reporters
//
// ERROR HANDLING:
//   - Violations and conflicts are returned as data, never as errors
//   - Incomplete columns are simply left out of both checks
//   - Reporters receive the result; they own all rendering
//
// RE-ENTRANCY:
//   A reporter that calls Validate while it is being notified gets a freshly
//   computed result, but no second round of notifications is sent.
//
// =============================================================================

package validation

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ginjaninja78/column-config-validator/internal/store"
	"github.com/ginjaninja78/column-config-validator/internal/types"
)

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult is the outcome of one validation pass.
type ValidationResult struct {
	// Valid is true when there are no violations and no conflicts.
	Valid bool `json:"valid" xml:"valid,attr"`

	// BusinessRuleViolations lists, per column, the broken business rules.
	// Columns without violations are omitted.
	BusinessRuleViolations []ColumnViolations `json:"businessRuleViolations" xml:"violations>column"`

	// Conflicts lists the duplicate groups.
	Conflicts []Conflict `json:"conflicts" xml:"conflicts>conflict"`
}

// ColumnViolations holds the business rule violations of one column.
type ColumnViolations struct {
	ColumnIndex int      `json:"columnIndex" xml:"index,attr"`
	Violations  []string `json:"violations" xml:"violation"`
}

// ConflictingColumns returns the sorted set of columns appearing in any
// conflict.
func (r ValidationResult) ConflictingColumns() []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range r.Conflicts {
		for _, idx := range c.Columns {
			if !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
	}
	sort.Ints(out)
	return out
}

// =============================================================================
// REPORTERS
// =============================================================================

// Reporter receives every validation result. Presentation code (console
// notifications, report files) implements it.
type Reporter interface {
	Report(result ValidationResult)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(result ValidationResult)

// Report calls f(result).
func (f ReporterFunc) Report(result ValidationResult) {
	f(result)
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator validates the contents of a store. It is not safe for
// concurrent use.
type Validator struct {
	store     *store.Store
	reporters []Reporter
	logger    *log.Logger

	// notifying is set while reporters run.
	notifying bool
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithReporter registers a reporter.
func WithReporter(r Reporter) ValidatorOption {
	return func(v *Validator) {
		v.reporters = append(v.reporters, r)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) ValidatorOption {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator creates a Validator reading from s.
func NewValidator(s *store.Store, opts ...ValidatorOption) *Validator {
	v := &Validator{
		store:  s,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// AddReporter registers a reporter after construction.
func (v *Validator) AddReporter(r Reporter) {
	v.reporters = append(v.reporters, r)
}

// Validate recomputes the validation result and forwards it to the
// reporters. Calling it twice without a store change returns equal results.
func (v *Validator) Validate() ValidationResult {
	result := v.Evaluate()

	if v.notifying {
		v.logger.Debug("validate called while notifying reporters; skipping notification")
		return result
	}

	v.notifying = true
	defer func() { v.notifying = false }()

	for _, r := range v.reporters {
		r.Report(result)
	}
	return result
}

// Evaluate computes the validation result without notifying reporters.
func (v *Validator) Evaluate() ValidationResult {
	participating := v.participatingConfigs()

	result := ValidationResult{
		BusinessRuleViolations: make([]ColumnViolations, 0),
	}

	for _, idx := range v.store.ParticipatingColumns() {
		violations := CheckBusinessRules(participating[idx])
		if len(violations) == 0 {
			continue
		}
		result.BusinessRuleViolations = append(result.BusinessRuleViolations, ColumnViolations{
			ColumnIndex: idx,
			Violations:  violations,
		})
	}

	result.Conflicts = CheckForDuplicates(participating)
	result.Valid = len(result.BusinessRuleViolations) == 0 && len(result.Conflicts) == 0

	v.logger.Debug("validation pass",
		"participating", len(participating),
		"violations", len(result.BusinessRuleViolations),
		"conflicts", len(result.Conflicts),
		"valid", result.Valid,
	)
	return result
}

// =============================================================================
// DROPDOWN GATING
// =============================================================================

// WouldConflict reports whether applying candidate to excludingColumn would
// put that column into a conflict group. The candidate is merged over the
// column's current record; the column itself is not compared against.
// A negative excludingColumn stands for a column that has no record yet.
func (v *Validator) WouldConflict(candidate types.PartialConfiguration, excludingColumn int) bool {
	return len(v.ConflictsWith(candidate, excludingColumn)) > 0
}

// ConflictsWith returns the participating columns, other than
// excludingColumn, that would share a grouping key with the candidate.
func (v *Validator) ConflictsWith(candidate types.PartialConfiguration, excludingColumn int) []int {
	var base types.ColumnConfiguration
	if excludingColumn >= 0 {
		cfg, ok, err := v.store.Get(excludingColumn)
		if err != nil {
			v.logger.Debug("gating against unusable column", "column", excludingColumn, "err", err)
			return nil
		}
		if ok {
			base = cfg
		}
	}

	proposed := base.Merge(candidate)
	if !v.store.Participates(proposed) {
		return nil
	}
	key, ok := GroupingKey(proposed)
	if !ok {
		return nil
	}

	var columns []int
	for idx, cfg := range v.participatingConfigs() {
		if idx == excludingColumn {
			continue
		}
		if other, ok := GroupingKey(cfg); ok && other == key {
			columns = append(columns, idx)
		}
	}
	sort.Ints(columns)
	return columns
}

// participatingConfigs returns the participating records keyed by column.
func (v *Validator) participatingConfigs() map[int]types.ColumnConfiguration {
	snapshot := v.store.Snapshot()
	out := make(map[int]types.ColumnConfiguration)
	for _, idx := range v.store.ParticipatingColumns() {
		out[idx] = snapshot[idx]
	}
	return out
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatResult formats a validation result for logs and plain-text output.
func FormatResult(result ValidationResult) string {
	if result.Valid {
		return "No validation errors."
	}

	var builder strings.Builder

	problems := len(result.BusinessRuleViolations) + len(result.Conflicts)
	builder.WriteString(fmt.Sprintf("Validation completed with %d problem(s):\n\n", problems))

	n := 1
	for _, cv := range result.BusinessRuleViolations {
		builder.WriteString(fmt.Sprintf("%d. Column %d: %s\n", n, cv.ColumnIndex, strings.Join(cv.Violations, " ")))
		n++
	}
	for _, c := range result.Conflicts {
		builder.WriteString(fmt.Sprintf("%d. [%s] %s\n", n, c.Type, c.Message))
		n++
	}

	return builder.String()
}
