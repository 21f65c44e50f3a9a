// =============================================================================
// Column Configuration Validator - Shared Types
// =============================================================================
//
// This package contains the types shared by the store, the rule engine and
// the outer layers (session, loaders, reports). Keeping them here avoids
// import cycles between:
//   - store
//   - validation
//   - session
//   - report
//
// =============================================================================

package types

import "strings"

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// ColumnConfiguration is the configuration selected for one import column.
// An empty field means nothing has been selected for it yet.
type ColumnConfiguration struct {
	// Engagement names the entity the column reports on.
	Engagement string `json:"engagement,omitempty" xml:"engagement,omitempty"`

	// BalanceType is the balance category, e.g. "Unadjusted Balance" or
	// "account-grouping". Only members of a BalanceTypeSet participate in
	// validation.
	BalanceType string `json:"balanceType,omitempty" xml:"balanceType,omitempty"`

	// Period is a free-form label such as "Current Period" or "Prior Period 1".
	Period string `json:"period,omitempty" xml:"period,omitempty"`

	// DebitCredit is the debit/credit selection (debit, credit, combined).
	DebitCredit string `json:"debitCredit,omitempty" xml:"debitCredit,omitempty"`
}

// IsComplete reports whether all four fields are set.
func (c ColumnConfiguration) IsComplete() bool {
	return c.Engagement != "" && c.BalanceType != "" && c.Period != "" && c.DebitCredit != ""
}

// Merge returns c with every non-nil field of p applied on top.
func (c ColumnConfiguration) Merge(p PartialConfiguration) ColumnConfiguration {
	if p.Engagement != nil {
		c.Engagement = *p.Engagement
	}
	if p.BalanceType != nil {
		c.BalanceType = *p.BalanceType
	}
	if p.Period != nil {
		c.Period = *p.Period
	}
	if p.DebitCredit != nil {
		c.DebitCredit = *p.DebitCredit
	}
	return c
}

// PartialConfiguration carries a partial update for a column. A nil field is
// left untouched by a merge; a non-nil field overwrites the stored value,
// including with the empty string.
type PartialConfiguration struct {
	Engagement  *string
	BalanceType *string
	Period      *string
	DebitCredit *string
}

// StringPtr returns a pointer to s. It keeps partial update literals short.
func StringPtr(s string) *string {
	return &s
}

// =============================================================================
// BALANCE TYPE SET
// =============================================================================

// DefaultBalanceTypes is the closed set of balance categories that take part
// in validation when no catalog overrides it.
var DefaultBalanceTypes = []string{
	"unadjusted-balance",
	"adjusted-balance",
	"budget-balance",
	"report-balance",
	"federal-tax-balance",
	"state-tax-balance",
	"other-balance",
	"proposed-balance",
}

// BalanceTypeSet is a closed set of participating balance types. Membership
// is tested on the canonical form of a name, so "Report Balance",
// "report_balance" and "report-balance" are the same member.
type BalanceTypeSet struct {
	members map[string]struct{}
}

// NewBalanceTypeSet builds a set from the given names. Blank names are ignored.
func NewBalanceTypeSet(names ...string) BalanceTypeSet {
	set := BalanceTypeSet{members: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if key := CanonicalName(name); key != "" {
			set.members[key] = struct{}{}
		}
	}
	return set
}

// DefaultBalanceTypeSet returns a set built from DefaultBalanceTypes.
func DefaultBalanceTypeSet() BalanceTypeSet {
	return NewBalanceTypeSet(DefaultBalanceTypes...)
}

// Contains reports whether name is a member. The empty name never is.
func (s BalanceTypeSet) Contains(name string) bool {
	key := CanonicalName(name)
	if key == "" {
		return false
	}
	_, ok := s.members[key]
	return ok
}

// Len returns the number of members.
func (s BalanceTypeSet) Len() int {
	return len(s.members)
}

// CanonicalName lowercases a catalog name and folds spaces and underscores
// into single hyphens.
//
// EXAMPLE:
//
//	"Federal Tax_Balance" -> "federal-tax-balance"
func CanonicalName(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '\t'
	})
	return strings.Join(fields, "-")
}

// =============================================================================
// SELECTION EVENTS
// =============================================================================

// Field names accepted in selection events.
const (
	FieldEngagement  = "engagement"
	FieldBalanceType = "balance_type"
	FieldPeriod      = "period"
	FieldDebitCredit = "debit_credit"

	// FieldClear removes the whole column configuration; the value is ignored.
	FieldClear = "clear"
)

// Fields lists the configurable fields in display order.
var Fields = []string{FieldEngagement, FieldBalanceType, FieldPeriod, FieldDebitCredit}

// Selection is one user change to one column, as produced by the CSV and
// XLSX loaders and replayed by the session.
type Selection struct {
	// Column is the 0-based column index.
	Column int

	// Field is one of the Field* constants.
	Field string

	// Value is the selected option. Empty deselects the field.
	Value string

	// Source locates the event in its input file, e.g. "mapping.csv:4".
	Source string
}
