// =============================================================================
// Column Configuration Validator - Rule Engine
// =============================================================================
//
// The rule engine is a set of pure functions over column configurations.
// It runs two independent checks:
//   1. Business rules: period / balance type compatibility of one column
//   2. Duplicates: columns whose configurations collide with each other
//
// Both the validation pass (Validator.Validate) and dropdown gating
// (Validator.WouldConflict) go through GroupingKey, so the carve-out below
// is defined in exactly one place.
//
// UNADJUSTED-CURRENT CARVE-OUT:
//   A column with an unadjusted balance for the current period is keyed by
//   (engagement, debit/credit) only. Two such columns collide only when they
//   report on the same engagement; different engagements are allowed.
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/column-config-validator/internal/types"
)

// =============================================================================
// BUSINESS RULES
// =============================================================================

// Business rule messages.
const (
	MsgCurrentRequiresUnadjusted = "current period requires unadjusted balance type."
	MsgPriorForbidsUnadjusted    = "prior period cannot use unadjusted balance type."
)

// CheckBusinessRules returns the business rule violations of one column.
//
// A configuration without a period or a balance type is not evaluated.
// Periods that mention neither "current" nor "prior" are exempt from both
// rules.
func CheckBusinessRules(cfg types.ColumnConfiguration) []string {
	if cfg.Period == "" || cfg.BalanceType == "" {
		return nil
	}

	class := types.Classify(cfg)

	var violations []string
	if class.Current && !class.Unadjusted {
		violations = append(violations, MsgCurrentRequiresUnadjusted)
	}
	if class.Prior && class.Unadjusted {
		violations = append(violations, MsgPriorForbidsUnadjusted)
	}
	return violations
}

// =============================================================================
// GROUPING KEYS
// =============================================================================

// ConfigurationKey is the value duplicate detection groups columns by.
// For the unadjusted-current carve-out only Engagement and DebitCredit are
// filled in.
type ConfigurationKey struct {
	Engagement        string
	BalanceType       string
	Period            string
	DebitCredit       string
	UnadjustedCurrent bool
}

// GroupingKey derives the grouping key of cfg. It returns false for
// incomplete configurations, which never conflict.
func GroupingKey(cfg types.ColumnConfiguration) (ConfigurationKey, bool) {
	if !cfg.IsComplete() {
		return ConfigurationKey{}, false
	}

	if types.Classify(cfg).UnadjustedCurrent() {
		return ConfigurationKey{
			Engagement:        cfg.Engagement,
			DebitCredit:       cfg.DebitCredit,
			UnadjustedCurrent: true,
		}, true
	}

	return ConfigurationKey{
		Engagement:  cfg.Engagement,
		BalanceType: cfg.BalanceType,
		Period:      cfg.Period,
		DebitCredit: cfg.DebitCredit,
	}, true
}

// =============================================================================
// DUPLICATE DETECTION
// =============================================================================

// Conflict types.
const (
	// ConflictDuplicateConfiguration: the full configuration is repeated.
	ConflictDuplicateConfiguration = "duplicate_configuration"

	// ConflictDuplicateEngagement: the unadjusted-current combination is
	// repeated for the same engagement.
	ConflictDuplicateEngagement = "duplicate_engagement"
)

// Conflict is a group of two or more columns whose configurations collide.
type Conflict struct {
	// Type is one of the Conflict* constants.
	Type string `json:"type" xml:"type,attr"`

	// Message is a human-readable reason.
	Message string `json:"message" xml:"message"`

	// Columns lists every member of the group in ascending order.
	Columns []int `json:"columns" xml:"columns>column"`

	// Configuration is the configuration of the lowest member column.
	Configuration types.ColumnConfiguration `json:"configuration" xml:"configuration"`
}

// CheckForDuplicates groups the given configurations by GroupingKey and
// returns one Conflict per key shared by two or more columns. Columns are
// visited in ascending index order and conflicts are ordered by their first
// column, so the output depends only on the map contents.
func CheckForDuplicates(configs map[int]types.ColumnConfiguration) []Conflict {
	indices := make([]int, 0, len(configs))
	for idx := range configs {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	groups := make(map[ConfigurationKey][]int)
	var order []ConfigurationKey

	for _, idx := range indices {
		key, ok := GroupingKey(configs[idx])
		if !ok {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], idx)
	}

	conflicts := make([]Conflict, 0)
	for _, key := range order {
		columns := groups[key]
		if len(columns) < 2 {
			continue
		}
		representative := configs[columns[0]]
		conflicts = append(conflicts, newConflict(key, columns, representative))
	}
	return conflicts
}

// newConflict builds the conflict record for one group.
func newConflict(key ConfigurationKey, columns []int, cfg types.ColumnConfiguration) Conflict {
	if key.UnadjustedCurrent {
		return Conflict{
			Type: ConflictDuplicateEngagement,
			Message: fmt.Sprintf(
				"Columns %s use the unadjusted balance for the current period with the same engagement (%s) and %s. Only one column per engagement may use this combination.",
				formatColumns(columns), cfg.Engagement, cfg.DebitCredit),
			Columns:       columns,
			Configuration: cfg,
		}
	}

	return Conflict{
		Type: ConflictDuplicateConfiguration,
		Message: fmt.Sprintf(
			"Columns %s have the same configuration: %s, %s, %s, %s.",
			formatColumns(columns), cfg.Engagement, cfg.BalanceType, cfg.Period, cfg.DebitCredit),
		Columns:       columns,
		Configuration: cfg,
	}
}

// formatColumns renders column indices as "0, 1 and 2".
func formatColumns(columns []int) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = strconv.Itoa(c)
	}
	if len(parts) < 2 {
		return strings.Join(parts, "")
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}
