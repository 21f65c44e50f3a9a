package types

import "strings"

// Classification is the loose text classification the business rules and
// the duplicate grouping are built on.
type Classification struct {
	// Current is set when the period contains "current".
	Current bool

	// Prior is set when the period contains "prior".
	Prior bool

	// Unadjusted is set when the balance type contains "unadjusted".
	Unadjusted bool
}

// UnadjustedCurrent reports whether the configuration falls into the
// unadjusted-balance / current-period carve-out.
func (c Classification) UnadjustedCurrent() bool {
	return c.Unadjusted && c.Current
}

// Classify classifies a configuration by case-insensitive substring
// containment. Periods mentioning neither "current" nor "prior" are left
// unclassified.
func Classify(cfg ColumnConfiguration) Classification {
	period := strings.ToLower(cfg.Period)
	return Classification{
		Current:    strings.Contains(period, "current"),
		Prior:      strings.Contains(period, "prior"),
		Unadjusted: strings.Contains(strings.ToLower(cfg.BalanceType), "unadjusted"),
	}
}
