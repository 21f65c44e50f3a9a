package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/column-config-validator/internal/types"
	"github.com/ginjaninja78/column-config-validator/internal/validation"
)

// Choice is one dropdown entry for a column field.
type Choice struct {
	Value string `json:"value"`

	// Disabled is set when picking Value would create a conflict or break a
	// business rule for the column.
	Disabled bool `json:"disabled"`

	// Reason explains why the choice is disabled.
	Reason string `json:"reason,omitempty"`
}

// Options returns the catalog choices for one field of a column, each
// marked disabled when selecting it would make the column invalid.
//
// Choices that clear the column are never disabled. Columns whose proposed
// configuration is not complete are only checked against the business
// rules.
func (s *Session) Options(column int, field string) ([]Choice, error) {
	if _, err := partialFor(field, ""); err != nil {
		return nil, err
	}
	if _, _, err := s.store.Get(column); err != nil {
		return nil, err
	}

	values, err := s.catalog.Options(field)
	if err != nil {
		return nil, err
	}

	choices := make([]Choice, 0, len(values))
	for _, value := range values {
		choices = append(choices, s.choice(column, field, value))
	}
	return choices, nil
}

// choice evaluates one candidate value.
func (s *Session) choice(column int, field, value string) Choice {
	c := Choice{Value: value}
	if field == types.FieldBalanceType && s.catalog.ClearsColumn(value) {
		return c
	}

	// partialFor cannot fail here; the field was checked by Options.
	candidate, _ := partialFor(field, value)

	var reasons []string
	if others := s.validator.ConflictsWith(candidate, column); len(others) > 0 {
		reasons = append(reasons, "same configuration as "+describeColumns(others))
	}

	current, _, _ := s.store.Get(column)
	proposed := current.Merge(candidate)
	if s.store.Participates(proposed) {
		reasons = append(reasons, validation.CheckBusinessRules(proposed)...)
	}

	if len(reasons) > 0 {
		c.Disabled = true
		c.Reason = strings.Join(reasons, " ")
	}
	return c
}

// describeColumns renders "column 2" or "columns 0, 3".
func describeColumns(columns []int) string {
	if len(columns) == 1 {
		return fmt.Sprintf("column %d", columns[0])
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = strconv.Itoa(c)
	}
	return "columns " + strings.Join(parts, ", ")
}
