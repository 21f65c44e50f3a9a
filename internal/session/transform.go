// =============================================================================
// Column Configuration Validator - Value Transformation
// =============================================================================
//
// Selections loaded from hand-maintained files rarely use the catalog's exact
// spelling. The Transformer rewrites a selected value before it reaches the
// store:
//
//   1. Trim surrounding whitespace
//   2. Replace a configured alias ("Unadj" -> "unadjusted-balance")
//   3. Optionally snap to the catalog spelling of a matching option
//
// Duplicate detection compares exact strings, so without step 3 "Current
// Period" and "current-period" are different periods.
//
// =============================================================================

package session

import (
	"strings"

	"github.com/ginjaninja78/column-config-validator/internal/config"
	"github.com/ginjaninja78/column-config-validator/internal/types"
)

// Transformer rewrites selected values according to the catalog.
type Transformer struct {
	// aliases maps field -> canonical alias -> value.
	aliases map[string]map[string]string

	// options maps field -> canonical option -> catalog spelling. Nil when
	// normalization is off.
	options map[string]map[string]string
}

// NewTransformer creates a Transformer for a catalog.
func NewTransformer(catalog config.Catalog) *Transformer {
	t := &Transformer{aliases: make(map[string]map[string]string)}

	for field, aliases := range catalog.Aliases {
		byKey := make(map[string]string, len(aliases))
		for alias, value := range aliases {
			byKey[types.CanonicalName(alias)] = value
		}
		t.aliases[field] = byKey
	}

	if catalog.NormalizeValues {
		t.options = make(map[string]map[string]string)
		for _, field := range types.Fields {
			values, err := catalog.Options(field)
			if err != nil {
				continue
			}
			byKey := make(map[string]string, len(values))
			for _, v := range values {
				byKey[types.CanonicalName(v)] = v
			}
			t.options[field] = byKey
		}
	}

	return t
}

// Transform returns the value to store for a selection of field.
// An empty value stays empty.
func (t *Transformer) Transform(field, value string) string {
	result := strings.TrimSpace(value)
	if result == "" {
		return ""
	}

	key := types.CanonicalName(result)
	if aliased, ok := t.aliases[field][key]; ok {
		result = aliased
		key = types.CanonicalName(result)
	}

	if spelled, ok := t.options[field][key]; ok {
		result = spelled
	}
	return result
}
