// =============================================================================
// Column Configuration Validator - Configuration Store
// =============================================================================
//
// The store holds the current configuration of every import column, keyed
// by 0-based column index. It is pure in-memory state:
//   - Set merges a partial update into a column's record
//   - Get and Snapshot read it back
//   - Clear drops a column entirely
//   - ParticipatingColumns lists the columns the rule engine looks at
//
// The store performs no validation of the selected values. Rule checks are
// the validation package's job; the store only refuses column indices that
// cannot exist.
//
// CONCURRENCY:
//   A Store is owned by a single session and is not safe for concurrent use.
//
// =============================================================================

package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ginjaninja78/column-config-validator/internal/types"
)

// ErrInvalidColumnIndex is returned for negative column indices and for
// indices at or beyond the configured column limit.
var ErrInvalidColumnIndex = errors.New("invalid column index")

// =============================================================================
// STORE
// =============================================================================

// Store holds ColumnConfiguration records by column index.
type Store struct {
	columns      map[int]types.ColumnConfiguration
	balanceTypes types.BalanceTypeSet

	// columnLimit bounds valid indices to [0, columnLimit). Zero means no
	// upper bound.
	columnLimit int
}

// Option configures a Store.
type Option func(*Store)

// WithColumnLimit rejects column indices >= limit. A limit of zero or less
// disables the check.
func WithColumnLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.columnLimit = limit
		}
	}
}

// New creates an empty store. balanceTypes is the closed set deciding which
// columns participate in validation.
func New(balanceTypes types.BalanceTypeSet, opts ...Option) *Store {
	s := &Store{
		columns:      make(map[int]types.ColumnConfiguration),
		balanceTypes: balanceTypes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Set merges partial into the record for columnIndex, creating the record
// if it does not exist yet.
func (s *Store) Set(columnIndex int, partial types.PartialConfiguration) error {
	if err := s.checkIndex(columnIndex); err != nil {
		return err
	}
	s.columns[columnIndex] = s.columns[columnIndex].Merge(partial)
	return nil
}

// Clear removes the record for columnIndex. Clearing an unknown column is
// not an error.
func (s *Store) Clear(columnIndex int) error {
	if err := s.checkIndex(columnIndex); err != nil {
		return err
	}
	delete(s.columns, columnIndex)
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Get returns the record for columnIndex. The bool is false when the column
// has no record.
func (s *Store) Get(columnIndex int) (types.ColumnConfiguration, bool, error) {
	if err := s.checkIndex(columnIndex); err != nil {
		return types.ColumnConfiguration{}, false, err
	}
	cfg, ok := s.columns[columnIndex]
	return cfg, ok, nil
}

// Participates reports whether cfg's balance type is in the store's closed
// balance-type set.
func (s *Store) Participates(cfg types.ColumnConfiguration) bool {
	return s.balanceTypes.Contains(cfg.BalanceType)
}

// ParticipatingColumns returns, in ascending order, every column whose
// balance type is set and belongs to the closed balance-type set.
func (s *Store) ParticipatingColumns() []int {
	indices := make([]int, 0, len(s.columns))
	for idx, cfg := range s.columns {
		if s.Participates(cfg) {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)
	return indices
}

// Snapshot returns a copy of all records, participating or not.
func (s *Store) Snapshot() map[int]types.ColumnConfiguration {
	out := make(map[int]types.ColumnConfiguration, len(s.columns))
	for idx, cfg := range s.columns {
		out[idx] = cfg
	}
	return out
}

// Len returns the number of columns holding a record.
func (s *Store) Len() int {
	return len(s.columns)
}

func (s *Store) checkIndex(columnIndex int) error {
	if columnIndex < 0 {
		return fmt.Errorf("%w: %d is negative", ErrInvalidColumnIndex, columnIndex)
	}
	if s.columnLimit > 0 && columnIndex >= s.columnLimit {
		return fmt.Errorf("%w: %d is outside the %d available columns", ErrInvalidColumnIndex, columnIndex, s.columnLimit)
	}
	return nil
}
