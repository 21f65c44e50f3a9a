package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/column-config-validator/internal/types"
)

func TestSet_CreatesAndMerges(t *testing.T) {
	s := New(types.DefaultBalanceTypeSet())

	require.NoError(t, s.Set(2, types.PartialConfiguration{Engagement: types.StringPtr("E1")}))
	require.NoError(t, s.Set(2, types.PartialConfiguration{Period: types.StringPtr("Current Period")}))

	cfg, ok, err := s.Get(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.ColumnConfiguration{Engagement: "E1", Period: "Current Period"}, cfg)
}

func TestSet_EmptyStringBlanksField(t *testing.T) {
	s := New(types.DefaultBalanceTypeSet())
	require.NoError(t, s.Set(0, types.PartialConfiguration{DebitCredit: types.StringPtr("debit")}))
	require.NoError(t, s.Set(0, types.PartialConfiguration{DebitCredit: types.StringPtr("")}))

	cfg, ok, err := s.Get(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, cfg.DebitCredit)
}

func TestGet_Absent(t *testing.T) {
	s := New(types.DefaultBalanceTypeSet())

	_, ok, err := s.Get(7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s := New(types.DefaultBalanceTypeSet())
	require.NoError(t, s.Set(1, types.PartialConfiguration{BalanceType: types.StringPtr("report-balance")}))
	require.NoError(t, s.Clear(1))

	_, ok, err := s.Get(1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	// clearing again is harmless
	assert.NoError(t, s.Clear(1))
}

func TestInvalidColumnIndex(t *testing.T) {
	s := New(types.DefaultBalanceTypeSet(), WithColumnLimit(3))
	partial := types.PartialConfiguration{Engagement: types.StringPtr("E1")}

	err := s.Set(-1, partial)
	require.ErrorIs(t, err, ErrInvalidColumnIndex)
	assert.Contains(t, err.Error(), "negative")

	err = s.Set(3, partial)
	require.ErrorIs(t, err, ErrInvalidColumnIndex)

	_, _, err = s.Get(-4)
	assert.ErrorIs(t, err, ErrInvalidColumnIndex)

	assert.ErrorIs(t, s.Clear(10), ErrInvalidColumnIndex)

	// nothing was written by the rejected calls
	assert.Equal(t, 0, s.Len())
	assert.NoError(t, s.Set(2, partial))
}

func TestWithColumnLimit_ZeroMeansUnbounded(t *testing.T) {
	s := New(types.DefaultBalanceTypeSet(), WithColumnLimit(0))
	assert.NoError(t, s.Set(10_000, types.PartialConfiguration{}))
}

func TestParticipatingColumns(t *testing.T) {
	s := New(types.DefaultBalanceTypeSet())

	set := func(idx int, balanceType string) {
		t.Helper()
		require.NoError(t, s.Set(idx, types.PartialConfiguration{
			Engagement:  types.StringPtr("E1"),
			BalanceType: types.StringPtr(balanceType),
		}))
	}

	set(5, "Report Balance")
	set(0, "unadjusted-balance")
	set(3, "not-used")
	set(2, "Account Grouping")
	set(9, "")
	require.NoError(t, s.Set(4, types.PartialConfiguration{Engagement: types.StringPtr("E2")}))

	assert.Equal(t, []int{0, 5}, s.ParticipatingColumns())
	// non-participating records are still tracked
	assert.Equal(t, 6, s.Len())
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := New(types.DefaultBalanceTypeSet())
	require.NoError(t, s.Set(0, types.PartialConfiguration{Engagement: types.StringPtr("A")}))

	snap := s.Snapshot()
	snap[0] = types.ColumnConfiguration{Engagement: "changed"}
	delete(snap, 0)

	cfg, ok, err := s.Get(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", cfg.Engagement)
}
