package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/column-config-validator/internal/store"
	"github.com/ginjaninja78/column-config-validator/internal/types"
	"github.com/ginjaninja78/column-config-validator/internal/validation"
)

func choiceFor(t *testing.T, choices []Choice, value string) Choice {
	t.Helper()
	for _, c := range choices {
		if c.Value == value {
			return c
		}
	}
	t.Fatalf("no choice %q", value)
	return Choice{}
}

func TestOptions_Period(t *testing.T) {
	s := New(nil)
	_, err := s.Run(concat(
		[]types.Selection{
			{Column: 0, Field: types.FieldEngagement, Value: "E1"},
			{Column: 0, Field: types.FieldBalanceType, Value: "adjusted-balance"},
			{Column: 0, Field: types.FieldDebitCredit, Value: "debit"},
		},
		column(1, "E1", "adjusted-balance", "prior-period-1", "debit"),
	))
	require.NoError(t, err)

	choices, err := s.Options(0, types.FieldPeriod)
	require.NoError(t, err)
	require.Len(t, choices, 3)

	current := choiceFor(t, choices, "current-period")
	assert.True(t, current.Disabled)
	assert.Equal(t, validation.MsgCurrentRequiresUnadjusted, current.Reason)

	prior1 := choiceFor(t, choices, "prior-period-1")
	assert.True(t, prior1.Disabled)
	assert.Equal(t, "same configuration as column 1", prior1.Reason)

	assert.False(t, choiceFor(t, choices, "prior-period-2").Disabled)
}

func TestOptions_BalanceType(t *testing.T) {
	s := New(nil)
	_, err := s.Run(concat(
		[]types.Selection{
			{Column: 0, Field: types.FieldEngagement, Value: "E1"},
			{Column: 0, Field: types.FieldPeriod, Value: "current-period"},
			{Column: 0, Field: types.FieldDebitCredit, Value: "debit"},
		},
		column(2, "E1", "unadjusted-balance", "current-period", "debit"),
	))
	require.NoError(t, err)

	choices, err := s.Options(0, types.FieldBalanceType)
	require.NoError(t, err)

	unadjusted := choiceFor(t, choices, "unadjusted-balance")
	assert.True(t, unadjusted.Disabled)
	assert.Equal(t, "same configuration as column 2", unadjusted.Reason)

	adjusted := choiceFor(t, choices, "adjusted-balance")
	assert.True(t, adjusted.Disabled)
	assert.Equal(t, validation.MsgCurrentRequiresUnadjusted, adjusted.Reason)

	assert.False(t, choiceFor(t, choices, "not-used").Disabled)
	assert.False(t, choiceFor(t, choices, "account-grouping").Disabled)
}

func TestOptions_NewColumn(t *testing.T) {
	s := New(nil)
	_, err := s.Run(column(0, "E1", "adjusted-balance", "prior-period-1", "debit"))
	require.NoError(t, err)

	// an unconfigured column has nothing to conflict with yet
	choices, err := s.Options(5, types.FieldDebitCredit)
	require.NoError(t, err)
	for _, c := range choices {
		assert.False(t, c.Disabled, c.Value)
	}
}

func TestOptions_MultipleConflictingColumns(t *testing.T) {
	s := New(nil)
	_, err := s.Run(concat(
		column(0, "E1", "adjusted-balance", "prior-period-1", "debit"),
		column(1, "E1", "adjusted-balance", "prior-period-1", "debit"),
		column(3, "E1", "adjusted-balance", "prior-period-1", "credit"),
	))
	require.NoError(t, err)

	choices, err := s.Options(3, types.FieldDebitCredit)
	require.NoError(t, err)
	assert.Equal(t, "same configuration as columns 0, 1", choiceFor(t, choices, "debit").Reason)
	assert.False(t, choiceFor(t, choices, "credit").Disabled)
}

func TestOptions_Errors(t *testing.T) {
	s := New(nil)

	_, err := s.Options(0, types.FieldClear)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = s.Options(0, "colour")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = s.Options(-2, types.FieldPeriod)
	assert.ErrorIs(t, err, store.ErrInvalidColumnIndex)
}

func TestOptions_EmptyEngagementCatalog(t *testing.T) {
	s := New(nil)
	choices, err := s.Options(0, types.FieldEngagement)
	require.NoError(t, err)
	assert.Empty(t, choices)
}
