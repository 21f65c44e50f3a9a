package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Report Balance", "report-balance"},
		{"report_balance", "report-balance"},
		{"  Federal  Tax-Balance ", "federal-tax-balance"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalName(tt.in), "CanonicalName(%q)", tt.in)
	}
}

func TestBalanceTypeSet_Contains(t *testing.T) {
	set := DefaultBalanceTypeSet()

	assert.True(t, set.Contains("Unadjusted Balance"))
	assert.True(t, set.Contains("unadjusted-balance"))
	assert.True(t, set.Contains("REPORT_BALANCE"))
	assert.False(t, set.Contains("not-used"))
	assert.False(t, set.Contains("Account Grouping"))
	assert.False(t, set.Contains(""))
	assert.Equal(t, len(DefaultBalanceTypes), set.Len())
}

func TestBalanceTypeSet_ZeroValue(t *testing.T) {
	var set BalanceTypeSet
	assert.False(t, set.Contains("report-balance"))
	assert.Equal(t, 0, set.Len())
}

func TestColumnConfiguration_Merge(t *testing.T) {
	base := ColumnConfiguration{Engagement: "A", BalanceType: "report-balance"}

	merged := base.Merge(PartialConfiguration{
		Period:     StringPtr("prior-period-1"),
		Engagement: StringPtr(""),
	})

	assert.Equal(t, ColumnConfiguration{
		BalanceType: "report-balance",
		Period:      "prior-period-1",
	}, merged)
	// the receiver is a value; the original stays as it was
	assert.Equal(t, "A", base.Engagement)
}

func TestColumnConfiguration_IsComplete(t *testing.T) {
	cfg := ColumnConfiguration{Engagement: "A", BalanceType: "b", Period: "p"}
	assert.False(t, cfg.IsComplete())

	cfg.DebitCredit = "debit"
	assert.True(t, cfg.IsComplete())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		cfg  ColumnConfiguration
		want Classification
	}{
		{
			name: "current unadjusted",
			cfg:  ColumnConfiguration{BalanceType: "Unadjusted Balance", Period: "Current Period"},
			want: Classification{Current: true, Unadjusted: true},
		},
		{
			name: "prior adjusted",
			cfg:  ColumnConfiguration{BalanceType: "adjusted-balance", Period: "prior-period-2"},
			want: Classification{Prior: true},
		},
		{
			name: "case insensitive",
			cfg:  ColumnConfiguration{BalanceType: "UNADJUSTED", Period: "CURRENT"},
			want: Classification{Current: true, Unadjusted: true},
		},
		{
			name: "unrecognised period",
			cfg:  ColumnConfiguration{BalanceType: "report-balance", Period: "Q3 2024"},
			want: Classification{},
		},
		{
			name: "both words",
			cfg:  ColumnConfiguration{Period: "current vs prior"},
			want: Classification{Current: true, Prior: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.cfg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassification_UnadjustedCurrent(t *testing.T) {
	assert.True(t, Classification{Current: true, Unadjusted: true}.UnadjustedCurrent())
	assert.False(t, Classification{Prior: true, Unadjusted: true}.UnadjustedCurrent())
	assert.False(t, Classification{Current: true}.UnadjustedCurrent())
}
