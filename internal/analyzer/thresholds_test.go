package analyzer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThresholdSet_SortsDescending(t *testing.T) {
	set, err := NewThresholdSetFromStrings([]string{"0.01", "0.05", "0.02"})
	require.NoError(t, err)

	require.Len(t, set, 3)
	assert.True(t, set[0].Equal(decimal.RequireFromString("0.05")))
	assert.True(t, set[1].Equal(decimal.RequireFromString("0.02")))
	assert.True(t, set[2].Equal(decimal.RequireFromString("0.01")))
}

func TestNewThresholdSet_DeduplicatesSilently(t *testing.T) {
	set, err := NewThresholdSetFromStrings([]string{"0.02", "0.01", "0.02", "0.010"})
	require.NoError(t, err)

	require.Len(t, set, 2)
	assert.True(t, set[0].Equal(decimal.RequireFromString("0.02")))
	assert.True(t, set[1].Equal(decimal.RequireFromString("0.01")))
}

func TestNewThresholdSet_RejectsNonPositive(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{name: "zero", values: []string{"0.02", "0"}},
		{name: "negative", values: []string{"-0.01"}},
		{name: "empty", values: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewThresholdSetFromStrings(tt.values)

			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "thresholds", invalid.Field)
		})
	}
}

func TestNewThresholdSetFromStrings_RejectsGarbage(t *testing.T) {
	_, err := NewThresholdSetFromStrings([]string{"0.02", "two percent"})

	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestDefaultThresholds(t *testing.T) {
	set := DefaultThresholds()

	require.Len(t, set, 12)
	assert.True(t, set[0].Equal(decimal.RequireFromString("0.30")))
	assert.True(t, set[len(set)-1].Equal(decimal.RequireFromString("0.0025")))
	assert.NoError(t, set.Validate())
}
