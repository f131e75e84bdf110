package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"1m", time.Minute},
		{"5m", 5 * time.Minute},
		{"15m", 15 * time.Minute},
		{"1h", time.Hour},
		{"4h", 4 * time.Hour},
		{"1d", 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{" 1M ", 0}, // monthly unsupported, must not match "1m"
		{"1H", 0},   // intervals are case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseInterval(tt.input)
			if tt.expected == 0 {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestParseInterval_TrimsWhitespace(t *testing.T) {
	d, err := ParseInterval("  1h ")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"2 hour", 2 * time.Hour},
		{"2 hours", 2 * time.Hour},
		{"1 day", 24 * time.Hour},
		{"30 minute", 30 * time.Minute},
		{"45 minutes", 45 * time.Minute},
		{"1 week", 7 * 24 * time.Hour},
		{"  3 Days ", 72 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParsePeriod(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestParsePeriod_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"hour",
		"2",
		"two hours",
		"2 fortnight",
		"0 hour",
		"-1 day",
		"1 hour ago",
	}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePeriod(input)
			assert.Error(t, err)
		})
	}
}
