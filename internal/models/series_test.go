package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSymbol = "BTCUSDT"

func testKline(openTime time.Time, close string) Kline {
	return Kline{
		OpenTime:  openTime,
		CloseTime: openTime.Add(time.Minute),
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
		Volume:    "1.0",
	}
}

func TestSeriesFromKlines(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	klines := []Kline{
		testKline(base, "100"),
		testKline(base.Add(time.Minute), "102"),
		testKline(base.Add(2*time.Minute), "98"),
	}

	series, err := SeriesFromKlines(testSymbol, klines)
	require.NoError(t, err)

	assert.Equal(t, testSymbol, series.Symbol)
	require.Equal(t, 3, series.Len())
	assert.True(t, series.First().Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, series.Last().Price.Equal(decimal.NewFromInt(98)))
	assert.Equal(t, base.Add(time.Minute), series.First().Timestamp)
}

func TestSeriesFromKlines_EmptyInput(t *testing.T) {
	_, err := SeriesFromKlines(testSymbol, nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "samples", vErr.Field)
}

func TestSeriesFromKlines_InvalidKline(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	bad := testKline(base, "100")
	bad.Close = "-5"
	bad.Low = "-5"

	_, err := SeriesFromKlines(testSymbol, []Kline{bad})
	assert.Error(t, err)
}

func TestPriceSeries_Validate(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		series      PriceSeries
		expectError bool
	}{
		{
			name: "valid_series",
			series: PriceSeries{
				Symbol: testSymbol,
				Samples: []PriceSample{
					{Timestamp: base, Price: decimal.NewFromInt(100)},
					{Timestamp: base.Add(time.Minute), Price: decimal.NewFromInt(101)},
				},
			},
		},
		{
			name:        "empty_symbol",
			series:      PriceSeries{Samples: []PriceSample{{Timestamp: base, Price: decimal.NewFromInt(1)}}},
			expectError: true,
		},
		{
			name:        "no_samples",
			series:      PriceSeries{Symbol: testSymbol},
			expectError: true,
		},
		{
			name: "zero_price",
			series: PriceSeries{
				Symbol:  testSymbol,
				Samples: []PriceSample{{Timestamp: base, Price: decimal.Zero}},
			},
			expectError: true,
		},
		{
			name: "negative_price",
			series: PriceSeries{
				Symbol:  testSymbol,
				Samples: []PriceSample{{Timestamp: base, Price: decimal.NewFromInt(-3)}},
			},
			expectError: true,
		},
		{
			name: "out_of_order_samples",
			series: PriceSeries{
				Symbol: testSymbol,
				Samples: []PriceSample{
					{Timestamp: base.Add(time.Minute), Price: decimal.NewFromInt(100)},
					{Timestamp: base, Price: decimal.NewFromInt(101)},
				},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.series.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
