package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volwatch/go-volatility/internal/analyzer"
)

func testReport() *analyzer.Report {
	return &analyzer.Report{
		Symbol:    "BTCUSDT",
		MinPrice:  decimal.NewFromInt(95),
		MaxPrice:  decimal.NewFromInt(105),
		AvgPrice:  decimal.NewFromInt(100),
		PctChange: decimal.NewFromInt(-5),
		Hits: []analyzer.ThresholdHits{
			{Threshold: decimal.RequireFromString("0.05"), High: 1, Low: 1},
			{Threshold: decimal.RequireFromString("0.02"), High: 2, Low: 2},
			{Threshold: decimal.RequireFromString("0.30"), High: 0, Low: 0},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, testReport()))
	out := buf.String()

	assert.Contains(t, out, "BTCUSDT volatility information\n")
	assert.Contains(t, out, strings.Repeat("-", len("BTCUSDT volatility information")))
	assert.Contains(t, out, "Price: min: 95.000000, max 105.000000, avg: 100.000000, change: -5.00%")
	assert.Contains(t, out, "+THRESHOLD | HITS | -THRESHOLD | HITS")
	assert.Contains(t, out, "+    5.00% |    1 | -    5.00% |    1")
	assert.Contains(t, out, "+    2.00% |    2 | -    2.00% |    2")
}

func TestWriteText_SkipsZeroRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, testReport()))

	assert.NotContains(t, buf.String(), "30.00%")
}

func TestWriteText_RowOrderFollowsReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, testReport()))
	out := buf.String()

	assert.Less(t, strings.Index(out, "5.00%"), strings.Index(out, "2.00%"),
		"wider band must be printed first")
}

func TestWriteText_NoHitsOmitsTable(t *testing.T) {
	r := testReport()
	r.Hits = []analyzer.ThresholdHits{
		{Threshold: decimal.RequireFromString("0.30"), High: 0, Low: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))

	assert.NotContains(t, buf.String(), "+THRESHOLD")
	assert.Contains(t, buf.String(), "Price: min:")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "BTCUSDT", decoded["symbol"])
	hits, ok := decoded["hits"].([]interface{})
	require.True(t, ok)
	assert.Len(t, hits, 3)
}
