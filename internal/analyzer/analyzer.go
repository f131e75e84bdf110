// Package analyzer computes volatility statistics over a price series.
//
// The analyzer is a pure function over an ordered price series: it produces
// the minimum, maximum, and average price, the percentage change across the
// window, and, for each configured threshold, how many samples sit at least
// that far above or below the window average. It holds no state and performs
// no I/O; fetching and formatting are the caller's concern.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/volwatch/go-volatility/internal/models"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// InvalidInputError reports a caller error: an input that can never be
// analyzed regardless of market conditions.
type InvalidInputError struct {
	Field   string // Field is the name of the input that failed validation
	Message string // Message describes why the input is unusable
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Message)
}

// ThresholdHits holds the hit counts for one threshold band. High counts
// samples at or above avg*(1+threshold), Low counts samples at or below
// avg*(1-threshold). The boundary is inclusive on both sides.
type ThresholdHits struct {
	// Threshold is the fractional distance from the average (0.02 = 2%).
	Threshold decimal.Decimal `json:"threshold"`
	High      int             `json:"high"`
	Low       int             `json:"low"`
}

// Report is the result of analyzing one symbol over one window. It is
// immutable after creation and carries everything the formatter needs.
type Report struct {
	Symbol    string          `json:"symbol"`
	MinPrice  decimal.Decimal `json:"min_price"`
	MaxPrice  decimal.Decimal `json:"max_price"`
	AvgPrice  decimal.Decimal `json:"avg_price"`
	PctChange decimal.Decimal `json:"pct_change"`

	// Hits is ordered by descending threshold magnitude. Counts are
	// independent across thresholds: a sample far from the average is
	// counted once per band it clears, not binned into the widest one.
	Hits []ThresholdHits `json:"hits"`
}

// Analyze computes a volatility report for the series.
//
// The series must pass models.PriceSeries.Validate — non-empty, ordered, with
// positive prices — and the threshold set must contain at least one positive
// value; otherwise an InvalidInputError is returned. The percentage change is
// taken from the first and last samples and keeps its sign. Hit counting
// compares each sample against bands around the unweighted average price,
// counting boundary values as hits.
func Analyze(series *models.PriceSeries, thresholds ThresholdSet) (*Report, error) {
	if series == nil || len(series.Samples) == 0 {
		return nil, &InvalidInputError{Field: "series", Message: "price series must contain at least one sample"}
	}
	if err := series.Validate(); err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			return nil, &InvalidInputError{Field: "series." + vErr.Field, Message: vErr.Message}
		}
		return nil, &InvalidInputError{Field: "series", Message: err.Error()}
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	samples := series.Samples
	min := samples[0].Price
	max := samples[0].Price
	sum := decimal.Zero

	for _, s := range samples {
		if s.Price.LessThan(min) {
			min = s.Price
		}
		if s.Price.GreaterThan(max) {
			max = s.Price
		}
		sum = sum.Add(s.Price)
	}

	avg := sum.Div(decimal.NewFromInt(int64(len(samples))))

	first := series.First().Price
	last := series.Last().Price
	pctChange := last.Sub(first).Div(first).Mul(hundred)

	hits := make([]ThresholdHits, 0, len(thresholds))
	for _, t := range thresholds {
		highBand := avg.Mul(one.Add(t))
		lowBand := avg.Mul(one.Sub(t))

		var high, low int
		for _, s := range samples {
			if s.Price.GreaterThanOrEqual(highBand) {
				high++
			}
			if s.Price.LessThanOrEqual(lowBand) {
				low++
			}
		}
		hits = append(hits, ThresholdHits{Threshold: t, High: high, Low: low})
	}

	return &Report{
		Symbol:    series.Symbol,
		MinPrice:  min,
		MaxPrice:  max,
		AvgPrice:  avg,
		PctChange: pctChange,
		Hits:      hits,
	}, nil
}
