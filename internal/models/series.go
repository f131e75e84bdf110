package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSample is one price observation for a symbol at a point in time.
type PriceSample struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}

// PriceSeries is a chronologically ordered sequence of price samples for one
// symbol over one time window. A series must be non-empty with positive
// prices to be analyzed.
type PriceSeries struct {
	Symbol  string        `json:"symbol"`
	Samples []PriceSample `json:"samples"`
}

// Validate checks that the series can be analyzed.
func (s *PriceSeries) Validate() error {
	if s.Symbol == "" {
		return &ValidationError{Field: "symbol", Message: "symbol cannot be empty"}
	}
	if len(s.Samples) == 0 {
		return &ValidationError{Field: "samples", Message: "series must contain at least one sample"}
	}
	for i := range s.Samples {
		if s.Samples[i].Price.LessThanOrEqual(decimal.Zero) {
			return &ValidationError{Field: "samples", Message: "sample prices must be positive"}
		}
		if i > 0 && s.Samples[i].Timestamp.Before(s.Samples[i-1].Timestamp) {
			return &ValidationError{Field: "samples", Message: "samples must be ordered by timestamp ascending"}
		}
	}
	return nil
}

// Len returns the number of samples in the series.
func (s *PriceSeries) Len() int {
	return len(s.Samples)
}

// First returns the earliest sample. The series must be non-empty.
func (s *PriceSeries) First() PriceSample {
	return s.Samples[0]
}

// Last returns the most recent sample. The series must be non-empty.
func (s *PriceSeries) Last() PriceSample {
	return s.Samples[len(s.Samples)-1]
}

// SeriesFromKlines builds a close-price series from klines in chronological
// order. Each kline is validated before its close price is taken; a single
// malformed kline fails the whole conversion so the analyzer never sees a
// partially parsed window.
func SeriesFromKlines(symbol string, klines []Kline) (*PriceSeries, error) {
	samples := make([]PriceSample, 0, len(klines))
	for i := range klines {
		if err := klines[i].Validate(); err != nil {
			return nil, err
		}
		price, err := klines[i].CloseDecimal()
		if err != nil {
			return nil, err
		}
		samples = append(samples, PriceSample{
			Timestamp: klines[i].CloseTime,
			Price:     price,
		})
	}

	series := &PriceSeries{Symbol: symbol, Samples: samples}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
