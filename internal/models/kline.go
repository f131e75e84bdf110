// Package models provides data structures and validation for market data.
// This package contains the typed candlestick record decoded at the exchange
// boundary and the price series consumed by the volatility analyzer.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// klineFieldCount is the number of positional fields in a Binance kline entry.
const klineFieldCount = 12

// Kline represents one candlestick for a symbol at a time interval.
// Prices and volumes are kept as decimal strings exactly as the exchange
// reports them; use the accessor methods for precise arithmetic.
type Kline struct {
	OpenTime            time.Time `json:"open_time"`
	Open                string    `json:"open"`
	High                string    `json:"high"`
	Low                 string    `json:"low"`
	Close               string    `json:"close"`
	Volume              string    `json:"volume"`
	CloseTime           time.Time `json:"close_time"`
	QuoteAssetVolume    string    `json:"quote_asset_volume"`
	Trades              int64     `json:"trades"`
	TakerBuyBaseVolume  string    `json:"taker_buy_base_volume"`
	TakerBuyQuoteVolume string    `json:"taker_buy_quote_volume"`
}

// ValidationError represents a kline validation error with field context.
type ValidationError struct {
	Field   string // Field is the name of the field that failed validation
	Message string // Message is a descriptive error message explaining the failure
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %s: %s", e.Field, e.Message)
}

// UnmarshalJSON decodes the positional array format the exchange uses:
//
//	[
//		1499040000000,      // Open time (ms)
//		"0.01634790",       // Open
//		"0.80000000",       // High
//		"0.01575800",       // Low
//		"0.01577100",       // Close
//		"148976.11427815",  // Volume
//		1499644799999,      // Close time (ms)
//		"2434.19055334",    // Quote asset volume
//		308,                // Number of trades
//		"1756.87402397",    // Taker buy base asset volume
//		"28.46694368",      // Taker buy quote asset volume
//		"17928899.62484339" // Ignore
//	]
//
// Every field is type-checked during decoding so malformed payloads are
// rejected at the boundary instead of surfacing later as bad numbers.
func (k *Kline) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("kline is not a JSON array: %w", err)
	}
	if len(fields) < klineFieldCount {
		return fmt.Errorf("kline has %d fields, expected %d", len(fields), klineFieldCount)
	}

	var openMillis, closeMillis int64
	if err := json.Unmarshal(fields[0], &openMillis); err != nil {
		return fmt.Errorf("invalid open time: %w", err)
	}
	if err := json.Unmarshal(fields[6], &closeMillis); err != nil {
		return fmt.Errorf("invalid close time: %w", err)
	}
	if err := json.Unmarshal(fields[8], &k.Trades); err != nil {
		return fmt.Errorf("invalid trade count: %w", err)
	}

	stringFields := []struct {
		index int
		name  string
		dst   *string
	}{
		{1, "open", &k.Open},
		{2, "high", &k.High},
		{3, "low", &k.Low},
		{4, "close", &k.Close},
		{5, "volume", &k.Volume},
		{7, "quote asset volume", &k.QuoteAssetVolume},
		{9, "taker buy base volume", &k.TakerBuyBaseVolume},
		{10, "taker buy quote volume", &k.TakerBuyQuoteVolume},
	}
	for _, f := range stringFields {
		if err := json.Unmarshal(fields[f.index], f.dst); err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}

	k.OpenTime = time.UnixMilli(openMillis).UTC()
	k.CloseTime = time.UnixMilli(closeMillis).UTC()
	return nil
}

// Validate performs validation on the kline data: timestamps must be set and
// ordered, all prices must be positive decimals, volume non-negative, and the
// OHLC relationships must hold (high >= max(open, close), low <= min(open, close)).
func (k *Kline) Validate() error {
	if k.OpenTime.IsZero() {
		return &ValidationError{Field: "open_time", Message: "open time cannot be zero"}
	}
	if k.CloseTime.IsZero() {
		return &ValidationError{Field: "close_time", Message: "close time cannot be zero"}
	}
	if k.CloseTime.Before(k.OpenTime) {
		return &ValidationError{Field: "close_time", Message: "close time cannot precede open time"}
	}

	open, err := decimal.NewFromString(k.Open)
	if err != nil {
		return &ValidationError{Field: "open", Message: fmt.Sprintf("invalid open price format: %v", err)}
	}
	high, err := decimal.NewFromString(k.High)
	if err != nil {
		return &ValidationError{Field: "high", Message: fmt.Sprintf("invalid high price format: %v", err)}
	}
	low, err := decimal.NewFromString(k.Low)
	if err != nil {
		return &ValidationError{Field: "low", Message: fmt.Sprintf("invalid low price format: %v", err)}
	}
	close, err := decimal.NewFromString(k.Close)
	if err != nil {
		return &ValidationError{Field: "close", Message: fmt.Sprintf("invalid close price format: %v", err)}
	}
	volume, err := decimal.NewFromString(k.Volume)
	if err != nil {
		return &ValidationError{Field: "volume", Message: fmt.Sprintf("invalid volume format: %v", err)}
	}

	zero := decimal.Zero
	if open.LessThanOrEqual(zero) {
		return &ValidationError{Field: "open", Message: "open price must be greater than 0"}
	}
	if high.LessThanOrEqual(zero) {
		return &ValidationError{Field: "high", Message: "high price must be greater than 0"}
	}
	if low.LessThanOrEqual(zero) {
		return &ValidationError{Field: "low", Message: "low price must be greater than 0"}
	}
	if close.LessThanOrEqual(zero) {
		return &ValidationError{Field: "close", Message: "close price must be greater than 0"}
	}
	if volume.LessThan(zero) {
		return &ValidationError{Field: "volume", Message: "volume must be greater than or equal to 0"}
	}

	maxOpenClose := decimal.Max(open, close)
	if high.LessThan(maxOpenClose) {
		return &ValidationError{
			Field:   "high",
			Message: fmt.Sprintf("high price (%s) must be greater than or equal to max(open, close) (%s)", high, maxOpenClose),
		}
	}
	minOpenClose := decimal.Min(open, close)
	if low.GreaterThan(minOpenClose) {
		return &ValidationError{
			Field:   "low",
			Message: fmt.Sprintf("low price (%s) must be less than or equal to min(open, close) (%s)", low, minOpenClose),
		}
	}

	return nil
}

// OpenDecimal returns the open price as a decimal.Decimal.
func (k *Kline) OpenDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(k.Open)
}

// HighDecimal returns the high price as a decimal.Decimal.
func (k *Kline) HighDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(k.High)
}

// LowDecimal returns the low price as a decimal.Decimal.
func (k *Kline) LowDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(k.Low)
}

// CloseDecimal returns the close price as a decimal.Decimal.
func (k *Kline) CloseDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(k.Close)
}

// VolumeDecimal returns the volume as a decimal.Decimal.
func (k *Kline) VolumeDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(k.Volume)
}

// String returns a human-readable representation of the kline.
func (k *Kline) String() string {
	return fmt.Sprintf("Kline{OpenTime: %s, O: %s, H: %s, L: %s, C: %s, V: %s}",
		k.OpenTime.Format(time.RFC3339), k.Open, k.High, k.Low, k.Close, k.Volume)
}
