// Package exchange defines interfaces for market-data adapters and provides
// the Binance implementation used to fetch historical klines.
//
// The interfaces are small and composable: callers that only need candle
// data depend on CandleFetcher, while the full adapter also exposes rate
// limit information and a health check.
package exchange

import (
	"context"
	"time"

	"github.com/volwatch/go-volatility/internal/models"
)

// CandleFetcher retrieves historical kline data from an exchange.
//
// Implementations must return klines in chronological order (oldest first),
// respect the exchange's rate limits, and honor context cancellation. If no
// data exists for the requested range, an empty slice is returned without
// error.
type CandleFetcher interface {
	FetchCandles(ctx context.Context, req FetchRequest) (*FetchResponse, error)
}

// RateLimitInfo exposes the adapter's rate limiting state.
type RateLimitInfo interface {
	// GetLimits returns the rate limiting configuration in effect.
	GetLimits() RateLimit

	// WaitForLimit blocks until the rate limiter allows another request,
	// or the context is cancelled.
	WaitForLimit(ctx context.Context) error
}

// HealthChecker verifies the exchange connection is usable.
type HealthChecker interface {
	// HealthCheck performs a lightweight reachability check. It must not
	// consume meaningful rate limit quota.
	HealthCheck(ctx context.Context) error
}

// Adapter combines all exchange capabilities into a single interface.
type Adapter interface {
	CandleFetcher
	RateLimitInfo
	HealthChecker
}

// FetchRequest specifies parameters for fetching kline data.
type FetchRequest struct {
	// Symbol is the trading symbol in the exchange's format (e.g. "BTCUSDT")
	Symbol string `json:"symbol"`

	// Start is the beginning of the time range to fetch (inclusive)
	Start time.Time `json:"start"`

	// End is the end of the time range to fetch (exclusive)
	End time.Time `json:"end"`

	// Interval specifies the kline interval (e.g. "1m", "1h", "1d")
	Interval string `json:"interval"`

	// Limit caps the total number of klines returned. Zero means no cap.
	Limit int `json:"limit,omitempty"`
}

// FetchResponse contains the results of a kline fetch.
type FetchResponse struct {
	// Klines contains the candle data ordered chronologically (oldest first)
	Klines []models.Kline `json:"klines"`

	// RateLimit reports the rate limiting state after the fetch.
	RateLimit RateLimitStatus `json:"rate_limit"`
}

// RateLimit defines the rate limiting configuration for an exchange.
type RateLimit struct {
	RequestsPerSecond int           `json:"requests_per_second"`
	BurstSize         int           `json:"burst_size"`
	WindowDuration    time.Duration `json:"window_duration"`
}

// RateLimitStatus provides current rate limiting state information.
type RateLimitStatus struct {
	// Remaining is the estimated number of requests left in the window.
	Remaining int `json:"remaining"`

	// ResetTime is when the rate limit window resets.
	ResetTime time.Time `json:"reset_time"`

	// RetryAfter is how long to wait before the next request.
	RetryAfter time.Duration `json:"retry_after"`
}

// ValidationError represents a validation error for exchange request types.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation error for field " + e.Field + ": " + e.Message
}

// Validate checks if the FetchRequest has valid parameters.
func (r *FetchRequest) Validate() error {
	if r.Symbol == "" {
		return &ValidationError{Field: "symbol", Message: "trading symbol cannot be empty"}
	}
	if r.Interval == "" {
		return &ValidationError{Field: "interval", Message: "interval cannot be empty"}
	}
	if r.Start.IsZero() {
		return &ValidationError{Field: "start", Message: "start time cannot be zero"}
	}
	if r.End.IsZero() {
		return &ValidationError{Field: "end", Message: "end time cannot be zero"}
	}
	if !r.End.After(r.Start) {
		return &ValidationError{Field: "end", Message: "end time must be after start time"}
	}
	if r.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "limit cannot be negative"}
	}
	return nil
}

// Duration returns the time span of the fetch request.
func (r *FetchRequest) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
