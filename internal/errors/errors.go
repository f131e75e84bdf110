// Package errors provides error classification for the volatility tool.
// Data-source failures are wrapped with the symbol, interval, and window that
// produced them so the user can retry manually, and classified into types the
// exchange adapter uses to decide between retrying and giving up.
package errors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrorType represents the classification of an error
type ErrorType string

const (
	// Retryable error types
	ErrorTypeNetwork     ErrorType = "network"      // Network connectivity issues
	ErrorTypeTimeout     ErrorType = "timeout"      // Request timeout
	ErrorTypeRateLimit   ErrorType = "rate_limit"   // Rate limiting from the exchange
	ErrorTypeServerError ErrorType = "server_error" // HTTP 5xx errors

	// Non-retryable error types
	ErrorTypeBadRequest ErrorType = "bad_request" // HTTP 4xx errors (except rate limit)
	ErrorTypeValidation ErrorType = "validation"  // Input or response validation errors

	ErrorTypeUnknown ErrorType = "unknown" // Unclassified errors
)

// retryableTypes lists the error types worth retrying against the exchange.
var retryableTypes = map[ErrorType]bool{
	ErrorTypeNetwork:     true,
	ErrorTypeTimeout:     true,
	ErrorTypeRateLimit:   true,
	ErrorTypeServerError: true,
}

// Retryable reports whether the error type is transient.
func (t ErrorType) Retryable() bool {
	return retryableTypes[t]
}

// DataSourceError wraps a failure from the market data source with the
// request context needed to retry it by hand.
type DataSourceError struct {
	Symbol   string
	Interval string
	Window   time.Duration
	Type     ErrorType
	Err      error
}

// Error implements the error interface
func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source error (%s) for %s interval=%s window=%s: %v",
		e.Type, e.Symbol, e.Interval, e.Window, e.Err)
}

// Unwrap returns the underlying error
func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// Is matches another DataSourceError by type.
func (e *DataSourceError) Is(target error) bool {
	if t, ok := target.(*DataSourceError); ok {
		return e.Type == t.Type
	}
	return errors.Is(e.Err, target)
}

// NewDataSourceError classifies err and attaches the request context.
func NewDataSourceError(symbol, interval string, window time.Duration, err error) *DataSourceError {
	return &DataSourceError{
		Symbol:   symbol,
		Interval: interval,
		Window:   window,
		Type:     Classify(err),
		Err:      err,
	}
}

// Classify determines the error type based on the error content.
func Classify(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var dse *DataSourceError
	if errors.As(err, &dse) {
		return dse.Type
	}

	if isTimeoutError(err) {
		return ErrorTypeTimeout
	}
	if isNetworkError(err) {
		return ErrorTypeNetwork
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") {
		return ErrorTypeRateLimit
	}

	if strings.Contains(errStr, "server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return ErrorTypeServerError
	}

	if strings.Contains(errStr, "client error") ||
		strings.Contains(errStr, "bad request") ||
		strings.Contains(errStr, "not found") {
		return ErrorTypeBadRequest
	}

	if strings.Contains(errStr, "validation") ||
		strings.Contains(errStr, "invalid") ||
		strings.Contains(errStr, "malformed") ||
		strings.Contains(errStr, "parse") {
		return ErrorTypeValidation
	}

	return ErrorTypeUnknown
}

// IsRetryable reports whether the error is worth retrying.
func IsRetryable(err error) bool {
	return Classify(err).Retryable()
}

// isNetworkError checks if the error is network-related
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	networkPatterns := []string{
		"connection refused",
		"connection reset",
		"connection aborted",
		"no route to host",
		"host unreachable",
		"network unreachable",
		"dns",
		"resolve",
	}
	for _, pattern := range networkPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// isTimeoutError checks if the error is timeout-related
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}
