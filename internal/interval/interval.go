// Package interval parses candlestick interval strings and human-readable
// period strings into durations.
package interval

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// intervalDurations maps the exchange's supported kline intervals to their
// durations. The monthly interval is deliberately absent: a month has no
// fixed duration, and windows that long are outside what this tool reports on.
var intervalDurations = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"6h":  6 * time.Hour,
	"8h":  8 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"3d":  72 * time.Hour,
	"1w":  7 * 24 * time.Hour,
}

// periodUnits maps the units accepted in period strings to their durations.
var periodUnits = map[string]time.Duration{
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
}

// ParseInterval validates a kline interval string (e.g. "1m", "1h") against
// the exchange's supported set and returns its duration. Matching is
// case-sensitive: the exchange distinguishes "1m" (minute) from "1M" (month).
func ParseInterval(s string) (time.Duration, error) {
	d, ok := intervalDurations[strings.TrimSpace(s)]
	if !ok {
		return 0, fmt.Errorf("unsupported interval: %q", s)
	}
	return d, nil
}

// ParsePeriod parses a human-readable window string such as "2 hour",
// "1 day", or "30 minutes" into a duration. The format is "<count> <unit>"
// with units minute, hour, day, or week, singular or plural.
func ParsePeriod(s string) (time.Duration, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) != 2 {
		return 0, fmt.Errorf("invalid period %q: expected \"<count> <unit>\", e.g. \"2 hour\"", s)
	}

	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("invalid period count %q: %w", fields[0], err)
	}
	if count <= 0 {
		return 0, fmt.Errorf("period count must be positive, got %d", count)
	}

	unit, ok := periodUnits[strings.TrimSuffix(fields[1], "s")]
	if !ok {
		return 0, fmt.Errorf("invalid period unit %q: expected minute, hour, day, or week", fields[1])
	}

	return time.Duration(count) * unit, nil
}
