package analyzer

import (
	"sort"

	"github.com/shopspring/decimal"
)

// defaultThresholds is the standard band set, from 30% down to 0.25%.
var defaultThresholds = []string{
	"0.30", "0.25", "0.20", "0.15", "0.10", "0.05",
	"0.04", "0.03", "0.02", "0.01", "0.005", "0.0025",
}

// ThresholdSet is an ordered set of positive fractional distances from the
// average price (0.02 = 2%), kept in descending magnitude. The same set is
// applied symmetrically above and below the average.
type ThresholdSet []decimal.Decimal

// NewThresholdSet builds a validated threshold set from fractional values.
// Values are sorted into descending order and duplicates are silently
// dropped; non-positive values are rejected.
func NewThresholdSet(values []decimal.Decimal) (ThresholdSet, error) {
	if len(values) == 0 {
		return nil, &InvalidInputError{Field: "thresholds", Message: "threshold set cannot be empty"}
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GreaterThan(sorted[j])
	})

	set := make(ThresholdSet, 0, len(sorted))
	for i, v := range sorted {
		if v.LessThanOrEqual(decimal.Zero) {
			return nil, &InvalidInputError{Field: "thresholds", Message: "thresholds must be greater than 0, got " + v.String()}
		}
		if i > 0 && v.Equal(sorted[i-1]) {
			continue
		}
		set = append(set, v)
	}
	return set, nil
}

// NewThresholdSetFromStrings parses decimal strings into a threshold set.
func NewThresholdSetFromStrings(values []string) (ThresholdSet, error) {
	parsed := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, &InvalidInputError{Field: "thresholds", Message: "invalid threshold value " + v}
		}
		parsed = append(parsed, d)
	}
	return NewThresholdSet(parsed)
}

// DefaultThresholds returns the standard band set.
func DefaultThresholds() ThresholdSet {
	set, err := NewThresholdSetFromStrings(defaultThresholds)
	if err != nil {
		panic(err) // static values, cannot fail
	}
	return set
}

// Validate checks that the set is usable for analysis.
func (ts ThresholdSet) Validate() error {
	if len(ts) == 0 {
		return &InvalidInputError{Field: "thresholds", Message: "threshold set cannot be empty"}
	}
	for _, t := range ts {
		if t.LessThanOrEqual(decimal.Zero) {
			return &InvalidInputError{Field: "thresholds", Message: "thresholds must be greater than 0, got " + t.String()}
		}
	}
	return nil
}
