// Package stats holds the numeric helpers shared by the metric functions:
// the zero-guarded division every ratio goes through, nearest-rank
// percentiles, means and month-over-month change.
package stats

import (
	"math"
	"sort"
)

// SafeDivide returns num/den, or 0 when den is zero or negative.
func SafeDivide(num, den float64) float64 {
	if den <= 0 || math.IsNaN(den) {
		return 0
	}
	return num / den
}

// Ratio is SafeDivide over counts.
func Ratio(num, den int) float64 {
	return SafeDivide(float64(num), float64(den))
}

// Percentile returns the nearest-rank percentile of values. p is in [0,100].
// The result is always one of the samples; p50 of [1,2,3,4] is 2. An empty
// input yields 0. values is not modified.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// Mean returns the arithmetic mean, 0 for no samples.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MoM is the relative change from previous to current, (current-previous)/previous.
// A zero previous value yields 0.
func MoM(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous
}
