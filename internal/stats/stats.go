// Package stats provides the descriptive statistics used by the Monte Carlo
// simulation driver and the mana curve analyzer.
package stats

import "sort"

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
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

// Median returns the median of values, or 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Mode returns the most frequent value. The boolean is false when the slice
// is empty or no single value is strictly most frequent.
func Mode(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	counts := make(map[float64]int)
	for _, v := range values {
		counts[v]++
	}

	var mode float64
	best := 0
	tied := false
	for v, count := range counts {
		switch {
		case count > best:
			mode = v
			best = count
			tied = false
		case count == best:
			tied = true
		}
	}

	if tied {
		return 0, false
	}
	return mode, true
}

// IntsToFloats converts an int slice for use with the float helpers.
func IntsToFloats(values []int) []float64 {
	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = float64(v)
	}
	return result
}
