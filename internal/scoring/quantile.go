package scoring

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Percentile computes the p-th percentile (0–100) with linear interpolation
// between closest ranks, the same convention the rest of the pipeline's
// reference data was produced with. A single-element or constant series
// passes through as that value.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// MinMaxNormalize rescales values to [0,1] in place. A constant series maps
// every value to 0, matching the scaler behavior of the reference pipeline.
func MinMaxNormalize(values []float64) {
	if len(values) == 0 {
		return
	}
	lo := floats.Min(values)
	hi := floats.Max(values)
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			values[i] = 0
		} else {
			values[i] = (v - lo) / span
		}
	}
}
