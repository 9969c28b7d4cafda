package imaging

import "sort"

// percentile returns the p-th percentile (0..100) of vals using linear
// interpolation between closest ranks. vals is not modified.
func percentile(vals []float32, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	for i, v := range vals {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// PercentileStretch maps pixel values through a 1st/99th percentile
// clip-and-stretch onto 0..255. It returns the mapping function so callers
// can push additional values (e.g. the background median) through the same
// stretch that was applied to the pixels.
func PercentileStretch(vals []float32) func(float64) float64 {
	p1 := percentile(vals, 1)
	p99 := percentile(vals, 99)
	span := p99 - p1
	// Interpolation between equal ranks leaves float noise in the span, so
	// a strict zero test would miss a uniform crop.
	if span < 1e-9 {
		// Flat crop: every value maps to mid-gray so downstream tinting
		// still produces a visible patch.
		return func(float64) float64 { return 127.5 }
	}
	return func(v float64) float64 {
		out := (v - p1) / span * 255
		if out < 0 {
			return 0
		}
		if out > 255 {
			return 255
		}
		return out
	}
}

// backgroundSubtract returns max(0, v-background).
func backgroundSubtract(v float32, background float64) float64 {
	out := float64(v) - background
	if out < 0 {
		return 0
	}
	return out
}
