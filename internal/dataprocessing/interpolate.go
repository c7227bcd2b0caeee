package dataprocessing

import "math"

// InterpolateBackward fills NaN cells of values by linear interpolation on
// position and returns a new slice.
//
// A missing cell is filled only when a known value follows it within limit
// steps. Cells before the first known value take that value; cells after
// the last known value stay NaN. A limit <= 0 means no limit.
func InterpolateBackward(values []float64, limit int) []float64 {
	out := append([]float64(nil), values...)
	n := len(values)
	if n == 0 {
		return out
	}

	// prev[i] is the index of the last known value strictly before i.
	prev := make([]int, n)
	last := -1
	for i, v := range values {
		prev[i] = last
		if !math.IsNaN(v) {
			last = i
		}
	}

	next := -1
	for i := n - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			next = i
			continue
		}
		if next < 0 {
			continue
		}
		if limit > 0 && next-i > limit {
			continue
		}

		lo := prev[i]
		if lo < 0 {
			out[i] = values[next]
			continue
		}
		frac := float64(i-lo) / float64(next-lo)
		out[i] = values[lo] + (values[next]-values[lo])*frac
	}

	return out
}
