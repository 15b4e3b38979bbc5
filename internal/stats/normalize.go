package stats

import "sort"

// Normalize rescales v linearly so that min maps to 0 and max to 1.
//
// When max == min the range is degenerate and Normalize returns v-min
// instead of failing. That value is not bounded to [0, 1]; callers feeding
// it to a model must tolerate it.
func Normalize(v, min, max float64) float64 {
	if max != min {
		return (v - min) / (max - min)
	}
	return v - min
}

// NormalizePair normalizes a and b against their sum, so a non-degenerate
// pair adds up to 1.
func NormalizePair(a, b float64) [2]float64 {
	return [2]float64{Normalize(a, 0, a+b), Normalize(b, 0, a+b)}
}

// Median returns the middle value of xs, or the mean of the two middle
// values for an even count. It is 0 for an empty slice. xs is not modified.
func Median(xs []int) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]int, n)
	copy(sorted, xs)
	sort.Ints(sorted)
	if n%2 == 0 {
		return float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return float64(sorted[n/2])
}
