// Package stats reduces a batch of latency samples into the percentile
// summary reported for each sweep combination.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Latency is the read-only summary of one sample batch. It keeps no
// reference to the samples it was computed from.
type Latency struct {
	Min  int64
	P5   int64
	P50  int64
	P80  int64
	P90  int64
	P95  int64
	P99  int64
	P999 int64
	Max  int64
	Mean float64
}

// Reduce computes the latency summary over samples. The input may contain
// failure sentinels; filtering them is the caller's policy, the reducer
// treats every value as a plain signed duration. The input slice is not
// modified.
//
// Percentile(p) is the element at index floor(N*p) of the ascending sort,
// clamped to the last element. With N >= 1 this yields
// min <= p5 <= ... <= p99.9 <= max, and the mean lies within [min, max].
func Reduce(samples []int64) Latency {
	if len(samples) == 0 {
		return Latency{}
	}

	sorted := make([]int64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	asFloat := make([]float64, len(samples))
	for i, s := range samples {
		asFloat[i] = float64(s)
	}

	n := len(sorted)
	return Latency{
		Min:  sorted[0],
		P5:   sorted[percentileIndex(n, 0.05)],
		P50:  sorted[percentileIndex(n, 0.5)],
		P80:  sorted[percentileIndex(n, 0.8)],
		P90:  sorted[percentileIndex(n, 0.9)],
		P95:  sorted[percentileIndex(n, 0.95)],
		P99:  sorted[percentileIndex(n, 0.99)],
		P999: sorted[percentileIndex(n, 0.999)],
		Max:  sorted[n-1],
		Mean: stat.Mean(asFloat, nil),
	}
}

// percentileIndex returns floor(n*p) clamped into [0, n-1].
func percentileIndex(n int, p float64) int {
	i := int(float64(n) * p)
	if i > n-1 {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
