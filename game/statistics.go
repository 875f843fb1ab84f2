package game

import (
	"fmt"
	"math"
	"slices"
)

// Sum ...
func Sum(data []float64) (result float64) {
	for _, v := range data {
		result += v
	}
	return result
}

// Mean ...
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return Sum(data) / float64(len(data))
}

// Median returns the median of data without reordering it.
func Median(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	if n%2 != 0 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) * 0.5
}

// Variance ...
func Variance(data []float64) (variance float64) {
	if len(data) == 0 {
		return 0
	}
	mean := Mean(data)
	for _, v := range data {
		variance += (v - mean) * (v - mean)
	}
	return variance / float64(len(data))
}

// StandardDeviation ...
func StandardDeviation(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// Summary describes a set of error samples, such as the distances between synchronized objects
// and their authoritative poses.
type Summary struct {
	Count                   int
	Mean, Median, Deviation float64
	Max                     float64
}

// Summarize computes a Summary of samples.
func Summarize(samples []float64) Summary {
	s := Summary{
		Count:     len(samples),
		Mean:      Mean(samples),
		Median:    Median(samples),
		Deviation: StandardDeviation(samples),
	}
	if len(samples) > 0 {
		s.Max = slices.Max(samples)
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.3f median=%.3f sd=%.3f max=%.3f", s.Count, s.Mean, s.Median, s.Deviation, s.Max)
}
