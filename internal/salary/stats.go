package salary

import (
	"errors"
	"math"
	"slices"
)

// ErrEmptyMedianInput is the panic value raised when Median is called without values
var ErrEmptyMedianInput = errors.New("salary: median of empty input")

// Amount is the set of numeric types the helpers accept
type Amount interface {
	~int64 | ~float64
}

// Median returns the median of values.
// Odd counts yield the middle value, even counts the mean of the two central values.
//
// values must not be empty: Median panics with ErrEmptyMedianInput rather than
// inventing a statistic. values is not modified.
func Median[T Amount](values []T) float64 {
	if len(values) == 0 {
		panic(ErrEmptyMedianInput)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice
func Mean[T Amount](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += float64(v)
	}
	return total / float64(len(values))
}

// CountAbove counts values strictly greater than threshold
func CountAbove(values []int64, threshold Threshold) int {
	count := 0
	for _, v := range values {
		if v > int64(threshold) {
			count++
		}
	}
	return count
}

// roundTo rounds v to the given number of decimal places
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func sortSeasons(seasons []Season) {
	slices.Sort(seasons)
}
