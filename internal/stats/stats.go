// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Trend directions.
const (
	DirectionIncreasing = "increasing"
	DirectionDecreasing = "decreasing"
	DirectionStable     = "stable"
	DirectionUnknown    = "unknown"
)

// Average returns the arithmetic mean, or false when fewer than minValues
// values are present.
func Average(values []float64, minValues int) (float64, bool) {
	if minValues < 1 {
		minValues = 1
	}
	if len(values) < minValues {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

// Mean returns the arithmetic mean or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Median returns the middle value, averaging the two middle values for
// even-length input. Returns 0 for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// StdDev returns the sample standard deviation, or 0 when fewer than two
// values are present.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Sum adds the values.
func Sum(values []float64) float64 {
	return floats.Sum(values)
}

// MinMax returns the smallest and largest value. Both are 0 for empty input.
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}

// Summary is the common mean/median/spread block used in result files.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes a Summary for values.
func Summarize(values []float64) Summary {
	lo, hi := MinMax(values)
	return Summary{
		Count:  len(values),
		Mean:   Mean(values),
		Median: Median(values),
		StdDev: StdDev(values),
		Min:    lo,
		Max:    hi,
	}
}

// Percentages converts counts to percentages of their total. All values are
// 0 when the total is 0.
func Percentages(counts map[string]int) map[string]float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make(map[string]float64, len(counts))
	for k, c := range counts {
		if total == 0 {
			out[k] = 0
			continue
		}
		out[k] = float64(c) / float64(total) * 100
	}
	return out
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Ratio returns a/b, or 0 when b is 0.
func Ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// TrendResult describes a linear trend over an ordered series.
type TrendResult struct {
	Direction     string   `json:"direction"`
	Slope         *float64 `json:"slope"`
	Intercept     *float64 `json:"intercept,omitempty"`
	RSquared      *float64 `json:"r_squared,omitempty"`
	Consistent    *bool    `json:"consistent"`
	Consistency   *float64 `json:"consistency,omitempty"`
	TotalChange   *float64 `json:"total_change,omitempty"`
	PercentChange *float64 `json:"percent_change,omitempty"`
}

// Trend fits a line over the values by index. Fewer than two values yield
// DirectionUnknown with no fitted fields.
func Trend(values []float64) TrendResult {
	if len(values) < 2 {
		return TrendResult{Direction: DirectionUnknown}
	}

	first, last := values[0], values[len(values)-1]
	totalChange := last - first

	direction := DirectionStable
	switch {
	case totalChange > 0:
		direction = DirectionIncreasing
	case totalChange < 0:
		direction = DirectionDecreasing
	}

	var up, down int
	for i := 1; i < len(values); i++ {
		switch d := values[i] - values[i-1]; {
		case d > 0:
			up++
		case d < 0:
			down++
		}
	}
	segments := float64(len(values) - 1)
	consistency := 1.0
	switch direction {
	case DirectionIncreasing:
		consistency = float64(up) / segments
	case DirectionDecreasing:
		consistency = float64(down) / segments
	}

	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(x, values, nil, false)

	// R² is 0 for a flat series rather than NaN.
	rSquared := 0.0
	if stat.Variance(values, nil) != 0 {
		rSquared = stat.RSquared(x, values, nil, intercept, slope)
	}

	consistent := consistency > 0.5
	result := TrendResult{
		Direction:   direction,
		Slope:       &slope,
		Intercept:   &intercept,
		RSquared:    &rSquared,
		Consistent:  &consistent,
		Consistency: &consistency,
		TotalChange: &totalChange,
	}
	if first != 0 {
		pct := totalChange / first * 100
		result.PercentChange = &pct
	}
	return result
}

// CorrelationResult is Pearson's r with an interpretation.
type CorrelationResult struct {
	Correlation *float64 `json:"correlation"`
	Direction   string   `json:"direction"`
	Strength    string   `json:"strength"`
}

// Correlation computes Pearson's r. Mismatched or too-short input yields an
// unknown result; zero variance on either side yields r = 0.
func Correlation(x, y []float64) CorrelationResult {
	if len(x) != len(y) || len(x) < 2 {
		return CorrelationResult{Direction: "unknown", Strength: "unknown"}
	}

	r := 0.0
	if stat.Variance(x, nil) > 0 && stat.Variance(y, nil) > 0 {
		r = stat.Correlation(x, y, nil)
	}

	direction := "none"
	switch {
	case r > 0:
		direction = "positive"
	case r < 0:
		direction = "negative"
	}

	strength := "strong"
	switch abs := math.Abs(r); {
	case abs < 0.3:
		strength = "weak"
	case abs < 0.7:
		strength = "moderate"
	}

	return CorrelationResult{Correlation: &r, Direction: direction, Strength: strength}
}

// KeyCount is a labelled count used for ranked lists.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TopN returns the n largest counts, ties broken by key. n <= 0 returns all.
func TopN(counts map[string]int, n int) []KeyCount {
	out := make([]KeyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DistributionBuckets counts values into buckets of the given width keyed by
// the bucket's lower bound (truncated toward zero). Keys are integers so the
// result encodes as a JSON object.
func DistributionBuckets(values []float64, size int) map[int]int {
	if size <= 0 {
		size = 10
	}
	buckets := make(map[int]int)
	for _, v := range values {
		buckets[int(math.Trunc(v/float64(size)))*size]++
	}
	return buckets
}

// Gini returns the Gini coefficient of non-negative values: 0 for a perfectly
// even distribution, approaching 1 when one item holds everything.
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	total := floats.Sum(values)
	if total == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var weighted float64
	for i, v := range sorted {
		weighted += float64(i+1) * v
	}
	return 2*weighted/(float64(n)*total) - float64(n+1)/float64(n)
}
