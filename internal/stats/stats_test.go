// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package stats

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		minValues int
		want      float64
		wantOK    bool
	}{
		{"empty", nil, 1, 0, false},
		{"single", []float64{4}, 1, 4, true},
		{"below minimum", []float64{1, 2}, 3, 0, false},
		{"mean", []float64{1, 2, 3, 4}, 2, 2.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Average(tt.values, tt.minValues)
			if ok != tt.wantOK || !almostEqual(got, tt.want) {
				t.Errorf("Average() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMedianAndStdDev(t *testing.T) {
	if got := Median([]float64{5, 1, 3}); got != 3 {
		t.Errorf("Median odd = %v, want 3", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("Median even = %v, want 2.5", got)
	}
	if got := Median(nil); got != 0 {
		t.Errorf("Median empty = %v, want 0", got)
	}
	// Sample standard deviation of 2,4,4,4,5,5,7,9 is sqrt(32/7).
	if got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}); !almostEqual(got, math.Sqrt(32.0/7.0)) {
		t.Errorf("StdDev = %v", got)
	}
	if got := StdDev([]float64{3}); got != 0 {
		t.Errorf("StdDev single = %v, want 0", got)
	}
}

func TestPercentages(t *testing.T) {
	got := Percentages(map[string]int{"a": 1, "b": 3})
	want := map[string]float64{"a": 25, "b": 75}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Percentages() mismatch (-want +got):\n%s", diff)
	}

	zero := Percentages(map[string]int{"a": 0, "b": 0})
	if diff := cmp.Diff(map[string]float64{"a": 0, "b": 0}, zero); diff != "" {
		t.Errorf("Percentages() zero total mismatch (-want +got):\n%s", diff)
	}
}

func TestTrend(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		got := Trend([]float64{1})
		if got.Direction != DirectionUnknown || got.Slope != nil || got.Consistent != nil {
			t.Errorf("Trend() = %+v, want unknown", got)
		}
	})

	t.Run("increasing line", func(t *testing.T) {
		got := Trend([]float64{1, 2, 3, 4})
		if got.Direction != DirectionIncreasing {
			t.Errorf("Direction = %q", got.Direction)
		}
		if !almostEqual(*got.Slope, 1) || !almostEqual(*got.Intercept, 1) {
			t.Errorf("Slope/Intercept = %v/%v, want 1/1", *got.Slope, *got.Intercept)
		}
		if !almostEqual(*got.RSquared, 1) {
			t.Errorf("RSquared = %v, want 1", *got.RSquared)
		}
		if !*got.Consistent || *got.Consistency != 1 {
			t.Errorf("Consistency = %v", *got.Consistency)
		}
		if !almostEqual(*got.PercentChange, 300) {
			t.Errorf("PercentChange = %v, want 300", *got.PercentChange)
		}
	})

	t.Run("fluctuating decrease", func(t *testing.T) {
		got := Trend([]float64{5, 6, 4, 3})
		if got.Direction != DirectionDecreasing {
			t.Errorf("Direction = %q", got.Direction)
		}
		if !almostEqual(*got.Consistency, 2.0/3.0) {
			t.Errorf("Consistency = %v, want 2/3", *got.Consistency)
		}
	})

	t.Run("flat from zero", func(t *testing.T) {
		got := Trend([]float64{0, 0, 0})
		if got.Direction != DirectionStable {
			t.Errorf("Direction = %q", got.Direction)
		}
		if *got.RSquared != 0 {
			t.Errorf("RSquared = %v, want 0", *got.RSquared)
		}
		if got.PercentChange != nil {
			t.Errorf("PercentChange should be nil when first value is 0")
		}
	})
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name      string
		x, y      []float64
		direction string
		strength  string
	}{
		{"too short", []float64{1}, []float64{2}, "unknown", "unknown"},
		{"mismatched", []float64{1, 2}, []float64{2}, "unknown", "unknown"},
		{"perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, "positive", "strong"},
		{"perfect negative", []float64{1, 2, 3}, []float64{3, 2, 1}, "negative", "strong"},
		{"constant", []float64{1, 1, 1}, []float64{1, 2, 3}, "none", "weak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Correlation(tt.x, tt.y)
			if got.Direction != tt.direction || got.Strength != tt.strength {
				t.Errorf("Correlation() = %s/%s, want %s/%s", got.Direction, got.Strength, tt.direction, tt.strength)
			}
		})
	}
}

func TestTopN(t *testing.T) {
	got := TopN(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}, 3)
	want := []KeyCount{{"c", 5}, {"a", 2}, {"b", 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopN() mismatch (-want +got):\n%s", diff)
	}
}

func TestDistributionBuckets(t *testing.T) {
	got := DistributionBuckets([]float64{1, 9.9, 10, 25, 31, 100}, 10)
	want := map[int]int{0: 2, 10: 1, 20: 1, 30: 1, 100: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DistributionBuckets() mismatch (-want +got):\n%s", diff)
	}
	if got := DistributionBuckets(nil, 0); got == nil || len(got) != 0 {
		t.Errorf("DistributionBuckets(nil) = %v, want empty map", got)
	}
}

func TestGini(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"all zero", []float64{0, 0}, 0},
		{"equal", []float64{3, 3, 3, 3}, 0},
		{"one holds all", []float64{0, 0, 0, 4}, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Gini(tt.values); !almostEqual(got, tt.want) {
				t.Errorf("Gini() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRound(t *testing.T) {
	if got := Round(3.14159, 2); got != 3.14 {
		t.Errorf("Round() = %v, want 3.14", got)
	}
}
