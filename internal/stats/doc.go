// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

/*
Package stats provides the descriptive statistics shared by every analyzer.

Central tendency and dispersion are computed with gonum (stat, floats).
Helpers that return optional values use a (value, ok) pair or a pointer
in result structs so that "not enough data" survives JSON encoding as null
rather than being confused with zero.

Trend fits a least-squares line over the series index and reports the
direction of total change plus how consistently consecutive steps agree
with it:

	t := stats.Trend([]float64{3.1, 3.4, 3.9})
	// t.Direction == "increasing", t.Consistent == true

Correlation is Pearson's r with a coarse strength label (weak below 0.3,
moderate below 0.7, strong otherwise).
*/
package stats
