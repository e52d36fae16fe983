// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package report persists analysis results and renders a terminal summary.
//
// Output layout under the results directory:
//
//	combined/analysis_results_{ts}_combined.json
//	combined/analysis_results_combined_latest.json
//	{component}/analysis_{component}_{ts}.json
//
// Performance metrics go to {output}/performance_metrics/performance_metrics_{ts}.json
// and carry a snapshot of the Prometheus registry. Timestamps use the
// "20060102_150405" layout in local time.
//
// The summary is Markdown rendered with glamour under a lipgloss banner. It
// replaces the chart output of earlier tooling; the JSON files remain the
// source for figures.
package report
