// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package models provides data structures for orbitstats.
// This file contains the idea category analysis results.
package models

// IdeaCategoryAnalysis is the idea component output.
type IdeaCategoryAnalysis struct {
	TotalCategorized    int                `json:"total_categorized"`
	CategoryCounts      map[string]int     `json:"category_counts"`
	CategoryPercentages map[string]float64 `json:"category_percentages"`
	TopCategories       []RankedCount      `json:"top_categories"`
	DomainGrouping      DomainGrouping     `json:"domain_grouping"`
	Trends              CategoryTrends     `json:"trends"`
	UnknownCategories   map[string]int     `json:"unknown_categories"` // model answers outside the category list
	Merge               MergeStats         `json:"merge"`
}

type DomainGrouping struct {
	DomainCounts      map[string]int           `json:"domain_counts"`
	DomainPercentages map[string]float64       `json:"domain_percentages"`
	DomainCategories  map[string][]RankedCount `json:"domain_categories"`
}

type CategoryTrends struct {
	CategoryDiversity      int     `json:"category_diversity"`
	CategoryDiversityRatio float64 `json:"category_diversity_ratio"`
}

// MergeStats describes how categorizer output matched the idea dataset.
type MergeStats struct {
	Categorized int `json:"categorized"` // valid categorizer records
	Matched     int `json:"matched"`
	Ideas       int `json:"ideas"`
}
