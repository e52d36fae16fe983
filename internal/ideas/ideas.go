// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package ideas merges categorizer output into the idea dataset and
// summarizes the resulting categories by count, share and domain.
package ideas

import (
	"context"

	"github.com/tomtom215/orbitstats/internal/grouping"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

const topCategories = 10

// Merge returns a copy of ideas with categories from the categorizer output
// applied by id. Records without a category are ignored; a later record for
// the same id wins.
func Merge(ctx context.Context, ideas []models.Idea, categorized []models.CategorizedIdea) ([]models.Idea, models.MergeStats) {
	byID := make(map[string]string, len(categorized))
	for _, c := range categorized {
		if c.ID != "" && c.Category != "" {
			byID[c.ID] = c.Category
		}
	}

	out := make([]models.Idea, len(ideas))
	copy(out, ideas)
	st := models.MergeStats{Categorized: len(byID), Ideas: len(ideas)}
	for i := range out {
		if category, ok := byID[out[i].ID]; ok {
			out[i].Category = category
			st.Matched++
		}
	}

	logging.Ctx(ctx).Info().
		Int("categorized", st.Categorized).
		Int("matched", st.Matched).
		Int("ideas", st.Ideas).
		Msg("Merged idea categories")
	return out, st
}

// Analyzer computes IdeaCategoryAnalysis results over merged ideas.
type Analyzer struct {
	ideas []models.Idea
	merge models.MergeStats
}

// NewAnalyzer creates an analyzer. Ideas without a category count as
// Uncategorized.
func NewAnalyzer(ideas []models.Idea, merge models.MergeStats) *Analyzer {
	return &Analyzer{ideas: ideas, merge: merge}
}

// Analyze summarizes the categories.
func (a *Analyzer) Analyze(ctx context.Context) (*models.IdeaCategoryAnalysis, error) {
	log := logging.Ctx(ctx)
	if len(a.ideas) == 0 {
		log.Warn().Msg("No categorized ideas provided")
	}

	counts := grouping.CountBy(a.ideas, func(i models.Idea) (string, bool) {
		return categoryOf(i), true
	})

	unknown := map[string]int{}
	for category, n := range counts {
		if category != Uncategorized && !IsKnown(category) {
			unknown[category] = n
		}
	}
	if len(unknown) > 0 {
		log.Warn().Int("categories", len(unknown)).Msg("Ideas carry categories outside the category list")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &models.IdeaCategoryAnalysis{
		TotalCategorized:    len(a.ideas),
		CategoryCounts:      counts,
		CategoryPercentages: stats.Percentages(counts),
		TopCategories:       ranked(stats.TopN(counts, topCategories)),
		DomainGrouping:      groupByDomain(counts),
		Trends: models.CategoryTrends{
			CategoryDiversity:      len(counts),
			CategoryDiversityRatio: stats.Ratio(float64(len(counts)), float64(len(a.ideas))),
		},
		UnknownCategories: unknown,
		Merge:             a.merge,
	}

	log.Info().
		Int("ideas", len(a.ideas)).
		Int("categories", len(counts)).
		Msg("Idea category analysis complete")
	return result, nil
}

func categoryOf(i models.Idea) string {
	if i.Category == "" {
		return Uncategorized
	}
	return i.Category
}

// groupByDomain sums category counts per domain. Uncategorized ideas are
// left out of every domain.
func groupByDomain(counts map[string]int) models.DomainGrouping {
	domainCounts := make(map[string]int)
	members := make(map[string]map[string]int)
	for category, n := range counts {
		if category == Uncategorized {
			continue
		}
		d := DomainOf(category)
		domainCounts[d] += n
		if members[d] == nil {
			members[d] = make(map[string]int)
		}
		members[d][category] = n
	}

	out := models.DomainGrouping{
		DomainCounts:      domainCounts,
		DomainPercentages: stats.Percentages(domainCounts),
		DomainCategories:  make(map[string][]models.RankedCount, len(members)),
	}
	for d, m := range members {
		out.DomainCategories[d] = ranked(stats.TopN(m, 0))
	}
	return out
}

func ranked(kcs []stats.KeyCount) []models.RankedCount {
	out := make([]models.RankedCount, 0, len(kcs))
	for _, kc := range kcs {
		out = append(out, models.RankedCount{Name: kc.Key, Count: kc.Count})
	}
	return out
}
