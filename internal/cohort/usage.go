// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package cohort

import (
	"github.com/tomtom215/orbitstats/internal/dates"
	"github.com/tomtom215/orbitstats/internal/filter"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

// Levels holds the minimum value for each usage level.
type Levels struct {
	Low    float64
	Medium float64
	High   float64
}

// Level maps v onto high, medium, low or none.
func (l Levels) Level(v float64) string {
	switch {
	case v >= l.High:
		return models.UsageHigh
	case v >= l.Medium:
		return models.UsageMedium
	case v >= l.Low:
		return models.UsageLow
	default:
		return models.UsageNone
	}
}

// Thresholds configures every usage categorization method.
type Thresholds struct {
	Ideas        Levels
	Steps        Levels
	Completion   Levels // fraction of framework progress, 0-1
	Interactions Levels // ideas plus steps
}

// DefaultThresholds returns the thresholds used in the study.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Ideas:        Levels{Low: 1, Medium: 2, High: 5},
		Steps:        Levels{Low: 1, Medium: 5, High: 15},
		Completion:   Levels{Low: 0.2, Medium: 0.5, High: 0.8},
		Interactions: Levels{Low: 3, Medium: 10, High: 20},
	}
}

// Combined assigns the highest level reached by either the idea count or
// the step count.
func (t Thresholds) Combined(ideas, steps int) string {
	i, s := float64(ideas), float64(steps)
	switch {
	case i >= t.Ideas.High || s >= t.Steps.High:
		return models.UsageHigh
	case i >= t.Ideas.Medium || s >= t.Steps.Medium:
		return models.UsageMedium
	case i >= t.Ideas.Low || s >= t.Steps.Low:
		return models.UsageLow
	default:
		return models.UsageNone
	}
}

// ByCompletion uses the best progress of any owned idea. Progress above 1
// is read as a percentage.
func (t Thresholds) ByCompletion(ideas []models.Idea) string {
	if len(ideas) == 0 {
		return models.UsageNone
	}
	best := 0.0
	for i := range ideas {
		best = max(best, ideas[i].MaxProgress())
	}
	if best > 1 {
		best /= 100
	}
	return t.Completion.Level(best)
}

func (a *Analyzer) userUsage() map[string]models.UserUsage {
	steps := stepsPerUser(a.ds)
	out := make(map[string]models.UserUsage, len(a.ds.Users))
	for i := range a.ds.Users {
		u := &a.ds.Users[i]
		if u.Email == "" {
			continue
		}
		owned := a.ideasByOwner[u.Email]
		ideas, stepCount := len(owned), steps[u.Email]
		out[u.Email] = models.UserUsage{
			IdeasCount:          ideas,
			StepsCount:          stepCount,
			UserID:              u.ID,
			UserType:            u.Type,
			UsageLevel:          a.thresholds.Combined(ideas, stepCount),
			UsageByIdeas:        a.thresholds.Ideas.Level(float64(ideas)),
			UsageBySteps:        a.thresholds.Steps.Level(float64(stepCount)),
			UsageByCompletion:   a.thresholds.ByCompletion(owned),
			UsageByInteractions: a.thresholds.Interactions.Level(float64(ideas + stepCount)),
		}
	}
	return out
}

func (a *Analyzer) usageCohorts() models.UsageCohorts {
	metrics := a.userUsage()

	out := models.UsageCohorts{
		UserMetrics:           metrics,
		UsageStats:            make(map[string]map[string]models.UsageStats, len(models.UsageMethods)),
		UsageByTimeCohort:     make(map[string]models.CohortUsage, len(a.periods)),
		CategorizationMethods: models.UsageMethods,
		MethodComparison:      CompareMethods(metrics, models.UsageMethods),
	}

	for _, method := range models.UsageMethods {
		byLevel := make(map[string]map[string]struct{})
		for email, m := range metrics {
			level := m.Level(method)
			if byLevel[level] == nil {
				byLevel[level] = make(map[string]struct{})
			}
			byLevel[level][email] = struct{}{}
		}

		out.UsageStats[method] = make(map[string]models.UsageStats, len(byLevel))
		for level, emails := range byLevel {
			sub := filter.ByEmails(a.ds, emails)
			n := float64(len(emails))
			out.UsageStats[method][level] = models.UsageStats{
				UserCount:       len(emails),
				IdeasCount:      len(sub.Ideas),
				StepsCount:      len(sub.Steps),
				IdeasPerUser:    float64(len(sub.Ideas)) / n,
				StepsPerIdea:    stats.Ratio(float64(len(sub.Steps)), float64(len(sub.Ideas))),
				AvgStepsPerUser: float64(len(sub.Steps)) / n,
			}
		}
	}

	for _, p := range a.periods {
		out.UsageByTimeCohort[p.Name] = a.usageInPeriod(p, metrics)
	}
	return out
}

// usageInPeriod counts the period's users by level for every method.
// Percentages are fractions of the period's users and stay empty when the
// period has none.
func (a *Analyzer) usageInPeriod(p Period, metrics map[string]models.UserUsage) models.CohortUsage {
	cu := models.CohortUsage{
		ToolVersion: p.ToolVersion,
		Categories:  make(map[string]models.LevelBreakdown, len(models.UsageMethods)),
	}
	for _, method := range models.UsageMethods {
		counts := make(map[string]int, len(models.UsageLevels))
		for _, level := range models.UsageLevels {
			counts[level] = 0
		}
		cu.Categories[method] = models.LevelBreakdown{Counts: counts, Percentages: map[string]float64{}}
	}

	for i := range a.ds.Users {
		u := &a.ds.Users[i]
		m, ok := metrics[u.Email]
		if !ok {
			continue
		}
		created, ok := dates.Parse(u.CreatedDate)
		if !ok || !p.Contains(created) {
			continue
		}
		cu.TotalUsers++
		for _, method := range models.UsageMethods {
			cu.Categories[method].Counts[m.Level(method)]++
		}
	}

	if cu.TotalUsers > 0 {
		for _, method := range models.UsageMethods {
			b := cu.Categories[method]
			for level, n := range b.Counts {
				b.Percentages[level] = float64(n) / float64(cu.TotalUsers)
			}
		}
	}
	return cu
}

// CompareMethods builds confusion matrices and agreement rates for every
// pair of methods, in order, plus each method's level distribution.
func CompareMethods(metrics map[string]models.UserUsage, methods []string) models.MethodComparison {
	out := models.MethodComparison{
		ConfusionMatrices:   map[string]map[string]map[string]int{},
		AgreementRates:      map[string]float64{},
		MethodDistributions: make(map[string]map[string]float64, len(methods)),
	}

	for i, m1 := range methods {
		for _, m2 := range methods[i+1:] {
			key := m1 + "_vs_" + m2
			matrix := make(map[string]map[string]int, len(models.UsageLevels))
			for _, l1 := range models.UsageLevels {
				matrix[l1] = make(map[string]int, len(models.UsageLevels))
				for _, l2 := range models.UsageLevels {
					matrix[l1][l2] = 0
				}
			}

			agree := 0
			for _, m := range metrics {
				l1, l2 := m.Level(m1), m.Level(m2)
				matrix[l1][l2]++
				if l1 == l2 {
					agree++
				}
			}
			out.ConfusionMatrices[key] = matrix
			out.AgreementRates[key] = stats.Ratio(float64(agree), float64(len(metrics)))
		}
	}

	for _, method := range methods {
		dist := make(map[string]float64, len(models.UsageLevels))
		for _, level := range models.UsageLevels {
			dist[level] = 0
		}
		for _, m := range metrics {
			dist[m.Level(method)]++
		}
		if n := float64(len(metrics)); n > 0 {
			for level := range dist {
				dist[level] /= n
			}
		}
		out.MethodDistributions[method] = dist
	}
	return out
}
