// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package activity analyzes how users work with the entrepreneurship tool:
// idea generation, engagement levels, framework step completion, dropout
// points, usage over time and the relation between page views and actions.
package activity

import (
	"context"
	"strings"

	"github.com/tomtom215/orbitstats/internal/grouping"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

// completedProgress is the framework progress at which an idea counts as
// completed.
const completedProgress = 80

// Analyzer computes ActivityAnalysis results.
type Analyzer struct {
	users []models.User
	ideas []models.Idea
	steps []models.Step

	ideasByOwner map[string][]models.Idea
	stepsByIdea  map[string][]models.Step
	stepsByOwner map[string][]models.Step

	immediateThreshold float64
	sessionThreshold   float64
}

// NewAnalyzer creates an analyzer and indexes ideas and steps by owner and
// idea.
func NewAnalyzer(users []models.User, ideas []models.Idea, steps []models.Step) *Analyzer {
	return &Analyzer{
		users:              users,
		ideas:              ideas,
		steps:              steps,
		ideasByOwner:       grouping.GroupBy(ideas, grouping.NonEmpty(func(i models.Idea) string { return i.Owner })),
		stepsByIdea:        grouping.GroupBy(steps, grouping.NonEmpty(func(s models.Step) string { return s.IdeaID })),
		stepsByOwner:       grouping.GroupBy(steps, grouping.NonEmpty(func(s models.Step) string { return s.Owner })),
		immediateThreshold: ImmediateActionThreshold,
		sessionThreshold:   SessionThreshold,
	}
}

// Analyze runs every activity analysis.
func (a *Analyzer) Analyze(ctx context.Context) (*models.ActivityAnalysis, error) {
	log := logging.Ctx(ctx)
	if len(a.ideas) == 0 {
		log.Warn().Msg("No idea data provided")
	}
	if len(a.steps) == 0 {
		log.Warn().Msg("No step data provided")
	}

	result := &models.ActivityAnalysis{
		IdeaGeneration:    a.ideaGeneration(),
		Engagement:        a.engagement(),
		ProcessCompletion: a.processCompletion(),
		DropoutPoints:     a.dropoutPoints(),
		FrameworkUsage:    a.frameworkUsage(),
		Timeline:          a.timeline(),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.ViewActionCorrelation = a.viewActionCorrelation()
	result.ProcessFlow = ProcessFlow(result.ViewActionCorrelation.Sessions)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info().
		Int("ideas", len(a.ideas)).
		Int("steps", len(a.steps)).
		Int("sessions", len(result.ViewActionCorrelation.Sessions)).
		Msg("Activity analysis complete")
	return result, nil
}

func (a *Analyzer) ideaGeneration() models.IdeaGeneration {
	g := models.IdeaGeneration{
		TotalIdeas:     len(a.ideas),
		UniqueOwners:   len(a.ideasByOwner),
		IdeasByRanking: map[int]int{},
	}
	for i := range a.ideas {
		g.IdeasByRanking[a.ideas[i].Ranking]++
	}
	if g.UniqueOwners > 0 {
		g.AvgIdeasPerOwner = float64(g.TotalIdeas) / float64(g.UniqueOwners)
	}
	for _, owned := range a.ideasByOwner {
		g.MaxIdeasPerOwner = max(g.MaxIdeasPerOwner, len(owned))
	}
	return g
}

func (a *Analyzer) engagement() models.EngagementAnalysis {
	var levels models.EngagementLevels
	for _, owned := range a.ideasByOwner {
		switch n := len(owned); {
		case n > 5:
			levels.High++
		case n >= 2:
			levels.Medium++
		case n == 1:
			levels.Low++
		}
	}
	levels.None = max(len(a.users)-levels.High-levels.Medium-levels.Low, 0)

	return models.EngagementAnalysis{
		Levels:              levels,
		FrameworkEngagement: a.frameworkEngagement(),
		TemporalEngagement:  a.temporalEngagement(),
		IdeaCharacterization: models.IdeaCharacterization{
			IterationPatterns: a.iterationPatterns(),
			ProgressStats:     a.progressStats(),
		},
	}
}

func (a *Analyzer) frameworkEngagement() models.FrameworkEngagement {
	de := make(map[string]struct{})
	st := make(map[string]struct{})
	for i := range a.ideas {
		idea := &a.ideas[i]
		if idea.UsesFramework(models.FrameworkDE) {
			de[idea.Owner] = struct{}{}
		}
		if idea.UsesFramework(models.FrameworkST) {
			st[idea.Owner] = struct{}{}
		}
	}

	e := models.FrameworkEngagement{
		DisciplinedEntrepreneurship: len(de),
		StartupTactics:              len(st),
	}
	for owner := range de {
		if _, ok := st[owner]; ok {
			e.BothFrameworks++
		}
	}
	for owner := range a.ideasByOwner {
		_, inDE := de[owner]
		_, inST := st[owner]
		if !inDE && !inST {
			e.NoFramework++
		}
	}
	return e
}

func (a *Analyzer) temporalEngagement() models.TemporalEngagement {
	owners := make(map[string]map[string]struct{})
	for i := range a.ideas {
		idea := &a.ideas[i]
		if idea.Owner == "" {
			continue
		}
		month, ok := monthOf(idea.CreatedDate)
		if !ok {
			continue
		}
		if owners[month] == nil {
			owners[month] = make(map[string]struct{})
		}
		owners[month][idea.Owner] = struct{}{}
	}

	out := models.TemporalEngagement{MonthlyActiveUsers: make(map[string]int, len(owners))}
	for month, set := range owners {
		out.MonthlyActiveUsers[month] = len(set)
	}
	return out
}

func (a *Analyzer) iterationPatterns() models.IterationPatterns {
	p := models.IterationPatterns{UsersByMaxIteration: map[int]int{}}
	for _, owned := range a.ideasByOwner {
		highest := 0
		for i := range owned {
			highest = max(highest, owned[i].Ranking)
		}
		p.UsersByMaxIteration[highest]++
	}
	return p
}

func (a *Analyzer) progressStats() models.ProgressStats {
	p := models.ProgressStats{TotalIdeas: len(a.ideas)}

	var total []float64
	var de, st []float64
	for i := range a.ideas {
		idea := &a.ideas[i]
		total = append(total, idea.TotalProgress)
		if idea.UsesFramework(models.FrameworkDE) {
			de = append(de, idea.DEProgress)
		}
		if idea.UsesFramework(models.FrameworkST) {
			st = append(st, idea.STProgress)
		}
	}

	p.AvgProgress = stats.Mean(total)
	p.ProgressDistribution = stats.DistributionBuckets(total, 10)
	p.FrameworkProgress = map[string]models.FrameworkProgress{
		models.FrameworkDE: {AvgProgress: stats.Mean(de), TotalIdeas: len(de)},
		models.FrameworkST: {AvgProgress: stats.Mean(st), TotalIdeas: len(st)},
	}
	return p
}

func (a *Analyzer) processCompletion() models.ProcessCompletion {
	c := models.ProcessCompletion{
		TotalIdeas:       len(a.ideas),
		StepDistribution: map[int]int{},
	}

	var totalSteps int
	perFramework := map[string][]float64{}
	for _, steps := range a.stepsByIdea {
		if len(steps) == 0 {
			continue
		}
		c.IdeasWithSteps++
		totalSteps += len(steps)
		c.MaxStepsPerIdea = max(c.MaxStepsPerIdea, len(steps))
		c.StepDistribution[len(steps)]++

		for framework, n := range frameworkStepCounts(steps) {
			perFramework[framework] = append(perFramework[framework], float64(n))
		}
	}
	if c.IdeasWithSteps > 0 {
		c.AvgStepsPerIdea = float64(totalSteps) / float64(c.IdeasWithSteps)
	}

	c.CompletionByFramework = make(map[string]models.FrameworkCompletion, 2)
	for _, framework := range []string{models.FrameworkDE, models.FrameworkST} {
		counts := perFramework[framework]
		c.CompletionByFramework[framework] = models.FrameworkCompletion{
			AvgCompletion: stats.Mean(counts),
			TotalIdeas:    len(counts),
		}
	}
	return c
}

func frameworkStepCounts(steps []models.Step) map[string]int {
	return grouping.CountBy(steps, grouping.NonEmpty(func(s models.Step) string { return s.Framework }))
}

func (a *Analyzer) dropoutPoints() models.DropoutPoints {
	d := models.DropoutPoints{
		StepProgression:     map[string]int{},
		FinalSteps:          map[string]int{},
		StepCompletionRates: map[string]float64{},
		DropoutRates:        map[string]float64{},
	}

	for _, steps := range a.stepsByIdea {
		if len(steps) == 0 {
			continue
		}
		latest := steps[0]
		for _, s := range steps {
			d.StepProgression[s.StepName]++
			if s.CreatedAt > latest.CreatedAt {
				latest = s
			}
		}
		d.FinalSteps[latest.StepName]++
	}

	if n := len(a.stepsByIdea); n > 0 {
		for step, count := range d.StepProgression {
			d.StepCompletionRates[step] = float64(count) / float64(n)
		}
	}
	for step, count := range d.FinalSteps {
		d.DropoutRates[step] = stats.Ratio(float64(count), float64(d.StepProgression[step]))
	}
	return d
}

func (a *Analyzer) frameworkUsage() models.FrameworkUsage {
	u := models.FrameworkUsage{FrameworkCounts: map[string]int{}}
	for i := range a.ideas {
		for _, f := range a.ideas[i].Frameworks {
			u.FrameworkCounts[f]++
		}
	}
	u.DECompletion = a.completionRate(models.FrameworkDE)
	u.STCompletion = a.completionRate(models.FrameworkST)
	return u
}

func (a *Analyzer) completionRate(framework string) models.CompletionRate {
	var r models.CompletionRate
	var progress []float64
	for i := range a.ideas {
		idea := &a.ideas[i]
		if !idea.UsesFramework(framework) {
			continue
		}
		p := frameworkProgress(idea, framework)
		progress = append(progress, p)
		if p >= completedProgress {
			r.CompletedIdeas++
		}
	}
	r.TotalIdeas = len(progress)
	if r.TotalIdeas > 0 {
		r.CompletionRate = float64(r.CompletedIdeas) / float64(r.TotalIdeas)
		r.AvgProgress = stats.Mean(progress)
	}
	return r
}

func frameworkProgress(idea *models.Idea, framework string) float64 {
	switch framework {
	case models.FrameworkDE:
		return idea.DEProgress
	case models.FrameworkST:
		return idea.STProgress
	default:
		return 0
	}
}

func (a *Analyzer) timeline() models.UsageTimeline {
	byDay := grouping.GroupBy(a.ideas, func(i models.Idea) (string, bool) {
		day := datePart(i.CreatedDate)
		return day, day != ""
	})

	t := models.UsageTimeline{
		DailyCounts:  make(map[string]models.DailyIdeas, len(byDay)),
		MonthlyStats: map[string]models.MonthlyIdeas{},
	}
	perMonth := map[string][]float64{}
	for day, ideas := range byDay {
		progress := make([]float64, len(ideas))
		for i := range ideas {
			progress[i] = ideas[i].TotalProgress
		}
		t.DailyCounts[day] = models.DailyIdeas{Count: len(ideas), AvgProgress: stats.Mean(progress)}

		month := day
		if len(month) > 7 {
			month = month[:7]
		}
		perMonth[month] = append(perMonth[month], float64(len(ideas)))
	}

	for month, counts := range perMonth {
		t.MonthlyStats[month] = models.MonthlyIdeas{
			TotalIdeas:     int(stats.Sum(counts)),
			AvgIdeasPerDay: stats.Mean(counts),
		}
	}
	return t
}

// datePart returns the text before the "T" of an ISO timestamp, or the
// whole value.
func datePart(created string) string {
	if i := strings.IndexByte(created, 'T'); i >= 0 {
		return created[:i]
	}
	return created
}

func monthOf(created string) (string, bool) {
	day := datePart(created)
	if len(day) < 7 {
		return "", false
	}
	return day[:7], true
}
