// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package cohort compares users across semester cohorts, usage levels and
// course enrollments.
//
// A user belongs to a semester cohort when the account was created inside
// the semester window. The ideas of a group are the ideas its users own; its
// steps are the steps its users own or that belong to one of those ideas,
// each counted once.
package cohort

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/orbitstats/internal/dates"
	"github.com/tomtom215/orbitstats/internal/filter"
	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

const (
	// minCourseUsers is the smallest enrollment group reported per course.
	minCourseUsers = 3
	topEnrollments = 10

	noEnrollment = "no_enrollment"
)

// targetCourses are always treated as courses even without digits.
var targetCourses = []string{"15.390"}

// Metric names used in cohort comparisons.
const (
	MetricActiveRate         = "active_rate"
	MetricIdeasPerActiveUser = "ideas_per_active_user"
	MetricStepsPerIdea       = "steps_per_idea"
	MetricAvgDECompletion    = "avg_de_completion"
	MetricAvgSTCompletion    = "avg_st_completion"
	MetricAvgWordCount       = "avg_word_count"
)

var comparisonMetrics = []string{
	MetricActiveRate, MetricIdeasPerActiveUser, MetricStepsPerIdea,
	MetricAvgDECompletion, MetricAvgSTCompletion, MetricAvgWordCount,
}

// Analyzer computes CohortAnalysis results.
type Analyzer struct {
	ds         *loader.Dataset
	periods    []Period
	thresholds Thresholds

	ideasByOwner map[string][]models.Idea
	stepsByOwner map[string][]models.Step
}

// NewAnalyzer creates an analyzer. A nil or empty periods slice selects
// DefaultPeriods.
func NewAnalyzer(ds *loader.Dataset, periods []Period) *Analyzer {
	if len(periods) == 0 {
		periods = DefaultPeriods()
	}
	a := &Analyzer{
		ds:           ds,
		periods:      periods,
		thresholds:   DefaultThresholds(),
		ideasByOwner: make(map[string][]models.Idea),
		stepsByOwner: make(map[string][]models.Step),
	}
	for _, idea := range ds.Ideas {
		if idea.Owner != "" {
			a.ideasByOwner[idea.Owner] = append(a.ideasByOwner[idea.Owner], idea)
		}
	}
	for _, step := range ds.Steps {
		if step.Owner != "" {
			a.stepsByOwner[step.Owner] = append(a.stepsByOwner[step.Owner], step)
		}
	}
	return a
}

// WithThresholds replaces the usage thresholds.
func (a *Analyzer) WithThresholds(t Thresholds) *Analyzer {
	a.thresholds = t
	return a
}

// Analyze runs every cohort analysis.
func (a *Analyzer) Analyze(ctx context.Context) (*models.CohortAnalysis, error) {
	log := logging.Ctx(ctx)
	if len(a.ds.Users) == 0 {
		log.Warn().Msg("No user data provided")
	}

	members := a.membership()

	result := &models.CohortAnalysis{
		TimeCohorts: a.timeCohorts(members),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.UsageCohorts = a.usageCohorts()
	result.EnrollmentCohorts = a.enrollmentCohorts()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.ToolAdoption = a.toolAdoption(members)
	result.LearningMetrics = a.learningMetrics(members)
	result.CohortComparison = a.comparison(result.TimeCohorts, result.LearningMetrics)

	log.Info().
		Int("periods", len(a.periods)).
		Int("populated", len(result.TimeCohorts)).
		Int("users", len(a.ds.Users)).
		Msg("Cohort analysis complete")
	return result, nil
}

// group is the slice of the dataset belonging to one cohort.
type group struct {
	period Period
	data   *loader.Dataset
	emails map[string]struct{}
}

// membership returns the populated periods in configured order.
func (a *Analyzer) membership() []group {
	created := make([]time.Time, len(a.ds.Users))
	valid := make([]bool, len(a.ds.Users))
	for i := range a.ds.Users {
		created[i], valid[i] = dates.Parse(a.ds.Users[i].CreatedDate)
	}

	var groups []group
	for _, p := range a.periods {
		emails := make(map[string]struct{})
		users := 0
		for i := range a.ds.Users {
			if !valid[i] || !p.Contains(created[i]) {
				continue
			}
			users++
			if e := a.ds.Users[i].Email; e != "" {
				emails[e] = struct{}{}
			}
		}
		if users == 0 {
			continue
		}
		groups = append(groups, group{period: p, data: filter.ByEmails(a.ds, emails), emails: emails})
	}
	return groups
}

func (a *Analyzer) timeCohorts(groups []group) map[string]models.TimeCohort {
	out := make(map[string]models.TimeCohort, len(groups))
	for _, g := range groups {
		users := g.data.Users
		active := activeOwners(g.data.Ideas)

		c := models.TimeCohort{
			ToolVersion:        g.period.ToolVersion,
			Sections:           g.period.Sections,
			TotalUsers:         len(users),
			ActiveUsers:        active,
			ActiveRate:         stats.Ratio(float64(active), float64(len(users))),
			TotalIdeas:         len(g.data.Ideas),
			TotalSteps:         len(g.data.Steps),
			IdeasPerActiveUser: stats.Ratio(float64(len(g.data.Ideas)), float64(active)),
			StepsPerIdea:       stats.Ratio(float64(len(g.data.Steps)), float64(len(g.data.Ideas))),
			UserDistribution:   userDistribution(users),
		}

		ideaCounts, stepCounts := perUserCounts(g.data)
		c.IdeasPerUser = stats.Summarize(ideaCounts)
		c.StepsPerUser = stats.Summarize(stepCounts)
		out[g.period.Name] = c
	}
	return out
}

// perUserCounts returns idea and step counts aligned with ds.Users.
func perUserCounts(ds *loader.Dataset) ([]float64, []float64) {
	ideas := make(map[string]int)
	for i := range ds.Ideas {
		ideas[ds.Ideas[i].Owner]++
	}
	steps := stepsPerUser(ds)

	ideaCounts := make([]float64, len(ds.Users))
	stepCounts := make([]float64, len(ds.Users))
	for i := range ds.Users {
		ideaCounts[i] = float64(ideas[ds.Users[i].Email])
		stepCounts[i] = float64(steps[ds.Users[i].Email])
	}
	return ideaCounts, stepCounts
}

// stepsPerUser counts each step for its owner, and for the owner of its
// idea when that is someone else.
func stepsPerUser(ds *loader.Dataset) map[string]int {
	ideaOwner := make(map[string]string, len(ds.Ideas))
	for i := range ds.Ideas {
		if ds.Ideas[i].ID != "" {
			ideaOwner[ds.Ideas[i].ID] = ds.Ideas[i].Owner
		}
	}
	steps := make(map[string]int)
	for i := range ds.Steps {
		s := &ds.Steps[i]
		if s.Owner != "" {
			steps[s.Owner]++
		}
		if o := ideaOwner[s.IdeaID]; o != "" && o != s.Owner {
			steps[o]++
		}
	}
	return steps
}

func activeOwners(ideas []models.Idea) int {
	owners := make(map[string]struct{})
	for i := range ideas {
		if ideas[i].Owner != "" {
			owners[ideas[i].Owner] = struct{}{}
		}
	}
	return len(owners)
}

func userDistribution(users []models.User) models.UserDistribution {
	d := models.UserDistribution{ByType: map[string]int{}, ByInstitution: map[string]int{}}
	for i := range users {
		t := users[i].Type
		if t == "" {
			t = "unknown"
		}
		d.ByType[t]++
		if inst := users[i].Institution; inst != nil {
			name := inst.Name
			if name == "" {
				name = "unknown"
			}
			d.ByInstitution[name]++
		}
	}
	return d
}

func (a *Analyzer) enrollmentCohorts() models.EnrollmentCohorts {
	byEnrollment := make(map[string]map[string]struct{})
	counts := make(map[string]int)
	add := func(key string, u *models.User) {
		counts[key]++
		if byEnrollment[key] == nil {
			byEnrollment[key] = make(map[string]struct{})
		}
		if u.Email != "" {
			byEnrollment[key][u.Email] = struct{}{}
		}
	}
	for i := range a.ds.Users {
		u := &a.ds.Users[i]
		if len(u.Enrollments) == 0 {
			add(noEnrollment, u)
			continue
		}
		for _, e := range u.Enrollments {
			if e != "" {
				add(e, u)
			}
		}
	}

	out := models.EnrollmentCohorts{
		CourseEnrollments: map[string]models.CourseCohort{},
		EnrollmentCounts:  counts,
	}
	for key, emails := range byEnrollment {
		if !isCourse(key) || counts[key] < minCourseUsers {
			continue
		}
		sub := filter.ByEmails(a.ds, emails)
		active := activeOwners(sub.Ideas)
		n := counts[key]
		out.CourseEnrollments[key] = models.CourseCohort{
			UserCount:          n,
			ActiveUsers:        active,
			ActiveRate:         stats.Ratio(float64(active), float64(n)),
			IdeasCount:         len(sub.Ideas),
			StepsCount:         len(sub.Steps),
			IdeasPerActiveUser: stats.Ratio(float64(len(sub.Ideas)), float64(active)),
			StepsPerIdea:       stats.Ratio(float64(len(sub.Steps)), float64(len(sub.Ideas))),
		}
	}

	for _, kc := range stats.TopN(counts, topEnrollments) {
		out.TopEnrollments = append(out.TopEnrollments, models.RankedCount{Name: kc.Key, Count: kc.Count})
	}
	return out
}

// isCourse reports whether an enrollment looks like a course number.
func isCourse(enrollment string) bool {
	for _, c := range targetCourses {
		if strings.Contains(enrollment, c) {
			return true
		}
	}
	return strings.ContainsAny(enrollment, "0123456789.")
}

func (a *Analyzer) toolAdoption(groups []group) models.ToolAdoption {
	out := models.ToolAdoption{AdoptionByCohort: make(map[string]models.CohortAdoption, len(groups))}
	for _, g := range groups {
		first := make(map[string]time.Time)
		for email := range g.emails {
			if t, ok := a.firstEngagement(email); ok {
				first[email] = t
			}
		}

		frameworks := map[string]int{}
		for i := range g.data.Ideas {
			for _, f := range g.data.Ideas[i].Frameworks {
				frameworks[f]++
			}
		}

		total := len(g.data.Users)
		out.AdoptionByCohort[g.period.Name] = models.CohortAdoption{
			TotalUsers:            total,
			EngagedUsers:          len(first),
			AdoptionRate:          stats.Ratio(float64(len(first)), float64(total)),
			AdoptionTimeline:      adoptionTimeline(first, g.period),
			FrameworkDistribution: frameworks,
		}
	}
	return out
}

// firstEngagement returns the earliest idea or step the user created.
func (a *Analyzer) firstEngagement(email string) (time.Time, bool) {
	var first time.Time
	found := false
	consider := func(value string) {
		t, ok := dates.Parse(value)
		if ok && (!found || t.Before(first)) {
			first, found = t, true
		}
	}
	for _, idea := range a.ideasByOwner[email] {
		consider(idea.CreatedDate)
	}
	for _, step := range a.stepsByOwner[email] {
		consider(step.CreatedAt)
	}
	return first, found
}

// adoptionTimeline counts first engagements per month of the window and
// accumulates them. Engagements outside the window are ignored.
func adoptionTimeline(first map[string]time.Time, p Period) map[string]int {
	if len(first) == 0 {
		return map[string]int{}
	}
	perMonth := make(map[string]int)
	for _, t := range first {
		perMonth[dates.MonthKey(t)]++
	}

	out := make(map[string]int)
	running := 0
	for _, month := range p.Months() {
		running += perMonth[month]
		out[month] = running
	}
	return out
}

func (a *Analyzer) learningMetrics(groups []group) models.LearningMetrics {
	out := models.LearningMetrics{
		FrameworkCompletion: make(map[string]models.CohortFrameworkCompletion, len(groups)),
		ContentMetrics:      make(map[string]models.ContentMetrics, len(groups)),
	}
	for _, g := range groups {
		var de, st []float64
		for i := range g.data.Ideas {
			idea := &g.data.Ideas[i]
			if idea.UsesFramework(models.FrameworkDE) {
				de = append(de, idea.DEProgress)
			}
			if idea.UsesFramework(models.FrameworkST) {
				st = append(st, idea.STProgress)
			}
		}
		out.FrameworkCompletion[g.period.Name] = models.CohortFrameworkCompletion{
			AvgDECompletion: stats.Mean(de),
			AvgSTCompletion: stats.Mean(st),
			DEIdeasCount:    len(de),
			STIdeasCount:    len(st),
		}

		var words []float64
		total := 0
		for i := range g.data.Steps {
			if n := g.data.Steps[i].WordCount; n > 0 {
				words = append(words, float64(n))
				total += n
			}
		}
		out.ContentMetrics[g.period.Name] = models.ContentMetrics{
			AvgWordCount:     stats.Mean(words),
			TotalWordCount:   total,
			StepsWithContent: len(words),
		}
	}
	return out
}

func (a *Analyzer) comparison(timeCohorts map[string]models.TimeCohort, learning models.LearningMetrics) models.CohortComparison {
	key := make(map[string]map[string]float64, len(comparisonMetrics))
	for _, m := range comparisonMetrics {
		key[m] = map[string]float64{}
	}

	var names []string
	versions := make(map[string]string)
	for _, p := range a.periods {
		tc, ok := timeCohorts[p.Name]
		if !ok {
			continue
		}
		names = append(names, p.Name)
		versions[p.Name] = p.ToolVersion

		key[MetricActiveRate][p.Name] = tc.ActiveRate
		key[MetricIdeasPerActiveUser][p.Name] = tc.IdeasPerActiveUser
		key[MetricStepsPerIdea][p.Name] = tc.StepsPerIdea
		if fc, ok := learning.FrameworkCompletion[p.Name]; ok {
			key[MetricAvgDECompletion][p.Name] = fc.AvgDECompletion
			key[MetricAvgSTCompletion][p.Name] = fc.AvgSTCompletion
		}
		if cm, ok := learning.ContentMetrics[p.Name]; ok {
			key[MetricAvgWordCount][p.Name] = cm.AvgWordCount
		}
	}

	out := models.CohortComparison{KeyMetrics: key, ComparisonPairs: []models.CohortPair{}}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			c1, c2 := names[i], names[j]
			diffs := make(map[string]float64, len(comparisonMetrics))
			for _, m := range comparisonMetrics {
				diffs[m] = key[m][c2] - key[m][c1]
			}
			out.ComparisonPairs = append(out.ComparisonPairs, models.CohortPair{
				Cohort1:           c1,
				Cohort2:           c2,
				ToolVersions:      map[string]string{c1: versions[c1], c2: versions[c2]},
				MetricDifferences: diffs,
			})
		}
	}
	return out
}
