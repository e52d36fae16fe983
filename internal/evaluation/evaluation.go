// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package evaluation aggregates course-evaluation surveys across semesters
// and tool versions.
//
// Evaluations that share a semester code are pooled into one semester:
// their questions are combined and the semester's overall average is the
// mean of the evaluations' overall averages. Semesters are ordered by year
// and then by the semester order (spring before fall).
package evaluation

import (
	"context"
	"sort"
	"strings"

	"github.com/tomtom215/orbitstats/internal/grouping"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

// Versions is the expected tool version progression.
var Versions = []string{models.ToolVersionNone, "v1", "v2"}

// KeyQuestions maps a question category to the phrases that identify it.
// Matching is a case-insensitive substring test.
var KeyQuestions = map[string][]string{
	"overall_satisfaction": {
		"Overall, this subject was worthwhile",
		"I found the subject worthwhile",
		"The subject was worthwhile",
	},
	"learning_experience": {
		"My learning experience was enhanced by the teaching team",
		"I learned a lot from this subject",
		"This subject helped me learn",
		"The subject enhanced my educational experience",
	},
	"feedback_quality": {
		"I received helpful feedback on my work",
		"Feedback on coursework was useful",
		"The feedback on my work was helpful",
	},
	"materials_quality": {
		"The instructional materials supported my learning",
		"Subject materials were helpful",
		"The materials supported my learning",
	},
}

const (
	termFall   = "fall"
	termSpring = "spring"
)

// semester is every evaluation of one semester code.
type semester struct {
	models.Semester
	toolVersion string
	evals       []*models.CourseEvaluation
	overallAvg  *float64
}

// scored is a question that has an average score.
type scored struct {
	section  string
	question string
	value    float64
}

func (s *semester) scored() []scored {
	var out []scored
	for _, e := range s.evals {
		for _, sec := range e.Sections {
			for _, q := range sec.Questions {
				if q.Avg != nil {
					out = append(out, scored{section: sec.Section, question: q.Question, value: *q.Avg})
				}
			}
		}
	}
	return out
}

// Analyzer computes EvaluationAnalysis results.
type Analyzer struct {
	evals     []models.CourseEvaluation
	semesters []*semester
}

// NewAnalyzer creates an analyzer over normalized evaluations. Evaluations
// without a semester code are ignored by the per-semester analyses.
func NewAnalyzer(evals []models.CourseEvaluation) *Analyzer {
	return &Analyzer{evals: evals, semesters: groupSemesters(evals)}
}

func groupSemesters(evals []models.CourseEvaluation) []*semester {
	byCode := make(map[string]*semester)
	var out []*semester
	for i := range evals {
		e := &evals[i]
		if e.Semester.Code == "" {
			continue
		}
		s, ok := byCode[e.Semester.Code]
		if !ok {
			s = &semester{Semester: e.Semester, toolVersion: e.ToolVersion}
			if s.toolVersion == "" {
				s.toolVersion = models.ToolVersionNone
			}
			byCode[e.Semester.Code] = s
			out = append(out, s)
		}
		s.evals = append(s.evals, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if ki, kj := out[i].SortKey(), out[j].SortKey(); ki != kj {
			return ki < kj
		}
		return out[i].Code < out[j].Code
	})

	for _, s := range out {
		var avgs []float64
		for _, e := range s.evals {
			if e.Overall.OverallAvg != nil {
				avgs = append(avgs, *e.Overall.OverallAvg)
			}
		}
		s.overallAvg = meanOrNil(avgs)
	}
	return out
}

// Analyze runs every evaluation analysis.
func (a *Analyzer) Analyze(ctx context.Context) (*models.EvaluationAnalysis, error) {
	log := logging.Ctx(ctx)
	if len(a.evals) == 0 {
		log.Warn().Msg("No evaluation data provided")
	}

	result := &models.EvaluationAnalysis{
		SemesterComparison: a.semesterComparison(),
		ToolImpact:         a.toolImpact(),
		SectionAnalysis:    a.sectionAnalysis(),
		QuestionAnalysis:   a.questionAnalysis(),
		TrendAnalysis:      a.ratingTrends(),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.TimeSpent = a.timeSpent(ctx)
	result.OverallRating = a.overallRating(result.TimeSpent)

	log.Info().
		Int("evaluations", len(a.evals)).
		Int("semesters", len(a.semesters)).
		Msg("Course evaluation analysis complete")
	return result, nil
}

func (a *Analyzer) semesterComparison() models.SemesterComparison {
	n := len(a.semesters)
	out := models.SemesterComparison{
		Semesters:    make([]string, 0, n),
		DisplayNames: make([]string, 0, n),
		OverallAvg:   make([]*float64, 0, n),
		ToolVersions: make([]string, 0, n),
	}
	for _, s := range a.semesters {
		out.Semesters = append(out.Semesters, s.Code)
		out.DisplayNames = append(out.DisplayNames, s.DisplayName)
		out.OverallAvg = append(out.OverallAvg, s.overallAvg)
		out.ToolVersions = append(out.ToolVersions, s.toolVersion)
	}
	out.TermComparisons = compareTerms(a.semesters)
	return out
}

// compareTerms contrasts fall and spring overall averages. The percent
// difference is relative to spring.
func compareTerms(semesters []*semester) models.TermComparison {
	var fall, spring []float64
	for _, s := range semesters {
		if s.overallAvg == nil {
			continue
		}
		switch s.Term {
		case termFall:
			fall = append(fall, *s.overallAvg)
		case termSpring:
			spring = append(spring, *s.overallAvg)
		}
	}

	out := models.TermComparison{
		FallAvg:         meanOrNil(fall),
		SpringAvg:       meanOrNil(spring),
		FallSemesters:   len(fall),
		SpringSemesters: len(spring),
	}
	if out.FallAvg != nil && out.SpringAvg != nil {
		diff := *out.FallAvg - *out.SpringAvg
		out.SeasonalDifference = &diff
		out.PercentDifference = percentChange(*out.SpringAvg, diff)
	}
	return out
}

func (a *Analyzer) toolImpact() models.ToolImpact {
	byVersion := grouping.GroupBy(a.semesters, func(s *semester) (string, bool) {
		return s.toolVersion, true
	})

	out := models.ToolImpact{
		VersionMetrics: make(map[string]models.VersionMetrics, len(byVersion)),
		SeasonalImpact: make(map[string]models.TermComparison, len(byVersion)),
	}
	avgs := make(map[string]float64, len(byVersion))
	for version, group := range byVersion {
		var scores []float64
		names := make([]string, 0, len(group))
		for _, s := range group {
			names = append(names, s.DisplayName)
			if s.overallAvg != nil {
				scores = append(scores, *s.overallAvg)
			}
		}
		if avg, ok := stats.Average(scores, 1); ok {
			avgs[version] = avg
			out.VersionMetrics[version] = models.VersionMetrics{
				AvgScore:     avg,
				NumSemesters: len(group),
				Semesters:    names,
			}
		}
		out.SeasonalImpact[version] = compareTerms(group)
	}
	out.VersionImprovements = versionChanges(avgs)
	return out
}

// versionChanges compares each consecutive pair of Versions present in avgs.
func versionChanges(avgs map[string]float64) []models.VersionChange {
	out := []models.VersionChange{}
	for i := 1; i < len(Versions); i++ {
		prev, okPrev := avgs[Versions[i-1]]
		curr, okCurr := avgs[Versions[i]]
		if !okPrev || !okCurr {
			continue
		}
		out = append(out, models.VersionChange{
			FromVersion:   Versions[i-1],
			ToVersion:     Versions[i],
			Change:        curr - prev,
			PercentChange: percentChange(prev, curr-prev),
		})
	}
	return out
}

func (a *Analyzer) sectionAnalysis() models.SectionAnalysis {
	names := make(map[string]struct{})
	for i := range a.evals {
		for _, sec := range a.evals[i].Sections {
			if sec.Section != "" {
				names[sec.Section] = struct{}{}
			}
		}
	}

	out := models.SectionAnalysis{
		Sections:   grouping.SortedKeys(names),
		BySemester: make(map[string]models.SemesterSections, len(a.semesters)),
	}
	for _, s := range a.semesters {
		scores := make(map[string][]float64)
		for _, q := range s.scored() {
			if q.section != "" {
				scores[q.section] = append(scores[q.section], q.value)
			}
		}
		if len(scores) == 0 {
			continue
		}
		averages := make(map[string]float64, len(scores))
		for name, values := range scores {
			averages[name] = stats.Mean(values)
		}
		out.BySemester[s.Code] = models.SemesterSections{
			DisplayName:     s.DisplayName,
			ToolVersion:     s.toolVersion,
			SectionAverages: averages,
		}
	}
	return out
}

func (a *Analyzer) questionAnalysis() map[string]models.QuestionCategory {
	out := make(map[string]models.QuestionCategory, len(KeyQuestions))
	for category, phrases := range KeyQuestions {
		qc := models.QuestionCategory{Semesters: map[string]models.QuestionScore{}}
		for _, s := range a.semesters {
			var values []float64
			var matched []string
			for _, q := range s.scored() {
				if containsAny(q.question, phrases) {
					values = append(values, q.value)
					matched = append(matched, q.question)
				}
			}
			if len(values) == 0 {
				continue
			}
			qc.Semesters[s.Code] = models.QuestionScore{
				DisplayName:       s.DisplayName,
				ToolVersion:       s.toolVersion,
				AvgScore:          stats.Mean(values),
				MatchingQuestions: matched,
			}
		}
		out[category] = qc
	}
	return out
}

func (a *Analyzer) ratingTrends() models.RatingTrends {
	out := models.RatingTrends{
		Timeline:   make([]models.SemesterPoint, 0, len(a.semesters)),
		Changes:    []models.SemesterChange{},
		TermTrends: map[string]models.TermTrend{},
	}
	for i, s := range a.semesters {
		out.Timeline = append(out.Timeline, models.SemesterPoint{
			SemesterCode: s.Code,
			DisplayName:  s.DisplayName,
			Term:         s.Term,
			Year:         s.Year,
			Order:        s.Order,
			ToolVersion:  s.toolVersion,
			OverallAvg:   s.overallAvg,
		})
		if i == 0 {
			continue
		}
		prev := a.semesters[i-1]
		if prev.overallAvg != nil && s.overallAvg != nil {
			out.Changes = append(out.Changes, semesterChange(prev, s, *prev.overallAvg, *s.overallAvg))
		}
	}

	for _, term := range []string{termFall, termSpring} {
		var values []float64
		var years []int
		for _, s := range a.semesters {
			if s.Term == term && s.overallAvg != nil {
				values = append(values, *s.overallAvg)
				years = append(years, s.Year)
			}
		}
		if len(values) >= 2 {
			out.TermTrends[term] = models.TermTrend{Evals: len(values), Trend: stats.Trend(values), Years: years}
		}
	}
	return out
}

func semesterChange(from, to *semester, prev, curr float64) models.SemesterChange {
	return models.SemesterChange{
		FromSemester:  from.DisplayName,
		ToSemester:    to.DisplayName,
		Change:        curr - prev,
		PercentChange: percentChange(prev, curr-prev),
		ToolChange:    from.toolVersion != to.toolVersion,
		FromTool:      from.toolVersion,
		ToTool:        to.toolVersion,
	}
}

// percentChange returns delta as a percentage of base, or nil for a zero base.
func percentChange(base, delta float64) *float64 {
	if base == 0 {
		return nil
	}
	p := delta / base * 100
	return &p
}

func meanOrNil(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := stats.Mean(values)
	return &m
}

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
