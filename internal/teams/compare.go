// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package teams

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/orbitstats/internal/grouping"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

// versions is the expected tool version progression.
var versions = []string{models.ToolVersionNone, "v1", "v2"}

type termRef struct {
	key  string
	term string
	year int
	info models.TermSection
}

// terms returns the parseable "Term_Year" entries, oldest first with spring
// before fall.
func (a *Analyzer) terms() []termRef {
	var out []termRef
	for key, info := range a.rel.TermSections {
		term, yearText, ok := strings.Cut(key, "_")
		if !ok {
			continue
		}
		year, err := strconv.Atoi(yearText)
		if err != nil {
			continue
		}
		out = append(out, termRef{key: key, term: term, year: year, info: info})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].year != out[j].year {
			return out[i].year < out[j].year
		}
		if oi, oj := termOrder(out[i].term), termOrder(out[j].term); oi != oj {
			return oi < oj
		}
		return out[i].key < out[j].key
	})
	return out
}

func termOrder(term string) int {
	if strings.EqualFold(term, "spring") {
		return 1
	}
	return 2
}

// teamsFor returns the metrics of the listed teams, each once.
func teamsFor(ids []int, metrics map[string]models.TeamMetrics) []models.TeamMetrics {
	seen := make(map[int]struct{}, len(ids))
	var out []models.TeamMetrics
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if tm, ok := metrics[strconv.Itoa(id)]; ok {
			out = append(out, tm)
		}
	}
	return out
}

func groupMetrics(teams []models.TeamMetrics) models.TeamGroupMetrics {
	g := models.TeamGroupMetrics{TeamCount: len(teams), FrameworkPreferences: newPreferenceCounts()}
	var ideas, steps, progress []float64
	for _, tm := range teams {
		ideas = append(ideas, float64(tm.TotalIdeas))
		steps = append(steps, float64(tm.TotalSteps))
		progress = append(progress, tm.AvgIdeaProgress)
		g.FrameworkPreferences[tm.PreferredFramework]++
	}
	g.AvgIdeasPerTeam = stats.Mean(ideas)
	g.AvgStepsPerTeam = stats.Mean(steps)
	g.AvgIdeaProgress = stats.Mean(progress)
	return g
}

// sectionComparison compares sections within each term that has more than
// one section.
func (a *Analyzer) sectionComparison(metrics map[string]models.TeamMetrics) map[string]models.TermSections {
	out := make(map[string]models.TermSections)
	for _, t := range a.terms() {
		if len(t.info.Sections) <= 1 {
			continue
		}
		ts := models.TermSections{
			Term:        t.term,
			Year:        t.year,
			ToolVersion: a.rel.ToolVersion(t.term, t.year),
			Sections:    make(map[string]models.TeamGroupMetrics, len(t.info.Sections)),
		}
		var ordered []string
		for _, section := range t.info.Sections {
			teams := teamsFor(a.rel.TeamsInSection(t.term, t.year, section), metrics)
			if len(teams) == 0 {
				continue
			}
			ts.Sections[section] = groupMetrics(teams)
			ordered = append(ordered, section)
		}

		for i := 0; i < len(ordered); i++ {
			for j := i + 1; j < len(ordered); j++ {
				s1, s2 := ts.Sections[ordered[i]], ts.Sections[ordered[j]]
				ts.SectionComparisons = append(ts.SectionComparisons, models.SectionDifference{
					SectionPair:        ordered[i] + " vs " + ordered[j],
					IdeasDifference:    s1.AvgIdeasPerTeam - s2.AvgIdeasPerTeam,
					StepsDifference:    s1.AvgStepsPerTeam - s2.AvgStepsPerTeam,
					ProgressDifference: s1.AvgIdeaProgress - s2.AvgIdeaProgress,
				})
			}
		}
		out[t.key] = ts
	}
	return out
}

func (a *Analyzer) semesterComparison(metrics map[string]models.TeamMetrics) models.TeamSemesterComparison {
	out := models.TeamSemesterComparison{
		SemesterMetrics:     map[string]models.TeamSemester{},
		SemesterComparisons: []models.TeamSemesterDiff{},
	}

	var ordered []string
	for _, t := range a.terms() {
		var ids []int
		for _, section := range t.info.Sections {
			ids = append(ids, a.rel.TeamsInSection(t.term, t.year, section)...)
		}
		teams := teamsFor(ids, metrics)
		if len(teams) == 0 {
			continue
		}
		out.SemesterMetrics[t.key] = models.TeamSemester{
			Term:             t.term,
			Year:             t.year,
			ToolVersion:      a.rel.ToolVersion(t.term, t.year),
			SectionCount:     len(t.info.Sections),
			TeamGroupMetrics: groupMetrics(teams),
		}
		ordered = append(ordered, t.key)
	}

	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			s1, s2 := out.SemesterMetrics[ordered[i]], out.SemesterMetrics[ordered[j]]
			out.SemesterComparisons = append(out.SemesterComparisons, models.TeamSemesterDiff{
				SemesterPair:       ordered[i] + " vs " + ordered[j],
				DisplayPair:        fmt.Sprintf("%s %d vs %s %d", s1.Term, s1.Year, s2.Term, s2.Year),
				ToolVersionChange:  s1.ToolVersion != s2.ToolVersion,
				ToolVersions:       s1.ToolVersion + " -> " + s2.ToolVersion,
				IdeasDifference:    s1.AvgIdeasPerTeam - s2.AvgIdeasPerTeam,
				StepsDifference:    s1.AvgStepsPerTeam - s2.AvgStepsPerTeam,
				ProgressDifference: s1.AvgIdeaProgress - s2.AvgIdeaProgress,
			})
		}
	}
	return out
}

// Correlation keys of TeamSizeImpact.
const (
	CorrIdeasPerTeam   = "ideas_per_team"
	CorrStepsPerTeam   = "steps_per_team"
	CorrIdeasPerMember = "ideas_per_member"
	CorrStepsPerMember = "steps_per_member"
)

// teamSizeImpact groups teams by member count. Correlations need at least
// two distinct sizes and are nil otherwise.
func teamSizeImpact(metrics map[string]models.TeamMetrics) models.TeamSizeImpact {
	bySize := make(map[int][]models.TeamMetrics)
	for _, tm := range metrics {
		if tm.MemberCount > 0 {
			bySize[tm.MemberCount] = append(bySize[tm.MemberCount], tm)
		}
	}

	out := models.TeamSizeImpact{
		SizeMetrics: make(map[int]models.TeamSizeMetrics, len(bySize)),
		CorrelationWithSize: map[string]*stats.CorrelationResult{
			CorrIdeasPerTeam:   nil,
			CorrStepsPerTeam:   nil,
			CorrIdeasPerMember: nil,
			CorrStepsPerMember: nil,
		},
	}
	sizes := make([]int, 0, len(bySize))
	for size, teams := range bySize {
		var ideas, steps, progress, ideasPer, stepsPer []float64
		for _, tm := range teams {
			ideas = append(ideas, float64(tm.TotalIdeas))
			steps = append(steps, float64(tm.TotalSteps))
			progress = append(progress, tm.AvgIdeaProgress)
			ideasPer = append(ideasPer, tm.AvgIdeasPerMember)
			stepsPer = append(stepsPer, tm.AvgStepsPerMember)
		}
		out.SizeMetrics[size] = models.TeamSizeMetrics{
			TeamCount:         len(teams),
			AvgIdeasPerTeam:   stats.Mean(ideas),
			AvgStepsPerTeam:   stats.Mean(steps),
			AvgIdeaProgress:   stats.Mean(progress),
			AvgIdeasPerMember: stats.Mean(ideasPer),
			AvgStepsPerMember: stats.Mean(stepsPer),
		}
		sizes = append(sizes, size)
	}
	if len(sizes) < 2 {
		return out
	}

	sort.Ints(sizes)
	x := make([]float64, len(sizes))
	series := map[string][]float64{}
	for i, size := range sizes {
		x[i] = float64(size)
		m := out.SizeMetrics[size]
		series[CorrIdeasPerTeam] = append(series[CorrIdeasPerTeam], m.AvgIdeasPerTeam)
		series[CorrStepsPerTeam] = append(series[CorrStepsPerTeam], m.AvgStepsPerTeam)
		series[CorrIdeasPerMember] = append(series[CorrIdeasPerMember], m.AvgIdeasPerMember)
		series[CorrStepsPerMember] = append(series[CorrStepsPerMember], m.AvgStepsPerMember)
	}
	for key, y := range series {
		c := stats.Correlation(x, y)
		out.CorrelationWithSize[key] = &c
	}
	return out
}

func workDistribution(activity map[string]models.TeamActivity) models.WorkDistribution {
	out := models.WorkDistribution{
		CollaborationPatterns: map[string]int{},
		SemesterPatterns:      map[string]models.SemesterPattern{},
	}

	var ginis []float64
	for _, id := range grouping.SortedKeys(activity) {
		ta := activity[id]
		gini := ta.ActivityDistribution.GiniCoefficient
		ginis = append(ginis, gini)
		if ta.CollaborationPattern != "" {
			out.CollaborationPatterns[ta.CollaborationPattern]++
		}

		if ta.Term == "" || ta.Year == 0 {
			continue
		}
		key := termKey(ta.Term, ta.Year)
		sp, ok := out.SemesterPatterns[key]
		if !ok {
			sp = models.SemesterPattern{Patterns: map[string]int{}}
		}
		sp.TeamCount++
		sp.GiniValues = append(sp.GiniValues, gini)
		if ta.CollaborationPattern != "" {
			sp.Patterns[ta.CollaborationPattern]++
		}
		sp.AvgGini = stats.Mean(sp.GiniValues)
		out.SemesterPatterns[key] = sp
	}

	lo, hi := stats.MinMax(ginis)
	out.OverallGiniDistribution = models.GiniDistribution{
		Min:    lo,
		Max:    hi,
		Mean:   stats.Mean(ginis),
		Median: stats.Median(ginis),
		StdDev: stats.StdDev(ginis),
	}
	return out
}

func toolVersionImpact(semesters map[string]models.TeamSemester) models.TeamToolImpact {
	keys := make([]string, 0, len(semesters))
	for k := range semesters {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := semesters[keys[i]], semesters[keys[j]]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if oa, ob := termOrder(a.Term), termOrder(b.Term); oa != ob {
			return oa < ob
		}
		return keys[i] < keys[j]
	})

	byVersion := make(map[string][]models.TeamSemester)
	for _, k := range keys {
		s := semesters[k]
		byVersion[s.ToolVersion] = append(byVersion[s.ToolVersion], s)
	}

	out := models.TeamToolImpact{
		VersionMetrics:      make(map[string]models.TeamVersionMetrics, len(byVersion)),
		VersionImprovements: []models.TeamVersionChange{},
	}
	for version, list := range byVersion {
		vm := models.TeamVersionMetrics{
			SemesterCount:        len(list),
			FrameworkPreferences: map[string]int{},
		}
		var ideas, steps, progress []float64
		for _, s := range list {
			vm.Semesters = append(vm.Semesters, fmt.Sprintf("%s %d", s.Term, s.Year))
			ideas = append(ideas, s.AvgIdeasPerTeam)
			steps = append(steps, s.AvgStepsPerTeam)
			progress = append(progress, s.AvgIdeaProgress)
			for pref, n := range s.FrameworkPreferences {
				vm.FrameworkPreferences[pref] += n
			}
		}
		vm.AvgIdeasPerTeam = stats.Mean(ideas)
		vm.AvgStepsPerTeam = stats.Mean(steps)
		vm.AvgIdeaProgress = stats.Mean(progress)
		out.VersionMetrics[version] = vm
	}

	for i := 1; i < len(versions); i++ {
		prev, okPrev := out.VersionMetrics[versions[i-1]]
		curr, okCurr := out.VersionMetrics[versions[i]]
		if !okPrev || !okCurr {
			continue
		}
		ideas := curr.AvgIdeasPerTeam - prev.AvgIdeasPerTeam
		steps := curr.AvgStepsPerTeam - prev.AvgStepsPerTeam
		progress := curr.AvgIdeaProgress - prev.AvgIdeaProgress
		out.VersionImprovements = append(out.VersionImprovements, models.TeamVersionChange{
			FromVersion:           versions[i-1],
			ToVersion:             versions[i],
			IdeasDiff:             ideas,
			IdeasPercentChange:    percentChange(prev.AvgIdeasPerTeam, ideas),
			StepsDiff:             steps,
			StepsPercentChange:    percentChange(prev.AvgStepsPerTeam, steps),
			ProgressDiff:          progress,
			ProgressPercentChange: percentChange(prev.AvgIdeaProgress, progress),
		})
	}
	return out
}

func percentChange(base, delta float64) *float64 {
	if base == 0 {
		return nil
	}
	p := delta / base * 100
	return &p
}
