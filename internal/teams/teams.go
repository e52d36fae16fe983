// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package teams analyzes student teams using the team, section and term
// relationship maps. A member's ideas and steps are the ones they own.
package teams

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/orbitstats/internal/grouping"
	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

var frameworks = []string{models.FrameworkDE, models.FrameworkST}

// Analyzer computes TeamAnalysis results.
type Analyzer struct {
	rel          *models.Relationships
	ideasByOwner map[string][]models.Idea
	stepsByOwner map[string][]models.Step
	teams        []string // team ids with members, sorted
}

// NewAnalyzer creates an analyzer over the dataset and relationship maps.
func NewAnalyzer(ds *loader.Dataset, rel *models.Relationships) *Analyzer {
	if rel == nil {
		rel = &models.Relationships{}
	}
	ideaOwner := grouping.NonEmpty(func(i models.Idea) string { return i.Owner })
	stepOwner := grouping.NonEmpty(func(s models.Step) string { return s.Owner })
	a := &Analyzer{
		rel:          rel,
		ideasByOwner: grouping.GroupBy(ds.Ideas, ideaOwner),
		stepsByOwner: grouping.GroupBy(ds.Steps, stepOwner),
	}
	for id, members := range rel.TeamStudents {
		if len(members) > 0 {
			a.teams = append(a.teams, id)
		}
	}
	sort.Strings(a.teams)
	return a
}

// Analyze runs every team analysis.
func (a *Analyzer) Analyze(ctx context.Context) (*models.TeamAnalysis, error) {
	log := logging.Ctx(ctx)
	if len(a.rel.TeamStudents) == 0 {
		log.Warn().Msg("No team-student mapping data available")
	}
	if len(a.rel.TermSections) == 0 {
		log.Warn().Msg("No term-section mapping data available")
	}

	engagement := a.teamEngagement()
	activity := a.teamActivity()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	semesters := a.semesterComparison(engagement.TeamMetrics)
	result := &models.TeamAnalysis{
		TeamEngagement:     engagement,
		TeamActivity:       activity,
		SectionComparison:  a.sectionComparison(engagement.TeamMetrics),
		SemesterComparison: semesters,
		TeamSizeImpact:     teamSizeImpact(engagement.TeamMetrics),
		WorkDistribution:   workDistribution(activity),
		ToolVersionImpact:  toolVersionImpact(semesters.SemesterMetrics),
	}

	log.Info().
		Int("teams", len(a.teams)).
		Int("terms", len(a.rel.TermSections)).
		Msg("Team analysis complete")
	return result, nil
}

// members returns the team's normalized member emails.
func (a *Analyzer) members(teamID string) []string {
	raw := a.rel.TeamStudents[teamID]
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func (a *Analyzer) teamInfo(teamID string) models.TeamInfo {
	info := a.rel.TeamMetadata[teamID]
	if info.Name == "" {
		info.Name = "Team " + teamID
	}
	return info
}

func (a *Analyzer) teamEngagement() models.TeamEngagement {
	out := models.TeamEngagement{TeamMetrics: make(map[string]models.TeamMetrics, len(a.teams))}
	for _, id := range a.teams {
		members := a.members(id)
		if len(members) == 0 {
			continue
		}
		info := a.teamInfo(id)

		tm := models.TeamMetrics{
			Name:            info.Name,
			Term:            info.Term,
			Year:            info.Year,
			MemberCount:     len(members),
			FrameworkCounts: make(map[string]int, len(frameworks)),
			FrameworkUsers:  make(map[string]int, len(frameworks)),
		}
		users := make(map[string]map[string]struct{}, len(frameworks))
		for _, f := range frameworks {
			tm.FrameworkCounts[f] = 0
			users[f] = make(map[string]struct{})
		}

		var progress []float64
		for _, email := range members {
			owned := a.ideasByOwner[email]
			tm.TotalIdeas += len(owned)
			tm.TotalSteps += len(a.stepsByOwner[email])
			for i := range owned {
				progress = append(progress, owned[i].TotalProgress)
				for _, f := range owned[i].Frameworks {
					if _, tracked := users[f]; tracked {
						tm.FrameworkCounts[f]++
						users[f][email] = struct{}{}
					}
				}
			}
		}
		for f, set := range users {
			tm.FrameworkUsers[f] = len(set)
		}

		n := float64(len(members))
		tm.AvgIdeasPerMember = float64(tm.TotalIdeas) / n
		tm.AvgStepsPerMember = float64(tm.TotalSteps) / n
		tm.AvgIdeaProgress = stats.Mean(progress)
		tm.PreferredFramework = preferredFramework(tm.FrameworkCounts)
		out.TeamMetrics[id] = tm
	}

	st := models.TeamOverallStats{
		TotalTeams:                len(out.TeamMetrics),
		FrameworkPreferenceCounts: newPreferenceCounts(),
	}
	var sizes, ideas, steps []float64
	for _, tm := range out.TeamMetrics {
		sizes = append(sizes, float64(tm.MemberCount))
		ideas = append(ideas, float64(tm.TotalIdeas))
		steps = append(steps, float64(tm.TotalSteps))
		st.FrameworkPreferenceCounts[tm.PreferredFramework]++
	}
	st.AvgTeamSize = stats.Mean(sizes)
	st.AvgIdeasPerTeam = stats.Mean(ideas)
	st.AvgStepsPerTeam = stats.Mean(steps)
	out.OverallStats = st
	return out
}

// preferredFramework picks the framework with more ideas, "both" on a
// non-zero tie, and "none" otherwise.
func preferredFramework(counts map[string]int) string {
	de, st := counts[models.FrameworkDE], counts[models.FrameworkST]
	switch {
	case de > st:
		return models.FrameworkDE
	case st > de:
		return models.FrameworkST
	case de > 0:
		return models.PreferenceBoth
	default:
		return models.PreferenceNone
	}
}

func newPreferenceCounts() map[string]int {
	return map[string]int{
		models.FrameworkDE:    0,
		models.FrameworkST:    0,
		models.PreferenceBoth: 0,
		models.PreferenceNone: 0,
	}
}

func (a *Analyzer) teamActivity() map[string]models.TeamActivity {
	out := make(map[string]models.TeamActivity, len(a.teams))
	for _, id := range a.teams {
		members := a.members(id)
		if len(members) == 0 {
			continue
		}
		info := a.teamInfo(id)

		daily := make(map[string]int)
		memberActivity := make(map[string]models.MemberActivity, len(members))
		for _, email := range members {
			owned, steps := a.ideasByOwner[email], a.stepsByOwner[email]
			ma := models.MemberActivity{
				IdeaCount:     len(owned),
				StepCount:     len(steps),
				IdeaDates:     []string{},
				StepDates:     []string{},
				TotalActivity: len(owned) + len(steps),
			}
			for i := range owned {
				if day, ok := isoDay(owned[i].CreatedDate); ok {
					ma.IdeaDates = append(ma.IdeaDates, day)
					daily[day]++
				}
			}
			for i := range steps {
				if day, ok := isoDay(steps[i].CreatedAt); ok {
					ma.StepDates = append(ma.StepDates, day)
					daily[day]++
				}
			}
			ma.ActiveDates = uniqueSorted(ma.IdeaDates, ma.StepDates)
			memberActivity[email] = ma
		}

		ta := models.TeamActivity{
			Name:                 info.Name,
			Term:                 info.Term,
			Year:                 info.Year,
			MemberCount:          len(members),
			ActivityTimeline:     timeline(daily),
			MemberActivity:       memberActivity,
			ActivityDistribution: distribution(memberActivity),
		}
		ta.MostActiveMember, ta.LeastActiveMember = extremes(memberActivity)

		if len(members) > 1 {
			gini := ta.ActivityDistribution.GiniCoefficient
			score := 1 - gini
			ta.CollaborationScore = &score
			ta.CollaborationPattern = CollaborationPattern(gini)
		}
		out[id] = ta
	}
	return out
}

// CollaborationPattern labels a team's Gini coefficient of member activity.
func CollaborationPattern(gini float64) string {
	switch {
	case gini < 0.2:
		return "Highly collaborative"
	case gini < 0.4:
		return "Collaborative"
	case gini < 0.6:
		return "Moderately collaborative"
	default:
		return "Dominated by few members"
	}
}

// isoDay returns the date part of an ISO timestamp. Date-only values carry
// no time of activity and are skipped.
func isoDay(value string) (string, bool) {
	day, _, found := strings.Cut(value, "T")
	return day, found && day != ""
}

func uniqueSorted(lists ...[]string) []string {
	set := make(map[string]struct{})
	for _, l := range lists {
		for _, v := range l {
			set[v] = struct{}{}
		}
	}
	return grouping.SortedKeys(set)
}

// timeline summarizes daily activity counts. The earliest day wins a tie
// for the peak.
func timeline(daily map[string]int) models.TeamTimeline {
	days := grouping.SortedKeys(daily)
	t := models.TeamTimeline{UniqueActivityDays: len(days), DailyActivity: daily}
	if len(days) == 0 {
		return t
	}
	t.FirstActivity, t.LastActivity = days[0], days[len(days)-1]
	for _, d := range days {
		if daily[d] > t.PeakActivityCount {
			t.PeakDay, t.PeakActivityCount = d, daily[d]
		}
	}
	return t
}

func distribution(members map[string]models.MemberActivity) models.ActivityDistribution {
	values := make([]float64, 0, len(members))
	for _, m := range members {
		values = append(values, float64(m.TotalActivity))
	}
	if len(values) == 0 {
		return models.ActivityDistribution{}
	}
	lo, hi := stats.MinMax(values)
	d := models.ActivityDistribution{Min: lo, Max: hi, Mean: stats.Mean(values)}
	if len(values) > 1 {
		d.StdDev = stats.StdDev(values)
		d.GiniCoefficient = stats.Gini(values)
	}
	return d
}

// extremes returns the most and least active members. Ties go to the
// alphabetically first email.
func extremes(members map[string]models.MemberActivity) (most, least models.MemberRank) {
	emails := grouping.SortedKeys(members)
	for i, email := range emails {
		n := members[email].TotalActivity
		if i == 0 || n > most.ActivityCount {
			most = models.MemberRank{Email: email, ActivityCount: n}
		}
		if i == 0 || n < least.ActivityCount {
			least = models.MemberRank{Email: email, ActivityCount: n}
		}
	}
	return most, least
}

// termKey formats the relationship key of a term.
func termKey(term string, year int) string {
	return fmt.Sprintf("%s_%d", term, year)
}
