// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package activity

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/orbitstats/internal/dates"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

// Correlation thresholds in seconds.
const (
	// ImmediateActionThreshold is the largest view-to-action gap that counts
	// as an action prompted by the view.
	ImmediateActionThreshold = 300

	// SessionThreshold is the largest gap between two events of one session.
	SessionThreshold = 3600
)

type intervalBucket struct {
	lower, upper float64
	label        string
}

var intervalBuckets = []intervalBucket{
	{0, 60, "< 1 min"},
	{60, 300, "1-5 min"},
	{300, 900, "5-15 min"},
	{900, 1800, "15-30 min"},
	{1800, 3600, "30-60 min"},
	{3600, 7200, "1-2 hours"},
	{7200, 86400, "2-24 hours"},
	{86400, math.Inf(1), "> 24 hours"},
}

// IntervalLabel returns the distribution bucket for a view-to-action gap.
func IntervalLabel(seconds float64) string {
	for _, b := range intervalBuckets {
		if seconds >= b.lower && seconds < b.upper {
			return b.label
		}
	}
	return ""
}

func (a *Analyzer) viewActionCorrelation() models.ViewActionCorrelation {
	c := models.ViewActionCorrelation{
		ViewToIdeaIntervals:      []float64{},
		ViewToStepIntervals:      []float64{},
		UserPatterns:             map[string]models.UserViewPattern{},
		IntervalDistribution:     map[string]int{},
		ImmediateActionThreshold: a.immediateThreshold,
		SessionThreshold:         a.sessionThreshold,
		Sessions:                 []models.Session{},
	}

	for i := range a.users {
		u := &a.users[i]
		if u.Email == "" || len(u.Views) == 0 {
			continue
		}
		c.UsersAnalyzed++

		views := make([]float64, len(u.Views))
		for j, v := range u.Views {
			views[j] = float64(v)
		}
		sort.Float64s(views)

		ideaEvents := a.ideaEvents(u.Email)
		stepEvents := a.stepEvents(u.Email)
		actions := make([]models.SessionEvent, 0, len(ideaEvents)+len(stepEvents))
		actions = append(actions, ideaEvents...)
		actions = append(actions, stepEvents...)
		if len(actions) == 0 {
			continue
		}
		sort.SliceStable(actions, func(x, y int) bool { return actions[x].Timestamp < actions[y].Timestamp })

		correlated := false
		for _, action := range actions {
			// index of the first view after the action
			k := sort.Search(len(views), func(j int) bool { return views[j] > action.Timestamp })
			if k == 0 {
				continue
			}
			gap := action.Timestamp - views[k-1]
			if action.Type == models.EventIdea {
				c.ViewToIdeaIntervals = append(c.ViewToIdeaIntervals, gap)
			} else {
				c.ViewToStepIntervals = append(c.ViewToStepIntervals, gap)
			}
			if gap <= a.immediateThreshold {
				correlated = true
			}
		}
		if correlated {
			c.UsersWithCorrelatedActions++
		}

		sessions := IdentifySessions(views, actions, a.sessionThreshold)
		pattern := models.UserViewPattern{
			ViewCount:    len(views),
			IdeaCount:    len(ideaEvents),
			StepCount:    len(stepEvents),
			SessionCount: len(sessions),
		}
		if len(sessions) > 0 {
			var n int
			for _, s := range sessions {
				n += s.ActionCount
			}
			pattern.AvgActionsPerSession = float64(n) / float64(len(sessions))
		}
		c.UserPatterns[u.Email] = pattern
		c.Sessions = append(c.Sessions, sessions...)
	}

	if c.UsersAnalyzed > 0 {
		c.ActionAfterViewRate = float64(c.UsersWithCorrelatedActions) / float64(c.UsersAnalyzed)
	}

	intervals := make([]float64, 0, len(c.ViewToIdeaIntervals)+len(c.ViewToStepIntervals))
	intervals = append(intervals, c.ViewToIdeaIntervals...)
	intervals = append(intervals, c.ViewToStepIntervals...)
	if len(intervals) > 0 {
		immediate := 0
		for _, v := range intervals {
			if label := IntervalLabel(v); label != "" {
				c.IntervalDistribution[label]++
			}
			if v <= a.immediateThreshold {
				immediate++
			}
		}
		lo, hi := stats.MinMax(intervals)
		c.IntervalStats = &models.IntervalStats{
			Min:                       lo,
			Max:                       hi,
			Mean:                      stats.Mean(intervals),
			Median:                    stats.Median(intervals),
			ImmediateActionCount:      immediate,
			ImmediateActionPercentage: stats.Percent(immediate, len(intervals)),
		}
	}

	if len(c.Sessions) > 0 {
		c.SessionStats = summarizeSessions(c.Sessions)
	}
	return c
}

// ideaEvents returns the owner's ideas that carry an ISO creation timestamp.
func (a *Analyzer) ideaEvents(owner string) []models.SessionEvent {
	var out []models.SessionEvent
	for _, idea := range a.ideasByOwner[owner] {
		if idea.ID == "" {
			continue
		}
		if ts, ok := isoSeconds(idea.CreatedDate); ok {
			out = append(out, models.SessionEvent{Timestamp: ts, Type: models.EventIdea, ID: idea.ID})
		}
	}
	return out
}

// stepEvents returns the owner's steps that carry an ISO creation
// timestamp. The event id is the step's idea when known.
func (a *Analyzer) stepEvents(owner string) []models.SessionEvent {
	var out []models.SessionEvent
	for _, step := range a.stepsByOwner[owner] {
		if step.ID == "" {
			continue
		}
		ts, ok := isoSeconds(step.CreatedAt)
		if !ok {
			continue
		}
		id := step.IdeaID
		if id == "" {
			id = step.ID
		}
		out = append(out, models.SessionEvent{Timestamp: ts, Type: models.EventStep, ID: id})
	}
	return out
}

// isoSeconds converts ISO 8601 timestamps to epoch seconds. Date-only and
// numeric values are rejected so only precise action times are correlated.
func isoSeconds(value string) (float64, bool) {
	if !strings.Contains(value, "T") {
		return 0, false
	}
	t, ok := dates.Parse(value)
	if !ok {
		return 0, false
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9, true
}

// IdentifySessions merges sorted view times and actions into one timeline
// and splits it wherever consecutive events are more than threshold seconds
// apart. It returns nil when there are no views.
func IdentifySessions(views []float64, actions []models.SessionEvent, threshold float64) []models.Session {
	if len(views) == 0 {
		return nil
	}

	timeline := make([]models.SessionEvent, 0, len(views)+len(actions))
	for _, v := range views {
		timeline = append(timeline, models.SessionEvent{Timestamp: v, Type: models.EventView})
	}
	timeline = append(timeline, actions...)
	sort.SliceStable(timeline, func(i, j int) bool { return timeline[i].Timestamp < timeline[j].Timestamp })

	var sessions []models.Session
	current := startSession(timeline[0])
	for i := 1; i < len(timeline); i++ {
		ev := timeline[i]
		if ev.Timestamp-timeline[i-1].Timestamp <= threshold {
			current.add(ev)
			continue
		}
		sessions = append(sessions, current.finish())
		current = startSession(ev)
	}
	return append(sessions, current.finish())
}

type sessionBuilder struct {
	s models.Session
}

func startSession(ev models.SessionEvent) *sessionBuilder {
	b := &sessionBuilder{s: models.Session{StartTime: ev.Timestamp}}
	b.add(ev)
	return b
}

func (b *sessionBuilder) add(ev models.SessionEvent) {
	b.s.EndTime = ev.Timestamp
	b.s.Events = append(b.s.Events, ev)
	switch ev.Type {
	case models.EventView:
		b.s.ViewCount++
	case models.EventIdea:
		b.s.IdeaCount++
	default:
		b.s.StepCount++
	}
}

func (b *sessionBuilder) finish() models.Session {
	b.s.Duration = b.s.EndTime - b.s.StartTime
	b.s.ActionCount = b.s.IdeaCount + b.s.StepCount
	return b.s
}

func summarizeSessions(sessions []models.Session) *models.SessionStats {
	var duration, views, actions float64
	withActions := 0
	for i := range sessions {
		s := &sessions[i]
		duration += s.Duration
		views += float64(s.ViewCount)
		actions += float64(s.ActionCount)
		if s.ActionCount > 0 {
			withActions++
		}
	}
	n := float64(len(sessions))
	return &models.SessionStats{
		TotalSessions:           len(sessions),
		AvgSessionDuration:      duration / n,
		AvgViewsPerSession:      views / n,
		AvgActionsPerSession:    actions / n,
		SessionsWithActions:     withActions,
		ActionSessionPercentage: stats.Percent(withActions, len(sessions)),
	}
}
