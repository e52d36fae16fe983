// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package users computes account demographics, sign-up cohorts, login
// recency and enrollment statistics.
package users

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/orbitstats/internal/dates"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

const topN = 10

// DefaultActiveDays is the login window that makes a user active.
const DefaultActiveDays = 90

// Analyzer computes UserAnalysis results.
type Analyzer struct {
	users      []models.User
	ideas      []models.Idea
	end        time.Time
	activeDays int
}

// NewAnalyzer creates an analyzer. end is the reference date for login
// recency; activeDays <= 0 selects DefaultActiveDays.
func NewAnalyzer(users []models.User, ideas []models.Idea, end time.Time, activeDays int) *Analyzer {
	if activeDays <= 0 {
		activeDays = DefaultActiveDays
	}
	return &Analyzer{users: users, ideas: ideas, end: end, activeDays: activeDays}
}

// Analyze runs every user analysis. The activity summary is only present
// when ideas were supplied.
func (a *Analyzer) Analyze(ctx context.Context) (*models.UserAnalysis, error) {
	log := logging.Ctx(ctx)
	if len(a.users) == 0 {
		log.Warn().Msg("No user data provided")
	}

	result := &models.UserAnalysis{
		UserCounts:   a.counts(),
		Demographics: a.demographics(),
		Cohorts:      a.cohorts(),
		Affiliations: a.affiliations(),
		Institutions: a.institutions(),
		Enrollment:   a.enrollment(),
	}
	if len(a.ideas) > 0 {
		summary := a.activitySummary()
		result.Activity = &summary
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info().Int("users", len(a.users)).Int("active", result.UserCounts.ActiveUsers).Msg("User analysis complete")
	return result, nil
}

// IsActive reports whether the user logged in within the active window.
func (a *Analyzer) IsActive(u *models.User) bool {
	days, ok := dates.DaysSince(u.LastLogin, a.end)
	return ok && days <= a.activeDays
}

func (a *Analyzer) counts() models.UserCounts {
	c := models.UserCounts{TotalUsers: len(a.users)}
	for i := range a.users {
		u := &a.users[i]
		if a.IsActive(u) {
			c.ActiveUsers++
		} else {
			c.InactiveUsers++
		}
		if u.Profile != nil && u.Profile.HasImage {
			c.WithProfileImage++
		}
		if u.HasCompleteProfile() {
			c.WithCompleteProfile++
		}
	}
	return c
}

func (a *Analyzer) demographics() models.Demographics {
	d := models.Demographics{
		UserTypes: typeCounts(a.users),
		Personas:  map[string]int{},
		Interests: map[string]int{},
		Gender:    map[string]int{},
	}
	for i := range a.users {
		u := &a.users[i]
		if u.Gender != "" {
			d.Gender[u.Gender]++
		}
		if u.Profile == nil {
			continue
		}
		for _, p := range u.Profile.Personas {
			if p != "" {
				d.Personas[p]++
			}
		}
		for _, in := range u.Profile.Interests {
			if in != "" {
				d.Interests[in]++
			}
		}
	}
	d.TopInterests = ranked(d.Interests)
	return d
}

func (a *Analyzer) cohorts() models.UserCohorts {
	c := models.UserCohorts{
		UserTypes:     typeCounts(a.users),
		CreationDates: map[string]int{},
	}

	for i := range a.users {
		u := &a.users[i]
		if month, ok := creationMonth(u.CreatedDate); ok {
			c.CreationDates[month]++
		}

		days, ok := dates.DaysSince(u.LastLogin, a.end)
		switch {
		case !ok:
			c.Activity.InactiveOver365d++
		case days <= 30:
			c.Activity.ActiveLast30d++
		case days <= 90:
			c.Activity.Active31to90d++
		case days <= 180:
			c.Activity.Active91to180d++
		case days <= 365:
			c.Activity.Active181to365d++
		default:
			c.Activity.InactiveOver365d++
		}
	}
	return c
}

// creationMonth keeps the written month of ISO timestamps and parses
// anything else.
func creationMonth(created string) (string, bool) {
	if created == "" {
		return "", false
	}
	if i := strings.IndexByte(created, 'T'); i >= 7 {
		return created[:7], true
	}
	t, ok := dates.Parse(created)
	if !ok {
		return "", false
	}
	return dates.MonthKey(t), true
}

func (a *Analyzer) affiliations() models.AffiliationStats {
	s := models.AffiliationStats{
		AffiliationCounts: map[string]int{},
		DepartmentCounts:  map[string]int{},
	}
	for i := range a.users {
		u := &a.users[i]
		if u.Type != "" {
			s.AffiliationCounts[u.Type]++
		}
		for _, aff := range u.Affiliations {
			if aff.Type != "" {
				s.AffiliationCounts[aff.Type+" (detailed)"]++
			}
			for _, dept := range aff.Departments {
				if dept.Name != "" {
					s.DepartmentCounts[dept.Name]++
				}
			}
		}
	}
	s.TopDepartments = ranked(s.DepartmentCounts)
	return s
}

func (a *Analyzer) institutions() models.InstitutionStats {
	s := models.InstitutionStats{
		InstitutionCounts: map[string]int{},
		Percentages:       map[string]float64{},
	}
	for i := range a.users {
		inst := a.users[i].Institution
		if inst == nil {
			continue
		}
		name := inst.Name
		if name == "" {
			name = "Unknown"
		}
		s.InstitutionCounts[name]++
	}
	for name, n := range s.InstitutionCounts {
		s.Percentages[name] = stats.Percent(n, len(a.users))
	}
	s.TopInstitutions = ranked(s.InstitutionCounts)
	return s
}

func (a *Analyzer) enrollment() models.EnrollmentStats {
	s := models.EnrollmentStats{CoursePopularity: map[string]int{}}
	for i := range a.users {
		enrollments := a.users[i].Enrollments
		if len(enrollments) == 0 {
			continue
		}
		s.UsersWithEnrollments++
		s.TotalEnrollments += len(enrollments)
		for _, e := range enrollments {
			s.CoursePopularity[e]++
		}
	}
	if s.UsersWithEnrollments > 0 {
		s.AvgEnrollmentsPerUser = float64(s.TotalEnrollments) / float64(s.UsersWithEnrollments)
	}
	s.TopCourses = ranked(s.CoursePopularity)
	return s
}

func (a *Analyzer) activitySummary() models.UserActivitySummary {
	perOwner := make(map[string]int)
	for i := range a.ideas {
		if owner := a.ideas[i].Owner; owner != "" {
			perOwner[owner]++
		}
	}

	s := models.UserActivitySummary{
		UsersWithIdeas:        len(perOwner),
		TotalIdeas:            len(a.ideas),
		IdeaCountDistribution: map[string]int{},
	}
	if len(a.users) > 0 {
		s.ActiveRate = float64(s.UsersWithIdeas) / float64(len(a.users))
	}
	if s.UsersWithIdeas > 0 {
		s.AvgIdeasPerActiveUser = float64(len(a.ideas)) / float64(s.UsersWithIdeas)
	}

	for _, n := range perOwner {
		bucket := strconv.Itoa(n)
		if n >= 10 {
			bucket = "10+"
		}
		s.IdeaCountDistribution[bucket]++
	}
	// Owners missing from the user list would push this below zero.
	s.IdeaCountDistribution["0"] = max(len(a.users)-s.UsersWithIdeas, 0)
	return s
}

func typeCounts(users []models.User) map[string]int {
	out := make(map[string]int)
	for i := range users {
		if t := users[i].Type; t != "" {
			out[t]++
		}
	}
	return out
}

func ranked(counts map[string]int) []models.RankedCount {
	top := stats.TopN(counts, topN)
	out := make([]models.RankedCount, len(top))
	for i, kc := range top {
		out[i] = models.RankedCount{Name: kc.Key, Count: kc.Count}
	}
	return out
}
