// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package models provides data structures for orbitstats.
// This file contains the user demographics and account activity results.
package models

// UserAnalysis is the result of the user component.
type UserAnalysis struct {
	UserCounts   UserCounts           `json:"user_counts"`
	Demographics Demographics         `json:"demographics"`
	Cohorts      UserCohorts          `json:"cohorts"`
	Affiliations AffiliationStats     `json:"affiliations"`
	Institutions InstitutionStats     `json:"institutions"`
	Enrollment   EnrollmentStats      `json:"enrollment"`
	Activity     *UserActivitySummary `json:"activity_summary,omitempty"`
}

// UserCounts holds account-level totals.
type UserCounts struct {
	TotalUsers          int `json:"total_users"`
	ActiveUsers         int `json:"active_users"`
	InactiveUsers       int `json:"inactive_users"`
	WithProfileImage    int `json:"with_profile_image"`
	WithCompleteProfile int `json:"with_complete_profile"`
}

// RankedCount is one entry of a top-N list.
type RankedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Demographics struct {
	UserTypes    map[string]int `json:"user_types"`
	Personas     map[string]int `json:"personas"`
	Interests    map[string]int `json:"interests"`
	TopInterests []RankedCount  `json:"top_interests"`
	Gender       map[string]int `json:"gender"`
}

// UserCohorts groups users by type, sign-up month and login recency.
type UserCohorts struct {
	UserTypes     map[string]int `json:"user_types"`
	CreationDates map[string]int `json:"creation_dates"`

	// Activity buckets users by days since last login at the reference
	// date. Users without a parseable login count as inactive_over_365d.
	Activity LoginRecency `json:"activity"`
}

type LoginRecency struct {
	ActiveLast30d    int `json:"active_last_30d"`
	Active31to90d    int `json:"active_31d_90d"`
	Active91to180d   int `json:"active_91d_180d"`
	Active181to365d  int `json:"active_181d_365d"`
	InactiveOver365d int `json:"inactive_over_365d"`
}

type AffiliationStats struct {
	// AffiliationCounts counts user types plus "<type> (detailed)" entries
	// for every affiliation record.
	AffiliationCounts map[string]int `json:"affiliation_counts"`
	DepartmentCounts  map[string]int `json:"department_counts"`
	TopDepartments    []RankedCount  `json:"top_departments"`
}

type InstitutionStats struct {
	InstitutionCounts map[string]int     `json:"institution_counts"`
	TopInstitutions   []RankedCount      `json:"top_institutions"`
	Percentages       map[string]float64 `json:"percentages"` // share of all users
}

type EnrollmentStats struct {
	CoursePopularity      map[string]int `json:"course_popularity"`
	UsersWithEnrollments  int            `json:"users_with_enrollments"`
	TotalEnrollments      int            `json:"total_enrollments"`
	AvgEnrollmentsPerUser float64        `json:"avg_enrollments_per_user"`
	TopCourses            []RankedCount  `json:"top_courses"`
}

// UserActivitySummary relates users to the ideas they own.
type UserActivitySummary struct {
	UsersWithIdeas        int     `json:"users_with_ideas"`
	ActiveRate            float64 `json:"active_rate"`
	AvgIdeasPerActiveUser float64 `json:"avg_ideas_per_active_user"`

	// IdeaCountDistribution maps "0".."9" and "10+" to user counts;
	// "0" is users without ideas.
	IdeaCountDistribution map[string]int `json:"idea_count_distribution"`
	TotalIdeas            int            `json:"total_ideas"`
}
