// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package models provides data structures for orbitstats.
// This file contains the semester cohort and usage cohort comparison results.
package models

import "github.com/tomtom215/orbitstats/internal/stats"

// Usage levels assigned by every categorization method.
const (
	UsageHigh   = "high"
	UsageMedium = "medium"
	UsageLow    = "low"
	UsageNone   = "none"
)

// UsageLevels lists the usage levels from highest to lowest.
var UsageLevels = []string{UsageHigh, UsageMedium, UsageLow, UsageNone}

// Usage categorization methods.
const (
	MethodCombined     = "usage_level"
	MethodIdeas        = "usage_by_ideas"
	MethodSteps        = "usage_by_steps"
	MethodCompletion   = "usage_by_completion"
	MethodInteractions = "usage_by_interactions"
)

// UsageMethods lists the categorization methods in comparison order.
var UsageMethods = []string{MethodCombined, MethodIdeas, MethodSteps, MethodCompletion, MethodInteractions}

// CohortAnalysis is the result of the cohort component.
type CohortAnalysis struct {
	// TimeCohorts is keyed by cohort name and only holds cohorts with at
	// least one user created inside the window.
	TimeCohorts       map[string]TimeCohort `json:"time_cohorts"`
	UsageCohorts      UsageCohorts          `json:"usage_cohorts"`
	EnrollmentCohorts EnrollmentCohorts     `json:"enrollment_cohorts"`
	ToolAdoption      ToolAdoption          `json:"tool_adoption"`
	LearningMetrics   LearningMetrics       `json:"learning_metrics"`
	CohortComparison  CohortComparison      `json:"cohort_comparison"`
}

// TimeCohort describes the users created during one semester window.
type TimeCohort struct {
	ToolVersion        string           `json:"tool_version"`
	Sections           int              `json:"sections"`
	TotalUsers         int              `json:"total_users"`
	ActiveUsers        int              `json:"active_users"` // users owning at least one idea
	ActiveRate         float64          `json:"active_rate"`
	TotalIdeas         int              `json:"total_ideas"`
	TotalSteps         int              `json:"total_steps"`
	IdeasPerActiveUser float64          `json:"ideas_per_active_user"`
	StepsPerIdea       float64          `json:"steps_per_idea"`
	UserDistribution   UserDistribution `json:"user_distribution"`

	// IdeasPerUser and StepsPerUser summarize the per-user counts over all
	// cohort members, including those without activity.
	IdeasPerUser stats.Summary `json:"ideas_per_user"`
	StepsPerUser stats.Summary `json:"steps_per_user"`
}

type UserDistribution struct {
	ByType        map[string]int `json:"by_type"`
	ByInstitution map[string]int `json:"by_institution"`
}

// UserUsage holds one user's activity counts and the level every method
// assigned.
type UserUsage struct {
	IdeasCount          int    `json:"ideas_count"`
	StepsCount          int    `json:"steps_count"`
	UserID              string `json:"user_id"`
	UserType            string `json:"user_type"`
	UsageLevel          string `json:"usage_level"`
	UsageByIdeas        string `json:"usage_by_ideas"`
	UsageBySteps        string `json:"usage_by_steps"`
	UsageByCompletion   string `json:"usage_by_completion"`
	UsageByInteractions string `json:"usage_by_interactions"`
}

// Level returns the level assigned by method, or "" for an unknown method.
func (u *UserUsage) Level(method string) string {
	switch method {
	case MethodCombined:
		return u.UsageLevel
	case MethodIdeas:
		return u.UsageByIdeas
	case MethodSteps:
		return u.UsageBySteps
	case MethodCompletion:
		return u.UsageByCompletion
	case MethodInteractions:
		return u.UsageByInteractions
	default:
		return ""
	}
}

type UsageCohorts struct {
	// UserMetrics is keyed by user email.
	UserMetrics map[string]UserUsage `json:"user_metrics"`

	// UsageStats is keyed by method, then level. Empty levels are omitted.
	UsageStats            map[string]map[string]UsageStats `json:"usage_stats"`
	UsageByTimeCohort     map[string]CohortUsage           `json:"usage_by_time_cohort"`
	CategorizationMethods []string                         `json:"categorization_methods"`
	MethodComparison      MethodComparison                 `json:"method_comparison"`
}

type UsageStats struct {
	UserCount       int     `json:"user_count"`
	IdeasCount      int     `json:"ideas_count"`
	StepsCount      int     `json:"steps_count"`
	IdeasPerUser    float64 `json:"ideas_per_user"`
	StepsPerIdea    float64 `json:"steps_per_idea"`
	AvgStepsPerUser float64 `json:"avg_steps_per_user"`
}

// CohortUsage breaks a time cohort down by usage level for every method.
type CohortUsage struct {
	TotalUsers  int                       `json:"total_users"`
	ToolVersion string                    `json:"tool_version"`
	Categories  map[string]LevelBreakdown `json:"categories"`
}

type LevelBreakdown struct {
	Counts      map[string]int     `json:"counts"`
	Percentages map[string]float64 `json:"percentages"` // fractions of the cohort's users
}

// MethodComparison measures how often pairs of categorization methods
// agree. Pair keys are "<method1>_vs_<method2>".
type MethodComparison struct {
	// ConfusionMatrices maps a pair to level-by-method1, then
	// level-by-method2 user counts.
	ConfusionMatrices   map[string]map[string]map[string]int `json:"confusion_matrices"`
	AgreementRates      map[string]float64                   `json:"agreement_rates"`
	MethodDistributions map[string]map[string]float64        `json:"method_distributions"`
}

type EnrollmentCohorts struct {
	// CourseEnrollments covers course-like enrollments with at least three
	// users.
	CourseEnrollments map[string]CourseCohort `json:"course_enrollments"`
	EnrollmentCounts  map[string]int          `json:"enrollment_counts"`
	TopEnrollments    []RankedCount           `json:"top_enrollments"`
}

type CourseCohort struct {
	UserCount          int     `json:"user_count"`
	ActiveUsers        int     `json:"active_users"`
	ActiveRate         float64 `json:"active_rate"`
	IdeasCount         int     `json:"ideas_count"`
	StepsCount         int     `json:"steps_count"`
	IdeasPerActiveUser float64 `json:"ideas_per_active_user"`
	StepsPerIdea       float64 `json:"steps_per_idea"`
}

type ToolAdoption struct {
	AdoptionByCohort map[string]CohortAdoption `json:"adoption_by_cohort"`
}

// CohortAdoption tracks when cohort members first created an idea or step.
type CohortAdoption struct {
	TotalUsers   int     `json:"total_users"`
	EngagedUsers int     `json:"engaged_users"`
	AdoptionRate float64 `json:"adoption_rate"`

	// AdoptionTimeline holds the cumulative number of engaged users at the
	// end of every month of the cohort window, keyed "YYYY-MM".
	AdoptionTimeline      map[string]int `json:"adoption_timeline"`
	FrameworkDistribution map[string]int `json:"framework_distribution"`
}

// LearningMetrics are proxy learning outcomes: framework progress and the
// volume of step content.
type LearningMetrics struct {
	FrameworkCompletion map[string]CohortFrameworkCompletion `json:"framework_completion"`
	ContentMetrics      map[string]ContentMetrics            `json:"content_metrics"`
}

type CohortFrameworkCompletion struct {
	AvgDECompletion float64 `json:"avg_de_completion"`
	AvgSTCompletion float64 `json:"avg_st_completion"`
	DEIdeasCount    int     `json:"de_ideas_count"`
	STIdeasCount    int     `json:"st_ideas_count"`
}

type ContentMetrics struct {
	AvgWordCount     float64 `json:"avg_word_count"`
	TotalWordCount   int     `json:"total_word_count"`
	StepsWithContent int     `json:"steps_with_content"`
}

// CohortComparison lines up key metrics per cohort and their pairwise
// differences.
type CohortComparison struct {
	// KeyMetrics is keyed by metric name, then cohort name.
	KeyMetrics      map[string]map[string]float64 `json:"key_metrics"`
	ComparisonPairs []CohortPair                  `json:"comparison_pairs"`
}

// CohortPair compares two cohorts in configured order. Differences are
// Cohort2 minus Cohort1.
type CohortPair struct {
	Cohort1           string             `json:"cohort1"`
	Cohort2           string             `json:"cohort2"`
	ToolVersions      map[string]string  `json:"tool_versions"`
	MetricDifferences map[string]float64 `json:"metric_differences"`
}
