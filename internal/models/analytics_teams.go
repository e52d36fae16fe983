// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package models provides data structures for orbitstats.
// This file contains the team analysis results.
package models

import "github.com/tomtom215/orbitstats/internal/stats"

// Preferred framework values beyond the framework names themselves.
const (
	PreferenceBoth = "both"
	PreferenceNone = "none"
)

// TeamAnalysis is the team component output. Teams are keyed by team id,
// terms by "Term_Year".
type TeamAnalysis struct {
	TeamEngagement     TeamEngagement          `json:"team_engagement"`
	TeamActivity       map[string]TeamActivity `json:"team_activity"`
	SectionComparison  map[string]TermSections `json:"section_comparison"`
	SemesterComparison TeamSemesterComparison  `json:"semester_comparison"`
	TeamSizeImpact     TeamSizeImpact          `json:"team_size_impact"`
	WorkDistribution   WorkDistribution        `json:"work_distribution"`
	ToolVersionImpact  TeamToolImpact          `json:"tool_version_impact"`
}

type TeamEngagement struct {
	TeamMetrics  map[string]TeamMetrics `json:"team_metrics"`
	OverallStats TeamOverallStats       `json:"overall_stats"`
}

type TeamMetrics struct {
	Name               string         `json:"name"`
	Term               string         `json:"term,omitempty"`
	Year               int            `json:"year,omitempty"`
	MemberCount        int            `json:"member_count"`
	TotalIdeas         int            `json:"total_ideas"`
	TotalSteps         int            `json:"total_steps"`
	AvgIdeasPerMember  float64        `json:"avg_ideas_per_member"`
	AvgStepsPerMember  float64        `json:"avg_steps_per_member"`
	AvgIdeaProgress    float64        `json:"avg_idea_progress"`
	FrameworkCounts    map[string]int `json:"framework_counts"`
	FrameworkUsers     map[string]int `json:"framework_users"`
	PreferredFramework string         `json:"preferred_framework"`
}

type TeamOverallStats struct {
	TotalTeams                int            `json:"total_teams"`
	AvgTeamSize               float64        `json:"avg_team_size"`
	AvgIdeasPerTeam           float64        `json:"avg_ideas_per_team"`
	AvgStepsPerTeam           float64        `json:"avg_steps_per_team"`
	FrameworkPreferenceCounts map[string]int `json:"framework_preference_counts"`
}

// TeamActivity describes when a team worked and how evenly.
// CollaborationScore is 1 - gini and is only set for teams of two or more.
type TeamActivity struct {
	Name                 string                    `json:"name"`
	Term                 string                    `json:"term,omitempty"`
	Year                 int                       `json:"year,omitempty"`
	MemberCount          int                       `json:"member_count"`
	ActivityTimeline     TeamTimeline              `json:"activity_timeline"`
	MemberActivity       map[string]MemberActivity `json:"member_activity"`
	ActivityDistribution ActivityDistribution      `json:"activity_distribution"`
	MostActiveMember     MemberRank                `json:"most_active_member"`
	LeastActiveMember    MemberRank                `json:"least_active_member"`
	CollaborationScore   *float64                  `json:"collaboration_score,omitempty"`
	CollaborationPattern string                    `json:"collaboration_pattern,omitempty"`
}

type TeamTimeline struct {
	FirstActivity      string         `json:"first_activity,omitempty"`
	LastActivity       string         `json:"last_activity,omitempty"`
	UniqueActivityDays int            `json:"unique_activity_days"`
	PeakDay            string         `json:"peak_day,omitempty"`
	PeakActivityCount  int            `json:"peak_activity_count"`
	DailyActivity      map[string]int `json:"daily_activity"`
}

type MemberActivity struct {
	IdeaCount     int      `json:"idea_count"`
	StepCount     int      `json:"step_count"`
	IdeaDates     []string `json:"idea_dates"`
	StepDates     []string `json:"step_dates"`
	ActiveDates   []string `json:"active_dates"`
	TotalActivity int      `json:"total_activity"`
}

type ActivityDistribution struct {
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Mean            float64 `json:"mean"`
	StdDev          float64 `json:"std_dev"`
	GiniCoefficient float64 `json:"gini_coefficient"`
}

type MemberRank struct {
	Email         string `json:"email,omitempty"`
	ActivityCount int    `json:"activity_count"`
}

// TeamGroupMetrics averages team metrics over a section or a semester.
type TeamGroupMetrics struct {
	TeamCount            int            `json:"team_count"`
	AvgIdeasPerTeam      float64        `json:"avg_ideas_per_team"`
	AvgStepsPerTeam      float64        `json:"avg_steps_per_team"`
	AvgIdeaProgress      float64        `json:"avg_idea_progress"`
	FrameworkPreferences map[string]int `json:"framework_preferences"`
}

type TermSections struct {
	Term               string                      `json:"term"`
	Year               int                         `json:"year"`
	ToolVersion        string                      `json:"tool_version"`
	Sections           map[string]TeamGroupMetrics `json:"sections"`
	SectionComparisons []SectionDifference         `json:"section_comparisons,omitempty"`
}

type SectionDifference struct {
	SectionPair        string  `json:"section_pair"`
	IdeasDifference    float64 `json:"ideas_difference"`
	StepsDifference    float64 `json:"steps_difference"`
	ProgressDifference float64 `json:"progress_difference"`
}

type TeamSemesterComparison struct {
	SemesterMetrics     map[string]TeamSemester `json:"semester_metrics"`
	SemesterComparisons []TeamSemesterDiff      `json:"semester_comparisons"`
}

type TeamSemester struct {
	Term         string `json:"term"`
	Year         int    `json:"year"`
	ToolVersion  string `json:"tool_version"`
	SectionCount int    `json:"section_count"`
	TeamGroupMetrics
}

type TeamSemesterDiff struct {
	SemesterPair       string  `json:"semester_pair"`
	DisplayPair        string  `json:"display_pair"`
	ToolVersionChange  bool    `json:"tool_version_change"`
	ToolVersions       string  `json:"tool_versions"`
	IdeasDifference    float64 `json:"ideas_difference"`
	StepsDifference    float64 `json:"steps_difference"`
	ProgressDifference float64 `json:"progress_difference"`
}

type TeamSizeImpact struct {
	SizeMetrics         map[int]TeamSizeMetrics             `json:"size_metrics"`
	CorrelationWithSize map[string]*stats.CorrelationResult `json:"correlation_with_size"`
}

type TeamSizeMetrics struct {
	TeamCount         int     `json:"team_count"`
	AvgIdeasPerTeam   float64 `json:"avg_ideas_per_team"`
	AvgStepsPerTeam   float64 `json:"avg_steps_per_team"`
	AvgIdeaProgress   float64 `json:"avg_idea_progress"`
	AvgIdeasPerMember float64 `json:"avg_ideas_per_member"`
	AvgStepsPerMember float64 `json:"avg_steps_per_member"`
}

type WorkDistribution struct {
	OverallGiniDistribution GiniDistribution           `json:"overall_gini_distribution"`
	CollaborationPatterns   map[string]int             `json:"collaboration_patterns"`
	SemesterPatterns        map[string]SemesterPattern `json:"semester_patterns"`
}

type GiniDistribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

type SemesterPattern struct {
	TeamCount  int            `json:"team_count"`
	GiniValues []float64      `json:"gini_values"`
	Patterns   map[string]int `json:"patterns"`
	AvgGini    float64        `json:"avg_gini"`
}

type TeamToolImpact struct {
	VersionMetrics      map[string]TeamVersionMetrics `json:"version_metrics"`
	VersionImprovements []TeamVersionChange           `json:"version_improvements"`
}

type TeamVersionMetrics struct {
	SemesterCount        int            `json:"semester_count"`
	Semesters            []string       `json:"semesters"`
	AvgIdeasPerTeam      float64        `json:"avg_ideas_per_team"`
	AvgStepsPerTeam      float64        `json:"avg_steps_per_team"`
	AvgIdeaProgress      float64        `json:"avg_idea_progress"`
	FrameworkPreferences map[string]int `json:"framework_preferences"`
}

type TeamVersionChange struct {
	FromVersion           string   `json:"from_version"`
	ToVersion             string   `json:"to_version"`
	IdeasDiff             float64  `json:"ideas_diff"`
	IdeasPercentChange    *float64 `json:"ideas_percent_change"`
	StepsDiff             float64  `json:"steps_diff"`
	StepsPercentChange    *float64 `json:"steps_percent_change"`
	ProgressDiff          float64  `json:"progress_diff"`
	ProgressPercentChange *float64 `json:"progress_percent_change"`
}
