// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package models provides data structures for orbitstats.
// This file contains the course evaluation analysis results.
package models

import "github.com/tomtom215/orbitstats/internal/stats"

// EvaluationAnalysis is the course_eval component output.
type EvaluationAnalysis struct {
	SemesterComparison SemesterComparison          `json:"semester_comparison"`
	ToolImpact         ToolImpact                  `json:"tool_impact"`
	SectionAnalysis    SectionAnalysis             `json:"section_analysis"`
	QuestionAnalysis   map[string]QuestionCategory `json:"question_analysis"`
	TrendAnalysis      RatingTrends                `json:"trend_analysis"`
	TimeSpent          TimeSpentAnalysis           `json:"time_spent_analysis"`
	OverallRating      OverallRatingAnalysis       `json:"overall_rating_analysis"`
}

// SemesterComparison holds parallel slices in chronological order.
type SemesterComparison struct {
	Semesters       []string       `json:"semesters"`
	DisplayNames    []string       `json:"display_names"`
	OverallAvg      []*float64     `json:"overall_avg"`
	ToolVersions    []string       `json:"tool_versions"`
	TermComparisons TermComparison `json:"term_comparisons"`
}

// TermComparison contrasts fall and spring semesters.
type TermComparison struct {
	FallAvg            *float64 `json:"fall_avg"`
	SpringAvg          *float64 `json:"spring_avg"`
	FallSemesters      int      `json:"fall_semesters"`
	SpringSemesters    int      `json:"spring_semesters"`
	SeasonalDifference *float64 `json:"seasonal_difference"`
	PercentDifference  *float64 `json:"percent_difference"`
}

type ToolImpact struct {
	VersionMetrics      map[string]VersionMetrics `json:"version_metrics"`
	VersionImprovements []VersionChange           `json:"version_improvements"`
	SeasonalImpact      map[string]TermComparison `json:"seasonal_impact"`
}

type VersionMetrics struct {
	AvgScore     float64  `json:"avg_score"`
	NumSemesters int      `json:"num_semesters"`
	Semesters    []string `json:"semesters"`
}

// VersionChange compares consecutive tool versions.
type VersionChange struct {
	FromVersion   string   `json:"from_version"`
	ToVersion     string   `json:"to_version"`
	Change        float64  `json:"change"`
	PercentChange *float64 `json:"percent_change"`
}

// SemesterChange compares consecutive semesters.
type SemesterChange struct {
	FromSemester  string   `json:"from_semester"`
	ToSemester    string   `json:"to_semester"`
	Change        float64  `json:"change"`
	PercentChange *float64 `json:"percent_change"`
	ToolChange    bool     `json:"tool_change"`
	FromTool      string   `json:"from_tool"`
	ToTool        string   `json:"to_tool"`
}

type SectionAnalysis struct {
	Sections   []string                    `json:"sections"`
	BySemester map[string]SemesterSections `json:"by_semester"`
}

type SemesterSections struct {
	DisplayName     string             `json:"display_name"`
	ToolVersion     string             `json:"tool_version"`
	SectionAverages map[string]float64 `json:"section_averages"`
}

// QuestionCategory tracks one keyword category of questions by semester code.
type QuestionCategory struct {
	Semesters map[string]QuestionScore `json:"semesters"`
}

type QuestionScore struct {
	DisplayName       string   `json:"display_name"`
	ToolVersion       string   `json:"tool_version"`
	AvgScore          float64  `json:"avg_score"`
	MatchingQuestions []string `json:"matching_questions"`
}

type RatingTrends struct {
	Timeline   []SemesterPoint      `json:"timeline"`
	Changes    []SemesterChange     `json:"changes"`
	TermTrends map[string]TermTrend `json:"term_trends"`
}

// SemesterPoint is one semester on the overall-average timeline.
type SemesterPoint struct {
	SemesterCode string   `json:"semester_code"`
	DisplayName  string   `json:"display_name"`
	Term         string   `json:"term"`
	Year         int      `json:"year"`
	Order        int      `json:"order"`
	ToolVersion  string   `json:"tool_version"`
	OverallAvg   *float64 `json:"overall_avg"`
}

type TermTrend struct {
	Evals int               `json:"evals"`
	Trend stats.TrendResult `json:"trend"`
	Years []int             `json:"years"`
}

type TimeSpentAnalysis struct {
	BySemester        map[string]SemesterTime `json:"by_semester"`
	ByToolVersion     map[string][]float64    `json:"by_tool_version"`
	Timeline          []TimePoint             `json:"timeline"`
	TotalTimeTimeline []TimePoint             `json:"total_time_timeline"`
	AvgByToolVersion  map[string]VersionTime  `json:"avg_by_tool_version"`
	Changes           []SemesterChange        `json:"changes"`
	Trend             *stats.TrendResult      `json:"trend,omitempty"`
}

type SemesterTime struct {
	DisplayName   string         `json:"display_name"`
	ToolVersion   string         `json:"tool_version"`
	Term          string         `json:"term"`
	Year          int            `json:"year"`
	TimeQuestions []TimeQuestion `json:"time_questions"`
	ClassroomTime float64        `json:"classroom_time"`
	OutsideTime   float64        `json:"outside_time"`
	TotalTime     float64        `json:"total_time"`
}

type TimeQuestion struct {
	Question         string  `json:"question"`
	Value            float64 `json:"value"`
	Section          string  `json:"section"`
	OutsideClassroom bool    `json:"outside_classroom"`
}

// TimePoint is a single time-spent value. IsTotal marks the per-semester
// classroom plus outside sum.
type TimePoint struct {
	SemesterCode     string  `json:"semester_code"`
	DisplayName      string  `json:"display_name"`
	ToolVersion      string  `json:"tool_version"`
	Term             string  `json:"term"`
	Year             int     `json:"year"`
	TimeValue        float64 `json:"time_value"`
	Question         string  `json:"question"`
	OutsideClassroom bool    `json:"outside_classroom,omitempty"`
	IsTotal          bool    `json:"is_total,omitempty"`
}

type VersionTime struct {
	AvgTime       float64 `json:"avg_time"`
	NumDataPoints int     `json:"num_data_points"`
}

type OverallRatingAnalysis struct {
	BySemester          map[string]SemesterRating `json:"by_semester"`
	ByToolVersion       map[string][]float64      `json:"by_tool_version"`
	Timeline            []RatingPoint             `json:"timeline"`
	AvgByToolVersion    map[string]VersionRating  `json:"avg_by_tool_version"`
	VersionChanges      []VersionChange           `json:"version_changes"`
	Changes             []SemesterChange          `json:"changes"`
	Trend               *stats.TrendResult        `json:"trend,omitempty"`
	CorrelationWithTime TimeRatingCorrelation     `json:"correlation_with_time"`
}

type SemesterRating struct {
	DisplayName     string           `json:"display_name"`
	ToolVersion     string           `json:"tool_version"`
	Term            string           `json:"term"`
	Year            int              `json:"year"`
	RatingQuestions []RatingQuestion `json:"rating_questions"`
	AvgRating       *float64         `json:"avg_rating,omitempty"`
	NumQuestions    int              `json:"num_questions"`
}

type RatingQuestion struct {
	Question string  `json:"question"`
	Value    float64 `json:"value"`
	Section  string  `json:"section"`
}

type RatingPoint struct {
	SemesterCode string   `json:"semester_code"`
	DisplayName  string   `json:"display_name"`
	ToolVersion  string   `json:"tool_version"`
	Term         string   `json:"term"`
	Year         int      `json:"year"`
	AvgRating    float64  `json:"avg_rating"`
	Questions    []string `json:"questions"`
}

type VersionRating struct {
	AvgRating    float64 `json:"avg_rating"`
	NumSemesters int     `json:"num_semesters"`
}

// TimeRatingCorrelation pairs total time spent with the overall rating of
// the same semester.
type TimeRatingCorrelation struct {
	PairedData  []TimeRatingPair         `json:"paired_data"`
	Correlation *stats.CorrelationResult `json:"correlation"`
}

type TimeRatingPair struct {
	Semester    string  `json:"semester"`
	TimeSpent   float64 `json:"time_spent"`
	Rating      float64 `json:"rating"`
	ToolVersion string  `json:"tool_version"`
}
