// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package models

// ToolVersionNone marks semesters taught without the tool.
const ToolVersionNone = "none"

// CourseEvaluation is one semester's survey results for a course.
type CourseEvaluation struct {
	CourseID    string              `json:"course_id" validate:"required"`
	Semester    Semester            `json:"semester" validate:"required"`
	ToolVersion string              `json:"tool_version"`
	Sections    []EvaluationSection `json:"evaluation_metrics" validate:"required,min=1,dive"`
	Overall     OverallMetrics      `json:"overall_metrics"`
}

// Semester identifies a term. Code is "YYYY_term" and DisplayName "Term YYYY".
type Semester struct {
	Term        string `json:"term" validate:"required,oneof=fall spring summer winter"`
	Year        int    `json:"year" validate:"gte=2000,lte=2100"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Order       int    `json:"order"`
}

type EvaluationSection struct {
	Section   string               `json:"section" validate:"required"`
	Questions []EvaluationQuestion `json:"questions"`
}

// EvaluationQuestion is one scored survey question. Avg is nil when the
// question had no responses.
type EvaluationQuestion struct {
	Question  string   `json:"question"`
	Avg       *float64 `json:"avg"`
	Median    *float64 `json:"median,omitempty"`
	StdDev    *float64 `json:"std_dev,omitempty"`
	Responses *int     `json:"responses,omitempty"`
}

type OverallMetrics struct {
	OverallAvg      *float64           `json:"overall_avg"`
	SectionAverages map[string]float64 `json:"section_averages"`
	TotalQuestions  int                `json:"total_questions"`
	ValidScores     int                `json:"valid_scores"`
}

// SortKey orders semesters chronologically.
func (s Semester) SortKey() int {
	return s.Year*10 + s.Order
}
