// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package models

import "time"

// Result keys of the combined analysis file.
const (
	ResultUsers       = "user_analysis"
	ResultActivity    = "activity_analysis"
	ResultIdeas       = "idea_analysis"
	ResultEvaluations = "course_evaluations"
	ResultCohorts     = "cohort_analysis"
	ResultTeams       = "team_analysis"
)

// AnalysisResults is the combined output of a pipeline run. Components
// that did not run are nil.
type AnalysisResults struct {
	Users       *UserAnalysis         `json:"user_analysis,omitempty"`
	Activity    *ActivityAnalysis     `json:"activity_analysis,omitempty"`
	Ideas       *IdeaCategoryAnalysis `json:"idea_analysis,omitempty"`
	Evaluations *EvaluationAnalysis   `json:"course_evaluations,omitempty"`
	Cohorts     *CohortAnalysis       `json:"cohort_analysis,omitempty"`
	Teams       *TeamAnalysis         `json:"team_analysis,omitempty"`
}

// Components returns the non-nil component results keyed by result key.
func (r *AnalysisResults) Components() map[string]any {
	out := make(map[string]any, 6)
	if r.Users != nil {
		out[ResultUsers] = r.Users
	}
	if r.Activity != nil {
		out[ResultActivity] = r.Activity
	}
	if r.Ideas != nil {
		out[ResultIdeas] = r.Ideas
	}
	if r.Evaluations != nil {
		out[ResultEvaluations] = r.Evaluations
	}
	if r.Cohorts != nil {
		out[ResultCohorts] = r.Cohorts
	}
	if r.Teams != nil {
		out[ResultTeams] = r.Teams
	}
	return out
}

// RunPerformance records the timing of a pipeline run. Durations are in
// seconds.
type RunPerformance struct {
	RunID           string             `json:"run_id"`
	StartTime       time.Time          `json:"start_time"`
	EndTime         time.Time          `json:"end_time"`
	TotalRuntime    float64            `json:"total_runtime"`
	ComponentTimes  map[string]float64 `json:"component_times"`
	ComponentErrors map[string]string  `json:"component_errors,omitempty"`
}
