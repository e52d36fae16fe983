// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

/*
Package models defines data structures for the Orbitstats application.

This package contains the normalized input records produced by the loader
and the result documents produced by the analyzers. Result types carry the
JSON tags of the files written to the results directory, so this package is
the single source of truth for the output schema.

Key Components:

  - User, Idea, Step: normalized platform records
  - CategorizedIdea: categorizer output joined onto ideas by ID
  - CourseEvaluation: one semester of survey results for a course
  - Relationships: team, section and term maps used by team analysis
  - AnalysisResults: the combined document of one analysis run

Model Categories:

1. Input Records:
  - User: account, affiliation and enrollment data
  - Idea: owner, frameworks, progress and completed step count
  - Step: one framework step with its content word count
  - CourseEvaluation: sections of questions with average scores

2. Result Documents:
  - UserAnalysis: demographics, login recency and per-user activity
  - ActivityAnalysis: idea generation, engagement, completion and sessions
  - IdeaCategoryAnalysis: category and domain distributions
  - EvaluationAnalysis: semester and tool-version comparisons
  - CohortAnalysis: semester and usage cohorts
  - TeamAnalysis: team engagement and work distribution

3. Run Metadata:
  - RunPerformance: per-component timings and errors

Usage Example:

	import "github.com/tomtom215/orbitstats/internal/models"

	results := models.AnalysisResults{Users: userAnalysis}
	for name, doc := range results.Components() {
	    fmt.Println(name, doc != nil)
	}

Thread Safety:

Models are plain values without internal synchronization. Analyzers build a
result once and never mutate it after returning.
*/
package models
