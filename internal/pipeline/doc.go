// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package pipeline orchestrates an analysis run.
//
// A run loads users, ideas and steps, applies the configured filters, loads
// the optional inputs of the selected components and then runs the
// components concurrently:
//
//   - user: demographics and account activity
//   - activity: idea generation, engagement and process flow
//   - idea: category distribution; needs a categorized ideas file
//   - course_eval: survey comparisons; needs course_evaluations enabled
//   - cohort: semester and usage cohorts
//   - team: team engagement; needs relationship maps
//
// A component without its input is skipped, not failed. A failing component
// is recorded in the run's performance metrics and the remaining components
// still complete.
//
// Selective runs accept aliases: demographics, usage, engagement,
// categorization, course_evaluations, cohorts and teams.
package pipeline
