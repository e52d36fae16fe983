// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

/*
schema.go - Export Schema

Tables:
  - users: one row per account, with the semester cohort its creation date falls in
  - ideas: one row per idea, frameworks as a comma-separated list
  - steps: one row per framework step submission
  - evaluations: one row per scored survey question
  - categories: one row per categorized idea with its domain

Timestamps that fail to parse are stored as NULL.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// Table names, in export order.
const (
	TableUsers       = "users"
	TableIdeas       = "ideas"
	TableSteps       = "steps"
	TableEvaluations = "evaluations"
	TableCategories  = "categories"
)

// Tables lists every export table.
var Tables = []string{TableUsers, TableIdeas, TableSteps, TableEvaluations, TableCategories}

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR PRIMARY KEY,
			email VARCHAR,
			user_type VARCHAR,
			institution VARCHAR,
			enrollments VARCHAR,
			created_at TIMESTAMP,
			last_login TIMESTAMP,
			cohort VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS ideas (
			id VARCHAR PRIMARY KEY,
			owner VARCHAR,
			title VARCHAR,
			created_at TIMESTAMP,
			frameworks VARCHAR,
			total_progress DOUBLE,
			de_progress DOUBLE,
			st_progress DOUBLE,
			steps_completed INTEGER,
			category VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS steps (
			id VARCHAR PRIMARY KEY,
			idea_id VARCHAR,
			owner VARCHAR,
			framework VARCHAR,
			step_name VARCHAR,
			created_at TIMESTAMP,
			word_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS evaluations (
			course_id VARCHAR,
			semester_code VARCHAR,
			term VARCHAR,
			year INTEGER,
			tool_version VARCHAR,
			section VARCHAR,
			question VARCHAR,
			score DOUBLE,
			responses INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			idea_id VARCHAR PRIMARY KEY,
			category VARCHAR,
			domain VARCHAR
		)`,
	}
}
