// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/orbitstats/internal/metrics"
)

// Count is a labelled row count.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// VersionScore is the mean evaluation score of one tool version.
type VersionScore struct {
	ToolVersion string  `json:"tool_version"`
	AvgScore    float64 `json:"avg_score"`
	Questions   int     `json:"questions"`
}

// Summary holds the aggregates computed over an export.
type Summary struct {
	IdeasPerMonth      []Count        `json:"ideas_per_month"`
	StepsPerFramework  []Count        `json:"steps_per_framework"`
	ScoreByToolVersion []VersionScore `json:"score_by_tool_version"`
	UsersPerCohort     []Count        `json:"users_per_cohort"`
	IdeasPerDomain     []Count        `json:"ideas_per_domain"`
}

// Summaries runs the aggregate queries over the exported tables. Rows with
// a NULL grouping key are left out.
func (db *DB) Summaries(ctx context.Context) (*Summary, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		s   Summary
		err error
	)
	if s.IdeasPerMonth, err = db.counts(ctx, TableIdeas, `
		SELECT strftime(created_at, '%Y-%m') AS month, COUNT(*)
		FROM ideas
		WHERE created_at IS NOT NULL
		GROUP BY month
		ORDER BY month`); err != nil {
		return nil, fmt.Errorf("ideas per month: %w", err)
	}
	if s.StepsPerFramework, err = db.counts(ctx, TableSteps, `
		SELECT framework, COUNT(*) AS n
		FROM steps
		WHERE framework IS NOT NULL
		GROUP BY framework
		ORDER BY n DESC, framework`); err != nil {
		return nil, fmt.Errorf("steps per framework: %w", err)
	}
	if s.ScoreByToolVersion, err = db.versionScores(ctx); err != nil {
		return nil, fmt.Errorf("score by tool version: %w", err)
	}
	if s.UsersPerCohort, err = db.counts(ctx, TableUsers, `
		SELECT cohort, COUNT(*)
		FROM users
		WHERE cohort IS NOT NULL
		GROUP BY cohort
		ORDER BY cohort`); err != nil {
		return nil, fmt.Errorf("users per cohort: %w", err)
	}
	if s.IdeasPerDomain, err = db.counts(ctx, TableCategories, `
		SELECT domain, COUNT(*) AS n
		FROM categories
		GROUP BY domain
		ORDER BY n DESC, domain`); err != nil {
		return nil, fmt.Errorf("ideas per domain: %w", err)
	}
	return &s, nil
}

func (db *DB) counts(ctx context.Context, table, query string) ([]Count, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	out := []Count{}
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	metrics.RecordExport("summary", table, 0, time.Since(start))
	return out, nil
}

func (db *DB) versionScores(ctx context.Context) ([]VersionScore, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT tool_version, AVG(score), COUNT(*)
		FROM evaluations
		GROUP BY tool_version
		ORDER BY tool_version`)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	out := []VersionScore{}
	for rows.Next() {
		var (
			v   VersionScore
			avg sql.NullFloat64
		)
		if err := rows.Scan(&v.ToolVersion, &avg, &v.Questions); err != nil {
			return nil, err
		}
		v.AvgScore = avg.Float64
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	metrics.RecordExport("summary", TableEvaluations, 0, time.Since(start))
	return out, nil
}

// RowCount returns the number of rows in one export table.
func (db *DB) RowCount(ctx context.Context, table string) (int, error) {
	known := false
	for _, t := range Tables {
		if t == table {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
