// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/orbitstats/internal/cohort"
	"github.com/tomtom215/orbitstats/internal/dates"
	"github.com/tomtom215/orbitstats/internal/ideas"
	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/models"
)

// ExportStats counts the rows written per table.
type ExportStats struct {
	Rows     map[string]int `json:"rows"`
	Duration time.Duration  `json:"duration"`
}

// Export replaces the contents of every table with the given data in a
// single transaction. periods assigns each user a cohort by creation date;
// users outside every period get an empty cohort.
func (db *DB) Export(ctx context.Context, ds *loader.Dataset, evals []models.CourseEvaluation, periods []cohort.Period) (*ExportStats, error) {
	if ds == nil {
		return nil, errors.New("export: nil dataset")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after Commit is a no-op returning ErrTxDone.
		_ = tx.Rollback()
	}()

	for _, table := range Tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	stats := &ExportStats{Rows: make(map[string]int, len(Tables))}
	writers := []struct {
		table string
		write func(context.Context, *sql.Tx) (int, error)
	}{
		{TableUsers, func(ctx context.Context, tx *sql.Tx) (int, error) { return insertUsers(ctx, tx, ds.Users, periods) }},
		{TableIdeas, func(ctx context.Context, tx *sql.Tx) (int, error) { return insertIdeas(ctx, tx, ds.Ideas) }},
		{TableSteps, func(ctx context.Context, tx *sql.Tx) (int, error) { return insertSteps(ctx, tx, ds.Steps) }},
		{TableEvaluations, func(ctx context.Context, tx *sql.Tx) (int, error) { return insertEvaluations(ctx, tx, evals) }},
		{TableCategories, func(ctx context.Context, tx *sql.Tx) (int, error) { return insertCategories(ctx, tx, ds.Ideas) }},
	}
	for _, w := range writers {
		tableStart := time.Now()
		n, err := w.write(ctx, tx)
		metrics.RecordExport("insert", w.table, n, time.Since(tableStart))
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", w.table, err)
		}
		stats.Rows[w.table] = n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit export: %w", err)
	}
	stats.Duration = time.Since(start)

	logging.Ctx(ctx).Info().
		Int("users", stats.Rows[TableUsers]).
		Int("ideas", stats.Rows[TableIdeas]).
		Int("steps", stats.Rows[TableSteps]).
		Int("evaluations", stats.Rows[TableEvaluations]).
		Int("categories", stats.Rows[TableCategories]).
		Dur("duration", stats.Duration).
		Msg("Export complete")
	return stats, nil
}

// nullTime parses a platform timestamp, NULL when absent or malformed.
func nullTime(s string) sql.NullTime {
	t, ok := dates.Parse(s)
	if !ok {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func insertUsers(ctx context.Context, tx *sql.Tx, users []models.User, periods []cohort.Period) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO users
		(id, email, user_type, institution, enrollments, created_at, last_login, cohort)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer closeQuietly(stmt)

	n := 0
	seen := make(map[string]struct{}, len(users))
	for i := range users {
		u := &users[i]
		if _, dup := seen[u.ID]; dup || u.ID == "" {
			continue
		}
		seen[u.ID] = struct{}{}

		institution := ""
		if u.Institution != nil {
			institution = u.Institution.Name
		}
		created := nullTime(u.CreatedDate)
		period := ""
		if created.Valid {
			period, _ = cohort.PeriodOf(periods, created.Time)
		}
		if _, err := stmt.ExecContext(ctx,
			u.ID, nullString(u.Email), nullString(u.Type), nullString(institution),
			strings.Join(u.Enrollments, ","), created, nullTime(u.LastLogin), nullString(period),
		); err != nil {
			return n, fmt.Errorf("user %s: %w", u.ID, err)
		}
		n++
	}
	return n, nil
}

func insertIdeas(ctx context.Context, tx *sql.Tx, list []models.Idea) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ideas
		(id, owner, title, created_at, frameworks, total_progress, de_progress, st_progress, steps_completed, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer closeQuietly(stmt)

	n := 0
	seen := make(map[string]struct{}, len(list))
	for i := range list {
		idea := &list[i]
		if _, dup := seen[idea.ID]; dup || idea.ID == "" {
			continue
		}
		seen[idea.ID] = struct{}{}
		if _, err := stmt.ExecContext(ctx,
			idea.ID, nullString(idea.Owner), idea.Title, nullTime(idea.CreatedDate),
			strings.Join(idea.Frameworks, ","), idea.TotalProgress, idea.DEProgress, idea.STProgress,
			idea.StepsCompleted, nullString(idea.Category),
		); err != nil {
			return n, fmt.Errorf("idea %s: %w", idea.ID, err)
		}
		n++
	}
	return n, nil
}

func insertSteps(ctx context.Context, tx *sql.Tx, steps []models.Step) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO steps
		(id, idea_id, owner, framework, step_name, created_at, word_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer closeQuietly(stmt)

	n := 0
	seen := make(map[string]struct{}, len(steps))
	for i := range steps {
		s := &steps[i]
		if _, dup := seen[s.ID]; dup || s.ID == "" {
			continue
		}
		seen[s.ID] = struct{}{}
		if _, err := stmt.ExecContext(ctx,
			s.ID, nullString(s.IdeaID), nullString(s.Owner), nullString(s.Framework),
			nullString(s.StepName), nullTime(s.CreatedAt), s.WordCount,
		); err != nil {
			return n, fmt.Errorf("step %s: %w", s.ID, err)
		}
		n++
	}
	return n, nil
}

// insertEvaluations writes one row per question that has a score.
func insertEvaluations(ctx context.Context, tx *sql.Tx, evals []models.CourseEvaluation) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO evaluations
		(course_id, semester_code, term, year, tool_version, section, question, score, responses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer closeQuietly(stmt)

	n := 0
	for i := range evals {
		ev := &evals[i]
		version := ev.ToolVersion
		if version == "" {
			version = models.ToolVersionNone
		}
		for _, section := range ev.Sections {
			for _, q := range section.Questions {
				if q.Avg == nil {
					continue
				}
				responses := sql.NullInt64{}
				if q.Responses != nil {
					responses = sql.NullInt64{Int64: int64(*q.Responses), Valid: true}
				}
				if _, err := stmt.ExecContext(ctx,
					ev.CourseID, ev.Semester.Code, ev.Semester.Term, ev.Semester.Year, version,
					section.Section, q.Question, *q.Avg, responses,
				); err != nil {
					return n, fmt.Errorf("evaluation %s: %w", ev.Semester.Code, err)
				}
				n++
			}
		}
	}
	return n, nil
}

// insertCategories writes the merged categorizer output. Ideas without a
// category are skipped.
func insertCategories(ctx context.Context, tx *sql.Tx, list []models.Idea) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO categories (idea_id, category, domain) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer closeQuietly(stmt)

	n := 0
	seen := make(map[string]struct{})
	for i := range list {
		idea := &list[i]
		if idea.ID == "" || idea.Category == "" || idea.Category == ideas.Uncategorized {
			continue
		}
		if _, dup := seen[idea.ID]; dup {
			continue
		}
		seen[idea.ID] = struct{}{}
		if _, err := stmt.ExecContext(ctx, idea.ID, idea.Category, ideas.DomainOf(idea.Category)); err != nil {
			return n, fmt.Errorf("category %s: %w", idea.ID, err)
		}
		n++
	}
	return n, nil
}
