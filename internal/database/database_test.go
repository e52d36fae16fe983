// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tomtom215/orbitstats/internal/cohort"
	"github.com/tomtom215/orbitstats/internal/config"
	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/models"
)

// testDBSemaphore serializes DuckDB instances across tests. Concurrent CGO
// database creation under -race has been seen to hang.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.ExportConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 1})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func ptr[T any](v T) *T { return &v }

func testDataset() *loader.Dataset {
	return &loader.Dataset{
		Users: []models.User{
			{ID: "u1", Email: "a@x.edu", CreatedDate: "2023-09-15T10:00:00Z", Type: "student", Institution: &models.Institution{Name: "MIT"}},
			{ID: "u2", Email: "b@x.edu", CreatedDate: "2024-02-10", Enrollments: []string{"15.390"}},
			{ID: "u3", Email: "c@x.edu", CreatedDate: "not a date"},
			{ID: "u1", Email: "dup@x.edu"},
		},
		Ideas: []models.Idea{
			{ID: "i1", Owner: "a@x.edu", Title: "Solar", CreatedDate: "2023-10-01T10:00:00Z", Frameworks: []string{models.FrameworkDE}, Category: "Energy"},
			{ID: "i2", Owner: "a@x.edu", Title: "Ledger", CreatedDate: "2023-10-20T10:00:00Z", Category: "Payments"},
			{ID: "i3", Owner: "b@x.edu", Title: "Clinic", CreatedDate: "2024-02-11T10:00:00Z", Category: "Uncategorized"},
			{ID: "i4", Owner: "b@x.edu", Title: "No date"},
		},
		Steps: []models.Step{
			{ID: "s1", IdeaID: "i1", Owner: "a@x.edu", Framework: models.FrameworkDE, CreatedAt: "2023-10-02T09:00:00Z"},
			{ID: "s2", IdeaID: "i1", Owner: "a@x.edu", Framework: models.FrameworkDE, CreatedAt: "2023-10-03T09:00:00Z"},
			{ID: "s3", IdeaID: "i3", Owner: "b@x.edu", Framework: models.FrameworkST},
			{ID: "", IdeaID: "i3"},
		},
	}
}

func testEvaluations() []models.CourseEvaluation {
	return []models.CourseEvaluation{
		{
			CourseID: "15.390",
			Semester: models.Semester{Term: "fall", Year: 2023, Code: "2023_fall"},
			Sections: []models.EvaluationSection{{
				Section: "Course",
				Questions: []models.EvaluationQuestion{
					{Question: "Overall", Avg: ptr(5.0), Responses: ptr(20)},
					{Question: "Unanswered"},
				},
			}},
		},
		{
			CourseID:    "15.390",
			Semester:    models.Semester{Term: "spring", Year: 2024, Code: "2024_spring"},
			ToolVersion: "v1",
			Sections: []models.EvaluationSection{{
				Section: "Course",
				Questions: []models.EvaluationQuestion{
					{Question: "Overall", Avg: ptr(6.0)},
					{Question: "Pace", Avg: ptr(5.0)},
				},
			}},
		},
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "orbitstats.duckdb")
	db, err := New(&config.ExportConfig{Path: path, Threads: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestExport(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	stats, err := db.Export(ctx, testDataset(), testEvaluations(), cohort.DefaultPeriods())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	want := map[string]int{
		TableUsers:       3,
		TableIdeas:       4,
		TableSteps:       3,
		TableEvaluations: 3,
		TableCategories:  2,
	}
	if diff := cmp.Diff(want, stats.Rows); diff != "" {
		t.Errorf("Export() rows mismatch (-want +got):\n%s", diff)
	}
	for table, n := range want {
		got, err := db.RowCount(ctx, table)
		if err != nil {
			t.Fatalf("RowCount(%s) error = %v", table, err)
		}
		if got != n {
			t.Errorf("RowCount(%s) = %d, want %d", table, got, n)
		}
	}
}

func TestExportReplacesPreviousSnapshot(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.Export(ctx, testDataset(), testEvaluations(), nil); err != nil {
		t.Fatalf("first Export() error = %v", err)
	}
	small := &loader.Dataset{Users: []models.User{{ID: "only"}}}
	if _, err := db.Export(ctx, small, nil, nil); err != nil {
		t.Fatalf("second Export() error = %v", err)
	}

	for _, table := range Tables {
		want := 0
		if table == TableUsers {
			want = 1
		}
		got, err := db.RowCount(ctx, table)
		if err != nil {
			t.Fatalf("RowCount(%s) error = %v", table, err)
		}
		if got != want {
			t.Errorf("RowCount(%s) = %d, want %d", table, got, want)
		}
	}
}

func TestExportNilDataset(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.Export(context.Background(), nil, nil, nil); err == nil {
		t.Error("Export(nil) expected error")
	}
}

func TestSummaries(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.Export(ctx, testDataset(), testEvaluations(), cohort.DefaultPeriods()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	got, err := db.Summaries(ctx)
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}

	if diff := cmp.Diff([]Count{{"2023-10", 2}, {"2024-02", 1}}, got.IdeasPerMonth); diff != "" {
		t.Errorf("IdeasPerMonth mismatch (-want +got):\n%s", diff)
	}
	wantSteps := []Count{{models.FrameworkDE, 2}, {models.FrameworkST, 1}}
	if diff := cmp.Diff(wantSteps, got.StepsPerFramework); diff != "" {
		t.Errorf("StepsPerFramework mismatch (-want +got):\n%s", diff)
	}
	wantScores := []VersionScore{
		{ToolVersion: "none", AvgScore: 5, Questions: 1},
		{ToolVersion: "v1", AvgScore: 5.5, Questions: 2},
	}
	if diff := cmp.Diff(wantScores, got.ScoreByToolVersion, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("ScoreByToolVersion mismatch (-want +got):\n%s", diff)
	}
	if len(got.IdeasPerDomain) != 2 {
		t.Errorf("IdeasPerDomain = %v, want 2 domains", got.IdeasPerDomain)
	}
}

func TestSummariesEmpty(t *testing.T) {
	db := setupTestDB(t)
	got, err := db.Summaries(context.Background())
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}
	want := &Summary{
		IdeasPerMonth:      []Count{},
		StepsPerFramework:  []Count{},
		ScoreByToolVersion: []VersionScore{},
		UsersPerCohort:     []Count{},
		IdeasPerDomain:     []Count{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summaries() mismatch (-want +got):\n%s", diff)
	}
}

func TestRowCountUnknownTable(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.RowCount(context.Background(), "users; DROP TABLE ideas"); err == nil {
		t.Error("RowCount() expected error for unknown table")
	}
}
