// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/orbitstats/internal/config"
	"github.com/tomtom215/orbitstats/internal/loader"
)

const (
	testUsers = `[
  {"id": "u1", "email": "a@mit.edu", "created": {"$date": "2024-09-03T10:00:00Z"}, "last_login": {"$date": "2025-01-20T10:00:00Z"}, "type": "student"},
  {"id": "u2", "email": "b@mit.edu", "created": {"$date": "2024-09-05T10:00:00Z"}, "type": "student"}
]`
	testIdeas = `[
  {"_id": "i1", "title": "Solar kiosks", "created": {"$date": "2024-10-01T12:00:00Z"}, "owner": "a@mit.edu"},
  {"_id": "i2", "title": "Pet sitting marketplace", "created": {"$date": "2024-10-03T12:00:00Z"}, "owner": "b@mit.edu"},
  {"_id": "i3", "title": "Clinic scheduling", "created": {"$date": "2024-10-05T12:00:00Z"}, "owner": "b@mit.edu"}
]`
	testSteps = `[
  {"_id": "s1", "idea_id": "i1", "owner": "a@mit.edu", "framework": "disciplined-entrepreneurship", "step": "market-segmentation", "content": "campus", "created_at": {"$date": "2024-10-02T09:00:00Z"}}
]`
)

// withTestConfig points the package level cfg at a fresh data directory and
// captures stdout.
func withTestConfig(t *testing.T) *bytes.Buffer {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"users.json": testUsers,
		"ideas.json": testIdeas,
		"steps.json": testSteps,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	out := filepath.Join(dir, "output")
	cfg = &config.Config{
		Data: config.DataConfig{
			Dir:       dir,
			UsersFile: "users.json",
			IdeasFile: "ideas.json",
			StepsFile: "steps.json",
		},
		Output: config.OutputConfig{Dir: out},
		Analysis: config.AnalysisConfig{
			ReferenceDate: "2025-02-04",
			ActiveDays:    90,
			Timeout:       time.Minute,
		},
		Categorize: config.CategorizeConfig{
			Model:      "gemini-2.5-flash",
			BatchMode:  "size",
			BatchSize:  2,
			MaxWorkers: 2,
			MaxRetries: 1,
			CachePath:  filepath.Join(out, "cache"),
			DryRun:     true,
		},
	}

	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() {
		stdout = prev
		cfg = nil
	})
	return &buf
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	defer func() { stdout = prev }()

	if err := versionCmd.RunE(versionCmd, nil); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "orbitstats dev (commit unknown") {
		t.Errorf("version output = %q", got)
	}
}

func TestRunCategorizeDryRun(t *testing.T) {
	withTestConfig(t)
	categorizeOutputDir = ""

	if err := runCategorize(context.Background()); err != nil {
		t.Fatalf("runCategorize() error = %v", err)
	}

	latest := filepath.Join(cfg.Output.Dir, "categorization", latestCategorizedFile)
	got, err := loader.LoadCategorized(latest)
	if err != nil {
		t.Fatalf("LoadCategorized() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("categorized %d ideas, want 3", len(got))
	}
	for _, c := range got {
		if c.Category == "" {
			t.Errorf("idea %s has no category", c.ID)
		}
	}

	// The second run is answered from the cache and must agree.
	if err := runCategorize(context.Background()); err != nil {
		t.Fatalf("second runCategorize() error = %v", err)
	}
	again, err := loader.LoadCategorized(latest)
	if err != nil {
		t.Fatalf("LoadCategorized() error = %v", err)
	}
	for i := range got {
		if got[i] != again[i] {
			t.Errorf("idea %d: first %+v, second %+v", i, got[i], again[i])
		}
	}
}

func TestRunPipelineThenReport(t *testing.T) {
	buf := withTestConfig(t)
	cfg.Analysis.Components = []string{"demographics", "usage"}

	if err := runPipeline(context.Background(), false); err != nil {
		t.Fatalf("runPipeline() error = %v", err)
	}
	latest := filepath.Join(cfg.Output.ResultsPath(), "combined", "analysis_results_combined_latest.json")
	if _, err := os.Stat(latest); err != nil {
		t.Fatalf("latest results missing: %v", err)
	}

	buf.Reset()
	reportStyle = "notty"
	defer func() { reportStyle = "" }()
	if err := reportCmd.RunE(reportCmd, nil); err != nil {
		t.Fatalf("report error = %v", err)
	}
	if !strings.Contains(buf.String(), "Total users") {
		t.Errorf("report output missing user section:\n%s", buf.String())
	}
}
