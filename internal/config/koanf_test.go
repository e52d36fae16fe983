// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Data.Dir != "data" {
		t.Errorf("Data.Dir = %q, want data", cfg.Data.Dir)
	}
	if cfg.Data.UsersFile != "users.json" {
		t.Errorf("Data.UsersFile = %q, want users.json", cfg.Data.UsersFile)
	}
	if cfg.Data.CategorizedIdeasFile != "" {
		t.Errorf("Data.CategorizedIdeasFile should be empty by default, got %q", cfg.Data.CategorizedIdeasFile)
	}
	if cfg.Analysis.ReferenceDate != "2025-02-04" {
		t.Errorf("Analysis.ReferenceDate = %q, want 2025-02-04", cfg.Analysis.ReferenceDate)
	}
	if cfg.Analysis.ActiveDays != 90 {
		t.Errorf("Analysis.ActiveDays = %d, want 90", cfg.Analysis.ActiveDays)
	}
	if !cfg.Analysis.CourseEvaluations {
		t.Error("Analysis.CourseEvaluations should be true by default")
	}
	if cfg.Categorize.BatchSize != 1000 {
		t.Errorf("Categorize.BatchSize = %d, want 1000", cfg.Categorize.BatchSize)
	}
	if cfg.Categorize.MaxWorkers != 2 {
		t.Errorf("Categorize.MaxWorkers = %d, want 2", cfg.Categorize.MaxWorkers)
	}
	if cfg.Categorize.BreakerTimeout != 30*time.Second {
		t.Errorf("Categorize.BreakerTimeout = %v, want 30s", cfg.Categorize.BreakerTimeout)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AI_THESIS_DATA_DIR", "data.dir"},
		{"AI_THESIS_USER_DATA", "data.users_file"},
		{"AI_THESIS_CATEGORIZED_IDEA_DATA", "data.categorized_ideas_file"},
		{"AI_THESIS_COURSE_EVAL_DIR", "data.course_eval_dir"},
		{"AI_THESIS_OUTPUT_DIR", "output.dir"},
		{"AI_THESIS_COMPONENTS", "analysis.components"},
		{"AI_THESIS_MODEL", "categorize.model"},
		{"AI_THESIS_BATCH_SIZE", "categorize.batch_size"},
		{"AI_THESIS_MAX_WORKERS", "categorize.max_workers"},
		{"GEMINI_API_KEY", "categorize.api_key"},
		{"AI_THESIS_DUCKDB_PATH", "export.path"},
		{"AI_THESIS_LOG_LEVEL", "logging.level"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		writeFile(t, filepath.Join(tmpDir, "config.yaml"), "data:\n  dir: x\n")
		defer os.Remove(filepath.Join(tmpDir, "config.yaml"))

		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		writeFile(t, customPath, "data:\n  dir: x\n")
		t.Setenv(ConfigPathEnvVar, customPath)

		if got := findConfigFile(); got != customPath {
			t.Errorf("findConfigFile() = %q, want %q", got, customPath)
		}
	})

	t.Run("CONFIG_PATH with non-existent file falls back", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

// TestLoadEnvVars tests loading configuration from environment variables
func TestLoadEnvVars(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("AI_THESIS_DATA_DIR", "/srv/orbit/data")
	t.Setenv("AI_THESIS_BATCH_SIZE", "500")
	t.Setenv("AI_THESIS_COMPONENTS", "user, activity ,cohort")
	t.Setenv("AI_THESIS_LOG_LEVEL", "debug")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Data.Dir != "/srv/orbit/data" {
		t.Errorf("Data.Dir = %q, want /srv/orbit/data", cfg.Data.Dir)
	}
	if cfg.Data.UsersPath() != "/srv/orbit/data/users.json" {
		t.Errorf("UsersPath() = %q", cfg.Data.UsersPath())
	}
	if cfg.Categorize.BatchSize != 500 {
		t.Errorf("Categorize.BatchSize = %d, want 500", cfg.Categorize.BatchSize)
	}
	if got := strings.Join(cfg.Analysis.Components, ","); got != "user,activity,cohort" {
		t.Errorf("Analysis.Components = %q, want user,activity,cohort", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Categorize.APIKey != "test-key" {
		t.Errorf("Categorize.APIKey = %q, want test-key", cfg.Categorize.APIKey)
	}

	// Defaults survive for unset values
	if cfg.Export.MaxMemory != "1GB" {
		t.Errorf("Export.MaxMemory = %q, want 1GB (default)", cfg.Export.MaxMemory)
	}
}

// TestLoadConfigFile tests loading configuration from a YAML file with env overrides
func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv(ConfigPathEnvVar, "")

	path := filepath.Join(tmpDir, "orbit.yaml")
	writeFile(t, path, `
data:
  dir: ./fixtures
  categorized_ideas_file: categorized.json
analysis:
  reference_date: "2024-12-31"
  cohorts:
    - name: fall_2024
      start: "2024-09-01"
      end: "2024-12-15"
      tool_version: v2
      sections: 2
categorize:
  max_workers: 4
logging:
  level: warn
`)
	t.Setenv("AI_THESIS_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Data.CategorizedPath() != filepath.Join("fixtures", "categorized.json") {
		t.Errorf("CategorizedPath() = %q", cfg.Data.CategorizedPath())
	}
	if cfg.Analysis.ReferenceDate != "2024-12-31" {
		t.Errorf("ReferenceDate = %q, want 2024-12-31", cfg.Analysis.ReferenceDate)
	}
	if len(cfg.Analysis.Cohorts) != 1 {
		t.Fatalf("expected 1 cohort, got %d", len(cfg.Analysis.Cohorts))
	}
	c := cfg.Analysis.Cohorts[0]
	if c.Name != "fall_2024" || c.ToolVersion != "v2" || c.Sections != 2 {
		t.Errorf("unexpected cohort %+v", c)
	}
	if cfg.Categorize.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.Categorize.MaxWorkers)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("env should override file: Logging.Level = %q, want error", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad reference date",
			mutate:  func(c *Config) { c.Analysis.ReferenceDate = "02/04/2025" },
			wantErr: "ReferenceDate must be a date in YYYY-MM-DD format",
		},
		{
			name: "start after end",
			mutate: func(c *Config) {
				c.Analysis.StartDate = "2024-06-01"
				c.Analysis.EndDate = "2024-01-01"
			},
			wantErr: "is after end_date",
		},
		{
			name: "duplicate cohort",
			mutate: func(c *Config) {
				w := CohortWindow{Name: "a", Start: "2024-01-01", End: "2024-02-01"}
				c.Analysis.Cohorts = []CohortWindow{w, w}
			},
			wantErr: "duplicate cohort",
		},
		{
			name: "cohort ends before start",
			mutate: func(c *Config) {
				c.Analysis.Cohorts = []CohortWindow{{Name: "a", Start: "2024-03-01", End: "2024-02-01"}}
			},
			wantErr: "ends before it starts",
		},
		{
			name:    "bad batch mode",
			mutate:  func(c *Config) { c.Categorize.BatchMode = "tokens" },
			wantErr: "BatchMode must be one of: text size",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Categorize.MaxWorkers = 0 },
			wantErr: "MaxWorkers must be greater than or equal to 1",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL must be one of",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	c := defaultConfig().Categorize
	if err := c.RequireAPIKey(); err == nil {
		t.Error("expected error without API key")
	}
	c.DryRun = true
	if err := c.RequireAPIKey(); err != nil {
		t.Errorf("dry run should not need a key, got %v", err)
	}
}

func TestPaths(t *testing.T) {
	d := DataConfig{Dir: "/data", UsersFile: "/abs/users.json", IdeasFile: "ideas.json"}
	if d.UsersPath() != "/abs/users.json" {
		t.Errorf("absolute path should be kept, got %q", d.UsersPath())
	}
	if d.IdeasPath() != "/data/ideas.json" {
		t.Errorf("relative path should join dir, got %q", d.IdeasPath())
	}
	if d.CategorizedPath() != "" {
		t.Errorf("empty path should stay empty, got %q", d.CategorizedPath())
	}

	o := OutputConfig{Dir: "/out"}
	if o.ResultsPath() != "/out/analysis_results" {
		t.Errorf("ResultsPath() = %q", o.ResultsPath())
	}

	a := AnalysisConfig{ReferenceDate: "2025-02-04"}
	if got := a.ReferenceTime(); !got.Equal(time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ReferenceTime() = %v", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
