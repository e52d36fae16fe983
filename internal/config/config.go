// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration
type Config struct {
	Data       DataConfig       `koanf:"data"`
	Output     OutputConfig     `koanf:"output"`
	Analysis   AnalysisConfig   `koanf:"analysis"`
	Categorize CategorizeConfig `koanf:"categorize"`
	Export     ExportConfig     `koanf:"export"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// DataConfig locates the input datasets.
// Relative file names resolve against Dir.
type DataConfig struct {
	Dir                  string `koanf:"dir" validate:"required"`
	UsersFile            string `koanf:"users_file" validate:"required"`
	IdeasFile            string `koanf:"ideas_file" validate:"required"`
	StepsFile            string `koanf:"steps_file" validate:"required"`
	CategorizedIdeasFile string `koanf:"categorized_ideas_file"`
	CourseEvalDir        string `koanf:"course_eval_dir"`
	RelationshipDir      string `koanf:"relationship_dir"`
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	Dir             string `koanf:"dir" validate:"required"`
	ResultsDir      string `koanf:"results_dir"`
	MetricsTextfile string `koanf:"metrics_textfile"`
	Summary         bool   `koanf:"summary"`
}

// AnalysisConfig controls which analyses run and over which records.
type AnalysisConfig struct {
	// Components limits the run to the named analyzers; empty runs all.
	Components []string `koanf:"components"`

	// ReferenceDate anchors "days since" computations (YYYY-MM-DD).
	ReferenceDate string `koanf:"reference_date" validate:"required,isodate"`

	// ActiveDays is the login recency window for an active user.
	ActiveDays int `koanf:"active_days" validate:"gte=1"`

	CourseEvaluations bool `koanf:"course_evaluations"`

	// Filters applied to users, ideas and steps before analysis.
	CourseCode string `koanf:"course_code"`
	UserType   string `koanf:"user_type"`
	MinIdeas   int    `koanf:"min_ideas" validate:"gte=0"`
	MinSteps   int    `koanf:"min_steps" validate:"gte=0"`
	StartDate  string `koanf:"start_date" validate:"omitempty,isodate"`
	EndDate    string `koanf:"end_date" validate:"omitempty,isodate"`

	// Cohorts overrides the built-in semester windows.
	Cohorts []CohortWindow `koanf:"cohorts" validate:"dive"`

	// Timeout bounds the whole analysis run.
	Timeout time.Duration `koanf:"timeout"`
}

// CohortWindow is one semester cohort definition.
type CohortWindow struct {
	Name        string `koanf:"name" validate:"required"`
	Start       string `koanf:"start" validate:"required,isodate"`
	End         string `koanf:"end" validate:"required,isodate"` // inclusive
	ToolVersion string `koanf:"tool_version"`
	Sections    int    `koanf:"sections" validate:"gte=0"`
}

// CategorizeConfig configures LLM idea categorization.
type CategorizeConfig struct {
	APIKey        string `koanf:"api_key"`
	Model         string `koanf:"model" validate:"required"`
	BatchMode     string `koanf:"batch_mode" validate:"oneof=text size"`
	BatchSize     int    `koanf:"batch_size" validate:"gte=1"`
	MaxWorkers    int    `koanf:"max_workers" validate:"gte=1,lte=32"`
	MaxRetries    int    `koanf:"max_retries" validate:"gte=0,lte=10"`
	MaxOutputToks int32  `koanf:"max_output_tokens" validate:"gte=256"`

	// RequestsPerMinute caps the request rate across workers.
	RequestsPerMinute int           `koanf:"requests_per_minute" validate:"gte=1"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`

	// CachePath is a badger directory holding finished categorizations;
	// empty keeps results in memory only.
	CachePath string `koanf:"cache_path"`

	// DryRun assigns deterministic categories without calling the model.
	DryRun bool `koanf:"dry_run"`

	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold" validate:"gte=1"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
}

// ExportConfig configures the DuckDB analytics export.
type ExportConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Caller bool   `koanf:"caller"` // Include caller file:line
}

// Resolve returns path unchanged when absolute or empty, otherwise joined to dir.
func Resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// UsersPath returns the resolved users file path.
func (d DataConfig) UsersPath() string { return Resolve(d.Dir, d.UsersFile) }

// IdeasPath returns the resolved ideas file path.
func (d DataConfig) IdeasPath() string { return Resolve(d.Dir, d.IdeasFile) }

// StepsPath returns the resolved steps file path.
func (d DataConfig) StepsPath() string { return Resolve(d.Dir, d.StepsFile) }

// CategorizedPath returns the resolved categorized ideas path, or "".
func (d DataConfig) CategorizedPath() string { return Resolve(d.Dir, d.CategorizedIdeasFile) }

// CourseEvalPath returns the resolved course evaluation directory.
func (d DataConfig) CourseEvalPath() string { return Resolve(d.Dir, d.CourseEvalDir) }

// RelationshipPath returns the resolved relationship directory.
func (d DataConfig) RelationshipPath() string { return Resolve(d.Dir, d.RelationshipDir) }

// ResultsPath returns the directory for analysis results.
func (o OutputConfig) ResultsPath() string {
	if o.ResultsDir == "" {
		return filepath.Join(o.Dir, "analysis_results")
	}
	return Resolve(o.Dir, o.ResultsDir)
}

// ReferenceTime parses ReferenceDate as midnight UTC.
func (a AnalysisConfig) ReferenceTime() time.Time {
	t, err := time.Parse("2006-01-02", a.ReferenceDate)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
