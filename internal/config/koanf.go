// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/orbitstats/config.yaml",
	"/etc/orbitstats/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:                  "data",
			UsersFile:            "users.json",
			IdeasFile:            "ideas.json",
			StepsFile:            "steps.json",
			CategorizedIdeasFile: "", // idea analysis runs only when set
			CourseEvalDir:        "course_evaluations",
			RelationshipDir:      "relationships",
		},
		Output: OutputConfig{
			Dir:             "output",
			ResultsDir:      "",
			MetricsTextfile: "",
			Summary:         true,
		},
		Analysis: AnalysisConfig{
			Components:        []string{},
			ReferenceDate:     "2025-02-04",
			ActiveDays:        90,
			CourseEvaluations: true,
			Timeout:           10 * time.Minute,
		},
		Categorize: CategorizeConfig{
			APIKey:                  "",
			Model:                   "gemini-2.5-flash",
			BatchMode:               "text",
			BatchSize:               1000, // characters of idea titles per batch in text mode
			MaxWorkers:              2,
			MaxRetries:              3,
			MaxOutputToks:           8192,
			RequestsPerMinute:       60,
			RequestTimeout:          2 * time.Minute,
			CachePath:               "output/categorization/cache",
			DryRun:                  false,
			BreakerFailureThreshold: 5,
			BreakerTimeout:          30 * time.Second,
		},
		Export: ExportConfig{
			Path:      "output/orbitstats.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = DuckDB default
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Load reads configuration from defaults, the config file and the environment,
// then validates it. An explicit path takes precedence over discovery.
func Load(path string) (*Config, error) {
	k, err := loadKoanf(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadKoanf(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	return k, nil
}

// findConfigFile returns the first config file found, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists keys that accept comma-separated env values.
var sliceConfigPaths = []string{
	"analysis.components",
}

// processSliceFields converts comma-separated strings into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to config keys.
// The AI_THESIS_* names are kept so existing shell setups keep working.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"ai_thesis_data_dir":              "data.dir",
		"ai_thesis_user_data":             "data.users_file",
		"ai_thesis_idea_data":             "data.ideas_file",
		"ai_thesis_step_data":             "data.steps_file",
		"ai_thesis_categorized_idea_data": "data.categorized_ideas_file",
		"ai_thesis_course_eval_dir":       "data.course_eval_dir",
		"ai_thesis_relationship_dir":      "data.relationship_dir",
		"ai_thesis_output_dir":            "output.dir",
		"ai_thesis_analysis_results_dir":  "output.results_dir",
		"ai_thesis_metrics_textfile":      "output.metrics_textfile",
		"ai_thesis_components":            "analysis.components",
		"ai_thesis_reference_date":        "analysis.reference_date",
		"ai_thesis_active_days":           "analysis.active_days",
		"ai_thesis_course_evaluations":    "analysis.course_evaluations",
		"ai_thesis_course_code":           "analysis.course_code",
		"ai_thesis_user_type":             "analysis.user_type",
		"ai_thesis_min_ideas":             "analysis.min_ideas",
		"ai_thesis_min_steps":             "analysis.min_steps",
		"ai_thesis_start_date":            "analysis.start_date",
		"ai_thesis_end_date":              "analysis.end_date",
		"ai_thesis_model":                 "categorize.model",
		"ai_thesis_batch_mode":            "categorize.batch_mode",
		"ai_thesis_batch_size":            "categorize.batch_size",
		"ai_thesis_max_workers":           "categorize.max_workers",
		"ai_thesis_max_retries":           "categorize.max_retries",
		"ai_thesis_requests_per_minute":   "categorize.requests_per_minute",
		"ai_thesis_categorize_cache":      "categorize.cache_path",
		"ai_thesis_dry_run":               "categorize.dry_run",
		"gemini_api_key":                  "categorize.api_key",
		"google_api_key":                  "categorize.api_key",
		"ai_thesis_duckdb_path":           "export.path",
		"ai_thesis_duckdb_max_memory":     "export.max_memory",
		"ai_thesis_log_level":             "logging.level",
		"ai_thesis_log_format":            "logging.format",
		"ai_thesis_log_caller":            "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables never leak into config.
	return ""
}
