// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/orbitstats/internal/validation"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateAnalysis(); err != nil {
		return err
	}

	if err := c.validateCategorize(); err != nil {
		return err
	}

	if err := c.validateExport(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateData() error {
	if err := validation.ValidateStruct(&c.Data); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	return nil
}

// validateAnalysis validates the analysis window, filters and cohort windows
func (c *Config) validateAnalysis() error {
	if err := validation.ValidateStruct(&c.Analysis); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	if c.Analysis.StartDate != "" && c.Analysis.EndDate != "" && c.Analysis.StartDate > c.Analysis.EndDate {
		return fmt.Errorf("analysis: start_date %s is after end_date %s", c.Analysis.StartDate, c.Analysis.EndDate)
	}

	seen := make(map[string]bool, len(c.Analysis.Cohorts))
	for _, w := range c.Analysis.Cohorts {
		if seen[w.Name] {
			return fmt.Errorf("analysis: duplicate cohort %q", w.Name)
		}
		seen[w.Name] = true

		start, _ := time.Parse("2006-01-02", w.Start)
		end, _ := time.Parse("2006-01-02", w.End)
		if end.Before(start) {
			return fmt.Errorf("analysis: cohort %q ends before it starts", w.Name)
		}
	}

	if c.Analysis.Timeout < 0 {
		return fmt.Errorf("analysis: timeout must not be negative")
	}
	return nil
}

func (c *Config) validateCategorize() error {
	if err := validation.ValidateStruct(&c.Categorize); err != nil {
		return fmt.Errorf("categorize: %w", err)
	}
	return nil
}

// RequireAPIKey reports an error when categorization would need the model
// but no key is configured.
func (c *CategorizeConfig) RequireAPIKey() error {
	if c.DryRun || c.APIKey != "" {
		return nil
	}
	return fmt.Errorf("categorize: GEMINI_API_KEY is required unless dry_run is enabled")
}

func (c *Config) validateExport() error {
	if err := validation.ValidateStruct(&c.Export); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error (got: %s)", c.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console (got: %s)", c.Logging.Format)
	}

	return nil
}
