// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is shared by the configuration layer and
// the course-evaluation loader. Besides the built-in tags it registers
// isodate, which accepts YYYY-MM-DD calendar dates.
//
//	type Window struct {
//	    Start string `validate:"required,isodate"`
//	    End   string `validate:"required,isodate"`
//	}
//
//	if err := validation.ValidateStruct(&w); err != nil {
//	    return fmt.Errorf("invalid window: %w", err)
//	}
package validation
