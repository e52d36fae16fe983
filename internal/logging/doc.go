// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package logging provides centralized zerolog-based structured logging for orbitstats.
//
// Analysis runs write human-readable console output by default; JSON output
// is available for piping into other tools.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Str("file", path).Int("records", n).Msg("Loaded users")
//
// # Run Context
//
// Every invocation of the pipeline or the categorizer carries a run ID in its
// context. Ctx adds run_id and, when set, the component name:
//
//	ctx = logging.ContextWithNewRunID(ctx)
//	ctx = logging.ContextWithComponent(ctx, "cohort")
//	logging.Ctx(ctx).Info().Msg("Cohort analysis complete")
//
// Always terminate log chains with .Msg() or .Send().
package logging
