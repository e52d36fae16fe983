// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	// runIDKey identifies one analysis or categorization run.
	runIDKey contextKey = "run_id"

	// componentKey names the analyzer currently executing.
	componentKey contextKey = "component"
)

// GenerateRunID creates a new run ID.
// Returns the first 8 characters of a UUID for readability in file names and logs.
func GenerateRunID() string {
	return uuid.New().String()[:8]
}

// ContextWithRunID returns a new context carrying the run ID.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// ContextWithNewRunID returns a context with a newly generated run ID.
//
//	ctx = logging.ContextWithNewRunID(ctx)
func ContextWithNewRunID(ctx context.Context) context.Context {
	return ContextWithRunID(ctx, GenerateRunID())
}

// RunIDFromContext retrieves the run ID from context.
// Returns empty string if not present.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithComponent returns a context tagged with an analyzer name.
func ContextWithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// ComponentFromContext retrieves the component name from context.
func ComponentFromContext(ctx context.Context) string {
	if c, ok := ctx.Value(componentKey).(string); ok {
		return c
	}
	return ""
}

// Ctx returns a logger with run_id and component added when present.
//
//	logging.Ctx(ctx).Info().Int("users", n).Msg("User analysis complete")
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := Logger().With()

	if runID := RunIDFromContext(ctx); runID != "" {
		logCtx = logCtx.Str("run_id", runID)
	}
	if component := ComponentFromContext(ctx); component != "" {
		logCtx = logCtx.Str("component", component)
	}

	l := logCtx.Logger()
	return &l
}

// WithComponent creates a child logger with a component field.
//
//	loaderLog := logging.WithComponent("loader")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
