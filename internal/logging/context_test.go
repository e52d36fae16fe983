// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateRunID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRunID()
	id2 := GenerateRunID()

	if len(id1) != 8 {
		t.Errorf("expected 8-character run ID, got %d", len(id1))
	}
	if id1 == id2 {
		t.Error("expected unique run IDs")
	}
}

func TestRunIDContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if id := RunIDFromContext(ctx); id != "" {
		t.Errorf("expected empty run ID, got %s", id)
	}

	ctx = ContextWithRunID(ctx, "abc12345")
	if id := RunIDFromContext(ctx); id != "abc12345" {
		t.Errorf("expected 'abc12345', got %s", id)
	}

	ctx = ContextWithNewRunID(context.Background())
	if id := RunIDFromContext(ctx); len(id) != 8 {
		t.Errorf("expected generated run ID, got %q", id)
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	ctx := ContextWithRunID(context.Background(), "run00001")
	ctx = ContextWithComponent(ctx, "cohort")

	Ctx(ctx).Info().Msg("with context")

	output := buf.String()
	if !strings.Contains(output, `"run_id":"run00001"`) {
		t.Errorf("expected run_id in output: %s", output)
	}
	if !strings.Contains(output, `"component":"cohort"`) {
		t.Errorf("expected component in output: %s", output)
	}
}

func TestCtxWithoutValues(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	Ctx(context.Background()).Info().Msg("plain")

	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("expected no run_id in output: %s", buf.String())
	}
}
