// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/orbitstats/internal/models"
)

// fakeClient answers with a function of the batch and records requested ids.
type fakeClient struct {
	mu     sync.Mutex
	calls  int
	seen   []string
	answer func(b Batch) (*Response, error)
}

func (f *fakeClient) Generate(_ context.Context, _ string, b Batch) (*Response, error) {
	f.mu.Lock()
	f.calls++
	for _, in := range b.Inputs {
		f.seen = append(f.seen, in.ID)
	}
	f.mu.Unlock()
	return f.answer(b)
}

func (f *fakeClient) Close() error { return nil }

func respond(inputs []Input, category string) *Response {
	out := make([]models.CategorizedIdea, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, models.CategorizedIdea{ID: in.ID, Category: category})
	}
	data, _ := json.Marshal(out)
	return &Response{Text: "```json\n" + string(data) + "\n```", InputTokens: 10, OutputTokens: 5}
}

func testInputs(n int) []Input {
	out := make([]Input, n)
	for i := range out {
		out[i] = Input{ID: fmt.Sprintf("idea-%d", i), Title: "title"}
	}
	return out
}

func testOptions() Options {
	return Options{
		Model:      "test-model",
		Mode:       ModeSize,
		BatchSize:  4,
		MaxWorkers: 2,
		MaxRetries: 3,
		Breaker:    BreakerConfig{FailureThreshold: 100},
	}
}

func ids(ideas []models.CategorizedIdea) []string {
	out := make([]string, len(ideas))
	for i, c := range ideas {
		out[i] = c.ID
	}
	return out
}

func TestRun(t *testing.T) {
	inputs := testInputs(6)
	client := &fakeClient{}
	client.answer = func(b Batch) (*Response, error) { return respond(b.Inputs, "Software"), nil }

	result, err := New(testOptions(), client, nil).Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"idea-0", "idea-1", "idea-2", "idea-3", "idea-4", "idea-5"}
	if diff := cmp.Diff(want, ids(result.Ideas)); diff != "" {
		t.Errorf("ideas mismatch (-want +got):\n%s", diff)
	}
	if client.calls != 2 {
		t.Errorf("expected 2 requests, got %d", client.calls)
	}
	m := result.Metrics
	if m.API.Requests != 2 || m.API.TotalTokens != 30 || m.Results.SuccessRate != 100 || m.Results.Rounds != 1 {
		t.Errorf("unexpected metrics %+v", m)
	}
	if len(m.Results.UnknownCategories) != 0 {
		t.Errorf("UnknownCategories = %v", m.Results.UnknownCategories)
	}
}

func TestRunRetriesTruncatedWithSmallerBatches(t *testing.T) {
	client := &fakeClient{}
	client.answer = func(b Batch) (*Response, error) {
		if len(b.Inputs) > 1 {
			return &Response{Truncated: true, OutputTokens: 8192}, nil
		}
		return respond(b.Inputs, "Energy"), nil
	}

	result, err := New(testOptions(), client, nil).Run(context.Background(), testInputs(4))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Ideas) != 4 || len(result.Unresolved) != 0 {
		t.Fatalf("expected all 4 ideas, got %d (unresolved %v)", len(result.Ideas), result.Unresolved)
	}
	// 4 -> 2 -> 1: one batch of four, two of two, four of one.
	if client.calls != 7 {
		t.Errorf("expected 7 requests, got %d", client.calls)
	}
	if result.Metrics.Results.Rounds != 3 {
		t.Errorf("Rounds = %d, want 3", result.Metrics.Results.Rounds)
	}
	if result.Metrics.API.Failures != 3 {
		t.Errorf("Failures = %d, want 3", result.Metrics.API.Failures)
	}
}

func TestRunRetriesMissingIdeas(t *testing.T) {
	var (
		mu    sync.Mutex
		first = true
	)
	client := &fakeClient{}
	client.answer = func(b Batch) (*Response, error) {
		mu.Lock()
		defer mu.Unlock()
		if first {
			first = false
			return respond(b.Inputs[:len(b.Inputs)-1], "Software"), nil
		}
		return respond(b.Inputs, "Software"), nil
	}

	result, err := New(testOptions(), client, nil).Run(context.Background(), testInputs(3))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Ideas) != 3 {
		t.Fatalf("expected 3 ideas, got %d", len(result.Ideas))
	}
	if diff := cmp.Diff([]string{"idea-0", "idea-1", "idea-2", "idea-2"}, client.seen); diff != "" {
		t.Errorf("requested ids mismatch (-want +got):\n%s", diff)
	}
	if got := result.Metrics.Batches[0].Status; got != StatusPartial {
		t.Errorf("first batch status = %q, want %q", got, StatusPartial)
	}
}

func TestRunGivesUpAfterMaxRetries(t *testing.T) {
	client := &fakeClient{}
	client.answer = func(Batch) (*Response, error) { return nil, errors.New("boom") }

	opts := testOptions()
	opts.MaxRetries = 1
	result, err := New(opts, client, nil).Run(context.Background(), testInputs(2))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Ideas) != 0 {
		t.Errorf("expected no ideas, got %v", result.Ideas)
	}
	if diff := cmp.Diff([]string{"idea-0", "idea-1"}, result.Unresolved); diff != "" {
		t.Errorf("Unresolved mismatch (-want +got):\n%s", diff)
	}
	if result.Metrics.Results.Rounds != 2 {
		t.Errorf("Rounds = %d, want 2", result.Metrics.Results.Rounds)
	}
}

func TestRunCircuitOpens(t *testing.T) {
	client := &fakeClient{}
	client.answer = func(Batch) (*Response, error) { return nil, errors.New("unavailable") }

	opts := testOptions()
	opts.BatchSize = 1
	opts.MaxWorkers = 1
	opts.MaxRetries = 0
	opts.Breaker = BreakerConfig{Name: "test-open", FailureThreshold: 2, Timeout: time.Hour}

	result, err := New(opts, client, nil).Run(context.Background(), testInputs(4))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if client.calls != 2 {
		t.Errorf("expected the breaker to stop requests after 2 failures, got %d calls", client.calls)
	}
	open := 0
	for _, b := range result.Metrics.Batches {
		if b.Status == StatusCircuitOpen {
			open++
			if b.Error != ErrCircuitOpen.Error() {
				t.Errorf("rejected batch error = %q, want %q", b.Error, ErrCircuitOpen)
			}
		}
	}
	if open != 2 {
		t.Errorf("expected 2 rejected batches, got %d", open)
	}
}

func TestRunResumesFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Save(ctx, map[string]string{"idea-0": "Healthcare", "idea-2": "Energy"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	client := &fakeClient{}
	client.answer = func(b Batch) (*Response, error) { return respond(b.Inputs, "Software"), nil }

	result, err := New(testOptions(), client, store).Run(ctx, testInputs(4))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff([]string{"idea-1", "idea-3"}, client.seen); diff != "" {
		t.Errorf("requested ids mismatch (-want +got):\n%s", diff)
	}
	want := []models.CategorizedIdea{
		{ID: "idea-0", Category: "Healthcare"},
		{ID: "idea-1", Category: "Software"},
		{ID: "idea-2", Category: "Energy"},
		{ID: "idea-3", Category: "Software"},
	}
	if diff := cmp.Diff(want, result.Ideas); diff != "" {
		t.Errorf("ideas mismatch (-want +got):\n%s", diff)
	}
	if result.Metrics.Results.CachedIdeas != 2 {
		t.Errorf("CachedIdeas = %d, want 2", result.Metrics.Results.CachedIdeas)
	}

	stored, err := store.Load(ctx, []string{"idea-1", "idea-3"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("new answers were not stored: %v", stored)
	}
}

func TestRunCountsUnknownCategories(t *testing.T) {
	client := &fakeClient{}
	client.answer = func(b Batch) (*Response, error) { return respond(b.Inputs, "Space Mining"), nil }

	result, err := New(testOptions(), client, nil).Run(context.Background(), testInputs(3))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff(map[string]int{"Space Mining": 3}, result.Metrics.Results.UnknownCategories); diff != "" {
		t.Errorf("UnknownCategories mismatch (-want +got):\n%s", diff)
	}
	if len(result.Ideas) != 3 {
		t.Error("unknown categories should still be kept")
	}
}

func TestRunDryRun(t *testing.T) {
	opts := testOptions()
	opts.Mode = ModeText
	opts.BatchSize = 12
	opts.DryRun = true
	opts.Categories = []string{"Software", "Energy"}

	result, err := New(opts, NewDryRunClient(opts.Categories), nil).Run(context.Background(), testInputs(5))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Ideas) != 5 || len(result.Metrics.Results.UnknownCategories) != 0 {
		t.Errorf("unexpected dry run result %+v", result)
	}
	if !result.Metrics.Config.DryRun {
		t.Error("metrics should record the dry run")
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &fakeClient{}
	client.answer = func(b Batch) (*Response, error) { return respond(b.Inputs, "Software"), nil }
	if _, err := New(testOptions(), client, nil).Run(ctx, testInputs(2)); err == nil {
		t.Error("expected context error")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Second, "2h 0m 5s"},
		{26 * time.Hour, "1d 2h 0m 0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestWriteResults(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 4, 15, 6, 0, 0, time.UTC)
	paths := OutputPaths(dir, "models/gemini-2.5-flash", now)

	wantIdeas := filepath.Join(dir, "categorized_ideas_20250304_1506_models-gemini-2.5-flash.json")
	if paths.Ideas != wantIdeas {
		t.Errorf("Ideas path = %q, want %q", paths.Ideas, wantIdeas)
	}

	result := &Result{
		Ideas:   []models.CategorizedIdea{{ID: "1", Category: "Software"}},
		Metrics: newRunMetrics(testOptions(), 1),
	}
	if err := WriteResults(paths, result); err != nil {
		t.Fatalf("WriteResults() error = %v", err)
	}

	data, err := os.ReadFile(paths.Ideas)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var got []models.CategorizedIdea
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(result.Ideas, got); diff != "" {
		t.Errorf("written ideas mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(paths.Metrics); err != nil {
		t.Errorf("metrics file missing: %v", err)
	}
}
