// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/orbitstats/internal/models"
)

func TestPrompt(t *testing.T) {
	prompt, err := Prompt([]string{"Software", "Energy"}, []Input{{ID: "abc", Title: "Grid batteries"}})
	if err != nil {
		t.Fatalf("Prompt() error = %v", err)
	}
	for _, want := range []string{
		"expert startup idea categorizer",
		`Categories: ["Software","Energy"]`,
		"Do not create additional categories",
		`"_id": "abc"`,
		`"title": "Grid batteries"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestParseResponse(t *testing.T) {
	want := []models.CategorizedIdea{{ID: "1", Category: "Software"}, {ID: "2", Category: "Energy"}}
	body := `[{"_id": "1", "category": "Software"}, {"_id": " 2 ", "category": "Energy "}]`

	tests := []struct {
		name string
		text string
	}{
		{"plain", body},
		{"whitespace", "\n  " + body + "\n"},
		{"json fence", "```json\n" + body + "\n```"},
		{"bare fence", "```\n" + body + "\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.text)
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("ParseResponse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseResponseInvalid(t *testing.T) {
	for _, text := range []string{"", "not json", `{"_id": "1"}`, "```json\n[{\"_id\": \"1\",\n```"} {
		if _, err := ParseResponse(text); err == nil {
			t.Errorf("ParseResponse(%q) expected error", text)
		}
	}
}

func TestDryRunClient(t *testing.T) {
	categories := []string{"Software", "Energy", "Healthcare"}
	client := NewDryRunClient(categories)
	batch := Batch{Inputs: []Input{{ID: "1"}, {ID: "2"}, {ID: "3"}}}

	first, err := client.Generate(context.Background(), "", batch)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := client.Generate(context.Background(), "", batch)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if first.Text != second.Text {
		t.Error("dry run answers should be deterministic")
	}

	parsed, err := ParseResponse(first.Text)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(parsed))
	}
	for _, p := range parsed {
		if !contains(categories, p.Category) {
			t.Errorf("category %q not in list", p.Category)
		}
	}
}

func TestDryRunClientCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDryRunClient([]string{"Software"}).Generate(ctx, "", Batch{}); err == nil {
		t.Error("expected context error")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
