// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/orbitstats/internal/models"
)

// ErrTruncated marks a response cut off by the output token limit.
var ErrTruncated = errors.New("response truncated at output token limit")

// Prompt builds the categorization prompt for one batch.
func Prompt(categories []string, inputs []Input) (string, error) {
	cats, err := json.Marshal(categories)
	if err != nil {
		return "", fmt.Errorf("encode categories: %w", err)
	}
	ideas, err := json.MarshalIndent(inputs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode ideas: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an expert startup idea categorizer. ")
	b.WriteString("Categorize each of the following ideas into one of the given categories.\n\n")
	fmt.Fprintf(&b, "Categories: %s\n\n", cats)
	b.WriteString("Do not create additional categories outside of the given list. ")
	b.WriteString("For each idea, return an object with the original '_id', and an additional field 'category' indicating the chosen category. ")
	b.WriteString("Return your answer as a JSON array of objects with the following structure:\n")
	b.WriteString(`{ "_id": original id, "category": chosen category }` + "\n\n")
	b.WriteString("Here are the ideas:\n")
	b.Write(ideas)
	return b.String(), nil
}

// ParseResponse decodes the model's JSON array, tolerating surrounding
// whitespace and a markdown code fence.
func ParseResponse(text string) ([]models.CategorizedIdea, error) {
	cleaned := stripFence(text)
	var out []models.CategorizedIdea
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("parse categorization response: %w", err)
	}
	for i := range out {
		out[i].ID = strings.TrimSpace(out[i].ID)
		out[i].Category = strings.TrimSpace(out[i].Category)
	}
	return out, nil
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// Drop the opening fence line, including any language tag.
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}
