// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package loader

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/models"
)

// stepFieldPrefixes mark idea fields that hold a completed framework step.
var stepFieldPrefixes = []string{"market-", "beachhead-", "define-", "chart-", "map-", "design-", "selected-"}

type rawIdea struct {
	ID            ObjectID          `json:"_id"`
	Title         Text              `json:"title"`
	Description   Text              `json:"description"`
	Created       Timestamp         `json:"created"`
	Owner         Text              `json:"owner"`
	Ranking       Number            `json:"ranking"`
	TotalProgress Number            `json:"total_progress"`
	Progress      map[string]Number `json:"progress"`
	DEProgress    *Number           `json:"DE_progress"`
	STProgress    *Number           `json:"ST_progress"`
	FromTactics   Number            `json:"from_tactics"`
	Language      Text              `json:"language"`
	Iteration     Number            `json:"iteration"`
}

// IdeaText applies the title rules shared by the loader and the
// categorizer: both present gives "title: description", one present is
// used alone, neither means the idea has no content.
func IdeaText(title, description string) (string, string, bool) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	switch {
	case title != "" && description != "":
		return title + ": " + description, description, true
	case title != "":
		return title, description, true
	case description != "":
		return description, description, true
	default:
		return "", "", false
	}
}

// LoadIdeas reads and normalizes the ideas export.
func LoadIdeas(path string) ([]models.Idea, error) {
	items, err := readArray(path)
	if err != nil {
		return nil, err
	}
	ideas := ParseIdeas(items)
	metrics.RecordLoad("ideas", len(ideas), len(items)-len(ideas))
	logging.Info().Str("path", path).Int("raw", len(items)).Int("kept", len(ideas)).Msg("Loaded ideas")
	return ideas, nil
}

// ParseIdeas normalizes raw idea records, skipping ideas with no content.
func ParseIdeas(items []json.RawMessage) []models.Idea {
	ideas := make([]models.Idea, 0, len(items))
	for i, item := range items {
		var raw rawIdea
		if err := json.Unmarshal(item, &raw); err != nil {
			logging.Warn().Err(err).Int("index", i).Msg("Skipping malformed idea record")
			continue
		}

		title, description, ok := IdeaText(string(raw.Title), string(raw.Description))
		if !ok {
			logging.Warn().Str("id", string(raw.ID)).Msg("Idea has no content, skipping")
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			fields = nil
		}

		language := string(raw.Language)
		if language == "" {
			language = "en"
		}

		ideas = append(ideas, models.Idea{
			ID:             string(raw.ID),
			Title:          title,
			Description:    description,
			CreatedDate:    string(raw.Created),
			Owner:          string(raw.Owner),
			Ranking:        int(raw.Ranking),
			TotalProgress:  float64(raw.TotalProgress),
			DEProgress:     raw.progress(models.FrameworkDE),
			STProgress:     raw.progress(models.FrameworkST),
			Language:       language,
			Frameworks:     raw.frameworks(),
			StepsCompleted: countCompletedSteps(fields),
			Iteration:      int(raw.Iteration),
		})
	}
	return ideas
}

// progress prefers the progress map and falls back to the flat
// DE_progress / ST_progress fields.
func (r *rawIdea) progress(framework string) float64 {
	if v, ok := r.Progress[framework]; ok {
		return float64(v)
	}
	switch framework {
	case models.FrameworkDE:
		if r.DEProgress != nil {
			return float64(*r.DEProgress)
		}
	case models.FrameworkST:
		if r.STProgress != nil {
			return float64(*r.STProgress)
		}
	}
	return 0
}

func (r *rawIdea) frameworks() []string {
	set := make(map[string]struct{})
	for fw, v := range r.Progress {
		if v > 0 {
			set[fw] = struct{}{}
		}
	}
	if r.DEProgress != nil && *r.DEProgress != 0 {
		set[models.FrameworkDE] = struct{}{}
	}
	if r.STProgress != nil && *r.STProgress != 0 {
		set[models.FrameworkST] = struct{}{}
	}
	if r.FromTactics != 0 {
		set[models.FrameworkST] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for fw := range set {
		out = append(out, fw)
	}
	sort.Strings(out)
	return out
}

func countCompletedSteps(fields map[string]json.RawMessage) int {
	count := 0
	for key, value := range fields {
		if !hasStepPrefix(key) {
			continue
		}
		var s Text
		if err := json.Unmarshal(value, &s); err != nil {
			continue
		}
		if strings.TrimSpace(string(s)) != "" {
			count++
		}
	}
	return count
}

func hasStepPrefix(key string) bool {
	for _, p := range stepFieldPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
