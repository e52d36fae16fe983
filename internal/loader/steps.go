// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package loader

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/models"
)

var headingRe = regexp.MustCompile(`(?m)^#{1,6}\s+.+$`)

type rawStep struct {
	ID        ObjectID  `json:"_id"`
	IdeaID    ObjectID  `json:"idea_id"`
	Owner     Text      `json:"owner"`
	Framework Text      `json:"framework"`
	Step      Text      `json:"step"`
	Content   Text      `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
	Active    Number    `json:"active"`
	Name      Text      `json:"name"`
	Message   Text      `json:"message"`
}

// LoadSteps reads and normalizes the steps export.
func LoadSteps(path string) ([]models.Step, error) {
	items, err := readArray(path)
	if err != nil {
		return nil, err
	}
	steps := ParseSteps(items)
	metrics.RecordLoad("steps", len(steps), len(items)-len(steps))
	logging.Info().Str("path", path).Int("raw", len(items)).Int("kept", len(steps)).Msg("Loaded steps")
	return steps, nil
}

// ParseSteps normalizes raw step records. Steps with blank content, no step
// name or no idea id are incomplete and skipped.
func ParseSteps(items []json.RawMessage) []models.Step {
	steps := make([]models.Step, 0, len(items))
	for i, item := range items {
		var raw rawStep
		if err := json.Unmarshal(item, &raw); err != nil {
			logging.Warn().Err(err).Int("index", i).Msg("Skipping malformed step record")
			continue
		}

		content := string(raw.Content)
		switch {
		case strings.TrimSpace(content) == "":
			logging.Debug().Str("id", string(raw.ID)).Msg("Step has empty content, skipping")
			continue
		case raw.Step == "":
			logging.Debug().Str("id", string(raw.ID)).Msg("Step missing step name, skipping")
			continue
		case raw.IdeaID == "":
			logging.Debug().Str("id", string(raw.ID)).Msg("Step missing idea ID, skipping")
			continue
		}

		steps = append(steps, models.Step{
			ID:        string(raw.ID),
			IdeaID:    string(raw.IdeaID),
			Owner:     string(raw.Owner),
			Framework: string(raw.Framework),
			StepName:  string(raw.Step),
			Content:   content,
			CreatedAt: string(raw.CreatedAt),
			Active:    raw.Active != 0,
			Name:      string(raw.Name),
			Message:   string(raw.Message),
			WordCount: len(strings.Fields(content)),
			Sections:  len(headingRe.FindAllString(content, -1)),
		})
	}
	return steps
}
