// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package loader

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/models"
)

// Dataset is the normalized platform export.
type Dataset struct {
	Users []models.User
	Ideas []models.Idea
	Steps []models.Step
}

// Paths names the three export files.
type Paths struct {
	Users string
	Ideas string
	Steps string
}

// LoadAll reads users, ideas and steps concurrently.
func LoadAll(ctx context.Context, paths Paths) (*Dataset, error) {
	ds := &Dataset{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := LoadUsers(paths.Users)
		if err != nil {
			return fmt.Errorf("users: %w", err)
		}
		ds.Users = users
		return nil
	})
	g.Go(func() error {
		ideas, err := LoadIdeas(paths.Ideas)
		if err != nil {
			return fmt.Errorf("ideas: %w", err)
		}
		ds.Ideas = ideas
		return nil
	})
	g.Go(func() error {
		steps, err := LoadSteps(paths.Steps)
		if err != nil {
			return fmt.Errorf("steps: %w", err)
		}
		ds.Steps = steps
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Int("users", len(ds.Users)).
		Int("ideas", len(ds.Ideas)).
		Int("steps", len(ds.Steps)).
		Msg("Dataset loaded")
	return ds, nil
}

// LoadCategorized reads a categorizer output file. Records whose _id is an
// extended-JSON object are accepted.
func LoadCategorized(path string) ([]models.CategorizedIdea, error) {
	items, err := readArray(path)
	if err != nil {
		return nil, err
	}

	out := make([]models.CategorizedIdea, 0, len(items))
	for i, item := range items {
		var raw struct {
			ID       ObjectID `json:"_id"`
			Category Text     `json:"category"`
		}
		if err := json.Unmarshal(item, &raw); err != nil || raw.ID == "" {
			logging.Debug().Int("index", i).Msg("Skipping categorized record without id")
			continue
		}
		out = append(out, models.CategorizedIdea{ID: string(raw.ID), Category: string(raw.Category)})
	}
	metrics.RecordLoad("categorized_ideas", len(out), len(items)-len(out))
	return out, nil
}
