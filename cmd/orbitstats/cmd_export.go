// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/orbitstats/internal/database"
	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/pipeline"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the normalized data to a DuckDB file",
	Long: `Load users, ideas, steps, categorized ideas and course evaluations
and replace the contents of the DuckDB export with them. Prints the
summary aggregates as JSON.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if exportPath != "" {
			cfg.Export.Path = exportPath
		}
		ctx := logging.ContextWithNewRunID(cmd.Context())

		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}
		in, err := p.Load(ctx, []string{pipeline.ComponentIdea, pipeline.ComponentCourseEval})
		if err != nil {
			return err
		}
		return exportInputs(ctx, p, in)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPath, "path", "", "DuckDB file path (default: export.path)")
}

// exportInputs writes a DuckDB snapshot of in and prints its summaries.
func exportInputs(ctx context.Context, p *pipeline.Pipeline, in *pipeline.Inputs) error {
	db, err := database.New(&cfg.Export)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing export database")
		}
	}()

	ds := &loader.Dataset{
		Users: in.Dataset.Users,
		Ideas: in.MergedIdeas(ctx),
		Steps: in.Dataset.Steps,
	}
	if _, err := db.Export(ctx, ds, in.Evaluations, p.CohortPeriods()); err != nil {
		return err
	}

	summary, err := db.Summaries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summaries: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}
