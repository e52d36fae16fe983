// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/pipeline"
	"github.com/tomtom215/orbitstats/internal/report"
)

var (
	runComponents []string
	runNoSummary  bool
	runExport     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the analysis pipeline",
	Long: `Load the platform export, run the selected analysis components and
save combined, per-component and performance results.

Components: user, activity, idea, course_eval, cohort, team. Aliases:
demographics, usage, engagement, categorization, course_evaluations,
cohorts, teams.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(runComponents) > 0 {
			cfg.Analysis.Components = runComponents
		}
		if runNoSummary {
			cfg.Output.Summary = false
		}
		return runPipeline(cmd.Context(), runExport)
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Analyze course evaluations only",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg.Analysis.Components = []string{pipeline.ComponentCourseEval}
		cfg.Analysis.CourseEvaluations = true
		return runPipeline(cmd.Context(), false)
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Analyze team engagement only",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg.Analysis.Components = []string{pipeline.ComponentTeam}
		return runPipeline(cmd.Context(), false)
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runComponents, "components", nil, "Components or aliases to run (default: all)")
	runCmd.Flags().BoolVar(&runNoSummary, "no-summary", false, "Skip the terminal summary")
	runCmd.Flags().BoolVar(&runExport, "export", false, "Also write the DuckDB snapshot")
}

// runPipeline executes the pipeline and saves whatever completed. Results
// are written even when a component failed so partial runs can be inspected.
func runPipeline(ctx context.Context, export bool) error {
	ctx = logging.ContextWithNewRunID(ctx)
	log := logging.Ctx(ctx)

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	run, runErr := p.Execute(ctx)
	if run == nil || run.Inputs == nil {
		return runErr
	}

	written, err := report.NewWriter(cfg.Output).Write(ctx, &run.Results, &run.Performance)
	if err != nil {
		return errors.Join(runErr, fmt.Errorf("failed to save results: %w", err))
	}

	if export {
		if err := exportInputs(ctx, p, run.Inputs); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}

	if path := cfg.Output.MetricsTextfile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to write metrics textfile")
		}
	}

	if cfg.Output.Summary {
		if err := report.Render(stdout, &run.Results, "run "+run.Performance.RunID, report.RenderOptions{}); err != nil {
			log.Warn().Err(err).Msg("Failed to render summary")
		}
	}

	log.Info().
		Str("results", written.Combined).
		Float64("total_runtime", run.Performance.TotalRuntime).
		Int("failed_components", len(run.Performance.ComponentErrors)).
		Msg("Analysis run finished")
	return runErr
}
