// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/orbitstats/internal/categorize"
	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/logging"
)

const latestCategorizedFile = "categorized_ideas_latest.json"

var (
	categorizeDryRun     bool
	categorizeClearCache bool
	categorizeOutputDir  string
	categorizeWorkers    int
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Assign a category to every idea with an LLM",
	Long: `Send idea titles in batches to the configured Gemini model and write
categorized_ideas_{timestamp}_{model}.json, categorized_ideas_latest.json and
a performance metrics file.

Finished answers are cached per model, so an interrupted run resumes where
it stopped. --dry-run assigns deterministic categories without network
access.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("dry-run") {
			cfg.Categorize.DryRun = categorizeDryRun
		}
		if categorizeWorkers > 0 {
			cfg.Categorize.MaxWorkers = categorizeWorkers
		}
		return runCategorize(cmd.Context())
	},
}

func init() {
	categorizeCmd.Flags().BoolVar(&categorizeDryRun, "dry-run", false, "Assign deterministic categories without calling the model")
	categorizeCmd.Flags().BoolVar(&categorizeClearCache, "clear-cache", false, "Drop cached answers for the model before running")
	categorizeCmd.Flags().StringVar(&categorizeOutputDir, "output-dir", "", "Output directory (default: {output.dir}/categorization)")
	categorizeCmd.Flags().IntVar(&categorizeWorkers, "workers", 0, "Concurrent requests (default: categorize.max_workers)")
}

func runCategorize(ctx context.Context) error {
	start := time.Now()
	ctx = logging.ContextWithComponent(logging.ContextWithNewRunID(ctx), "categorize")
	log := logging.Ctx(ctx)
	cc := cfg.Categorize
	opts := categorize.OptionsFromConfig(cc)

	loadStart := time.Now()
	ideas, err := loader.LoadIdeas(cfg.Data.IdeasPath())
	if err != nil {
		return err
	}
	inputs := categorize.Inputs(ideas)
	loadTime := time.Since(loadStart)
	log.Info().Int("ideas", len(inputs)).Str("model", cc.Model).Bool("dry_run", cc.DryRun).Msg("Starting categorization")

	var client categorize.Client
	if cc.DryRun {
		client = categorize.NewDryRunClient(opts.Categories)
	} else {
		if err := cc.RequireAPIKey(); err != nil {
			return err
		}
		gc, err := categorize.NewGeminiClient(ctx, cc.APIKey, cc.Model, cc.MaxOutputToks)
		if err != nil {
			return err
		}
		client = gc
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close model client")
		}
	}()

	var store categorize.Store
	if cc.CachePath != "" {
		bs, err := categorize.OpenBadgerStore(cc.CachePath, cc.Model)
		if err != nil {
			return err
		}
		store = bs
	} else {
		store = categorize.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close categorization cache")
		}
	}()
	if categorizeClearCache {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		log.Info().Msg("Cleared categorization cache")
	}

	result, err := categorize.New(opts, client, store).Run(ctx, inputs)
	if err != nil {
		return err
	}

	dir := categorizeOutputDir
	if dir == "" {
		dir = filepath.Join(cfg.Output.Dir, "categorization")
	}
	saveStart := time.Now()
	paths := categorize.OutputPaths(dir, cc.Model, start)
	if err := categorize.WriteResults(paths, result); err != nil {
		return err
	}
	if err := loader.WriteJSON(filepath.Join(dir, latestCategorizedFile), result.Ideas); err != nil {
		return err
	}
	result.Metrics.AddPhase("data_loading", loadTime)
	result.Metrics.AddPhase("saving_results", time.Since(saveStart))
	result.Metrics.Finish(time.Since(start))
	if err := loader.WriteJSON(paths.Metrics, result.Metrics); err != nil {
		return err
	}

	r := result.Metrics.Results
	log.Info().
		Str("output", paths.Ideas).
		Int("processed", r.ProcessedIdeas).
		Int("cached", r.CachedIdeas).
		Int("unresolved", r.UnresolvedIdeas).
		Str("runtime", result.Metrics.Runtime.Formatted).
		Msg("Categorization complete")
	if len(result.Unresolved) > 0 {
		log.Warn().Int("count", len(result.Unresolved)).Msg("Some ideas could not be categorized; rerun to retry them")
	}
	return nil
}
