// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package main is the orbitstats command line tool.
//
// orbitstats analyzes an export of the entrepreneurship platform (users,
// ideas and framework steps) together with course evaluation surveys and
// team rosters, and writes JSON results plus a terminal summary.
//
// # Commands
//
//	orbitstats run          full analysis run
//	orbitstats categorize   LLM categorization of idea titles
//	orbitstats evaluate     course evaluation analysis only
//	orbitstats teams        team analysis only
//	orbitstats export       DuckDB snapshot of the normalized data
//	orbitstats report       render the latest results
//	orbitstats version      build information
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Command line flags
//   - Environment variables (AI_THESIS_* names, GEMINI_API_KEY)
//   - Config file (--config, CONFIG_PATH or ./config.yaml)
//   - Built-in defaults
//
// # Example Usage
//
//	export GEMINI_API_KEY=...
//	orbitstats categorize
//	orbitstats run --components demographics,cohorts
//	orbitstats report
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/orbitstats/internal/config"
	"github.com/tomtom215/orbitstats/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	// cfg is loaded once in the root PersistentPreRunE.
	cfg *config.Config

	stdout io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "orbitstats",
	Short: "Entrepreneurship tool usage and course evaluation analytics",
	Long: `orbitstats analyzes platform usage (users, ideas, framework steps),
categorizes ideas with an LLM, compares course evaluations across tool
versions and measures team engagement.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and initializes logging for every subcommand.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd == versionCmd {
		return nil
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}
	if logFormat != "" {
		loaded.Logging.Format = logFormat
	}
	cfg = loaded

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	logging.Debug().
		Str("command", cmd.Name()).
		Str("data_dir", cfg.Data.Dir).
		Str("output_dir", cfg.Output.Dir).
		Msg("Configuration loaded")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
