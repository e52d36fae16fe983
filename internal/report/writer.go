// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/orbitstats/internal/config"
	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/models"
)

// TimestampFormat is the file name timestamp layout.
const TimestampFormat = "20060102_150405"

const (
	combinedDir    = "combined"
	latestFile     = "analysis_results_combined_latest.json"
	performanceDir = "performance_metrics"
)

// Written lists the files produced by Write.
type Written struct {
	Combined    string            `json:"combined"`
	Latest      string            `json:"latest"`
	Components  map[string]string `json:"components"`
	Performance string            `json:"performance,omitempty"`
}

// performanceFile is the on-disk form of a run's performance metrics.
type performanceFile struct {
	*models.RunPerformance
	Metrics map[string][]metrics.Sample `json:"metrics,omitempty"`
}

// Writer saves results under the configured output directories.
type Writer struct {
	resultsDir string
	metricsDir string
	now        func() time.Time
}

// NewWriter creates a writer for the output configuration.
func NewWriter(cfg config.OutputConfig) *Writer {
	return &Writer{
		resultsDir: cfg.ResultsPath(),
		metricsDir: filepath.Join(cfg.Dir, performanceDir),
		now:        time.Now,
	}
}

// ResultsDir returns the directory holding the combined and per-component files.
func (w *Writer) ResultsDir() string {
	return w.resultsDir
}

// Write saves the combined results, one file per component and, when perf
// is non-nil, the performance metrics.
func (w *Writer) Write(ctx context.Context, results *models.AnalysisResults, perf *models.RunPerformance) (*Written, error) {
	if results == nil {
		return nil, errors.New("report: nil results")
	}
	ts := w.now().Format(TimestampFormat)
	log := logging.Ctx(ctx)

	dir := filepath.Join(w.resultsDir, combinedDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	out := &Written{
		Combined:   filepath.Join(dir, fmt.Sprintf("analysis_results_%s_combined.json", ts)),
		Latest:     filepath.Join(dir, latestFile),
		Components: make(map[string]string),
	}
	for _, path := range []string{out.Combined, out.Latest} {
		if err := loader.WriteJSON(path, results); err != nil {
			return nil, err
		}
	}
	log.Info().Str("path", out.Combined).Msg("Saved combined results")

	components := results.Components()
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		componentDir := filepath.Join(w.resultsDir, name)
		if err := os.MkdirAll(componentDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", name, err)
		}
		path := filepath.Join(componentDir, fmt.Sprintf("analysis_%s_%s.json", name, ts))
		if err := loader.WriteJSON(path, components[name]); err != nil {
			return nil, err
		}
		out.Components[name] = path
		log.Debug().Str("component", name).Str("path", path).Msg("Saved component results")
	}

	if perf != nil {
		path, err := w.writePerformance(perf, ts)
		if err != nil {
			return nil, err
		}
		out.Performance = path
		log.Info().Str("path", path).Msg("Saved performance metrics")
	}
	return out, nil
}

func (w *Writer) writePerformance(perf *models.RunPerformance, ts string) (string, error) {
	if err := os.MkdirAll(w.metricsDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create metrics directory: %w", err)
	}
	snap, err := metrics.Snapshot()
	if err != nil {
		// The timings are still worth keeping.
		logging.Warn().Err(err).Msg("Failed to snapshot metrics")
	}
	path := filepath.Join(w.metricsDir, fmt.Sprintf("performance_metrics_%s.json", ts))
	if err := loader.WriteJSON(path, performanceFile{RunPerformance: perf, Metrics: snap}); err != nil {
		return "", err
	}
	return path, nil
}

// LoadLatest reads the most recent combined results from resultsDir.
func LoadLatest(resultsDir string) (*models.AnalysisResults, error) {
	path := filepath.Join(resultsDir, combinedDir, latestFile)
	data, err := os.ReadFile(path) //nolint:gosec // path is built from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var results models.AnalysisResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &results, nil
}
