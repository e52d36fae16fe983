// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/stats"
)

// TimestampFormat is the timestamp embedded in output file names.
const TimestampFormat = "20060102_1504"

// RunMetrics is written next to the categorized ideas.
type RunMetrics struct {
	Runtime RuntimeMetrics `json:"runtime"`
	API     APIMetrics     `json:"api"`
	Results ResultMetrics  `json:"results"`
	Config  ConfigMetrics  `json:"config"`
	Batches []BatchMetrics `json:"batch_timing"`
}

type RuntimeMetrics struct {
	TotalSeconds float64                 `json:"total_seconds"`
	Formatted    string                  `json:"formatted"`
	Breakdown    map[string]PhaseMetrics `json:"breakdown"`
}

type PhaseMetrics struct {
	Seconds    float64 `json:"seconds"`
	Percentage float64 `json:"percentage"`
	Formatted  string  `json:"formatted"`
}

type APIMetrics struct {
	Requests        int     `json:"requests"`
	Failures        int     `json:"failures"`
	InputTokens     int64   `json:"input_tokens"`
	OutputTokens    int64   `json:"output_tokens"`
	TotalTokens     int64   `json:"total_tokens"`
	IdeasPerSecond  float64 `json:"ideas_per_second"`
	TokensPerSecond float64 `json:"tokens_per_second"`
}

type ResultMetrics struct {
	TotalIdeas        int            `json:"total_ideas"`
	ProcessedIdeas    int            `json:"processed_ideas"`
	CachedIdeas       int            `json:"cached_ideas"`
	UnresolvedIdeas   int            `json:"unresolved_ideas"`
	SuccessRate       float64        `json:"success_rate"`
	Rounds            int            `json:"rounds"`
	UnknownCategories map[string]int `json:"unknown_categories"`
}

type ConfigMetrics struct {
	Model      string `json:"model"`
	BatchMode  string `json:"batch_mode"`
	BatchSize  int    `json:"batch_size"`
	MaxWorkers int    `json:"max_workers"`
	MaxRetries int    `json:"max_retries"`
	DryRun     bool   `json:"dry_run"`
}

// BatchMetrics records one batch request.
type BatchMetrics struct {
	Number       int     `json:"batch_num"`
	Round        int     `json:"round"`
	Ideas        int     `json:"ideas_count"`
	TextLen      int     `json:"text_len"`
	Categorized  int     `json:"processed_ideas"`
	Status       string  `json:"status"`
	Seconds      float64 `json:"total_time"`
	InputTokens  int32   `json:"input_tokens"`
	OutputTokens int32   `json:"output_tokens"`
	Error        string  `json:"error,omitempty"`
}

func newRunMetrics(opts Options, total int) RunMetrics {
	return RunMetrics{
		Runtime: RuntimeMetrics{Breakdown: map[string]PhaseMetrics{}},
		Results: ResultMetrics{TotalIdeas: total, UnknownCategories: map[string]int{}},
		Config: ConfigMetrics{
			Model:      opts.Model,
			BatchMode:  opts.Mode,
			BatchSize:  opts.BatchSize,
			MaxWorkers: opts.MaxWorkers,
			MaxRetries: opts.MaxRetries,
			DryRun:     opts.DryRun,
		},
		Batches: []BatchMetrics{},
	}
}

func (m *RunMetrics) addBatch(b BatchMetrics) {
	m.Batches = append(m.Batches, b)
	m.API.Requests++
	if b.Status != StatusSuccess && b.Status != StatusPartial {
		m.API.Failures++
	}
	m.API.InputTokens += int64(b.InputTokens)
	m.API.OutputTokens += int64(b.OutputTokens)
	m.API.TotalTokens += int64(b.InputTokens) + int64(b.OutputTokens)
}

func (m *RunMetrics) addPhase(name string, d time.Duration) {
	if m.Runtime.Breakdown == nil {
		m.Runtime.Breakdown = map[string]PhaseMetrics{}
	}
	p := m.Runtime.Breakdown[name]
	p.Seconds += d.Seconds()
	m.Runtime.Breakdown[name] = p
}

// AddPhase adds time spent outside Run, such as loading or saving. Call
// Finish afterwards to refresh the totals.
func (m *RunMetrics) AddPhase(name string, d time.Duration) {
	m.addPhase(name, d)
}

// Finish sets the total runtime and derives percentages and rates.
func (m *RunMetrics) Finish(total time.Duration) {
	seconds := total.Seconds()
	m.Runtime.TotalSeconds = seconds
	m.Runtime.Formatted = FormatDuration(total)
	for name, p := range m.Runtime.Breakdown {
		p.Percentage = stats.Ratio(p.Seconds, seconds) * 100
		p.Formatted = FormatDuration(time.Duration(p.Seconds * float64(time.Second)))
		m.Runtime.Breakdown[name] = p
	}
	m.Results.SuccessRate = stats.Percent(m.Results.ProcessedIdeas, m.Results.TotalIdeas)
	m.API.IdeasPerSecond = stats.Ratio(float64(m.Results.ProcessedIdeas), seconds)
	m.API.TokensPerSecond = stats.Ratio(float64(m.API.TotalTokens), seconds)
	sort.SliceStable(m.Batches, func(i, j int) bool {
		if m.Batches[i].Round != m.Batches[j].Round {
			return m.Batches[i].Round < m.Batches[j].Round
		}
		return m.Batches[i].Number < m.Batches[j].Number
	})
}

// FormatDuration renders d as "1d 2h 3m 4s", dropping leading zero units,
// with fractional seconds below one minute.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	total := int64(d / time.Second)
	days, rem := total/86400, total%86400
	hours, rem := rem/3600, rem%3600
	minutes, secs := rem/60, rem%60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, secs)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	default:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
}

// Paths are the files written by WriteResults.
type Paths struct {
	Ideas   string
	Metrics string
}

// OutputPaths names the output files for a run started at now.
func OutputPaths(dir, model string, now time.Time) Paths {
	ts := now.Format(TimestampFormat)
	name := strings.NewReplacer("/", "-", string(os.PathSeparator), "-", " ", "_").Replace(model)
	return Paths{
		Ideas:   filepath.Join(dir, fmt.Sprintf("categorized_ideas_%s_%s.json", ts, name)),
		Metrics: filepath.Join(dir, "metrics", fmt.Sprintf("performance_metrics_%s_%s.json", ts, name)),
	}
}

// WriteResults saves the categorized ideas and run metrics.
func WriteResults(paths Paths, result *Result) error {
	for _, p := range []string{paths.Ideas, paths.Metrics} {
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := loader.WriteJSON(paths.Ideas, result.Ideas); err != nil {
		return err
	}
	return loader.WriteJSON(paths.Metrics, result.Metrics)
}
