// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/orbitstats/internal/activity"
	"github.com/tomtom215/orbitstats/internal/cohort"
	"github.com/tomtom215/orbitstats/internal/config"
	"github.com/tomtom215/orbitstats/internal/evaluation"
	"github.com/tomtom215/orbitstats/internal/filter"
	"github.com/tomtom215/orbitstats/internal/ideas"
	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/teams"
	"github.com/tomtom215/orbitstats/internal/users"
)

// PhaseLoading is the timing key of the data loading phase.
const PhaseLoading = "data_loading"

// ErrSkipped marks a component that had no input to work on.
var ErrSkipped = errors.New("component skipped")

// ErrNoData is returned when no users remain to analyze.
var ErrNoData = errors.New("no users to analyze")

// Inputs is everything the components read. Optional inputs are nil when
// not loaded.
type Inputs struct {
	Dataset       *loader.Dataset
	Categorized   []models.CategorizedIdea
	Evaluations   []models.CourseEvaluation
	Relationships *models.Relationships
}

// Run is the outcome of a pipeline run. Results holds whatever completed,
// even when Execute returns an error.
type Run struct {
	Components  []string
	Inputs      *Inputs
	Results     models.AnalysisResults
	Performance models.RunPerformance
}

// Pipeline loads the platform export and runs the selected analyzers.
type Pipeline struct {
	cfg     *config.Config
	periods []cohort.Period
}

// New builds a pipeline. Configured cohort windows replace the default
// semester periods.
func New(cfg *config.Config) (*Pipeline, error) {
	periods, err := Periods(cfg.Analysis.Cohorts)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, periods: periods}, nil
}

// Periods converts configured cohort windows, falling back to the defaults
// when none are configured.
func Periods(windows []config.CohortWindow) ([]cohort.Period, error) {
	if len(windows) == 0 {
		return cohort.DefaultPeriods(), nil
	}
	periods := make([]cohort.Period, 0, len(windows))
	for _, w := range windows {
		p, err := cohort.NewPeriod(w.Name, w.Start, w.End, w.ToolVersion, w.Sections)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

// CohortPeriods returns the semester windows used by the cohort component.
func (p *Pipeline) CohortPeriods() []cohort.Period {
	return p.periods
}

// Execute loads the data and runs the configured components. A component
// failure does not stop the others; the joined component errors are
// returned alongside the partial run.
func (p *Pipeline) Execute(ctx context.Context) (*Run, error) {
	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewRunID(ctx)
	}
	if p.cfg.Analysis.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Analysis.Timeout)
		defer cancel()
	}

	components, err := ResolveComponents(p.cfg.Analysis.Components)
	if err != nil {
		return nil, err
	}

	run := &Run{
		Components: components,
		Performance: models.RunPerformance{
			RunID:          logging.RunIDFromContext(ctx),
			StartTime:      time.Now(),
			ComponentTimes: make(map[string]float64),
		},
	}
	log := logging.Ctx(ctx)
	log.Info().Strs("components", components).Msg("Starting analysis run")

	loadStart := time.Now()
	in, err := p.Load(ctx, components)
	run.Performance.ComponentTimes[PhaseLoading] = time.Since(loadStart).Seconds()
	if err != nil {
		p.finish(run, err)
		return run, fmt.Errorf("failed to load data: %w", err)
	}
	run.Inputs = in

	err = p.Analyze(ctx, in, components, run)
	p.finish(run, err)
	return run, err
}

func (p *Pipeline) finish(run *Run, err error) {
	run.Performance.EndTime = time.Now()
	run.Performance.TotalRuntime = run.Performance.EndTime.Sub(run.Performance.StartTime).Seconds()
	metrics.RecordRun(err)
}

// Load reads the dataset, applies the configured filters and loads the
// optional inputs the selected components need.
func (p *Pipeline) Load(ctx context.Context, components []string) (*Inputs, error) {
	data := p.cfg.Data
	log := logging.Ctx(ctx)

	ds, err := loader.LoadAll(ctx, loader.Paths{
		Users: data.UsersPath(),
		Ideas: data.IdeasPath(),
		Steps: data.StepsPath(),
	})
	if err != nil {
		return nil, err
	}

	a := p.cfg.Analysis
	if filters := filter.FromOptions(filter.Options{
		CourseCode: a.CourseCode,
		UserType:   a.UserType,
		MinIdeas:   a.MinIdeas,
		MinSteps:   a.MinSteps,
		StartDate:  a.StartDate,
		EndDate:    a.EndDate,
	}); len(filters) > 0 {
		before := len(ds.Users)
		ds = filter.Compose(ds, filters...)
		log.Info().
			Int("filters", len(filters)).
			Int("users_before", before).
			Int("users", len(ds.Users)).
			Int("ideas", len(ds.Ideas)).
			Int("steps", len(ds.Steps)).
			Msg("Applied filters")
	}

	if len(ds.Users) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, data.UsersPath())
	}

	in := &Inputs{Dataset: ds}
	selected := make(map[string]bool, len(components))
	for _, c := range components {
		selected[c] = true
	}

	if selected[ComponentIdea] {
		if path := data.CategorizedPath(); path == "" {
			log.Warn().Msg("No categorized ideas file configured; idea analysis will be skipped")
		} else if categorized, err := loader.LoadCategorized(path); err != nil {
			log.Error().Err(err).Str("path", path).Msg("Failed to load categorized ideas")
		} else {
			in.Categorized = categorized
		}
	}

	if selected[ComponentCourseEval] && a.CourseEvaluations {
		evals, err := loader.LoadEvaluations(data.CourseEvalPath())
		if err != nil {
			log.Error().Err(err).Str("dir", data.CourseEvalPath()).Msg("Failed to load course evaluations")
		} else {
			in.Evaluations = evals
		}
	}

	if selected[ComponentTeam] {
		in.Relationships = loader.LoadRelationships(data.RelationshipPath())
	}
	return in, nil
}

// Analyze runs the components concurrently and stores their results in run.
func (p *Pipeline) Analyze(ctx context.Context, in *Inputs, components []string, run *Run) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	if run.Performance.ComponentTimes == nil {
		run.Performance.ComponentTimes = make(map[string]float64)
	}

	var g errgroup.Group
	for _, name := range components {
		g.Go(func() error {
			cctx := logging.ContextWithComponent(ctx, name)
			start := time.Now()
			err := p.runComponent(cctx, name, in, &run.Results, &mu)
			elapsed := time.Since(start)

			if errors.Is(err, ErrSkipped) {
				logging.Ctx(cctx).Info().Msg("Component skipped: no input")
				return nil
			}
			metrics.RecordComponent(name, elapsed, err)

			mu.Lock()
			defer mu.Unlock()
			run.Performance.ComponentTimes[name] = elapsed.Seconds()
			if err != nil {
				if run.Performance.ComponentErrors == nil {
					run.Performance.ComponentErrors = make(map[string]string)
				}
				run.Performance.ComponentErrors[name] = err.Error()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				logging.Ctx(cctx).Error().Err(err).Dur("duration", elapsed).Msg("Component failed")
				return nil
			}
			logging.Ctx(cctx).Info().Dur("duration", elapsed).Msg("Component complete")
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// runComponent executes one analyzer. Results are assigned under mu since
// components share the results struct.
func (p *Pipeline) runComponent(ctx context.Context, name string, in *Inputs, out *models.AnalysisResults, mu *sync.Mutex) error {
	ds := in.Dataset
	a := p.cfg.Analysis

	switch name {
	case ComponentUser:
		res, err := users.NewAnalyzer(ds.Users, ds.Ideas, a.ReferenceTime(), a.ActiveDays).Analyze(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Users = res
		mu.Unlock()

	case ComponentActivity:
		res, err := activity.NewAnalyzer(ds.Users, ds.Ideas, ds.Steps).Analyze(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Activity = res
		mu.Unlock()

	case ComponentIdea:
		if in.Categorized == nil {
			return ErrSkipped
		}
		merged, merge := ideas.Merge(ctx, ds.Ideas, in.Categorized)
		res, err := ideas.NewAnalyzer(merged, merge).Analyze(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Ideas = res
		mu.Unlock()

	case ComponentCourseEval:
		if len(in.Evaluations) == 0 {
			return ErrSkipped
		}
		res, err := evaluation.NewAnalyzer(in.Evaluations).Analyze(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Evaluations = res
		mu.Unlock()

	case ComponentCohort:
		res, err := cohort.NewAnalyzer(ds, p.periods).Analyze(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Cohorts = res
		mu.Unlock()

	case ComponentTeam:
		if in.Relationships == nil || in.Relationships.Empty() {
			return ErrSkipped
		}
		res, err := teams.NewAnalyzer(ds, in.Relationships).Analyze(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Teams = res
		mu.Unlock()

	default:
		return fmt.Errorf("unknown component %q", name)
	}
	return nil
}

// MergedIdeas returns the dataset ideas with categorizer output applied,
// or the plain ideas when no categorized file was loaded.
func (in *Inputs) MergedIdeas(ctx context.Context) []models.Idea {
	if in.Categorized == nil {
		return in.Dataset.Ideas
	}
	merged, _ := ideas.Merge(ctx, in.Dataset.Ideas, in.Categorized)
	return merged
}
