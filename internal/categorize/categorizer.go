// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"context"
	"errors"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomtom215/orbitstats/internal/config"
	"github.com/tomtom215/orbitstats/internal/ideas"
	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/models"
)

// Batch outcomes, also used as the status label of LLM request metrics.
const (
	StatusSuccess     = "success"
	StatusPartial     = "partial"
	StatusRetry       = "retry"
	StatusError       = "error"
	StatusCircuitOpen = "circuit_open"
)

// Options controls a categorization run.
type Options struct {
	Model             string
	Mode              string
	BatchSize         int
	MaxWorkers        int
	MaxRetries        int
	RequestsPerMinute int
	RequestTimeout    time.Duration
	DryRun            bool
	Categories        []string
	Breaker           BreakerConfig
}

// OptionsFromConfig maps the categorize config section to Options using
// the built-in category list.
func OptionsFromConfig(cfg config.CategorizeConfig) Options {
	return Options{
		Model:             cfg.Model,
		Mode:              cfg.BatchMode,
		BatchSize:         cfg.BatchSize,
		MaxWorkers:        cfg.MaxWorkers,
		MaxRetries:        cfg.MaxRetries,
		RequestsPerMinute: cfg.RequestsPerMinute,
		RequestTimeout:    cfg.RequestTimeout,
		DryRun:            cfg.DryRun,
		Categories:        ideas.Categories,
		Breaker: BreakerConfig{
			Name:             breakerName,
			Timeout:          cfg.BreakerTimeout,
			FailureThreshold: cfg.BreakerFailureThreshold,
		},
	}
}

// Categorizer runs batches against a Client.
type Categorizer struct {
	opts    Options
	client  Client
	store   Store
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*Response]
}

// New creates a Categorizer. A nil store keeps results in memory.
func New(opts Options, client Client, store Store) *Categorizer {
	if store == nil {
		store = NewMemoryStore()
	}
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
	if opts.Breaker.FailureThreshold == 0 {
		opts.Breaker.FailureThreshold = 5
	}
	if len(opts.Categories) == 0 {
		opts.Categories = ideas.Categories
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(opts.RequestsPerMinute) / 60)
	}
	return &Categorizer{
		opts:    opts,
		client:  client,
		store:   store,
		limiter: rate.NewLimiter(limit, max(1, opts.MaxWorkers)),
		breaker: NewBreaker(opts.Breaker),
	}
}

// Result is the outcome of a run, in input order.
type Result struct {
	Ideas      []models.CategorizedIdea
	Unresolved []string
	Metrics    RunMetrics
}

// Run categorizes inputs. Ideas already in the store are not sent again.
// Only context cancellation and store read failures abort the run; failed
// batches end up in Result.Unresolved after the last retry round.
func (c *Categorizer) Run(ctx context.Context, inputs []Input) (*Result, error) {
	start := time.Now()
	log := logging.Ctx(ctx)
	rm := newRunMetrics(c.opts, len(inputs))

	ids := make([]string, len(inputs))
	for i, in := range inputs {
		ids[i] = in.ID
	}
	found, err := c.store.Load(ctx, ids)
	if err != nil {
		return nil, err
	}

	var pending []Input
	for _, in := range inputs {
		if _, ok := found[in.ID]; !ok {
			pending = append(pending, in)
		}
	}
	rm.Results.CachedIdeas = len(inputs) - len(pending)
	if rm.Results.CachedIdeas > 0 {
		metrics.IdeasCategorized.WithLabelValues("cache").Add(float64(rm.Results.CachedIdeas))
		log.Info().Int("cached", rm.Results.CachedIdeas).Msg("Resuming from stored categorizations")
	}

	size := c.opts.BatchSize
	for round := 0; len(pending) > 0 && round <= c.opts.MaxRetries; round++ {
		phase := "processing"
		if round > 0 {
			phase = "retries"
			size = max(1, size/2)
			log.Info().
				Int("round", round).
				Int("ideas", len(pending)).
				Int("batch_size", size).
				Msg("Retrying ideas with reduced batch size")
			if err := c.awaitBreaker(ctx); err != nil {
				return nil, err
			}
		}

		roundStart := time.Now()
		batches := MakeBatches(pending, c.opts.Mode, size)
		log.Info().Int("round", round).Int("batches", len(batches)).Msg("Created batches")

		pending, err = c.runRound(ctx, round, batches, found, &rm)
		if err != nil {
			return nil, err
		}
		rm.addPhase(phase, time.Since(roundStart))
		rm.Results.Rounds = round + 1
	}

	result := &Result{Ideas: make([]models.CategorizedIdea, 0, len(inputs))}
	for _, in := range inputs {
		if category, ok := found[in.ID]; ok {
			result.Ideas = append(result.Ideas, models.CategorizedIdea{ID: in.ID, Category: category})
			if !ideas.IsKnown(category) {
				rm.Results.UnknownCategories[category]++
			}
		}
	}
	for _, in := range pending {
		result.Unresolved = append(result.Unresolved, in.ID)
	}
	if len(rm.Results.UnknownCategories) > 0 {
		log.Warn().Int("categories", len(rm.Results.UnknownCategories)).Msg("Model returned categories outside the list")
	}
	if len(result.Unresolved) > 0 {
		log.Warn().Int("ideas", len(result.Unresolved)).Msg("Ideas left uncategorized after all retry rounds")
	}

	rm.Results.ProcessedIdeas = len(result.Ideas)
	rm.Results.UnresolvedIdeas = len(result.Unresolved)
	rm.Finish(time.Since(start))
	result.Metrics = rm

	log.Info().
		Int("processed", len(result.Ideas)).
		Int("total", len(inputs)).
		Int64("tokens", rm.API.TotalTokens).
		Str("runtime", rm.Runtime.Formatted).
		Msg("Categorization complete")
	return result, nil
}

// runRound processes batches in parallel and returns the inputs to retry.
func (c *Categorizer) runRound(ctx context.Context, round int, batches []Batch, found map[string]string, rm *RunMetrics) ([]Input, error) {
	var (
		mu    sync.Mutex
		retry []Input
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.MaxWorkers)

	for _, b := range batches {
		b.Round = round
		g.Go(func() error {
			got, missing, bm := c.process(gctx, b)
			if len(got) > 0 {
				if err := c.store.Save(gctx, got); err != nil {
					logging.Ctx(gctx).Warn().Err(err).Int("batch", b.Number).Msg("Failed to store batch results")
				}
			}

			mu.Lock()
			defer mu.Unlock()
			for id, category := range got {
				found[id] = category
			}
			retry = append(retry, missing...)
			rm.addBatch(bm)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return retry, ctx.Err()
}

// process sends one batch. It returns the categories that matched batch
// ids and the inputs that still need an answer.
func (c *Categorizer) process(ctx context.Context, b Batch) (map[string]string, []Input, BatchMetrics) {
	start := time.Now()
	log := logging.Ctx(ctx).With().Int("batch", b.Number).Int("round", b.Round).Logger()
	bm := BatchMetrics{Number: b.Number, Round: b.Round, Ideas: len(b.Inputs), TextLen: b.TextLen}

	fail := func(status string, err error) (map[string]string, []Input, BatchMetrics) {
		bm.Status = status
		bm.Error = err.Error()
		bm.Seconds = time.Since(start).Seconds()
		metrics.RecordLLMBatch(status, time.Since(start), bm.InputTokens, bm.OutputTokens)
		log.Warn().Err(err).Str("status", status).Msg("Batch flagged for retry")
		return nil, b.Inputs, bm
	}

	prompt, err := Prompt(c.opts.Categories, b.Inputs)
	if err != nil {
		return fail(StatusError, err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fail(StatusError, err)
	}

	reqCtx := ctx
	if c.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.opts.RequestTimeout)
		defer cancel()
	}
	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.client.Generate(reqCtx, prompt, b)
	})
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fail(StatusCircuitOpen, err)
		}
		return fail(StatusError, err)
	}
	bm.InputTokens, bm.OutputTokens = resp.InputTokens, resp.OutputTokens
	if resp.Truncated {
		return fail(StatusRetry, ErrTruncated)
	}

	parsed, err := ParseResponse(resp.Text)
	if err != nil {
		return fail(StatusRetry, err)
	}

	wanted := make(map[string]struct{}, len(b.Inputs))
	for _, in := range b.Inputs {
		wanted[in.ID] = struct{}{}
	}
	got := make(map[string]string, len(parsed))
	for _, p := range parsed {
		if _, ok := wanted[p.ID]; ok && p.Category != "" {
			got[p.ID] = p.Category
		}
	}
	var missing []Input
	for _, in := range b.Inputs {
		if _, ok := got[in.ID]; !ok {
			missing = append(missing, in)
		}
	}

	bm.Status = StatusSuccess
	if len(missing) > 0 {
		bm.Status = StatusPartial
	}
	bm.Categorized = len(got)
	bm.Seconds = time.Since(start).Seconds()
	metrics.RecordLLMBatch(bm.Status, time.Since(start), bm.InputTokens, bm.OutputTokens)
	metrics.IdeasCategorized.WithLabelValues("model").Add(float64(len(got)))

	log.Info().
		Int("ideas", len(b.Inputs)).
		Int("categorized", len(got)).
		Int32("output_tokens", resp.OutputTokens).
		Dur("elapsed", time.Since(start)).
		Msg("Batch completed")
	return got, missing, bm
}

// awaitBreaker waits out an open breaker so a retry round does not fail
// immediately.
func (c *Categorizer) awaitBreaker(ctx context.Context) error {
	if c.breaker.State() != gobreaker.StateOpen || c.opts.Breaker.Timeout <= 0 {
		return nil
	}
	logging.Ctx(ctx).Info().Dur("wait", c.opts.Breaker.Timeout).Msg("Circuit open, waiting before retry round")
	t := time.NewTimer(c.opts.Breaker.Timeout)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
