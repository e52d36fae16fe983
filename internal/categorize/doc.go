// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

/*
Package categorize assigns a business category to every idea with a Gemini
model.

Ideas are reduced to {_id, title} inputs and split into batches, either by
the summed title length (text mode) or by a fixed count (size mode). Each
batch is sent as one prompt listing the allowed categories; the model answers
with a JSON array of {_id, category} objects.

Request handling:

  - Requests share a rate limiter (golang.org/x/time/rate) and a circuit
    breaker (sony/gobreaker), so a failing API stops being called for the
    breaker timeout.
  - Batches run in parallel up to the configured worker count.
  - A response that hit the output token limit, failed to parse, or left
    ideas unanswered sends those ideas to the next round. Each retry round
    halves the batch size, up to MaxRetries rounds.
  - Finished categorizations are written to a Store keyed by idea id. The
    badger store survives restarts, so an interrupted run resumes with only
    the missing ideas.

Categories outside the allowed list are kept as returned and counted in the
run metrics.

Output files follow the naming of the earlier scripts:

	categorized_ideas_{YYYYMMDD_HHMM}_{model}.json
	metrics/performance_metrics_{YYYYMMDD_HHMM}_{model}.json

With DryRun set, DryRunClient answers every batch with a deterministic
category derived from the idea id, which exercises the whole pipeline
without an API key.
*/
package categorize
