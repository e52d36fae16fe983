// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package categorize

import (
	"unicode/utf8"

	"github.com/tomtom215/orbitstats/internal/loader"
	"github.com/tomtom215/orbitstats/internal/models"
)

// Batching modes.
const (
	ModeText = "text"
	ModeSize = "size"
)

// Input is the model-facing form of an idea.
type Input struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// Batch is one request worth of inputs.
type Batch struct {
	Number  int
	Round   int
	Inputs  []Input
	TextLen int
}

// Inputs converts normalized ideas to model inputs. Ideas with neither a
// title nor a description are skipped.
func Inputs(ideas []models.Idea) []Input {
	out := make([]Input, 0, len(ideas))
	for i := range ideas {
		if ideas[i].ID == "" {
			continue
		}
		title := ideas[i].Title
		if title == "" {
			var ok bool
			if title, _, ok = loader.IdeaText("", ideas[i].Description); !ok {
				continue
			}
		}
		out = append(out, Input{ID: ideas[i].ID, Title: title})
	}
	return out
}

// MakeBatches splits inputs by mode. A non-positive limit puts everything in
// one batch.
func MakeBatches(inputs []Input, mode string, limit int) []Batch {
	if mode == ModeSize {
		return bySize(inputs, limit)
	}
	return byText(inputs, limit)
}

// byText starts a new batch whenever the next title would push the summed
// title length, in characters, over limit. A title longer than limit gets a batch of its own.
func byText(inputs []Input, limit int) []Batch {
	var (
		batches []Batch
		current Batch
	)
	for _, in := range inputs {
		n := utf8.RuneCountInString(in.Title)
		if limit > 0 && len(current.Inputs) > 0 && current.TextLen+n > limit {
			batches = append(batches, current)
			current = Batch{}
		}
		current.Inputs = append(current.Inputs, in)
		current.TextLen += n
	}
	if len(current.Inputs) > 0 {
		batches = append(batches, current)
	}
	return number(batches)
}

func bySize(inputs []Input, size int) []Batch {
	if size <= 0 {
		size = len(inputs)
	}
	var batches []Batch
	for start := 0; start < len(inputs); start += size {
		end := min(start+size, len(inputs))
		b := Batch{Inputs: inputs[start:end:end]}
		for _, in := range b.Inputs {
			b.TextLen += utf8.RuneCountInString(in.Title)
		}
		batches = append(batches, b)
	}
	return number(batches)
}

func number(batches []Batch) []Batch {
	for i := range batches {
		batches[i].Number = i + 1
	}
	return batches
}
