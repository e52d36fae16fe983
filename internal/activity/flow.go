// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package activity

import (
	"strings"

	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

const (
	maxSequenceLength = 5
	topFullPaths      = 10

	sequenceSep = " -> "
)

// Path keys looked up for the view-idea-step completion rate.
var (
	pathViewIdea     = strings.Join([]string{models.EventView, models.EventIdea}, sequenceSep)
	pathViewIdeaStep = strings.Join([]string{models.EventView, models.EventIdea, models.EventStep}, sequenceSep)
)

// SequenceResult is the sequence analysis of one session timeline.
type SequenceResult struct {
	// Frequencies counts the trailing window (2 to 5 events) ending at
	// every event.
	Frequencies map[string]int

	// Transitions holds, for each event type, the share of each following
	// event type.
	Transitions map[string]map[string]float64
}

// ExtractSequences analyzes one chronologically sorted timeline. Timelines
// shorter than two events produce empty results.
func ExtractSequences(timeline []models.SessionEvent) SequenceResult {
	res := SequenceResult{
		Frequencies: map[string]int{},
		Transitions: map[string]map[string]float64{},
	}
	if len(timeline) < 2 {
		return res
	}

	window := make([]string, 0, maxSequenceLength+1)
	for _, ev := range timeline {
		window = append(window, ev.Type)
		if len(window) > maxSequenceLength {
			window = window[1:]
		}
		if len(window) >= 2 {
			res.Frequencies[strings.Join(window, sequenceSep)]++
		}
	}

	counts := map[string]map[string]int{}
	for i := 0; i < len(timeline)-1; i++ {
		from, to := timeline[i].Type, timeline[i+1].Type
		if counts[from] == nil {
			counts[from] = map[string]int{}
		}
		counts[from][to]++
	}
	for from, next := range counts {
		total := 0
		for _, n := range next {
			total += n
		}
		res.Transitions[from] = make(map[string]float64, len(next))
		for to, n := range next {
			res.Transitions[from][to] = float64(n) / float64(total)
		}
	}
	return res
}

// ProcessFlow aggregates sequence patterns over sessions. Transition
// probabilities are averaged over all sessions, including those too short
// to contribute sequences.
func ProcessFlow(sessions []models.Session) models.ProcessFlow {
	flow := models.ProcessFlow{
		GlobalTransitionMatrix:      map[string]map[string]float64{},
		CommonSequences:             map[string]int{},
		MostFrequentStartingActions: map[string]int{},
		MostFrequentEndingActions:   map[string]int{},
		PathCompletionRates:         map[string]float64{},
		MostCommonFullPaths:         map[string]int{},
	}
	if len(sessions) == 0 {
		return flow
	}

	var totalLength, sequences int
	fullPaths := map[string]int{}
	for i := range sessions {
		events := sessions[i].Events
		if len(events) < 2 {
			continue
		}

		res := ExtractSequences(events)
		for seq, n := range res.Frequencies {
			flow.CommonSequences[seq] += n
		}
		for from, next := range res.Transitions {
			if flow.GlobalTransitionMatrix[from] == nil {
				flow.GlobalTransitionMatrix[from] = map[string]float64{}
			}
			for to, p := range next {
				flow.GlobalTransitionMatrix[from][to] += p
			}
		}

		flow.MostFrequentStartingActions[events[0].Type]++
		flow.MostFrequentEndingActions[events[len(events)-1].Type]++

		sequences++
		totalLength += len(events)
		if events[0].Type == models.EventView {
			fullPaths[joinTypes(events)]++
		}
	}

	n := float64(len(sessions))
	for _, next := range flow.GlobalTransitionMatrix {
		for to := range next {
			next[to] /= n
		}
	}

	if sequences > 0 {
		flow.AverageSequenceLength = float64(totalLength) / float64(sequences)
	}
	for _, kc := range stats.TopN(fullPaths, topFullPaths) {
		flow.MostCommonFullPaths[kc.Key] = kc.Count
	}

	if viewIdea := flow.CommonSequences[pathViewIdea]; viewIdea > 0 {
		if full, ok := flow.CommonSequences[pathViewIdeaStep]; ok {
			flow.PathCompletionRates["view_idea_to_step"] = stats.Percent(full, viewIdea)
		}
	}
	return flow
}

func joinTypes(events []models.SessionEvent) string {
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return strings.Join(types, sequenceSep)
}
