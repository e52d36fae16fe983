// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Component names.
const (
	ComponentUser       = "user"
	ComponentActivity   = "activity"
	ComponentIdea       = "idea"
	ComponentCourseEval = "course_eval"
	ComponentCohort     = "cohort"
	ComponentTeam       = "team"
)

// ErrUnknownComponent is returned for a component name that is neither a
// component nor an alias.
var ErrUnknownComponent = errors.New("unknown component")

// Components lists every component in run order.
var Components = []string{
	ComponentUser,
	ComponentActivity,
	ComponentIdea,
	ComponentCourseEval,
	ComponentCohort,
	ComponentTeam,
}

// aliases maps selective-run names onto components.
var aliases = map[string]string{
	"demographics":       ComponentUser,
	"users":              ComponentUser,
	"usage":              ComponentActivity,
	"engagement":         ComponentActivity,
	"categorization":     ComponentIdea,
	"ideas":              ComponentIdea,
	"course_evaluations": ComponentCourseEval,
	"evaluations":        ComponentCourseEval,
	"cohorts":            ComponentCohort,
	"teams":              ComponentTeam,
}

// ResolveComponents turns requested names and aliases into a de-duplicated
// component list in run order. An empty request selects every component.
func ResolveComponents(names []string) ([]string, error) {
	if len(names) == 0 {
		return append([]string(nil), Components...), nil
	}

	selected := make(map[string]bool, len(names))
	var unknown []string
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if target, ok := aliases[name]; ok {
			name = target
		}
		if !isComponent(name) {
			unknown = append(unknown, raw)
			continue
		}
		selected[name] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s (valid: %s)",
			ErrUnknownComponent, strings.Join(unknown, ", "), strings.Join(Components, ", "))
	}

	out := make([]string, 0, len(selected))
	for _, c := range Components {
		if selected[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

func isComponent(name string) bool {
	for _, c := range Components {
		if c == name {
			return true
		}
	}
	return false
}
