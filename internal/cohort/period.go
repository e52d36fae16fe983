// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package cohort

import (
	"fmt"
	"time"

	"github.com/tomtom215/orbitstats/internal/dates"
	"github.com/tomtom215/orbitstats/internal/models"
)

// ToolVersionNone marks semesters taught without the tool.
const ToolVersionNone = models.ToolVersionNone

// Period is a semester window. End is the last nanosecond of the final day.
type Period struct {
	Name        string
	Start       time.Time
	End         time.Time
	ToolVersion string
	Sections    int
}

// NewPeriod builds a period from "YYYY-MM-DD" bounds, both inclusive.
// An empty tool version becomes ToolVersionNone.
func NewPeriod(name, start, end, toolVersion string, sections int) (Period, error) {
	s, err := dates.ParseDay(start)
	if err != nil {
		return Period{}, fmt.Errorf("cohort %s: invalid start %q: %w", name, start, err)
	}
	e, err := dates.ParseDay(end)
	if err != nil {
		return Period{}, fmt.Errorf("cohort %s: invalid end %q: %w", name, end, err)
	}
	if e.Before(s) {
		return Period{}, fmt.Errorf("cohort %s: end %s before start %s", name, end, start)
	}
	if toolVersion == "" {
		toolVersion = ToolVersionNone
	}
	return Period{
		Name:        name,
		Start:       s,
		End:         dates.EndOfDay(e),
		ToolVersion: toolVersion,
		Sections:    sections,
	}, nil
}

// Contains reports whether t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Months returns the "YYYY-MM" keys from the start month through the end
// month.
func (p Period) Months() []string {
	var out []string
	cur := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(p.End) {
		out = append(out, dates.MonthKey(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// DefaultPeriods returns the semesters of the study: a control semester
// without the tool followed by the v1 and v2 semesters.
func DefaultPeriods() []Period {
	return []Period{
		mustPeriod("fall_2023", "2023-09-01", "2023-12-31", ToolVersionNone, 2),
		mustPeriod("spring_2024", "2024-01-01", "2024-05-31", "v1", 2),
		mustPeriod("fall_2024", "2024-09-01", "2024-12-31", "v2", 1),
	}
}

func mustPeriod(name, start, end, toolVersion string, sections int) Period {
	p, err := NewPeriod(name, start, end, toolVersion, sections)
	if err != nil {
		panic(err)
	}
	return p
}

// PeriodOf returns the name of the first period containing t.
func PeriodOf(periods []Period, t time.Time) (string, bool) {
	for _, p := range periods {
		if p.Contains(t) {
			return p.Name, true
		}
	}
	return "", false
}
