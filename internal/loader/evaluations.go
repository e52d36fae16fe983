// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/metrics"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/validation"
)

type rawEvaluation struct {
	CourseID    *Text         `json:"course_id"`
	Semester    *rawSemester  `json:"semester"`
	ToolVersion *Text         `json:"tool_version"`
	Metrics     *[]rawSection `json:"evaluation_metrics"`
}

type rawSemester struct {
	Term  Text    `json:"term"`
	Year  Number  `json:"year"`
	Order *Number `json:"order"`
}

type rawSection struct {
	Section   Text          `json:"section"`
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Question  Text    `json:"question"`
	Avg       *Number `json:"avg"`
	Median    *Number `json:"median"`
	StdDev    *Number `json:"std_dev"`
	Responses *Number `json:"responses"`
}

// LoadEvaluations reads every *.json file in dir. Each file holds an array of
// evaluations; unreadable files and invalid records are logged and skipped.
// A missing directory yields no evaluations and no error.
func LoadEvaluations(dir string) ([]models.CourseEvaluation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Warn().Str("dir", dir).Msg("Course evaluation directory not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read course evaluation directory: %w", err)
	}

	var (
		evals   []models.CourseEvaluation
		skipped int
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		items, err := readArray(path)
		if err != nil {
			logging.Error().Err(err).Str("file", entry.Name()).Msg("Error loading evaluation file")
			continue
		}
		parsed := ParseEvaluations(items, entry.Name())
		skipped += len(items) - len(parsed)
		evals = append(evals, parsed...)
		logging.Debug().Str("file", entry.Name()).Int("evaluations", len(parsed)).Msg("Loaded evaluation data")
	}

	metrics.RecordLoad("course_evaluations", len(evals), skipped)
	logging.Info().Str("dir", dir).Int("evaluations", len(evals)).Msg("Loaded course evaluations")
	return evals, nil
}

// ParseEvaluations normalizes raw evaluation records from one file.
func ParseEvaluations(items []json.RawMessage, source string) []models.CourseEvaluation {
	evals := make([]models.CourseEvaluation, 0, len(items))
	for i, item := range items {
		var raw rawEvaluation
		if err := json.Unmarshal(item, &raw); err != nil {
			logging.Warn().Err(err).Str("file", source).Int("index", i).Msg("Skipping malformed evaluation")
			continue
		}

		switch {
		case raw.CourseID == nil:
			logging.Warn().Str("file", source).Msg("Evaluation missing required field: course_id")
			continue
		case raw.Semester == nil:
			logging.Warn().Str("file", source).Msg("Evaluation missing required field: semester")
			continue
		case raw.Metrics == nil:
			logging.Warn().Str("file", source).Msg("Evaluation missing required field: evaluation_metrics")
			continue
		}

		eval := raw.normalize()
		if verr := validation.ValidateStruct(&eval); verr != nil {
			logging.Warn().Err(verr).Str("file", source).Str("course_id", eval.CourseID).Msg("Validation failed for evaluation")
			continue
		}
		evals = append(evals, eval)
	}
	return evals
}

func (r *rawEvaluation) normalize() models.CourseEvaluation {
	term := strings.ToLower(strings.TrimSpace(string(r.Semester.Term)))
	year := int(r.Semester.Year)

	order := 2
	if r.Semester.Order != nil {
		order = int(*r.Semester.Order)
	} else if term == "spring" {
		order = 1
	}

	toolVersion := models.ToolVersionNone
	if r.ToolVersion != nil && *r.ToolVersion != "" {
		toolVersion = string(*r.ToolVersion)
	}

	sections := make([]models.EvaluationSection, 0, len(*r.Metrics))
	for _, s := range *r.Metrics {
		section := models.EvaluationSection{
			Section:   string(s.Section),
			Questions: make([]models.EvaluationQuestion, 0, len(s.Questions)),
		}
		for _, q := range s.Questions {
			section.Questions = append(section.Questions, models.EvaluationQuestion{
				Question:  string(q.Question),
				Avg:       floatPtr(q.Avg),
				Median:    floatPtr(q.Median),
				StdDev:    floatPtr(q.StdDev),
				Responses: intPtr(q.Responses),
			})
		}
		sections = append(sections, section)
	}

	return models.CourseEvaluation{
		CourseID: string(*r.CourseID),
		Semester: models.Semester{
			Term:        term,
			Year:        year,
			Code:        fmt.Sprintf("%d_%s", year, term),
			DisplayName: fmt.Sprintf("%s %d", capitalize(term), year),
			Order:       order,
		},
		ToolVersion: toolVersion,
		Sections:    sections,
		Overall:     OverallMetrics(sections),
	}
}

// OverallMetrics averages question scores per section and across the whole
// evaluation. Questions without a score are counted but not averaged.
func OverallMetrics(sections []models.EvaluationSection) models.OverallMetrics {
	out := models.OverallMetrics{SectionAverages: make(map[string]float64)}

	var sum float64
	for _, s := range sections {
		var sectionSum float64
		var sectionN int
		for _, q := range s.Questions {
			out.TotalQuestions++
			if q.Avg == nil {
				continue
			}
			sectionSum += *q.Avg
			sectionN++
		}
		if sectionN > 0 {
			out.SectionAverages[s.Section] = sectionSum / float64(sectionN)
		}
		sum += sectionSum
		out.ValidScores += sectionN
	}

	if out.ValidScores > 0 {
		avg := sum / float64(out.ValidScores)
		out.OverallAvg = &avg
	}
	return out
}

func floatPtr(n *Number) *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

func intPtr(n *Number) *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
