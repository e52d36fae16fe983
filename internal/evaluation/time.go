// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package evaluation

import (
	"context"
	"strings"

	"github.com/tomtom215/orbitstats/internal/logging"
	"github.com/tomtom215/orbitstats/internal/models"
	"github.com/tomtom215/orbitstats/internal/stats"
)

const (
	timeSpentSection  = "time spent"
	totalTimeQuestion = "Total time spent (in and outside classroom)"
)

// overallPhrases identify overall rating questions.
var overallPhrases = []string{
	"Overall, this subject was",
	"Overall rating",
	"Overall evaluation",
	"Overall satisfaction",
	"Overall quality",
}

// timeSpent reads the "Time Spent" section of each semester. Questions
// mentioning "outside" count as outside-classroom time; several questions
// of the same kind are averaged. Semesters without the section are left out.
func (a *Analyzer) timeSpent(ctx context.Context) models.TimeSpentAnalysis {
	out := models.TimeSpentAnalysis{
		BySemester:        map[string]models.SemesterTime{},
		ByToolVersion:     map[string][]float64{},
		Timeline:          []models.TimePoint{},
		TotalTimeTimeline: []models.TimePoint{},
		AvgByToolVersion:  map[string]models.VersionTime{},
		Changes:           []models.SemesterChange{},
	}

	var withTime []*semester
	var totals []float64
	for _, s := range a.semesters {
		var questions []models.TimeQuestion
		var classroom, outside []float64
		for _, q := range s.scored() {
			if !strings.EqualFold(strings.TrimSpace(q.section), timeSpentSection) {
				continue
			}
			isOutside := strings.Contains(strings.ToLower(q.question), "outside")
			questions = append(questions, models.TimeQuestion{
				Question:         q.question,
				Value:            q.value,
				Section:          q.section,
				OutsideClassroom: isOutside,
			})
			if isOutside {
				outside = append(outside, q.value)
			} else {
				classroom = append(classroom, q.value)
			}
			out.ByToolVersion[s.toolVersion] = append(out.ByToolVersion[s.toolVersion], q.value)
			out.Timeline = append(out.Timeline, timePoint(s, q.value, q.question, isOutside, false))
		}
		if len(questions) == 0 {
			continue
		}

		st := models.SemesterTime{
			DisplayName:   s.DisplayName,
			ToolVersion:   s.toolVersion,
			Term:          s.Term,
			Year:          s.Year,
			TimeQuestions: questions,
			ClassroomTime: stats.Mean(classroom),
			OutsideTime:   stats.Mean(outside),
		}
		st.TotalTime = st.ClassroomTime + st.OutsideTime
		out.BySemester[s.Code] = st

		total := timePoint(s, st.TotalTime, totalTimeQuestion, false, true)
		out.Timeline = append(out.Timeline, total)
		out.TotalTimeTimeline = append(out.TotalTimeTimeline, total)
		withTime = append(withTime, s)
		totals = append(totals, st.TotalTime)
	}

	byVersion := make(map[string][]float64)
	for i, s := range withTime {
		byVersion[s.toolVersion] = append(byVersion[s.toolVersion], totals[i])
		if i > 0 {
			out.Changes = append(out.Changes, semesterChange(withTime[i-1], s, totals[i-1], totals[i]))
		}
	}
	for version, values := range byVersion {
		out.AvgByToolVersion[version] = models.VersionTime{AvgTime: stats.Mean(values), NumDataPoints: len(values)}
	}
	if len(totals) >= 2 {
		trend := stats.Trend(totals)
		out.Trend = &trend
	}

	log := logging.Ctx(ctx)
	if len(out.Timeline) == 0 {
		log.Warn().Msg("No time spent data found in evaluations")
	} else {
		log.Debug().Int("points", len(out.Timeline)).Int("semesters", len(withTime)).Msg("Time spent analysis complete")
	}
	return out
}

func timePoint(s *semester, value float64, question string, outside, total bool) models.TimePoint {
	return models.TimePoint{
		SemesterCode:     s.Code,
		DisplayName:      s.DisplayName,
		ToolVersion:      s.toolVersion,
		Term:             s.Term,
		Year:             s.Year,
		TimeValue:        value,
		Question:         question,
		OutsideClassroom: outside,
		IsTotal:          total,
	}
}

// overallRating averages the overall rating questions per semester and
// pairs each rated semester with its total time spent.
func (a *Analyzer) overallRating(timeData models.TimeSpentAnalysis) models.OverallRatingAnalysis {
	out := models.OverallRatingAnalysis{
		BySemester:       make(map[string]models.SemesterRating, len(a.semesters)),
		ByToolVersion:    map[string][]float64{},
		Timeline:         []models.RatingPoint{},
		AvgByToolVersion: map[string]models.VersionRating{},
		Changes:          []models.SemesterChange{},
	}

	var rated []*semester
	var ratings []float64
	for _, s := range a.semesters {
		sr := models.SemesterRating{
			DisplayName:     s.DisplayName,
			ToolVersion:     s.toolVersion,
			Term:            s.Term,
			Year:            s.Year,
			RatingQuestions: []models.RatingQuestion{},
		}
		var scores []float64
		var texts []string
		for _, q := range s.scored() {
			if !containsAny(q.question, overallPhrases) {
				continue
			}
			sr.RatingQuestions = append(sr.RatingQuestions, models.RatingQuestion{
				Question: q.question,
				Value:    q.value,
				Section:  q.section,
			})
			scores = append(scores, q.value)
			texts = append(texts, q.question)
		}

		if avg, ok := stats.Average(scores, 1); ok {
			sr.AvgRating = &avg
			sr.NumQuestions = len(scores)
			out.ByToolVersion[s.toolVersion] = append(out.ByToolVersion[s.toolVersion], avg)
			out.Timeline = append(out.Timeline, models.RatingPoint{
				SemesterCode: s.Code,
				DisplayName:  s.DisplayName,
				ToolVersion:  s.toolVersion,
				Term:         s.Term,
				Year:         s.Year,
				AvgRating:    avg,
				Questions:    texts,
			})
			if n := len(rated); n > 0 {
				out.Changes = append(out.Changes, semesterChange(rated[n-1], s, ratings[n-1], avg))
			}
			rated = append(rated, s)
			ratings = append(ratings, avg)
		}
		out.BySemester[s.Code] = sr
	}

	avgs := make(map[string]float64, len(out.ByToolVersion))
	for version, values := range out.ByToolVersion {
		avgs[version] = stats.Mean(values)
		out.AvgByToolVersion[version] = models.VersionRating{AvgRating: avgs[version], NumSemesters: len(values)}
	}
	out.VersionChanges = versionChanges(avgs)

	if len(ratings) >= 2 {
		trend := stats.Trend(ratings)
		out.Trend = &trend
	}

	out.CorrelationWithTime = models.TimeRatingCorrelation{PairedData: []models.TimeRatingPair{}}
	var x, y []float64
	for i, s := range rated {
		st, ok := timeData.BySemester[s.Code]
		if !ok {
			continue
		}
		out.CorrelationWithTime.PairedData = append(out.CorrelationWithTime.PairedData, models.TimeRatingPair{
			Semester:    s.DisplayName,
			TimeSpent:   st.TotalTime,
			Rating:      ratings[i],
			ToolVersion: s.toolVersion,
		})
		x = append(x, st.TotalTime)
		y = append(y, ratings[i])
	}
	if len(x) > 0 {
		c := stats.Correlation(x, y)
		out.CorrelationWithTime.Correlation = &c
	}
	return out
}
